package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Rand is the randomness the game needs; *math/rand/v2.Rand satisfies it
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRand creates a PCG generator seeded from crypto/rand
func NewRand() *rand.Rand {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// fallback to the clock if crypto fails
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, now>>1))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:])))
}

// lockedRand lets sessions in different chats share one generator
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// Locked wraps r for concurrent use
func Locked(r *rand.Rand) Rand {
	return &lockedRand{r: r}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// NewGameID returns an id used to correlate log lines of one game
func NewGameID() string {
	return uuid.NewString()
}
