package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aaronzipp/spyfall-bot/internal/models"
)

const (
	// PublicFile is the public tier document inside a catalog directory
	PublicFile = "locations.json"
	// SecretFile is the secret tier document inside a catalog directory
	SecretFile = "secret_locations.json"
)

// FileStore keeps each tier in a JSON document mapping location name to roles.
// Key order in the document is the catalog order
type FileStore struct {
	Dir string
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Load reads both documents. The secret document is optional
func (s *FileStore) Load(ctx context.Context) (public, secret []models.Location, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	public, err = s.readDocument(PublicFile, models.TierPublic)
	if err != nil {
		return nil, nil, err
	}
	secret, err = s.readDocument(SecretFile, models.TierSecret)
	if errors.Is(err, fs.ErrNotExist) {
		return public, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return public, secret, nil
}

// Save atomically replaces the document for tier
func (s *FileStore) Save(ctx context.Context, tier models.Tier, locations []models.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeDocument(locations)
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.Dir, fileFor(tier)), data)
}

func (s *FileStore) readDocument(name string, tier models.Tier) ([]models.Location, error) {
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	locs, err := decodeDocument(f, tier)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return locs, nil
}

func fileFor(tier models.Tier) string {
	if tier == models.TierSecret {
		return SecretFile
	}
	return PublicFile
}

// decodeDocument walks the object token by token so key order survives
func decodeDocument(r io.Reader, tier models.Tier) ([]models.Location, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var locs []models.Location
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected location name, got %v", tok)
		}
		var roles []string
		if err := dec.Decode(&roles); err != nil {
			return nil, fmt.Errorf("location %q: %w", name, err)
		}
		if len(roles) == 0 {
			return nil, fmt.Errorf("location %q has no roles", name)
		}
		locs = append(locs, models.Location{Name: name, Roles: roles, Tier: tier})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return locs, nil
}

func encodeDocument(locations []models.Location) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("{")
	for i, loc := range locations {
		if i > 0 {
			b.WriteString(",")
		}
		name, err := json.Marshal(loc.Name)
		if err != nil {
			return nil, err
		}
		roles, err := json.Marshal(loc.Roles)
		if err != nil {
			return nil, err
		}
		b.WriteString("\n  ")
		b.Write(name)
		b.WriteString(": ")
		b.Write(roles)
	}
	if len(locations) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.Bytes(), nil
}

// writeFileAtomic writes to a temp file in the target directory and renames it over path
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
