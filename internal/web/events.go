package web

// Message types sent to browser clients
const (
	TypeGreeting = "greeting"
	TypeReply    = "reply"
	TypePrivate  = "private"
	TypeLeave    = "leave"
)

// Message is one JSON frame from the server
type Message struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Inbound is one JSON frame from a client
type Inbound struct {
	Text string `json:"text"`
}
