package domain

import "time"

// Conversation is a per-viewer summary of the latest message exchanged with
// one counterpart. It is derived from the message log on every read and
// never stored.
type Conversation struct {
	Counterpart   UserRef
	LastMessage   string
	LastMessageID MessageID
	Timestamp     time.Time
}
