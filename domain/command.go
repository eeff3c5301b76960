package domain

// SendMessageCommand carries a send intent from the boundary to the dispatcher.
// SenderID always comes from the authenticated caller, never from the payload.
type SendMessageCommand struct {
	SenderID    string
	RecipientID string
	Content     string
}

// TranscriptQuery asks for the messages exchanged between Viewer and Counterpart.
// A Limit of zero returns the whole transcript.
type TranscriptQuery struct {
	Viewer      string
	Counterpart string
	Limit       int
}
