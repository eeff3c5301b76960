// Package projection builds per-viewer read models from the message log.
// Handles grouping, ordering, and deduplication.
// Does not perform I/O: callers feed it what the store returned.
package projection

import (
	"dm-lab/domain"
	"slices"
)

// Conversations derives the conversation list of viewer from every message
// viewer sent or received. One entry is emitted per counterpart, carrying the
// latest message by (createdAt, id). Entries are ordered newest first, ties
// broken by the higher message id so repeated calls give the same order.
//
// Counterparts are returned with their id only, profile resolution is left
// to the caller so it happens once per counterpart.
// Messages that do not involve viewer are ignored.
func Conversations(viewer string, messages []domain.Message) []domain.Conversation {
	latest := make(map[string]domain.Message)
	for _, msg := range messages {
		counterpart, ok := msg.Counterpart(viewer)
		if !ok || counterpart == viewer {
			continue
		}
		if current, seen := latest[counterpart]; !seen || current.Before(msg) {
			latest[counterpart] = msg
		}
	}

	conversations := make([]domain.Conversation, 0, len(latest))
	for counterpart, msg := range latest {
		conversations = append(conversations, domain.Conversation{
			Counterpart:   domain.UserRef{ID: counterpart},
			LastMessage:   msg.Content,
			LastMessageID: msg.ID,
			Timestamp:     msg.CreatedAt,
		})
	}
	slices.SortFunc(conversations, newestFirst)
	return conversations
}

func newestFirst(a, b domain.Conversation) int {
	if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
		return c
	}
	switch {
	case a.LastMessageID > b.LastMessageID:
		return -1
	case a.LastMessageID < b.LastMessageID:
		return 1
	}
	// Same representative message id: only possible with a broken store.
	// Fall back on the counterpart so the order stays deterministic.
	switch {
	case a.Counterpart.ID < b.Counterpart.ID:
		return -1
	case a.Counterpart.ID > b.Counterpart.ID:
		return 1
	}
	return 0
}
