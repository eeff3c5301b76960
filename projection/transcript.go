package projection

import (
	"dm-lab/domain"
	"slices"
)

// Transcript returns messages in the order a chat view renders them top to
// bottom: ascending (createdAt, id). The input is left untouched.
// A positive limit keeps only the most recent messages, still ascending.
func Transcript(messages []domain.Message, limit int) []domain.Message {
	ordered := slices.Clone(messages)
	if ordered == nil {
		ordered = make([]domain.Message, 0)
	}
	slices.SortStableFunc(ordered, func(a, b domain.Message) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}
	return ordered
}
