package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessage_Counterpart(t *testing.T) {
	req := require.New(t)
	msg := Message{ID: 1, Sender: UserRef{ID: "alice"}, Recipient: UserRef{ID: "bob"}}

	counterpart, ok := msg.Counterpart("alice")
	req.True(ok)
	req.Equal("bob", counterpart)

	counterpart, ok = msg.Counterpart("bob")
	req.True(ok)
	req.Equal("alice", counterpart)

	_, ok = msg.Counterpart("clara")
	req.False(ok)
	req.False(msg.Involves("clara"))
}

func TestMessage_Before_BreaksTiesById(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	first := Message{ID: 1, CreatedAt: at}
	second := Message{ID: 2, CreatedAt: at}
	later := Message{ID: 0, CreatedAt: at.Add(time.Nanosecond)}

	req.True(first.Before(second))
	req.False(second.Before(first))
	req.True(second.Before(later))
	req.False(first.Before(first))
}

func TestNewPairKey_IsUnordered(t *testing.T) {
	req := require.New(t)
	ab := Message{Sender: UserRef{ID: "a"}, Recipient: UserRef{ID: "b"}}
	ba := Message{Sender: UserRef{ID: "b"}, Recipient: UserRef{ID: "a"}}

	req.Equal(ab.Key(), ba.Key())
	req.Equal(PairKey{Low: "a", High: "b"}, NewPairKey("b", "a"))
}
