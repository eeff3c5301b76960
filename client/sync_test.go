package client

import (
	"context"
	"dm-lab/domain"
	"dm-lab/mocks"
	stderrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func message(id domain.MessageID, from, to, content string) domain.Message {
	return domain.Message{
		ID:        id,
		Sender:    domain.UserRef{ID: from},
		Recipient: domain.UserRef{ID: to},
		Content:   content,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, int(id), 0, time.UTC),
	}
}

func conversation(counterpart, last string, id domain.MessageID) domain.Conversation {
	return domain.Conversation{Counterpart: domain.UserRef{ID: counterpart}, LastMessage: last, LastMessageID: id}
}

func newController(t *testing.T) (*SyncController, *mocks.MockMessagingAPI) {
	api := mocks.NewMockMessagingAPI(gomock.NewController(t))
	return NewSyncController(logs.GetLoggerFromLevel(slog.LevelDebug), api, 50), api
}

func TestSyncController_RefreshConversations(t *testing.T) {
	t.Run("should replace the local list", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		first := []domain.Conversation{conversation("bob", "hi", 1)}
		second := []domain.Conversation{conversation("clara", "yo", 2), conversation("bob", "hi", 1)}
		gomock.InOrder(
			api.EXPECT().Conversations(gomock.Any()).Return(first, nil),
			api.EXPECT().Conversations(gomock.Any()).Return(second, nil),
		)

		req.NoError(controller.RefreshConversations(context.Background()))
		req.Equal(first, controller.Conversations())
		req.NoError(controller.RefreshConversations(context.Background()))
		req.Equal(second, controller.Conversations())
	})

	t.Run("should keep the previous snapshot on failure", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		first := []domain.Conversation{conversation("bob", "hi", 1)}
		gomock.InOrder(
			api.EXPECT().Conversations(gomock.Any()).Return(first, nil),
			api.EXPECT().Conversations(gomock.Any()).Return(nil, stderrors.New("store unavailable")),
		)

		req.NoError(controller.RefreshConversations(context.Background()))
		req.Error(controller.RefreshConversations(context.Background()))
		req.Equal(first, controller.Conversations())
	})

	t.Run("should not apply a result once cancelled", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		ctx, cancel := context.WithCancel(context.Background())
		api.EXPECT().Conversations(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Conversation, error) {
			cancel()
			return []domain.Conversation{conversation("bob", "hi", 1)}, nil
		})

		req.ErrorIs(controller.RefreshConversations(ctx), context.Canceled)
		req.Empty(controller.Conversations())
	})

	t.Run("should drop a pull overtaken by a newer one", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		stale := []domain.Conversation{conversation("bob", "old", 1)}
		fresh := []domain.Conversation{conversation("bob", "new", 2)}

		release := make(chan struct{})
		started := make(chan struct{})
		gomock.InOrder(
			api.EXPECT().Conversations(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Conversation, error) {
				close(started)
				<-release
				return stale, nil
			}),
			api.EXPECT().Conversations(gomock.Any()).Return(fresh, nil),
		)

		done := make(chan error)
		go func() { done <- controller.RefreshConversations(context.Background()) }()
		<-started
		req.NoError(controller.RefreshConversations(context.Background()))
		close(release)
		req.NoError(<-done)

		req.Equal(fresh, controller.Conversations())
	})

	t.Run("should hand out copies", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		api.EXPECT().Conversations(gomock.Any()).Return([]domain.Conversation{conversation("bob", "hi", 1)}, nil)
		req.NoError(controller.RefreshConversations(context.Background()))

		list := controller.Conversations()
		list[0].LastMessage = "changed"
		req.Equal("hi", controller.Conversations()[0].LastMessage)
	})
}

func TestSyncController_OpenConversation(t *testing.T) {
	t.Run("should replace the active transcript", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		withBob := []domain.Message{message(1, "alice", "bob", "hi")}
		withClara := []domain.Message{message(2, "clara", "alice", "yo")}
		api.EXPECT().Transcript(gomock.Any(), "bob", 50).Return(withBob, nil)
		api.EXPECT().Transcript(gomock.Any(), "clara", 50).Return(withClara, nil)

		_, ok := controller.Active()
		req.False(ok)

		req.NoError(controller.OpenConversation(context.Background(), "bob"))
		active, ok := controller.Active()
		req.True(ok)
		req.Equal("bob", active.Counterpart)
		req.Equal(withBob, active.Messages)

		req.NoError(controller.OpenConversation(context.Background(), "clara"))
		active, _ = controller.Active()
		req.Equal("clara", active.Counterpart)
		req.Equal(withClara, active.Messages)
		req.True(active.Loaded)
	})

	t.Run("should discard a transcript for a conversation no longer active", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		release := make(chan struct{})
		started := make(chan struct{})
		api.EXPECT().Transcript(gomock.Any(), "bob", 50).DoAndReturn(func(context.Context, string, int) ([]domain.Message, error) {
			close(started)
			<-release
			return []domain.Message{message(1, "alice", "bob", "hi")}, nil
		})
		api.EXPECT().Transcript(gomock.Any(), "clara", 50).Return([]domain.Message{}, nil)

		done := make(chan error)
		go func() { done <- controller.OpenConversation(context.Background(), "bob") }()
		<-started
		req.NoError(controller.OpenConversation(context.Background(), "clara"))
		close(release)
		req.NoError(<-done)

		active, ok := controller.Active()
		req.True(ok)
		req.Equal("clara", active.Counterpart)
		req.Empty(active.Messages)
	})

	t.Run("should close the active conversation", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		api.EXPECT().Transcript(gomock.Any(), "bob", 50).Return([]domain.Message{}, nil)
		req.NoError(controller.OpenConversation(context.Background(), "bob"))

		controller.CloseConversation()
		_, ok := controller.Active()
		req.False(ok)
		req.NoError(controller.RefreshActive(context.Background()))
	})
}

func TestSyncController_Send(t *testing.T) {
	t.Run("should append to the matching active transcript and refresh", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		first := message(1, "alice", "bob", "hi")
		sent := message(2, "alice", "bob", "again")
		api.EXPECT().Transcript(gomock.Any(), "bob", 50).Return([]domain.Message{first}, nil)
		api.EXPECT().Send(gomock.Any(), "bob", "again").Return(sent, nil)
		api.EXPECT().Conversations(gomock.Any()).Return([]domain.Conversation{conversation("bob", "again", 2)}, nil)

		req.NoError(controller.OpenConversation(context.Background(), "bob"))
		got, err := controller.Send(context.Background(), "bob", "again")
		req.NoError(err)
		req.Equal(sent, got)

		active, _ := controller.Active()
		req.Equal([]domain.Message{first, sent}, active.Messages)
		req.Equal("again", controller.Conversations()[0].LastMessage)
	})

	t.Run("should keep the pulled history when sending during the pull", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		history := message(1, "bob", "alice", "hi")
		sent := message(2, "alice", "bob", "new")
		release := make(chan struct{})
		started := make(chan struct{})
		api.EXPECT().Transcript(gomock.Any(), "bob", 50).DoAndReturn(func(context.Context, string, int) ([]domain.Message, error) {
			close(started)
			<-release
			return []domain.Message{history}, nil
		})
		api.EXPECT().Send(gomock.Any(), "bob", "new").Return(sent, nil)
		api.EXPECT().Conversations(gomock.Any()).Return([]domain.Conversation{conversation("bob", "new", 2)}, nil)

		done := make(chan error)
		go func() { done <- controller.OpenConversation(context.Background(), "bob") }()
		<-started
		_, err := controller.Send(context.Background(), "bob", "new")
		req.NoError(err)
		close(release)
		req.NoError(<-done)

		active, ok := controller.Active()
		req.True(ok)
		req.True(active.Loaded)
		req.Equal([]domain.Message{history, sent}, active.Messages)
	})

	t.Run("should not duplicate a sent message once pulled", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		first := message(1, "alice", "bob", "hi")
		sent := message(2, "alice", "bob", "again")
		gomock.InOrder(
			api.EXPECT().Transcript(gomock.Any(), "bob", 50).Return([]domain.Message{first}, nil),
			api.EXPECT().Transcript(gomock.Any(), "bob", 50).Return([]domain.Message{first, sent}, nil),
		)
		api.EXPECT().Send(gomock.Any(), "bob", "again").Return(sent, nil)
		api.EXPECT().Conversations(gomock.Any()).Return([]domain.Conversation{}, nil)

		req.NoError(controller.OpenConversation(context.Background(), "bob"))
		_, err := controller.Send(context.Background(), "bob", "again")
		req.NoError(err)
		req.NoError(controller.RefreshActive(context.Background()))

		active, _ := controller.Active()
		req.Equal([]domain.Message{first, sent}, active.Messages)
	})

	t.Run("should leave another active transcript alone", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		api.EXPECT().Transcript(gomock.Any(), "clara", 50).Return([]domain.Message{}, nil)
		api.EXPECT().Send(gomock.Any(), "bob", "hi").Return(message(3, "alice", "bob", "hi"), nil)
		api.EXPECT().Conversations(gomock.Any()).Return([]domain.Conversation{}, nil)

		req.NoError(controller.OpenConversation(context.Background(), "clara"))
		_, err := controller.Send(context.Background(), "bob", "hi")
		req.NoError(err)

		active, _ := controller.Active()
		req.Empty(active.Messages)
	})

	t.Run("should surface dispatcher errors without touching state", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		rejected := stderrors.New("self message")
		api.EXPECT().Send(gomock.Any(), "alice", "x").Return(domain.Message{}, rejected)

		_, err := controller.Send(context.Background(), "alice", "x")
		req.ErrorIs(err, rejected)
		req.Empty(controller.Conversations())
	})

	t.Run("should succeed even if the refresh fails", func(t *testing.T) {
		req := require.New(t)
		controller, api := newController(t)
		api.EXPECT().Send(gomock.Any(), "bob", "hi").Return(message(4, "alice", "bob", "hi"), nil)
		api.EXPECT().Conversations(gomock.Any()).Return(nil, stderrors.New("timeout"))

		_, err := controller.Send(context.Background(), "bob", "hi")
		req.NoError(err)
	})
}
