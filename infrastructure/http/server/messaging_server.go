package server

import (
	"dm-lab/auth"
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/infrastructure/http/payload"
	"dm-lab/services"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type MessagingServer struct {
	log       *slog.Logger
	messaging services.IMessagingService
	sendLimit func(http.Handler) http.Handler
}

// NewMessagingServer builds the conversation and message handlers.
// sendLimit wraps the send route only and may be nil.
func NewMessagingServer(log *slog.Logger, messaging services.IMessagingService,
	sendLimit func(http.Handler) http.Handler) *MessagingServer {
	return &MessagingServer{log: log, messaging: messaging, sendLimit: sendLimit}
}

func (s *MessagingServer) RegisterRoutes(r chi.Router) {
	r.Get("/conversations", s.handleConversations)
	r.Get("/conversations/{userID}/messages", s.handleTranscript)
	r.Group(func(r chi.Router) {
		if s.sendLimit != nil {
			r.Use(s.sendLimit)
		}
		r.Post("/messages", s.handleSend)
	})
}

func (s *MessagingServer) handleConversations(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	conversations, err := s.messaging.Conversations(r.Context(), viewer)
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, payload.ToConversationList(conversations))
}

func (s *MessagingServer) handleTranscript(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	transcript, err := s.messaging.Transcript(r.Context(), domain.TranscriptQuery{
		Viewer:      viewer,
		Counterpart: chi.URLParam(r, "userID"),
		Limit:       limit,
	})
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, payload.ToMessageList(transcript))
}

func (s *MessagingServer) handleSend(w http.ResponseWriter, r *http.Request) {
	sender, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	var request payload.SendRequest
	if err := decode(r, &request); err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	message, err := s.messaging.Send(r.Context(), domain.SendMessageCommand{
		SenderID:    sender,
		RecipientID: request.RecipientID,
		Content:     request.Content,
	})
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	s.log.Debug("Message sent", "id", message.ID, "sender", sender, "recipient", request.RecipientID)
	RespondJSON(w, http.StatusCreated, payload.FromMessage(message))
}

// queryLimit reads the optional limit parameter. Zero means no limit.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non negative integer", errors.ErrInvalidRequest)
	}
	return limit, nil
}
