package server

import (
	"dm-lab/auth"
	"dm-lab/infrastructure/http/payload"
	"dm-lab/services"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type UserServer struct {
	log   *slog.Logger
	users services.IUserService
}

func NewUserServer(log *slog.Logger, users services.IUserService) *UserServer {
	return &UserServer{log: log, users: users}
}

func (s *UserServer) RegisterRoutes(r chi.Router) {
	r.Get("/users/me", s.handleMe)
	r.Put("/users/me", s.handleUpdateProfile)
}

func (s *UserServer) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	user, err := s.users.Me(r.Context(), userID)
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, payload.FromUser(user))
}

func (s *UserServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	var request payload.ProfileRequest
	if err := decode(r, &request); err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	user, err := s.users.UpdateProfile(r.Context(), userID, request.Name, request.AvatarRef)
	if err != nil {
		RespondError(s.log, w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, payload.FromUser(user))
}
