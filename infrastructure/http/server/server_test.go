package server

import (
	"bytes"
	"context"
	"dm-lab/auth"
	"dm-lab/infrastructure/http/payload"
	"dm-lab/repositories"
	"dm-lab/services"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

type apiSuite struct {
	suite.Suite
	db       *badger.DB
	messages *repositories.MessageRepository
	tokens   *auth.TokenManager
	handler  http.Handler
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, &apiSuite{})
}

func (s *apiSuite) SetupTest() {
	var err error
	s.db, err = badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	s.messages, err = repositories.NewMessageRepository(s.db, log, 20)
	s.Require().NoError(err)
	users := services.NewUserService(repositories.NewUserRepository(s.db))
	messaging := services.NewMessagingService(log, s.messages, users, users, nil, 20)

	for id, name := range map[string]string{"alice": "Alice", "bob": "Bob", "clara": "Clara"} {
		_, err := users.UpdateProfile(context.Background(), id, name, "")
		s.Require().NoError(err)
	}

	s.tokens = auth.NewTokenManager("api-suite-secret", time.Hour)
	s.handler = NewRouter(log, s.tokens, prometheus.NewRegistry(),
		NewMessagingServer(log, messaging, nil), NewUserServer(log, users))
}

func (s *apiSuite) TearDownTest() {
	s.Require().NoError(s.messages.Close())
	s.Require().NoError(s.db.Close())
}

func (s *apiSuite) do(userID, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := s.tokens.GenerateToken(userID)
		s.Require().NoError(err)
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)
	return recorder
}

func (s *apiSuite) reasonOf(recorder *httptest.ResponseRecorder) string {
	var body payload.ErrorResponse
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Reason
}

func (s *apiSuite) TestHealthIsPublic() {
	recorder := s.do("", http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, recorder.Code)
}

func (s *apiSuite) TestApiRequiresToken() {
	recorder := s.do("", http.MethodGet, "/api/conversations", nil)
	s.Equal(http.StatusUnauthorized, recorder.Code)
	s.Equal("unauthenticated", s.reasonOf(recorder))
}

func (s *apiSuite) TestEmptyConversationList() {
	recorder := s.do("alice", http.MethodGet, "/api/conversations", nil)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.JSONEq(`{"items":[]}`, recorder.Body.String())
}

func (s *apiSuite) TestSendThenRead() {
	var sent payload.MessageResponse
	s.Run("should create the message", func() {
		recorder := s.do("alice", http.MethodPost, "/api/messages", payload.SendRequest{RecipientID: "bob", Content: "hello"})
		s.Require().Equal(http.StatusCreated, recorder.Code)
		s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &sent))
		s.Equal("hello", sent.Content)
		s.Equal("Alice", sent.Sender.Name)
		s.Equal("bob", sent.Recipient.ID)
		s.NotZero(sent.ID)
	})

	s.Run("should list the conversation for both participants", func() {
		for viewer, counterpart := range map[string]string{"alice": "bob", "bob": "alice"} {
			recorder := s.do(viewer, http.MethodGet, "/api/conversations", nil)
			s.Require().Equal(http.StatusOK, recorder.Code)
			var list payload.ListResponse[payload.ConversationResponse]
			s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &list))
			s.Require().Len(list.Items, 1)
			s.Equal(counterpart, list.Items[0].Counterpart.ID)
			s.Equal(sent.ID, list.Items[0].LastMessageID)
		}
	})

	s.Run("should return the same transcript from both sides", func() {
		recorder := s.do("bob", http.MethodPost, "/api/messages", payload.SendRequest{RecipientID: "alice", Content: "hi"})
		s.Require().Equal(http.StatusCreated, recorder.Code)

		fromAlice := s.do("alice", http.MethodGet, "/api/conversations/bob/messages", nil)
		fromBob := s.do("bob", http.MethodGet, "/api/conversations/alice/messages", nil)
		s.Require().Equal(http.StatusOK, fromAlice.Code)
		s.JSONEq(fromAlice.Body.String(), fromBob.Body.String())

		var list payload.ListResponse[payload.MessageResponse]
		s.Require().NoError(json.Unmarshal(fromAlice.Body.Bytes(), &list))
		s.Require().Len(list.Items, 2)
		s.Equal("hello", list.Items[0].Content)
		s.Equal("hi", list.Items[1].Content)
	})

	s.Run("should keep only the latest messages with a limit", func() {
		recorder := s.do("alice", http.MethodGet, "/api/conversations/bob/messages?limit=1", nil)
		s.Require().Equal(http.StatusOK, recorder.Code)
		var list payload.ListResponse[payload.MessageResponse]
		s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &list))
		s.Require().Len(list.Items, 1)
		s.Equal("hi", list.Items[0].Content)
	})
}

func (s *apiSuite) TestSendRejections() {
	cases := []struct {
		name   string
		body   any
		status int
		reason string
	}{
		{"whitespace content", payload.SendRequest{RecipientID: "bob", Content: "  \n\t"}, http.StatusBadRequest, "empty_content"},
		{"self message", payload.SendRequest{RecipientID: "alice", Content: "me"}, http.StatusBadRequest, "self_message"},
		{"empty wins over self", payload.SendRequest{RecipientID: "alice", Content: " "}, http.StatusBadRequest, "empty_content"},
		{"unknown recipient", payload.SendRequest{RecipientID: "nobody", Content: "hey"}, http.StatusNotFound, "unknown_recipient"},
		{"too long", payload.SendRequest{RecipientID: "bob", Content: strings.Repeat("x", 21)}, http.StatusBadRequest, "content_too_long"},
		{"missing recipient", payload.SendRequest{Content: "hey"}, http.StatusNotFound, "unknown_recipient"},
		{"empty wins over missing recipient", payload.SendRequest{Content: "  "}, http.StatusBadRequest, "empty_content"},
		{"separator in recipient", payload.SendRequest{RecipientID: "a:b", Content: "hey"}, http.StatusBadRequest, "invalid_request"},
		{"not json", "plain", http.StatusBadRequest, "invalid_request"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			recorder := s.do("alice", http.MethodPost, "/api/messages", tc.body)
			s.Equal(tc.status, recorder.Code)
			s.Equal(tc.reason, s.reasonOf(recorder))
		})
	}

	count, err := s.messages.Count(context.Background(), "alice")
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *apiSuite) TestInvalidLimit() {
	recorder := s.do("alice", http.MethodGet, "/api/conversations/bob/messages?limit=-2", nil)
	s.Equal(http.StatusBadRequest, recorder.Code)
	s.Equal("invalid_request", s.reasonOf(recorder))
}

func (s *apiSuite) TestProfile() {
	s.Run("should return the caller", func() {
		recorder := s.do("clara", http.MethodGet, "/api/users/me", nil)
		s.Require().Equal(http.StatusOK, recorder.Code)
		var user payload.UserResponse
		s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &user))
		s.Equal("Clara", user.Name)
	})

	s.Run("should register an unknown caller on update", func() {
		s.Equal(http.StatusNotFound, s.do("dora", http.MethodGet, "/api/users/me", nil).Code)

		recorder := s.do("dora", http.MethodPut, "/api/users/me", payload.ProfileRequest{Name: "Dora", AvatarRef: "dora.png"})
		s.Require().Equal(http.StatusOK, recorder.Code)

		recorder = s.do("dora", http.MethodGet, "/api/users/me", nil)
		s.Require().Equal(http.StatusOK, recorder.Code)
		var user payload.UserResponse
		s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &user))
		s.Equal("dora.png", user.AvatarRef)
	})

	s.Run("should refuse an empty name", func() {
		recorder := s.do("clara", http.MethodPut, "/api/users/me", payload.ProfileRequest{Name: ""})
		s.Equal(http.StatusBadRequest, recorder.Code)
	})
}
