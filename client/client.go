//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=../mocks/mock_messaging_api.go -package=mocks
package client

import (
	"bytes"
	"context"
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/infrastructure/http/payload"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// MessagingAPI is what the sync controller pulls from.
type MessagingAPI interface {
	Conversations(ctx context.Context) ([]domain.Conversation, error)
	Transcript(ctx context.Context, counterpart string, limit int) ([]domain.Message, error)
	Send(ctx context.Context, recipient, content string) (domain.Message, error)
}

// HTTPClient talks to the messaging API on behalf of one signed-in user.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

func (c *HTTPClient) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	var list payload.ListResponse[payload.ConversationResponse]
	if err := c.do(ctx, http.MethodGet, "/api/conversations", nil, &list); err != nil {
		return nil, err
	}
	return lo.Map(list.Items, func(item payload.ConversationResponse, _ int) domain.Conversation {
		return item.ToDomain()
	}), nil
}

func (c *HTTPClient) Transcript(ctx context.Context, counterpart string, limit int) ([]domain.Message, error) {
	path := "/api/conversations/" + url.PathEscape(counterpart) + "/messages"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var list payload.ListResponse[payload.MessageResponse]
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return lo.Map(list.Items, func(item payload.MessageResponse, _ int) domain.Message {
		return item.ToDomain()
	}), nil
}

func (c *HTTPClient) Send(ctx context.Context, recipient, content string) (domain.Message, error) {
	var message payload.MessageResponse
	request := payload.SendRequest{RecipientID: recipient, Content: content}
	if err := c.do(ctx, http.MethodPost, "/api/messages", request, &message); err != nil {
		return domain.Message{}, err
	}
	return message.ToDomain(), nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return decodeError(response)
	}
	return json.NewDecoder(response.Body).Decode(out)
}

// decodeError keeps the server message and, when the reason is known,
// wraps the matching sentinel so callers can use errors.Is.
func decodeError(response *http.Response) error {
	var body payload.ErrorResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil || body.Reason == "" {
		return fmt.Errorf("unexpected status %d", response.StatusCode)
	}
	if sentinel := errors.FromReason(errors.Reason(body.Reason)); sentinel != nil {
		return fmt.Errorf("%w (%s)", sentinel, body.Error)
	}
	return fmt.Errorf("%s: %s", body.Reason, body.Error)
}
