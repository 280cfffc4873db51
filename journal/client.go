// Package journal records elevator runs as TWChart sessions: machine states become stages and
// requests, arrivals and faults become events.
package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/calvinmclean/babyapi"
	"github.com/calvinmclean/twchart"
)

// Journal is where a run is recorded
type Journal interface {
	CreateSession(ctx context.Context, name string, now time.Time) (string, error)
	AddEvent(ctx context.Context, note string, now time.Time) error
	AddStage(ctx context.Context, name string, now time.Time) error
	Done(ctx context.Context, now time.Time) error
}

// Noop is used when no journal server is configured
type Noop struct{}

var _ Journal = Noop{}

func (Noop) CreateSession(context.Context, string, time.Time) (string, error) { return "", nil }
func (Noop) AddEvent(context.Context, string, time.Time) error                { return nil }
func (Noop) AddStage(context.Context, string, time.Time) error                { return nil }
func (Noop) Done(context.Context, time.Time) error                            { return nil }

// Client talks to a TWChart server
type Client struct {
	client    *babyapi.Client[*session]
	sessionID string
}

var _ Journal = &Client{}

type session struct {
	// include NilResource so we don't implement Render/Bind which are not needed
	*babyapi.NilResource
	twchart.Session
}

func (s session) GetID() string {
	return s.Session.GetID()
}

func NewClient(addr string) *Client {
	client := babyapi.NewClient[*session](addr, "/sessions")
	return &Client{client: client}
}

// CreateSession starts a new session and uses it for every later call
func (c *Client) CreateSession(ctx context.Context, name string, now time.Time) (string, error) {
	resp, err := c.client.Post(ctx, &session{
		Session: twchart.Session{
			Name:      name,
			Date:      now,
			StartTime: now,
		},
	})
	if err != nil {
		return "", fmt.Errorf("error creating session: %w", err)
	}

	c.sessionID = resp.Data.GetID()

	return c.sessionID, nil
}

func (c *Client) AddEvent(ctx context.Context, note string, now time.Time) error {
	return c.post(ctx, "/add-event", twchart.Event{Note: note, Time: now})
}

func (c *Client) AddStage(ctx context.Context, name string, now time.Time) error {
	return c.post(ctx, "/add-stage", twchart.Stage{Name: name, Start: now})
}

func (c *Client) Done(ctx context.Context, now time.Time) error {
	return c.post(ctx, "/done", map[string]any{"time": now})
}

func (c *Client) post(ctx context.Context, action string, body any) error {
	if c.sessionID == "" {
		return ErrNoSession
	}

	url, err := c.client.URL(c.sessionID)
	if err != nil {
		return fmt.Errorf("error building url: %w", err)
	}

	return c.makeRequest(ctx, url+action, body)
}

func (c *Client) makeRequest(ctx context.Context, url string, body any) error {
	var bodyReader io.Reader = http.NoBody
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding body: %w", err)
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := c.client.MakeGenericRequest(req, nil)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	if resp.Response.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code: %d, response: %v", resp.Response.StatusCode, resp.Body)
	}

	return nil
}
