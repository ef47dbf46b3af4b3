// Package client is a typed HTTP client for the decision server: it posts a
// wire state and decodes the wire action the server picked.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gridiron/game"
	"gridiron/wire"
)

// Client talks to one decision server.
type Client struct {
	serverURL string
	http      *http.Client
}

// New returns a client for the server at serverURL, e.g. "http://host:8080".
func New(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type actRequest struct {
	State    json.RawMessage `json:"state"`
	BudgetMS int             `json:"budget_ms"`
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// RemoteError is a non-OK answer from the server, carrying the error name
// and detail from the body when the server sent one.
type RemoteError struct {
	Status int
	Name   string
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server answered %d %s: %s", e.Status, e.Name, e.Detail)
	}
	return fmt.Sprintf("server answered %d %s", e.Status, e.Name)
}

// Act asks the server for the action to play in s. A positive budget
// overrides the server's default time budget for this call.
func (c *Client) Act(s *game.State, budget time.Duration) (game.Action, error) {
	doc, err := wire.Encode(s)
	if err != nil {
		return game.Action{}, fmt.Errorf("encode state: %w", err)
	}
	body, err := json.Marshal(actRequest{State: doc, BudgetMS: int(budget / time.Millisecond)})
	if err != nil {
		return game.Action{}, fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.http.Post(c.serverURL+"/act", "application/json", bytes.NewReader(body))
	if err != nil {
		return game.Action{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return game.Action{}, err
	}
	if resp.StatusCode != http.StatusOK {
		remote := &RemoteError{Status: resp.StatusCode, Name: "unexpected_status"}
		var parsed errorBody
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != "" {
			remote.Name = parsed.Error
			remote.Detail = parsed.Detail
		}
		return game.Action{}, remote
	}
	return wire.DecodeAction(data, s)
}

// Health reports whether the server answers its health check.
func (c *Client) Health() error {
	resp, err := c.http.Get(c.serverURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check answered %d", resp.StatusCode)
	}
	return nil
}
