// Package sync is the client side of the stroke store: initial load,
// partial upserts while drawing, bulk clear, and the insert feed.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Pratham82/real-time-notes/internal/state"
)

// Client talks to one stroke store service at addr ("host:port"). All
// operations report network or service failure as *TransportError.
type Client struct {
	addr  string
	httpc *http.Client
}

func NewClient(addr string) *Client {
	return &Client{
		addr: addr,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) httpURL(path string) string {
	return fmt.Sprintf("http://%s%s", c.addr, path)
}

func (c *Client) wsURL(path string) string {
	return fmt.Sprintf("ws://%s%s", c.addr, path)
}

// LoadAll fetches every persisted stroke, ordered by creation time
// ascending. Rows missing required fields are dropped with a warning so one
// bad row cannot take down the session.
func (c *Client) LoadAll(ctx context.Context) ([]state.Stroke, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.httpURL("/strokes"), nil)
	if err != nil {
		return nil, transportErr("load", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, transportErr("load", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, transportErr("load", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var rows []state.Stroke
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, transportErr("load", err)
	}
	strokes := make([]state.Stroke, 0, len(rows))
	for _, row := range rows {
		if !row.Valid() {
			log.Printf("[sync] dropping loaded row %q: %v", row.ID, ErrMalformedPayload)
			continue
		}
		strokes = append(strokes, row)
	}
	return strokes, nil
}

// PushPartial upserts the current state of a stroke, keyed by id with
// overwrite semantics. Safe to call repeatedly with a growing point set; the
// last write to land wins, which is the final point set because point
// sequences only grow while a stroke is active.
func (c *Client) PushPartial(ctx context.Context, s state.Stroke) error {
	body, err := json.Marshal(s)
	if err != nil {
		return transportErr("push", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.httpURL("/strokes"), bytes.NewReader(body))
	if err != nil {
		return transportErr("push", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return transportErr("push", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return transportErr("push", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}

// ClearAll deletes every persisted stroke. The caller clears its local board
// separately; the two are not transactional (see the eventual-consistency
// note in DESIGN.md).
func (c *Client) ClearAll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.httpURL("/strokes"), nil)
	if err != nil {
		return transportErr("clear", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return transportErr("clear", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return transportErr("clear", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}
