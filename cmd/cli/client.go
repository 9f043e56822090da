package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hamed0406/apihealth/internal/domain"
	"github.com/hamed0406/apihealth/internal/monitor"
)

type client struct {
	base string
	http *http.Client
}

func newClient(base string) *client {
	return &client{
		base: strings.TrimRight(base, "/"),
		// server-side probe timeout plus headroom
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *client) Check(ctx context.Context, target string) (*monitor.Dashboard, error) {
	var d monitor.Dashboard
	if err := c.get(ctx, "/api/checks", url.Values{"url": {target}}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *client) History(ctx context.Context, target string) (*monitor.History, error) {
	var h monitor.History
	if err := c.get(ctx, "/api/history", url.Values{"url": {target}}, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *client) Uptime(ctx context.Context) ([]domain.UptimeSummary, error) {
	var out []domain.UptimeSummary
	if err := c.get(ctx, "/api/uptime", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *client) Favorites(ctx context.Context) ([]domain.Endpoint, error) {
	var out []domain.Endpoint
	if err := c.get(ctx, "/api/endpoints", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contacting API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("API returned %s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("API returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
