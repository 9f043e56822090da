package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hamed0406/apihealth/internal/domain"
)

// Timeout bounds a single probe, including reading the body.
const Timeout = 5 * time.Second

const (
	userAgent    = "apihealth-checker/1.0"
	maxBodyBytes = 1 << 20
)

// Executor performs timed GET probes. Client is exported so tests can swap
// the transport; production code should use NewExecutor.
type Executor struct {
	Client *http.Client
}

func NewExecutor() *Executor {
	return &Executor{
		Client: &http.Client{Timeout: Timeout},
	}
}

// Execute probes target once and never fails: transport problems are
// recorded in the returned record with the no-response status code.
func (e *Executor) Execute(ctx context.Context, target string) domain.ProbeRecord {
	start := time.Now()
	code, err := e.get(ctx, target)
	elapsed := time.Since(start).Seconds() * 1000 // ms

	rec := domain.ProbeRecord{
		TargetURL:      target,
		ResponseTimeMS: elapsed,
		CheckedAt:      time.Now().UTC(),
	}
	if err != nil {
		msg := describe(err)
		rec.StatusCode = domain.NoResponse
		rec.IsUp = false
		rec.ErrorMessage = &msg
		return rec
	}
	rec.StatusCode = code
	rec.IsUp = CategoryFor(code).IsUp()
	return rec
}

func (e *Executor) get(ctx context.Context, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// read the body so timing covers the full download
	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, nil
}

func describe(err error) string {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return "request timed out: " + err.Error()
	}
	return err.Error()
}
