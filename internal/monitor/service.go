// Package monitor runs on-demand probes and assembles the views served by
// the API: the dashboard (latest result, recent checks, uptime) and the
// per-URL history.
package monitor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/apihealth/internal/domain"
	"github.com/hamed0406/apihealth/internal/probe"
	"github.com/hamed0406/apihealth/internal/repo"
	"github.com/hamed0406/apihealth/internal/uptime"
)

// Prober performs one probe; *probe.Executor is the production implementation.
type Prober interface {
	Execute(ctx context.Context, target string) domain.ProbeRecord
}

// Result is a freshly stored probe plus its classification.
type Result struct {
	domain.ProbeRecord
	StatusText     string         `json:"status_text"`
	HealthCategory probe.Category `json:"health_category"`
}

type Dashboard struct {
	Result       *Result                `json:"result"`
	RecentChecks []domain.ProbeRecord   `json:"recent_checks"`
	FavoriteAPIs []domain.Endpoint      `json:"favorite_apis"`
	UptimeStats  []domain.UptimeSummary `json:"uptime_stats"`
}

type History struct {
	URL    string               `json:"url"`
	Checks []domain.ProbeRecord `json:"checks"`
}

type Service struct {
	Logger         *zap.Logger
	Checks         repo.CheckStore
	Endpoints      repo.EndpointStore
	Prober         Prober
	Resolver       probe.Resolver // nil uses the OS resolver
	DNSDiagnostics bool
}

func NewService(l *zap.Logger, checks repo.CheckStore, endpoints repo.EndpointStore, p Prober) *Service {
	return &Service{Logger: l, Checks: checks, Endpoints: endpoints, Prober: p}
}

// Check probes target and stores the outcome. The probe and insert run to
// completion even if the caller goes away; probe.Timeout bounds them.
func (s *Service) Check(ctx context.Context, target string) (*Result, error) {
	ctx = context.WithoutCancel(ctx)
	rec := s.Prober.Execute(ctx, target)
	if err := s.Checks.Insert(ctx, &rec); err != nil {
		return nil, fmt.Errorf("store check: %w", err)
	}

	cat := probe.CategoryFor(rec.StatusCode)
	if rec.Failed() {
		s.logFailure(ctx, rec)
	} else {
		s.Logger.Info("probe_done",
			zap.String("url", rec.TargetURL),
			zap.Int("status", rec.StatusCode),
			zap.String("category", string(cat)),
			zap.Float64("response_time_ms", rec.ResponseTimeMS),
		)
	}

	return &Result{
		ProbeRecord:    rec,
		StatusText:     probe.StatusLabel(rec.StatusCode),
		HealthCategory: cat,
	}, nil
}

// Home probes target when it is non-empty, then returns the dashboard.
func (s *Service) Home(ctx context.Context, target string) (*Dashboard, error) {
	d := &Dashboard{}
	if target != "" {
		res, err := s.Check(ctx, target)
		if err != nil {
			return nil, err
		}
		d.Result = res
	}

	var err error
	if d.RecentChecks, err = s.Checks.Recent(ctx, repo.RecentLimit); err != nil {
		return nil, fmt.Errorf("recent checks: %w", err)
	}
	if d.FavoriteAPIs, err = s.Endpoints.ListEndpoints(ctx); err != nil {
		return nil, fmt.Errorf("favorites: %w", err)
	}
	if d.UptimeStats, err = s.Uptime(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Uptime recomputes the summaries from the whole stored history.
func (s *Service) Uptime(ctx context.Context) ([]domain.UptimeSummary, error) {
	all, err := s.Checks.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("all checks: %w", err)
	}
	return uptime.Aggregate(all), nil
}

// History lists the checks for url. An empty url yields no checks.
func (s *Service) History(ctx context.Context, url string) (*History, error) {
	h := &History{URL: url, Checks: []domain.ProbeRecord{}}
	if url == "" {
		return h, nil
	}
	checks, err := s.Checks.ByTarget(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	h.Checks = checks
	return h, nil
}

func (s *Service) logFailure(ctx context.Context, rec domain.ProbeRecord) {
	fields := []zap.Field{
		zap.String("url", rec.TargetURL),
		zap.Float64("response_time_ms", rec.ResponseTimeMS),
	}
	if rec.ErrorMessage != nil {
		fields = append(fields, zap.String("error", *rec.ErrorMessage))
	}
	s.Logger.Warn("probe_failed", fields...)

	if !s.DNSDiagnostics {
		return
	}
	dns := probe.DiagnoseURL(ctx, s.Resolver, rec.TargetURL)
	s.Logger.Info("dns_check",
		zap.String("host", dns.Host),
		zap.String("class", string(dns.Class)),
		zap.Strings("ips", dns.IPs),
		zap.Strings("nameservers", dns.Nameservers),
		zap.String("cname", dns.CNAME),
		zap.String("resolver_error", dns.ResolverError),
	)
}
