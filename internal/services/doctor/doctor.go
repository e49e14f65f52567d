// Package doctor probes the environment conform depends on.
//
// Toolchain probes shell out and are comparatively slow, so results are
// served through a stale-while-revalidate file cache. A run that probes
// repeatedly pays the process-spawn cost once.
package doctor

import (
	"context"
	"errors"
	"fmt"

	"nathanbeddoewebdev/conform/internal/config"
	"nathanbeddoewebdev/conform/internal/database"
	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/services/auth"
	"nathanbeddoewebdev/conform/internal/swrcache"
)

// Statuses for individual checks.
const (
	StatusOK   = "ok"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// Check is one probed fact about the environment.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Report collects the checks from one doctor pass.
type Report struct {
	Checks []Check `json:"checks"`
}

// Failed reports whether any check failed outright.
func (r *Report) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

func (r *Report) add(c Check) { r.Checks = append(r.Checks, c) }

// Service answers environment questions, caching expensive probes.
type Service struct {
	cache *swrcache.Cache
	store auth.Store
}

// NewService creates a doctor service. cache may be nil to disable probe
// caching; store may be nil to skip the credential check.
func NewService(cache *swrcache.Cache, store auth.Store) *Service {
	return &Service{cache: cache, store: store}
}

// Probe returns toolchain information, served stale-while-revalidate.
func (s *Service) Probe(ctx context.Context, tc domain.Toolchain) (*domain.ToolchainInfo, error) {
	return swrcache.GetOrFetch(s.cache, ctx, "probe_"+tc.Name(), func(ctx context.Context) (*domain.ToolchainInfo, error) {
		return tc.Probe(ctx)
	})
}

// Refresh drops cached probes so the next Probe hits the tool directly.
func (s *Service) Refresh() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Clear()
}

// Diagnose runs the full check set against a toolchain. templates lists
// the project templates a runbook needs; pass nil when no runbook is in
// play.
func (s *Service) Diagnose(ctx context.Context, tc domain.Toolchain, templates []string) *Report {
	report := &Report{}

	info, err := s.Probe(ctx, tc)
	if err != nil {
		report.add(Check{
			Name:   "toolchain " + tc.Name(),
			Status: StatusFail,
			Detail: fmt.Sprintf("not available: %v", err),
		})
	} else {
		report.add(Check{
			Name:   "toolchain " + tc.Name(),
			Status: StatusOK,
			Detail: "version " + info.Version,
		})
		report.add(s.sdkCheck(info))
		for _, c := range s.templateChecks(info, templates) {
			report.add(c)
		}
	}

	report.add(s.configCheck())
	report.add(s.databaseCheck())
	if s.store != nil {
		report.add(s.credentialCheck())
	}

	return report
}

func (s *Service) sdkCheck(info *domain.ToolchainInfo) Check {
	if len(info.SDKs) == 0 {
		return Check{Name: "sdks", Status: StatusWarn, Detail: "no SDKs reported"}
	}
	return Check{
		Name:   "sdks",
		Status: StatusOK,
		Detail: fmt.Sprintf("%d installed, newest %s", len(info.SDKs), info.SDKs[len(info.SDKs)-1]),
	}
}

func (s *Service) templateChecks(info *domain.ToolchainInfo, templates []string) []Check {
	if len(templates) == 0 {
		if len(info.Templates) == 0 {
			return []Check{{Name: "templates", Status: StatusWarn, Detail: "no templates reported"}}
		}
		return []Check{{
			Name:   "templates",
			Status: StatusOK,
			Detail: fmt.Sprintf("%d installed", len(info.Templates)),
		}}
	}

	checks := make([]Check, 0, len(templates))
	for _, want := range templates {
		check := Check{Name: "template " + want}
		if containsTemplate(info.Templates, want) {
			check.Status = StatusOK
			check.Detail = "installed"
		} else {
			check.Status = StatusFail
			check.Detail = "not installed"
		}
		checks = append(checks, check)
	}
	return checks
}

func containsTemplate(installed []string, want string) bool {
	for _, have := range installed {
		if have == want {
			return true
		}
	}
	return false
}

func (s *Service) configCheck() Check {
	path, err := config.Path()
	if err != nil {
		return Check{Name: "config", Status: StatusFail, Detail: err.Error()}
	}
	if _, err := config.Load(); err != nil {
		return Check{Name: "config", Status: StatusFail, Detail: err.Error()}
	}
	return Check{Name: "config", Status: StatusOK, Detail: path}
}

func (s *Service) databaseCheck() Check {
	path, err := database.DefaultPath()
	if err != nil {
		return Check{Name: "database", Status: StatusFail, Detail: err.Error()}
	}
	db, err := database.Open(path)
	if err != nil {
		return Check{Name: "database", Status: StatusFail, Detail: err.Error()}
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return Check{Name: "database", Status: StatusFail, Detail: err.Error()}
	}
	return Check{Name: "database", Status: StatusOK, Detail: path}
}

func (s *Service) credentialCheck() Check {
	_, err := s.store.GetToken(auth.DefaultFeed)
	switch {
	case err == nil:
		return Check{
			Name:   "package-feed credential",
			Status: StatusOK,
			Detail: "token stored for feed " + auth.DefaultFeed,
		}
	case errors.Is(err, auth.ErrTokenNotFound):
		return Check{
			Name:   "package-feed credential",
			Status: StatusWarn,
			Detail: "no token stored; run 'conform auth login' if your feed needs one",
		}
	default:
		return Check{
			Name:   "package-feed credential",
			Status: StatusWarn,
			Detail: fmt.Sprintf("keychain unavailable: %v", err),
		}
	}
}
