// Package targetprefs provides a service layer for per-target user preferences.
package targetprefs

import (
	"nathanbeddoewebdev/conform/internal/targetprefs"
)

// Service wraps the targetprefs repository with higher-level operations.
type Service struct {
	repo targetprefs.Repository
}

// NewService creates a new preferences service.
func NewService(repo targetprefs.Repository) *Service {
	return &Service{repo: repo}
}

// Close releases repository resources.
func (s *Service) Close() error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Close()
}

// Remembered returns the stored preferences for a target, or nil if not set.
func (s *Service) Remembered(target string) *targetprefs.TargetPrefs {
	if s.repo == nil {
		return nil
	}
	prefs, err := s.repo.Get(target)
	if err != nil {
		return nil
	}
	return prefs
}

// Remember persists the runbook and toolchain used for a target (best-effort).
func (s *Service) Remember(target, runbook, toolchain string) {
	if s.repo == nil {
		return
	}
	prefs := &targetprefs.TargetPrefs{
		Target:    target,
		Runbook:   runbook,
		Toolchain: toolchain,
	}
	_ = s.repo.Save(prefs)
}
