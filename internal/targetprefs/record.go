package targetprefs

import "time"

// TargetPrefs holds per-target user preferences.
type TargetPrefs struct {
	ID        int64
	Target    string
	Runbook   string
	Toolchain string
	UpdatedAt time.Time
}
