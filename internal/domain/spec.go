package domain

// ProjectSpec describes one desired project in the target solution.
type ProjectSpec struct {
	Name     string `json:"name" yaml:"name"`
	Layer    Layer  `json:"layer" yaml:"layer"`
	Template string `json:"template" yaml:"template"`
	// Dir is the project directory relative to the target root.
	// Empty means the project name is used.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// Directory returns the project directory, defaulting to the name.
func (p ProjectSpec) Directory() string {
	if p.Dir != "" {
		return p.Dir
	}
	return p.Name
}

// PackageRef names a package dependency desired in a project.
type PackageRef struct {
	Project string `json:"project" yaml:"project"`
	ID      string `json:"id" yaml:"id"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ReferenceSpec names a desired project-to-project reference.
type ReferenceSpec struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// RemedySpec is a documented resolution from the runbook's remediation
// table. Match is a substring searched for in the failure text; Action
// names a built-in remedy the runner knows how to apply.
type RemedySpec struct {
	Match       string `json:"match" yaml:"match"`
	Description string `json:"description" yaml:"description"`
	Action      string `json:"action" yaml:"action"`
}

// Remedy actions a runbook may document.
const (
	// RemedyRetry runs the failed action again unchanged.
	RemedyRetry = "retry"

	// RemedyClearPackageCache clears the toolchain's package cache
	// before running the failed action again.
	RemedyClearPackageCache = "clear-package-cache"

	// RemedyRestore restores declared dependencies before running the
	// failed action again.
	RemedyRestore = "restore"
)

// KnownRemedyAction reports whether action names a built-in remedy.
func KnownRemedyAction(action string) bool {
	switch action {
	case RemedyRetry, RemedyClearPackageCache, RemedyRestore:
		return true
	}
	return false
}
