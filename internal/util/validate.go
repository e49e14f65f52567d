package util

import (
	"fmt"
	"regexp"
)

// validNameChars matches alphanumeric characters, underscores, hyphens,
// and periods.
var validNameChars = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

// ValidateProjectName checks that a project or solution name is one the
// dotnet tooling will accept without mangling:
//   - At least 2 characters
//   - Only alphanumeric characters (a-z, A-Z, 0-9), underscores (_),
//     hyphens (-), and periods (.)
//   - First character must be a letter or underscore
//   - Last character must not be a hyphen or period
func ValidateProjectName(name string) error {
	if len(name) < 2 {
		return fmt.Errorf("project name must be at least 2 characters, got %d", len(name))
	}

	if !validNameChars.MatchString(name) {
		return fmt.Errorf("project name %q contains invalid characters (only a-z, A-Z, 0-9, underscores, hyphens, and periods are allowed)", name)
	}

	first := name[0]
	if !isLetter(first) && first != '_' {
		return fmt.Errorf("project name must start with a letter or underscore, got %q", string(first))
	}

	last := name[len(name)-1]
	if last == '-' || last == '.' {
		return fmt.Errorf("project name must not end with a hyphen or period, got %q", string(last))
	}

	return nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
