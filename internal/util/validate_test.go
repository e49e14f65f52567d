package util

import (
	"testing"
)

func TestValidateProjectName_Valid(t *testing.T) {
	valid := []string{
		"Contoso.Domain",
		"Contoso.Application.Tests",
		"my-lib",
		"App",
		"_internal",
		"Lib_Utils",
		"UPPERCASE",
		"MiXeD123",
		"a.b-c_d1",
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			if err := ValidateProjectName(name); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", name, err)
			}
		})
	}
}

func TestValidateProjectName_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		wantMsg string
	}{
		{"", "at least 2 characters"},
		{"a", "at least 2 characters"},
		{"my project", "invalid characters"},
		{"1app", "must start with a letter"},
		{".Domain", "must start with a letter"},
		{"-lib", "must start with a letter"},
		{"app-", "must not end with a hyphen"},
		{"app.", "must not end with a hyphen or period"},
		{"hello world!", "invalid characters"},
		{"app@core", "invalid characters"},
		{"app/core", "invalid characters"},
		{"app\tcore", "invalid characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.name)
			if err == nil {
				t.Errorf("expected %q to be invalid, got nil", tt.name)
				return
			}
			if got := err.Error(); !contains(got, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"single", "single"},
		{"  padded  ", "padded"},
		{"\n\n  first real line\nsecond", "first real line"},
		{"Build succeeded.\n    0 Warning(s)", "Build succeeded."},
	}
	for _, tt := range tests {
		if got := FirstLine(tt.in); got != tt.want {
			t.Errorf("FirstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && searchString(s, substr)
}

func searchString(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
