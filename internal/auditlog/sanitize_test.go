package auditlog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSanitizeArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "no sensitive flags",
			args: []string{"run", "--runbook", "runbook.md"},
			want: []string{"run", "--runbook", "runbook.md"},
		},
		{
			name: "token with separate value",
			args: []string{"auth", "login", "--token", "secret"},
			want: []string{"auth", "login", "--token", "<redacted>"},
		},
		{
			name: "token with equals value",
			args: []string{"auth", "login", "--token=secret"},
			want: []string{"auth", "login", "--token=<redacted>"},
		},
		{
			name: "trailing token flag",
			args: []string{"auth", "login", "--token"},
			want: []string{"auth", "login", "--token", "<redacted>"},
		},
		{
			name: "empty args",
			args: []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeArgs(tt.args)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SanitizeArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
