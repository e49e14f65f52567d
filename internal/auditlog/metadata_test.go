package auditlog

import (
	"context"
	"testing"
)

func TestWithMetadata_MergesExisting(t *testing.T) {
	ctx := WithMetadata(context.Background(), Metadata{
		Toolchain: "dotnet",
		Runbook:   "runbook.md",
	})
	ctx = WithMetadata(ctx, Metadata{
		Target: "/tmp/solution",
		RunID:  "20260825T120000Z",
	})

	meta := MetadataFromContext(ctx)
	if meta.Toolchain != "dotnet" {
		t.Errorf("expected toolchain preserved, got %q", meta.Toolchain)
	}
	if meta.Runbook != "runbook.md" {
		t.Errorf("expected runbook preserved, got %q", meta.Runbook)
	}
	if meta.Target != "/tmp/solution" {
		t.Errorf("expected target set, got %q", meta.Target)
	}
	if meta.RunID != "20260825T120000Z" {
		t.Errorf("expected run ID set, got %q", meta.RunID)
	}
}

func TestWithMetadata_LaterValueWins(t *testing.T) {
	ctx := WithMetadata(context.Background(), Metadata{Runbook: "first.md"})
	ctx = WithMetadata(ctx, Metadata{Runbook: "second.md"})

	if got := MetadataFromContext(ctx).Runbook; got != "second.md" {
		t.Errorf("expected later runbook to win, got %q", got)
	}
}

func TestMetadataFromContext_NilContext(t *testing.T) {
	if meta := MetadataFromContext(nil); meta != (Metadata{}) {
		t.Errorf("expected zero metadata from nil context, got %+v", meta)
	}
}
