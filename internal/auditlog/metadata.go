package auditlog

import "context"

type Metadata struct {
	Toolchain string
	Runbook   string
	Target    string
	RunID     string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Toolchain: pick(meta.Toolchain, existing.Toolchain),
		Runbook:   pick(meta.Runbook, existing.Runbook),
		Target:    pick(meta.Target, existing.Target),
		RunID:     pick(meta.RunID, existing.RunID),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
