// Package backup pushes the store's durable representation to an external
// durable sink after mutations. The push is best-effort: a failing sink is
// logged and retried, never surfaced to the caller whose mutation already
// succeeded.
package backup

import "context"

// Sink is the external durable store receiving copies of the database.
type Sink interface {
	// Put replaces the object stored under key with data.
	Put(ctx context.Context, key string, data []byte) error
	// Name identifies the sink in logs.
	Name() string
}

// Disabled is a Sink that drops every copy. Used when no backup target is
// configured.
type Disabled struct{}

func (Disabled) Put(ctx context.Context, key string, data []byte) error { return nil }

func (Disabled) Name() string { return "disabled" }
