package domain

import "context"

// Entry describes one action to record.
type Entry struct {
	ActorType  ActorType
	ActorID    *string
	Action     string
	TargetType string
	TargetID   *string
	Metadata   map[string]any
}

// Recorder writes audit entries. Recording is best-effort: a failed write
// must never fail the action it describes.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}
