package store

import (
	"context"

	"github.com/seantiz/rssd/internal/model"
)

// EventStats holds aggregate journal statistics.
type EventStats struct {
	Total          int            `json:"total"`
	CountByType    map[string]int `json:"count_by_type"`
	AvgSceneLoadMS float64        `json:"avg_scene_load_ms"`
}

// Store defines the persistence operations for the engine event journal.
type Store interface {
	InsertEvent(ctx context.Context, e *model.Event) error
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context, limit, offset int) ([]*model.Event, int, error)
	GetEventStats(ctx context.Context) (*EventStats, error)
	Close() error
}
