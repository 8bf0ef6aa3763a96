// Package scene defines the scene manager capability the engine drives and
// its render-backed implementation.
package scene

import (
	"errors"
	"time"
)

var (
	// ErrSceneLoadFailed wraps every Load failure.
	ErrSceneLoadFailed = errors.New("scene load failed")

	// ErrNoSceneLoaded is returned by Unload when nothing is loaded.
	ErrNoSceneLoaded = errors.New("no scene loaded")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("scene manager closed")
)

// Manager owns a scene and advances it one frame at a time. Implementations
// need not be safe for concurrent use; the engine serializes calls.
type Manager interface {
	// Load replaces the current scene with the one in path.
	Load(path string) error

	// Unload removes the current scene.
	Unload() error

	// Update advances the scene by elapsed and renders one frame. An error
	// means the manager can no longer render.
	Update(elapsed time.Duration) error

	// Close releases everything the manager acquired.
	Close() error
}
