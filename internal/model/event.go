package model

import "time"

// Event type constants.
const (
	EventEngineStarted     = "engine.started"
	EventEngineStopped     = "engine.stopped"
	EventEngineContextLost = "engine.context_lost"
	EventSceneLoaded       = "scene.loaded"
	EventSceneLoadFailed   = "scene.load_failed"
	EventSceneUnloaded     = "scene.unloaded"
)

// Event is one engine lifecycle or scene transition, as journaled and streamed.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Scene      string    `json:"scene,omitempty"`
	Error      string    `json:"error,omitempty"`
	Frames     uint64    `json:"frames"`
	DurationMS *int      `json:"duration_ms,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EngineStatus is a snapshot of the engine.
type EngineStatus struct {
	Running      bool   `json:"running"`
	Scene        string `json:"scene,omitempty"`
	Frames       uint64 `json:"frames"`
	LastError    string `json:"last_error,omitempty"`
	RenderSystem string `json:"render_system,omitempty"`
}
