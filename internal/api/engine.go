package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seantiz/rssd/internal/engine"
	"github.com/seantiz/rssd/internal/scene"
)

// loadSceneRequest is the JSON body for POST /v1/scene.
type loadSceneRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleEngineStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleEngineStart(w http.ResponseWriter, _ *http.Request) {
	if err := s.engine.Start(); err != nil {
		s.writeEngineError(w, "start engine", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleEngineStop(w http.ResponseWriter, _ *http.Request) {
	if err := s.engine.Stop(); err != nil {
		s.writeEngineError(w, "stop engine", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleLoadScene(w http.ResponseWriter, r *http.Request) {
	var req loadSceneRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Path == "" {
		s.writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	if err := s.engine.LoadScene(req.Path); err != nil {
		s.writeEngineError(w, "load scene", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleUnloadScene(w http.ResponseWriter, _ *http.Request) {
	if err := s.engine.UnloadScene(); err != nil {
		s.writeEngineError(w, "unload scene", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.Status())
}

// writeEngineError maps engine and scene errors to HTTP statuses.
func (s *Server) writeEngineError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, engine.ErrNotRunning), errors.Is(err, scene.ErrNoSceneLoaded):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrClosed), errors.Is(err, scene.ErrClosed):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, scene.ErrSceneLoadFailed):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error(op, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
