package render

import "errors"

var (
	// ErrBackendUnavailable is returned when no registered render system matches
	// the requested name.
	ErrBackendUnavailable = errors.New("render system unavailable")

	// ErrNoRenderSystem is returned when a window is requested before a render
	// system has been selected.
	ErrNoRenderSystem = errors.New("no render system selected")

	// ErrNoWindow is returned when a frame is rendered without any window.
	ErrNoWindow = errors.New("no render window")

	// ErrUnknownOption is returned for config options a render system does not know.
	ErrUnknownOption = errors.New("unknown config option")

	// ErrInvalidOption is returned for config option values that cannot be parsed.
	ErrInvalidOption = errors.New("invalid config option value")

	// ErrSurfaceLost is returned by a Surface whose native window or device is gone.
	ErrSurfaceLost = errors.New("render surface lost")

	// ErrContextLost wraps ErrSurfaceLost when it surfaces from RenderOneFrame.
	ErrContextLost = errors.New("render context lost")

	// ErrShutdown is returned by a Root, or by objects it created, after Shutdown.
	ErrShutdown = errors.New("render root shut down")

	// ErrDuplicateName is returned when a named object already exists.
	ErrDuplicateName = errors.New("name already in use")

	// ErrZOrderInUse is returned when a window already has a viewport at a z order.
	ErrZOrderInUse = errors.New("viewport z order already in use")
)
