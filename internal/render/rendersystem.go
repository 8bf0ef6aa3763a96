package render

import (
	"fmt"
	"maps"
	"strings"
)

// Config option names understood by every render system.
const (
	OptionFullScreen = "Full Screen"
	OptionVideoMode  = "Video Mode"
	OptionVSync      = "VSync"
)

// DefaultVideoMode is the video mode a render system starts with.
const DefaultVideoMode = "800 x 600 @ 32-bit colour"

// RenderSystem is a selected Driver together with its config options.
type RenderSystem struct {
	driver  Driver
	options map[string]string
}

func newRenderSystem(d Driver) *RenderSystem {
	return &RenderSystem{
		driver: d,
		options: map[string]string{
			OptionFullScreen: "No",
			OptionVideoMode:  DefaultVideoMode,
			OptionVSync:      "Yes",
		},
	}
}

// Name returns the driver name.
func (rs *RenderSystem) Name() string {
	return rs.driver.Name()
}

// Driver returns the underlying driver.
func (rs *RenderSystem) Driver() Driver {
	return rs.driver
}

// SetConfigOption sets one option after validating its value.
func (rs *RenderSystem) SetConfigOption(name, value string) error {
	switch name {
	case OptionFullScreen, OptionVSync:
		if _, err := parseYesNo(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	case OptionVideoMode:
		if _, err := ParseVideoMode(value); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}

	rs.options[name] = value
	return nil
}

// ConfigOption returns the current value of an option.
func (rs *RenderSystem) ConfigOption(name string) (string, bool) {
	v, ok := rs.options[name]
	return v, ok
}

// ConfigOptions returns a copy of all options.
func (rs *RenderSystem) ConfigOptions() map[string]string {
	return maps.Clone(rs.options)
}

// DisplayOptions converts the current options into what Driver.Open takes.
func (rs *RenderSystem) DisplayOptions(title string) (DisplayOptions, error) {
	mode, err := ParseVideoMode(rs.options[OptionVideoMode])
	if err != nil {
		return DisplayOptions{}, err
	}
	fullScreen, err := parseYesNo(rs.options[OptionFullScreen])
	if err != nil {
		return DisplayOptions{}, err
	}
	vsync, err := parseYesNo(rs.options[OptionVSync])
	if err != nil {
		return DisplayOptions{}, err
	}

	return DisplayOptions{
		Title:       title,
		Width:       mode.Width,
		Height:      mode.Height,
		ColourDepth: mode.ColourDepth,
		FullScreen:  fullScreen,
		VSync:       vsync,
	}, nil
}

func parseYesNo(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "on", "1":
		return true, nil
	case "no", "false", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not yes/no", ErrInvalidOption, v)
	}
}
