// Package engine runs a scene manager on a background render loop. It owns
// the loop's lifecycle, serializes scene loads against frame updates, and
// journals and broadcasts every lifecycle transition as an event.
package engine
