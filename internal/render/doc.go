// Package render is the render-context layer that the scene manager sequences:
// render system selection, windows, viewports, cameras and the scene graph a
// driver draws once per frame.
//
// Nothing in this package is safe for concurrent use. The engine serializes
// every call into a Root and into the objects a Root hands out.
package render
