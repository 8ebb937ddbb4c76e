// Package viz draws structures in the terminal.
//
// Scenes are rasterized onto a braille [Canvas] by [Render], which projects
// every visible node through the viewer camera and paints them far to near.
// The interactive [App] is built on Bubble Tea:
//
//   - [App]: canvas, side panel and keyboard controls
//   - [Panel]: status, element legend and bond length chart
//   - [Turntable] and [SaveGIF]: animated exports
//
// # Key Bindings
//
//	←→↑↓  - Rotate
//	+/-   - Zoom
//	F     - Fit to canvas
//	R     - Reset view
//	B/C/P - Toggle bonds, cell, parameters
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
