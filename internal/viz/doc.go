// Package viz is the terminal host for the mode engine.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: ticks the engine and shows the canvas beside a stats panel
//   - [Raster]: braille canvas implementing the scene renderer, one color per cell
//   - [Recorder]: collects raster frames into a GIF
//   - Theme selection with 5 built-in color schemes
//
// Global key bindings come from the control package. The host adds:
//
//	P - Edit the active mode's parameters (applied with a re-init)
//	G - Toggle GIF recording (saved as primeviz.gif)
//	? - Show help overlay
package viz
