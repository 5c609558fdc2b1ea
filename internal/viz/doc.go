// Package viz shows a running Gray-Scott simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live view, stepping a simulation on every frame
//   - [Heatmap]: colour rendering of a field with half-block characters
//   - [Canvas]: Braille-based pixel canvas for a thresholded field
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	R       - Reset fields and parameters
//	Tab     - Cycle the tuned parameter (f, k, du, dv)
//	Up/Down - Increase/decrease the tuned parameter
//	[ ]     - Fewer/more steps per frame
//	V       - Show U or V
//	B       - Toggle heatmap/Braille view
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//
// # Recording
//
// G starts capturing one frame per refresh; pressing it again writes an
// animated GIF to the current directory.
package viz
