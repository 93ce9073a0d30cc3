// Package viz renders rods in the terminal.
//
// It provides a Braille [Canvas], plane-relative [Frame] coordinates for
// side and top views, a rotating [Camera] for a perspective view, a Bubble
// Tea [LiveModel] that steps an experiment in real time, and asciigraph
// helpers for plotting stored trajectories.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	V     - Cycle side/top/3D view
//	Tab   - Select parameter, Up/Down tunes it by 5%
//	+/-   - Simulation speed
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
