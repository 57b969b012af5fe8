// Package viz draws pendulum chains in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one chain, stepped from wall-clock time
//   - [NewInteractiveApp]: preset picker that opens a live view
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	C     - Clear the tip trail
//	R     - Reset to initial state
//	S     - Cycle integrator
//	T     - Cycle color themes
//	E     - Export the trail as SVG
//	?     - Show help overlay
package viz
