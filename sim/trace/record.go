// Package trace provides command-trace recording for an interactive session.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// CommandRecord captures one executed menu option.
type CommandRecord struct {
	Seq     int    // 1-based position in the session
	Option  int    // menu option number
	Label   string // menu label, e.g. "enqueue"
	OK      bool
	Outcome string // error text when !OK, short result otherwise
}
