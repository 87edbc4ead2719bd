package trace

import "github.com/google/uuid"

// TraceLevel controls the verbosity of command tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelCommands captures every executed menu option.
	TraceLevelCommands TraceLevel = "commands"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:     true,
	TraceLevelCommands: true,
	"":                 true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SessionTrace collects command records during one interactive session.
type SessionTrace struct {
	SessionID string
	Level     TraceLevel
	Commands  []CommandRecord
}

// NewSessionTrace creates a SessionTrace with a fresh session id.
func NewSessionTrace(level TraceLevel) *SessionTrace {
	if level == "" {
		level = TraceLevelNone
	}
	return &SessionTrace{
		SessionID: uuid.NewString(),
		Level:     level,
		Commands:  make([]CommandRecord, 0),
	}
}

// Enabled reports whether records are being kept. Safe on a nil trace.
func (st *SessionTrace) Enabled() bool {
	return st != nil && st.Level == TraceLevelCommands
}

// RecordCommand appends a command record, assigning its sequence number.
// No-op when tracing is disabled.
func (st *SessionTrace) RecordCommand(record CommandRecord) {
	if !st.Enabled() {
		return
	}
	record.Seq = len(st.Commands) + 1
	st.Commands = append(st.Commands, record)
}
