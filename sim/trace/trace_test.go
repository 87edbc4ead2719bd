package trace

import (
	"testing"

	"github.com/google/uuid"
)

func TestSessionTrace_RecordCommand_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for commands
	st := NewSessionTrace(TraceLevelCommands)

	// WHEN two command records are recorded
	st.RecordCommand(CommandRecord{Option: 1, Label: "register", OK: true})
	st.RecordCommand(CommandRecord{Option: 6, Label: "admit", OK: false, Outcome: "admission queue is empty"})

	// THEN both are kept in order with sequence numbers assigned
	if len(st.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(st.Commands))
	}
	if st.Commands[0].Seq != 1 || st.Commands[1].Seq != 2 {
		t.Errorf("expected seq 1,2, got %d,%d", st.Commands[0].Seq, st.Commands[1].Seq)
	}
	if st.Commands[1].Label != "admit" {
		t.Errorf("expected label admit, got %s", st.Commands[1].Label)
	}
}

func TestSessionTrace_LevelNone_RecordsNothing(t *testing.T) {
	// GIVEN a trace with tracing disabled
	st := NewSessionTrace(TraceLevelNone)

	// WHEN a command is recorded
	st.RecordCommand(CommandRecord{Option: 3, Label: "list"})

	// THEN nothing is kept
	if len(st.Commands) != 0 {
		t.Errorf("expected 0 commands, got %d", len(st.Commands))
	}
}

func TestSessionTrace_NilTrace_IsDisabled(t *testing.T) {
	var st *SessionTrace
	if st.Enabled() {
		t.Error("nil trace must report disabled")
	}
	st.RecordCommand(CommandRecord{Option: 0}) // must not panic
}

func TestNewSessionTrace_AssignsUUID(t *testing.T) {
	st := NewSessionTrace("")
	if _, err := uuid.Parse(st.SessionID); err != nil {
		t.Errorf("session id %q is not a UUID: %v", st.SessionID, err)
	}
	if st.Level != TraceLevelNone {
		t.Errorf("expected empty level to default to none, got %q", st.Level)
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"", true},
		{"none", true},
		{"commands", true},
		{"decisions", false},
		{"verbose", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.want {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
