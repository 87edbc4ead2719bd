package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/trace"
)

func newTestSession(t *testing.T) *sim.Session {
	t.Helper()
	dir := t.TempDir()
	return sim.NewSession(sim.SessionConfig{
		ProcessesPath: filepath.Join(dir, "procesos.txt"),
		MemoryPath:    filepath.Join(dir, "memoria.txt"),
	})
}

// runShell feeds the given input lines to a shell and returns its output.
func runShell(t *testing.T, s *sim.Session, tr *trace.SessionTrace, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	NewShell(s, tr, in, &out).Run()
	return out.String()
}

func TestShell_RegisterAndList_MostRecentFirst(t *testing.T) {
	// GIVEN an empty session
	s := newTestSession(t)

	// WHEN two processes are registered and the list is shown
	out := runShell(t, s, nil,
		"1", "1", "init", "10",
		"1", "2", "netd", "5",
		"3",
		"0")

	// THEN both are registered and listed newest first
	assert.Equal(t, 2, strings.Count(out, "Process registered."))
	iNetd := strings.Index(out, "ID: 2, Name: netd, Priority: 5")
	iInit := strings.Index(out, "ID: 1, Name: init, Priority: 10")
	require.True(t, iNetd >= 0 && iInit >= 0, out)
	assert.Less(t, iNetd, iInit)
	assert.Contains(t, out, "Exiting...")
}

func TestShell_DuplicateID_Rejected(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Processes.Insert(1, "init", 10))

	out := runShell(t, s, nil, "1", "1", "x", "9", "0")

	assert.Contains(t, out, "a process with that ID already exists")
	rec, err := s.Processes.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "init", rec.Name)
}

func TestShell_NameWithSpaces_Rejected(t *testing.T) {
	s := newTestSession(t)

	out := runShell(t, s, nil, "1", "1", "two words", "3", "0")

	assert.Contains(t, out, "name must be a single word")
	assert.Equal(t, 0, s.Processes.Len())
}

func TestShell_InvalidInput_LoopContinues(t *testing.T) {
	s := newTestSession(t)

	out := runShell(t, s, nil, "abc", "42", "1", "x", "3", "0")

	assert.Contains(t, out, "Invalid input. Please enter a number.")
	assert.Contains(t, out, "Invalid option.")
	assert.Contains(t, out, "Error: ID must be an integer.")
	assert.Contains(t, out, "No processes registered.")
}

func TestShell_BootQueue_PriorityOrderAndAdmit(t *testing.T) {
	// GIVEN three registered processes
	s := newTestSession(t)
	require.NoError(t, s.Processes.Insert(1, "low", 1))
	require.NoError(t, s.Processes.Insert(2, "high", 9))
	require.NoError(t, s.Processes.Insert(3, "mid", 5))

	// WHEN all are enqueued and one boot step runs
	out := runShell(t, s, nil,
		"5", "1", "5", "2", "5", "3",
		"6",
		"7",
		"5", "42",
		"0")

	// THEN the highest priority boots first and the rest stay in order
	assert.Equal(t, 3, strings.Count(out, "Boot step enqueued."))
	assert.Contains(t, out, "Starting boot step: high")
	iMid := strings.Index(out, "ID: 3, Name: mid")
	iLow := strings.Index(out, "ID: 1, Name: low")
	require.True(t, iMid >= 0 && iLow >= 0, out)
	assert.Less(t, iMid, iLow)
	assert.Contains(t, out, "Process not found.")
	assert.Equal(t, 2, s.Admission.Len())
}

func TestShell_Admit_EmptyQueue(t *testing.T) {
	s := newTestSession(t)

	out := runShell(t, s, nil, "6", "7", "0")

	assert.Equal(t, 2, strings.Count(out, "The boot queue is empty."))
}

func TestShell_DeletedWhileQueued_DroppedOnAdmit(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Processes.Insert(1, "gone", 4))

	out := runShell(t, s, nil, "5", "1", "2", "1", "7", "6", "7", "0")

	assert.Contains(t, out, "Process deleted.")
	assert.Contains(t, out, "ID: 1 (deleted, will be dropped)")
	assert.Contains(t, out, "Process not found.")
	assert.Equal(t, 0, s.Admission.Len())
}

func TestShell_UpdatePriority(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Processes.Insert(1, "init", 10))

	out := runShell(t, s, nil, "4", "1", "2", "4", "7", "1", "0")

	assert.Contains(t, out, "Priority updated.")
	assert.Contains(t, out, "Process not found.")
	rec, _ := s.Processes.Find(1)
	assert.Equal(t, 2, rec.Priority)
}

func TestShell_MemoryStack_LIFO(t *testing.T) {
	// GIVEN blocks for owners 1, 2, 3
	s := newTestSession(t)

	// WHEN they are allocated, listed and freed
	out := runShell(t, s, nil,
		"8", "1", "64",
		"8", "2", "128",
		"8", "3", "256",
		"10",
		"9", "9", "9", "9",
		"10",
		"0")

	// THEN frees come back 3, 2, 1 and a fourth free reports an empty stack
	assert.Equal(t, 3, strings.Count(out, "Memory allocated."))
	assert.Contains(t, out, "Process ID: 3, Size: 256MB")
	i3 := strings.Index(out, "Freeing memory of process: 3")
	i2 := strings.Index(out, "Freeing memory of process: 2")
	i1 := strings.Index(out, "Freeing memory of process: 1")
	require.True(t, i3 >= 0 && i2 > i3 && i1 > i2, out)
	assert.Contains(t, out, "No memory to free.")
	assert.Contains(t, out, "No memory allocated.")
}

func TestShell_Exit_SavesBothFiles(t *testing.T) {
	// GIVEN a session with a process and a memory block
	s := newTestSession(t)

	// WHEN the user registers, allocates and exits
	runShell(t, s, nil, "1", "1", "init", "10", "8", "1", "64", "0")

	// THEN both files can be loaded back
	loaded := sim.NewSession(s.Config)
	require.NoError(t, loaded.Load())
	assert.Equal(t, []sim.ProcessRecord{{ID: 1, Name: "init", Priority: 10}}, loaded.Processes.List())
	assert.Equal(t, []sim.MemoryBlock{{OwnerProcessID: 1, SizeMB: 64}}, loaded.Memory.List())
}

func TestShell_EndOfInput_SavesLikeExit(t *testing.T) {
	// GIVEN input that stops in the middle of a register command
	s := newTestSession(t)
	var out bytes.Buffer
	in := strings.NewReader("8\n5\n16\n1\n7\n")

	// WHEN the shell runs out of input
	NewShell(s, nil, in, &out).Run()

	// THEN the partial command is abandoned and the session is saved
	assert.Contains(t, out.String(), "Exiting...")
	assert.Equal(t, 0, s.Processes.Len())
	loaded := sim.NewSession(s.Config)
	require.NoError(t, loaded.Load())
	assert.Equal(t, 1, loaded.Memory.Len())
}

func TestShell_Trace_SummaryOnExit(t *testing.T) {
	s := newTestSession(t)
	tr := trace.NewSessionTrace(trace.TraceLevelCommands)

	out := runShell(t, s, tr, "9", "9", "8", "1", "1", "0")

	require.Len(t, tr.Commands, 3)
	assert.False(t, tr.Commands[0].OK)
	assert.Equal(t, "free", tr.Commands[0].Label)
	assert.True(t, tr.Commands[2].OK)
	assert.Contains(t, out, "=== Session "+tr.SessionID+" ===")
	assert.Contains(t, out, "commands: 3 (ok 1, failed 2)")
	assert.Contains(t, out, "failed 2x: No memory to free.")
}

func TestNewShell_NilSession_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "NewShell: session must not be nil", func() {
		NewShell(nil, nil, strings.NewReader(""), &bytes.Buffer{})
	})
}

func TestMenuItems_OptionsOneThroughTen(t *testing.T) {
	for opt := 1; opt <= 10; opt++ {
		_, ok := lookupMenuItem(opt)
		assert.True(t, ok, "option %d", opt)
	}
	_, ok := lookupMenuItem(optExit)
	assert.False(t, ok, "exit is handled by the loop itself")
}

func TestShell_Exit_KeepsFileMalformedAtLoad(t *testing.T) {
	// GIVEN a session whose process file failed to parse at line 3
	s := newTestSession(t)
	require.NoError(t, os.WriteFile(s.Config.ProcessesPath, []byte("1 init 10\n2 netd 5\n3 oops x\n"), 0644))
	require.ErrorIs(t, s.Load(), sim.ErrParse)

	// WHEN the user exits straight away
	out := runShell(t, s, nil, "0")

	// THEN the file still holds its original rows and the user is told why
	data, err := os.ReadFile(s.Config.ProcessesPath)
	require.NoError(t, err)
	assert.Equal(t, "1 init 10\n2 netd 5\n3 oops x\n", string(data))
	assert.Contains(t, out, "not saved: file was malformed at load")
}

func TestShell_Enqueue_LogsQueueAndAdmittedHead(t *testing.T) {
	// GIVEN two registered processes and debug logging
	hook := captureDebugLogs(t)
	s := newTestSession(t)
	require.NoError(t, s.Processes.Insert(1, "low", 1))
	require.NoError(t, s.Processes.Insert(2, "high", 9))

	// WHEN both are enqueued and one boot step runs
	runShell(t, s, nil, "5", "1", "5", "2", "6", "0")

	// THEN the queue is logged after each enqueue and the head before admission
	msgs := loggedMessages(hook)
	assert.Contains(t, msgs, "boot queue (id:priority): [1:1]")
	assert.Contains(t, msgs, "boot queue (id:priority): [2:9 1:1]")
	assert.Contains(t, msgs, "admitting process 2 (queued at priority 9), 2 waiting")
}
