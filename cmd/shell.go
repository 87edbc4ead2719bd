package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	sim "github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/trace"
)

const optExit = 0

// errEndOfInput ends the session as if option 0 had been chosen.
var errEndOfInput = errors.New("end of input")

// inputError is a field the user typed that could not be parsed.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

// menuItem is one numbered option of the interactive menu.
type menuItem struct {
	option int
	label  string // short name used in the command trace
	title  string // text shown in the menu
	run    func(sh *Shell) error
}

var menuItems = []menuItem{
	{1, "register", "Register process", (*Shell).register},
	{2, "delete", "Delete process", (*Shell).remove},
	{3, "list", "List processes", (*Shell).listProcesses},
	{4, "update-priority", "Update priority", (*Shell).updatePriority},
	{5, "enqueue", "Enqueue boot step", (*Shell).enqueue},
	{6, "admit", "Run boot step", (*Shell).admit},
	{7, "list-queue", "Show boot queue", (*Shell).listQueue},
	{8, "allocate", "Allocate memory to process", (*Shell).allocate},
	{9, "free", "Free memory", (*Shell).free},
	{10, "list-memory", "Show memory", (*Shell).listMemory},
}

// Shell drives a Session from a line-oriented numbered menu.
// Every error is reported to out and the loop continues; the session is
// saved when the user picks option 0 or input ends.
type Shell struct {
	session *sim.Session
	trace   *trace.SessionTrace
	in      *bufio.Scanner
	out     io.Writer
}

// NewShell returns a shell reading commands from in and writing to out.
// tr may be nil.
func NewShell(s *sim.Session, tr *trace.SessionTrace, in io.Reader, out io.Writer) *Shell {
	if s == nil {
		panic("NewShell: session must not be nil")
	}
	return &Shell{session: s, trace: tr, in: bufio.NewScanner(in), out: out}
}

// Run executes commands until exit. It does not load the session.
func (sh *Shell) Run() {
	for {
		sh.printMenu()
		line, err := sh.readLine("Select an option: ")
		if err != nil {
			sh.exit()
			return
		}
		opt, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil {
			sh.println("Invalid input. Please enter a number.")
			continue
		}
		if opt == optExit {
			sh.exit()
			return
		}
		item, ok := lookupMenuItem(opt)
		if !ok {
			sh.println("Invalid option.")
			continue
		}
		err = item.run(sh)
		if errors.Is(err, errEndOfInput) {
			sh.exit()
			return
		}
		sh.record(item, err)
		if err != nil {
			logrus.Debugf("option %d (%s) failed: %v", item.option, item.label, err)
			sh.println(describe(err))
		}
	}
}

func lookupMenuItem(opt int) (menuItem, bool) {
	for _, it := range menuItems {
		if it.option == opt {
			return it, true
		}
	}
	return menuItem{}, false
}

func (sh *Shell) printMenu() {
	sh.println("\n===== PROCESS MANAGEMENT SYSTEM =====")
	for _, it := range menuItems {
		sh.printf("%d. %s\n", it.option, it.title)
	}
	sh.printf("%d. Exit\n", optExit)
}

func (sh *Shell) register() error {
	id, err := sh.readInt("ID: ", "ID")
	if err != nil {
		return err
	}
	name, err := sh.readLine("Name: ")
	if err != nil {
		return err
	}
	priority, err := sh.readInt("Priority (higher number = higher priority): ", "Priority")
	if err != nil {
		return err
	}
	if err := sh.session.Processes.Insert(id, strings.TrimSpace(name), priority); err != nil {
		return err
	}
	sh.println("Process registered.")
	return nil
}

func (sh *Shell) remove() error {
	id, err := sh.readInt("ID to delete: ", "ID")
	if err != nil {
		return err
	}
	if err := sh.session.Processes.Remove(id); err != nil {
		return err
	}
	sh.println("Process deleted.")
	return nil
}

func (sh *Shell) listProcesses() error {
	recs := sh.session.Processes.List()
	if len(recs) == 0 {
		sh.println("No processes registered.")
		return nil
	}
	for _, r := range recs {
		sh.println(r.String())
	}
	return nil
}

func (sh *Shell) updatePriority() error {
	id, err := sh.readInt("Process ID: ", "ID")
	if err != nil {
		return err
	}
	priority, err := sh.readInt("New priority: ", "Priority")
	if err != nil {
		return err
	}
	if err := sh.session.Processes.UpdatePriority(id, priority); err != nil {
		return err
	}
	sh.println("Priority updated.")
	return nil
}

func (sh *Shell) enqueue() error {
	id, err := sh.readInt("Process ID to enqueue: ", "ID")
	if err != nil {
		return err
	}
	if _, err := sh.session.EnqueueByID(id); err != nil {
		return err
	}
	logrus.Debugf("boot queue (id:priority): %s", sh.session.Admission)
	sh.println("Boot step enqueued.")
	return nil
}

func (sh *Shell) admit() error {
	rec, err := sh.session.Admit()
	if err != nil {
		return err
	}
	sh.printf("Starting boot step: %s\n", rec.Name)
	return nil
}

func (sh *Shell) listQueue() error {
	queued := sh.session.Admission.List(sh.session.Processes)
	if len(queued) == 0 {
		sh.println(describe(sim.ErrEmptyQueue))
		return nil
	}
	for _, q := range queued {
		if q.Stale {
			sh.printf("ID: %d (deleted, will be dropped)\n", q.Entry.ProcessID)
			continue
		}
		sh.println(q.Record.String())
	}
	return nil
}

func (sh *Shell) allocate() error {
	id, err := sh.readInt("Process ID: ", "ID")
	if err != nil {
		return err
	}
	size, err := sh.readInt("Memory size (MB): ", "Size")
	if err != nil {
		return err
	}
	sh.session.Memory.Push(id, size)
	sh.println("Memory allocated.")
	return nil
}

func (sh *Shell) free() error {
	b, err := sh.session.Memory.Pop()
	if err != nil {
		return err
	}
	sh.printf("Freeing memory of process: %d\n", b.OwnerProcessID)
	return nil
}

func (sh *Shell) listMemory() error {
	blocks := sh.session.Memory.List()
	if len(blocks) == 0 {
		sh.println("No memory allocated.")
		return nil
	}
	for _, b := range blocks {
		sh.println(b.String())
	}
	return nil
}

// exit saves both files and, when tracing, prints the session summary.
func (sh *Shell) exit() {
	sh.println("Exiting...")
	if err := sh.session.Save(); err != nil {
		logrus.Errorf("save failed: %v", err)
		sh.printf("Error while saving: %v\n", err)
	}
	if sh.trace.Enabled() {
		printTraceSummary(sh.out, trace.Summarize(sh.trace))
	}
}

func (sh *Shell) record(item menuItem, err error) {
	rec := trace.CommandRecord{Option: item.option, Label: item.label, OK: err == nil}
	if err != nil {
		rec.Outcome = describe(err)
	}
	sh.trace.RecordCommand(rec)
}

func (sh *Shell) readLine(prompt string) (string, error) {
	sh.printf("%s", prompt)
	if !sh.in.Scan() {
		return "", errEndOfInput
	}
	return sh.in.Text(), nil
}

func (sh *Shell) readInt(prompt, field string) (int, error) {
	line, err := sh.readLine(prompt)
	if err != nil {
		return 0, err
	}
	v, convErr := strconv.Atoi(strings.TrimSpace(line))
	if convErr != nil {
		return 0, &inputError{msg: fmt.Sprintf("Error: %s must be an integer.", field)}
	}
	return v, nil
}

func (sh *Shell) println(s string) {
	_, _ = fmt.Fprintln(sh.out, s)
}

func (sh *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(sh.out, format, args...)
}

// describe turns an error into the message shown to the user.
func describe(err error) string {
	var in *inputError
	switch {
	case errors.As(err, &in):
		return in.msg
	case errors.Is(err, sim.ErrDuplicateKey):
		return "Error: a process with that ID already exists."
	case errors.Is(err, sim.ErrNotFound):
		return "Process not found."
	case errors.Is(err, sim.ErrEmptyQueue):
		return "The boot queue is empty."
	case errors.Is(err, sim.ErrEmptyStack):
		return "No memory to free."
	case errors.Is(err, sim.ErrInvalidName):
		return "Error: name must be a single word."
	default:
		return "Error: " + err.Error()
	}
}

func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	_, _ = fmt.Fprintf(w, "=== Session %s ===\n", s.SessionID)
	_, _ = fmt.Fprintf(w, "commands: %d (ok %d, failed %d)\n", s.TotalCommands, s.SucceededCount, s.FailedCount)
	labels := make([]string, 0, len(s.PerLabel))
	for l := range s.PerLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		_, _ = fmt.Fprintf(w, "  %-16s %d\n", l, s.PerLabel[l])
	}
	failures := make([]string, 0, len(s.Failures))
	for f := range s.Failures {
		failures = append(failures, f)
	}
	sort.Strings(failures)
	for _, f := range failures {
		_, _ = fmt.Fprintf(w, "  failed %dx: %s\n", s.Failures[f], f)
	}
}
