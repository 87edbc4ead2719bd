package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// SessionConfig names the two persisted files.
type SessionConfig struct {
	ProcessesPath string
	MemoryPath    string
}

// Session bundles the registry, admission queue and memory stack driven by
// one command surface. The queue is never persisted.
type Session struct {
	Config    SessionConfig
	Processes *ProcessRegistry
	Admission *AdmissionQueue
	Memory    *MemoryStack

	malformed map[string]bool // paths whose last load hit a *ParseError
}

// NewSession returns a session with empty collections.
func NewSession(cfg SessionConfig) *Session {
	return &Session{
		Config:    cfg,
		Processes: NewProcessRegistry(),
		Admission: NewAdmissionQueue(),
		Memory:    NewMemoryStack(),
		malformed: make(map[string]bool),
	}
}

// EnqueueByID looks up id in the registry and queues it for admission.
func (s *Session) EnqueueByID(id int) (ProcessRecord, error) {
	rec, err := s.Processes.Find(id)
	if err != nil {
		return ProcessRecord{}, err
	}
	s.Admission.Enqueue(rec)
	return rec, nil
}

// Admit runs one admission step: the head of the queue is removed and its
// current record returned.
func (s *Session) Admit() (ProcessRecord, error) {
	if head, ok := s.Admission.Peek(); ok {
		logrus.Debugf("admitting process %d (queued at priority %d), %d waiting",
			head.ProcessID, head.Priority, s.Admission.Len())
	}
	return s.Admission.Dequeue(s.Processes)
}

// Load reads both files. A missing or unreadable file leaves its collection
// empty and is not returned as an error; malformed rows are, and the file is
// then protected from Save until it loads cleanly. Both files are always
// attempted.
func (s *Session) Load() error {
	var errs []error
	if err := s.loadOne("processes", s.Config.ProcessesPath, s.Processes.Load); err != nil {
		errs = append(errs, err)
	}
	if err := s.loadOne("memory stack", s.Config.MemoryPath, s.Memory.Load); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Session) loadOne(what, path string, load func(string) error) error {
	err := load(path)
	switch {
	case err == nil:
		delete(s.malformed, path)
		return nil
	case errors.Is(err, ErrFileUnavailable):
		logrus.Infof("no %s loaded: %v", what, err)
		return nil
	default:
		if errors.Is(err, ErrParse) {
			s.malformed[path] = true
		}
		return fmt.Errorf("loading %s: %w", what, err)
	}
}

// Malformed reports whether path failed to parse on its last load.
func (s *Session) Malformed(path string) bool {
	return s.malformed[path]
}

// Save writes both files. A file that was malformed at load is left as it
// is and reported with ErrNotSaved. A failure on one file does not prevent
// the other from being written.
func (s *Session) Save() error {
	var errs []error
	if err := s.saveOne("processes", s.Config.ProcessesPath, s.Processes.Persist); err != nil {
		errs = append(errs, err)
	}
	if err := s.saveOne("memory stack", s.Config.MemoryPath, s.Memory.Persist); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Session) saveOne(what, path string, persist func(string) error) error {
	if s.malformed[path] {
		logrus.Warnf("leaving %s untouched: it was malformed at load", path)
		return fmt.Errorf("saving %s to %s: %w", what, path, ErrNotSaved)
	}
	if err := persist(path); err != nil {
		return fmt.Errorf("saving %s: %w", what, err)
	}
	return nil
}
