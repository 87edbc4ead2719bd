package sim

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
)

// ProcessRecord is one simulated process. Higher Priority is more urgent.
type ProcessRecord struct {
	ID       int
	Name     string
	Priority int
}

func (p ProcessRecord) String() string {
	return fmt.Sprintf("ID: %d, Name: %s, Priority: %d", p.ID, p.Name, p.Priority)
}

// ProcessLookup resolves a process id to its current record.
// ProcessRegistry is the only production implementation.
type ProcessLookup interface {
	Find(id int) (ProcessRecord, error)
}

// ProcessRegistry owns every ProcessRecord, keyed by a unique id.
// Records are kept most-recently-inserted first.
type ProcessRegistry struct {
	records []ProcessRecord
}

// NewProcessRegistry returns an empty registry.
func NewProcessRegistry() *ProcessRegistry {
	return &ProcessRegistry{}
}

// Insert prepends a new record. It fails with ErrDuplicateKey if id is
// already registered and with ErrInvalidName if name is not a single token;
// in both cases the registry is unchanged.
func (r *ProcessRegistry) Insert(id int, name string, priority int) error {
	if !validName(name) {
		return fmt.Errorf("insert %d %q: %w", id, name, ErrInvalidName)
	}
	if r.indexOf(id) >= 0 {
		return fmt.Errorf("insert %d: %w", id, ErrDuplicateKey)
	}
	rec := ProcessRecord{ID: id, Name: name, Priority: priority}
	r.records = append([]ProcessRecord{rec}, r.records...)
	return nil
}

// Remove deletes the record with the given id.
func (r *ProcessRegistry) Remove(id int) error {
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %d: %w", id, ErrNotFound)
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

// Find returns a copy of the record with the given id.
func (r *ProcessRegistry) Find(id int) (ProcessRecord, error) {
	i := r.indexOf(id)
	if i < 0 {
		return ProcessRecord{}, fmt.Errorf("find %d: %w", id, ErrNotFound)
	}
	return r.records[i], nil
}

// UpdatePriority changes the priority of an existing record in place.
func (r *ProcessRegistry) UpdatePriority(id, priority int) error {
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update priority of %d: %w", id, ErrNotFound)
	}
	r.records[i].Priority = priority
	return nil
}

// List returns the records, most recently inserted first.
// The returned slice is a copy.
func (r *ProcessRegistry) List() []ProcessRecord {
	out := make([]ProcessRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of registered processes.
func (r *ProcessRegistry) Len() int {
	return len(r.records)
}

// Persist writes one "id name priority" row per record, in list order.
func (r *ProcessRegistry) Persist(path string) error {
	rows := make([][]string, 0, len(r.records))
	for _, rec := range r.records {
		rows = append(rows, []string{strconv.Itoa(rec.ID), rec.Name, strconv.Itoa(rec.Priority)})
	}
	if err := writeRows(path, rows); err != nil {
		return err
	}
	logrus.Debugf("saved %d processes to %s", len(rows), path)
	return nil
}

// Load replaces the registry with the contents of path. Rows are staged
// first: on ErrFileUnavailable or a *ParseError the registry is unchanged.
// A row repeating an earlier id is dropped with a warning, the same way
// Insert rejects it. The resulting list order matches the file's row order.
func (r *ProcessRegistry) Load(path string) error {
	staged := NewProcessRegistry()
	var rows []ProcessRecord
	err := readRows(path, func(fields []string) error {
		if err := expectFields(fields, 3); err != nil {
			return err
		}
		id, err := parseIntField(fields, 0, "id")
		if err != nil {
			return err
		}
		priority, err := parseIntField(fields, 2, "priority")
		if err != nil {
			return err
		}
		if err := staged.Insert(id, fields[1], priority); err != nil {
			logrus.Warnf("%s: skipping row: %v", path, err)
			return nil
		}
		rows = append(rows, ProcessRecord{ID: id, Name: fields[1], Priority: priority})
		return nil
	})
	if err != nil {
		return err
	}
	r.records = rows
	logrus.Debugf("loaded %d processes from %s", len(rows), path)
	return nil
}

func (r *ProcessRegistry) indexOf(id int) int {
	for i := range r.records {
		if r.records[i].ID == id {
			return i
		}
	}
	return -1
}

func validName(name string) bool {
	return name != "" && strings.IndexFunc(name, unicode.IsSpace) < 0
}
