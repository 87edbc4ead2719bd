// Implements the AdmissionQueue, which holds processes waiting for their
// simulated boot step. Entries name a process by id; the registry stays the
// single owner of the record.

package sim

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// AdmissionEntry is a queued reference to a registered process.
// Priority is the record's priority at enqueue time and fixes the entry's
// position; the record itself is resolved through a ProcessLookup.
type AdmissionEntry struct {
	ProcessID int
	Priority  int
}

// QueuedProcess is one row of AdmissionQueue.List. Stale is set when the
// referenced process has been removed from the registry since it was queued;
// Record is then the zero value.
type QueuedProcess struct {
	Entry  AdmissionEntry
	Record ProcessRecord
	Stale  bool
}

// AdmissionQueue keeps entries in non-increasing priority order.
// Entries of equal priority leave in the order they arrived.
type AdmissionQueue struct {
	queue []AdmissionEntry // head first
}

// NewAdmissionQueue returns an empty queue.
func NewAdmissionQueue() *AdmissionQueue {
	return &AdmissionQueue{}
}

// Enqueue places rec after every entry whose priority is >= rec.Priority.
// A record strictly above the current head becomes the new head.
// The same process may be queued more than once.
func (aq *AdmissionQueue) Enqueue(rec ProcessRecord) {
	entry := AdmissionEntry{ProcessID: rec.ID, Priority: rec.Priority}
	if len(aq.queue) == 0 || rec.Priority > aq.queue[0].Priority {
		aq.queue = append([]AdmissionEntry{entry}, aq.queue...)
		return
	}
	pos := 1
	for pos < len(aq.queue) && aq.queue[pos].Priority >= rec.Priority {
		pos++
	}
	aq.queue = append(aq.queue, AdmissionEntry{})
	copy(aq.queue[pos+1:], aq.queue[pos:])
	aq.queue[pos] = entry
}

// Dequeue removes the head entry and resolves it against lookup.
// On an empty queue it returns ErrEmptyQueue and changes nothing.
// If the head's process no longer exists the entry is still removed and
// ErrNotFound is returned.
func (aq *AdmissionQueue) Dequeue(lookup ProcessLookup) (ProcessRecord, error) {
	if lookup == nil {
		panic("Dequeue: lookup must not be nil")
	}
	if len(aq.queue) == 0 {
		return ProcessRecord{}, ErrEmptyQueue
	}
	head := aq.queue[0]
	aq.queue = aq.queue[1:]
	rec, err := lookup.Find(head.ProcessID)
	if err != nil {
		logrus.Warnf("dropping queued process %d: %v", head.ProcessID, err)
		return ProcessRecord{}, fmt.Errorf("dequeue: %w", err)
	}
	return rec, nil
}

// List returns the queue head to tail with each entry resolved against
// lookup. It does not modify the queue.
func (aq *AdmissionQueue) List(lookup ProcessLookup) []QueuedProcess {
	if lookup == nil {
		panic("List: lookup must not be nil")
	}
	out := make([]QueuedProcess, 0, len(aq.queue))
	for _, e := range aq.queue {
		qp := QueuedProcess{Entry: e}
		if rec, err := lookup.Find(e.ProcessID); err == nil {
			qp.Record = rec
		} else {
			qp.Stale = true
		}
		out = append(out, qp)
	}
	return out
}

// Len returns the number of queued entries.
func (aq *AdmissionQueue) Len() int {
	return len(aq.queue)
}

// Peek returns the head entry without removing it.
// ok is false if the queue is empty.
func (aq *AdmissionQueue) Peek() (entry AdmissionEntry, ok bool) {
	if len(aq.queue) == 0 {
		return AdmissionEntry{}, false
	}
	return aq.queue[0], true
}

func (aq *AdmissionQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, e := range aq.queue {
		fmt.Fprintf(&sb, "%d:%d", e.ProcessID, e.Priority)
		if i < len(aq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
