// Package sim provides the in-memory process table simulator behind procsim.
//
// # Reading Guide
//
// Start with these files:
//   - process.go: ProcessRegistry, the owner of every ProcessRecord (unique ids)
//   - queue.go: AdmissionQueue, priority-ordered references into the registry
//   - memory.go: MemoryStack, the LIFO ledger of memory blocks
//   - session.go: Session, the one set of collections a command surface drives
//
// # Persistence
//
// The registry and the stack persist to flat text files, one row per record
// with whitespace-separated fields (codec.go). Loads are staged and swapped in
// only when every row parses; saves go through a temp file and a rename.
// The admission queue is never persisted.
//
// # Queue lifetime policy
//
// Queue entries hold a process id, never the record. Removing a process while
// it is queued is allowed; the entry is dropped on its next dequeue, which
// reports ErrNotFound.
//
// Sub-packages:
//   - sim/trace/: command trace recording for interactive sessions
package sim
