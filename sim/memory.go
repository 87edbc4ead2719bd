package sim

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

// MemoryBlock is one simulated allocation. OwnerProcessID is not checked
// against the registry.
type MemoryBlock struct {
	OwnerProcessID int
	SizeMB         int
}

func (b MemoryBlock) String() string {
	return fmt.Sprintf("Process ID: %d, Size: %dMB", b.OwnerProcessID, b.SizeMB)
}

// MemoryStack is a LIFO ledger of memory blocks.
type MemoryStack struct {
	blocks []MemoryBlock // bottom first; the top is the last element
}

// NewMemoryStack returns an empty stack.
func NewMemoryStack() *MemoryStack {
	return &MemoryStack{}
}

// Push places a block on top of the stack.
func (s *MemoryStack) Push(ownerProcessID, sizeMB int) {
	s.blocks = append(s.blocks, MemoryBlock{OwnerProcessID: ownerProcessID, SizeMB: sizeMB})
}

// Pop removes and returns the top block, or ErrEmptyStack.
func (s *MemoryStack) Pop() (MemoryBlock, error) {
	n := len(s.blocks)
	if n == 0 {
		return MemoryBlock{}, ErrEmptyStack
	}
	top := s.blocks[n-1]
	s.blocks = s.blocks[:n-1]
	return top, nil
}

// List returns the blocks top to bottom.
func (s *MemoryStack) List() []MemoryBlock {
	out := make([]MemoryBlock, 0, len(s.blocks))
	for i := len(s.blocks) - 1; i >= 0; i-- {
		out = append(out, s.blocks[i])
	}
	return out
}

// Len returns the stack depth.
func (s *MemoryStack) Len() int {
	return len(s.blocks)
}

// TotalMB returns the sum of all block sizes.
func (s *MemoryStack) TotalMB() int {
	total := 0
	for _, b := range s.blocks {
		total += b.SizeMB
	}
	return total
}

// Persist writes one "owner size" row per block, top to bottom.
func (s *MemoryStack) Persist(path string) error {
	blocks := s.List()
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, []string{strconv.Itoa(b.OwnerProcessID), strconv.Itoa(b.SizeMB)})
	}
	if err := writeRows(path, rows); err != nil {
		return err
	}
	logrus.Debugf("saved %d memory blocks to %s", len(rows), path)
	return nil
}

// Load replaces the stack with the contents of path so that the first row
// becomes the top. On ErrFileUnavailable or a *ParseError the stack is
// unchanged.
func (s *MemoryStack) Load(path string) error {
	var rows []MemoryBlock // top first, as read
	err := readRows(path, func(fields []string) error {
		if err := expectFields(fields, 2); err != nil {
			return err
		}
		owner, err := parseIntField(fields, 0, "process id")
		if err != nil {
			return err
		}
		size, err := parseIntField(fields, 1, "size")
		if err != nil {
			return err
		}
		rows = append(rows, MemoryBlock{OwnerProcessID: owner, SizeMB: size})
		return nil
	})
	if err != nil {
		return err
	}
	blocks := make([]MemoryBlock, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		blocks = append(blocks, rows[i])
	}
	s.blocks = blocks
	logrus.Debugf("loaded %d memory blocks from %s", len(blocks), path)
	return nil
}
