// Row codec shared by the process table file and the memory block file.
// Each logical row is one line of whitespace-separated fields.

package sim

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// readRows reads every non-blank line of path and hands its fields to parse,
// stopping at the first row parse rejects. An unreadable file is reported as
// ErrFileUnavailable; a rejected row as *ParseError.
func readRows(path string, parse func(fields []string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w: %v", path, ErrFileUnavailable, err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := parse(fields); err != nil {
			return &ParseError{Path: path, Line: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w: %v", path, ErrFileUnavailable, err)
	}
	return nil
}

// writeRows replaces path with one line per row. Rows are written to a
// temporary file in the same directory and renamed over path, so a failure
// at any point leaves the previous contents untouched. A symlinked path is
// resolved first so the link survives, and an existing file keeps its mode.
func writeRows(path string, rows [][]string) error {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w: %v", path, ErrFileUnavailable, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting mode of %s: %w: %v", path, ErrFileUnavailable, err)
	}

	w := bufio.NewWriter(tmp)
	for _, row := range rows {
		if _, err := w.WriteString(strings.Join(row, " ") + "\n"); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("writing %s: %w: %v", path, ErrFileUnavailable, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w: %v", path, ErrFileUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w: %v", path, ErrFileUnavailable, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w: %v", path, ErrFileUnavailable, err)
	}
	return nil
}

// parseIntField parses fields[i] as a base-10 integer.
func parseIntField(fields []string, i int, name string) (int, error) {
	v, err := strconv.Atoi(fields[i])
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", name, fields[i])
	}
	return v, nil
}

// expectFields checks the row has exactly n fields.
func expectFields(fields []string, n int) error {
	if len(fields) != n {
		return fmt.Errorf("expected %d fields, got %d", n, len(fields))
	}
	return nil
}
