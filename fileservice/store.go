package fileservice

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultHeader is the fixed header line spec.md §3 requires when a file is
// created empty by ADD.
const DefaultHeader = "ID,Nombre,Edad,Ciudad,Fuente"

// Store is the pure I/O helper of spec.md §4.5: it knows how to load a CSV
// file into an ordered list of lines and how to write one back, and
// nothing about locking or transactions — that is the Handler's job. The
// shape follows collection.go's OpenCollection/Close idiom, adapted from
// an append-only JSON command log to a whole-file CSV rewrite, which is
// the persistence model spec.md actually specifies.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the whole file into an ordered list of lines, terminators
// dropped. A missing file loads as an empty list rather than an error,
// mirroring the original's read_csv_data behavior on a fresh CSV path.
func (s *Store) Load() ([]string, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s for read: %w", s.path, err)
	}
	defer f.Close()

	lines := []string{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.path, err)
	}

	return lines, nil
}

// Save writes lines to a sibling temp file and renames it over s.path.
// QUERY never takes the advisory lock (spec.md §4.4 says reads don't need
// a transaction), so an in-place truncate-then-write would let a
// concurrent QUERY observe a torn or empty file. rename(2) is atomic, so
// a reader always sees either the pre-Save file or the fully-written
// post-Save file, per spec.md §4.5 and the third-party-read testable
// property in §8.
func (s *Store) Save(lines []string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", s.path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			tmp.Close()
			return fmt.Errorf("write line: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			return fmt.Errorf("write newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpPath, s.path, err)
	}

	return nil
}

// Query returns the header (if any) followed by every non-header line
// containing term as a substring of its raw text, per spec.md §4.4 —
// including the identifier field, deliberately, per the resolved Open
// Question in SPEC_FULL.md §7.1.
func Query(lines []string, term string) (matches []string, headerOnly bool) {
	if len(lines) == 0 {
		return nil, false
	}

	matches = append(matches, lines[0])
	found := false
	for _, line := range lines[1:] {
		if strings.Contains(line, term) {
			matches = append(matches, line)
			found = true
		}
	}

	return matches, !found
}

// recordID parses the first comma-delimited field of a data line as an
// integer identifier.
func recordID(line string) (int, error) {
	field := line
	if idx := strings.IndexByte(line, ','); idx >= 0 {
		field = line[:idx]
	}
	id, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("invalid ID format")
	}
	return id, nil
}

// Modify replaces the first data line (index >= 1) whose identifier equals
// id with newLine verbatim. It reports whether a match was found.
func Modify(lines []string, id int, newLine string) (out []string, found bool, err error) {
	out = append([]string(nil), lines...)
	for i := 1; i < len(out); i++ {
		lineID, parseErr := recordID(out[i])
		if parseErr != nil {
			continue
		}
		if lineID == id {
			out[i] = newLine
			return out, true, nil
		}
	}
	return out, false, nil
}

// Delete removes the first data line (index >= 1) whose identifier equals
// id. It reports whether a match was found.
func Delete(lines []string, id int) (out []string, found bool) {
	out = make([]string, 0, len(lines))
	if len(lines) > 0 {
		out = append(out, lines[0])
	}
	for i := 1; i < len(lines); i++ {
		lineID, err := recordID(lines[i])
		if !found && err == nil && lineID == id {
			found = true
			continue
		}
		out = append(out, lines[i])
	}
	return out, found
}

// Add appends record as a new line, prepending the default header first
// if the file was empty.
func Add(lines []string, record string) []string {
	if len(lines) == 0 {
		lines = append(lines, DefaultHeader)
	}
	return append(lines, record)
}
