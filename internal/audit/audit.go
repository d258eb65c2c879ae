package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Action names a ledger event.
type Action string

const (
	ActionOpen    Action = "open"
	ActionClose   Action = "close"
	ActionReopen  Action = "reopen"
	ActionAdd     Action = "add"
	ActionReverse Action = "reverse"
	ActionSeed    Action = "seed"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Date      string
	Role      string
	Action    Action
	TxnID     string
	Details   string
}

// Header is the CSV header for activity-log.csv.
const Header = "timestamp,date,role,action,txn_id,details"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "logs/activity-log.csv"
	colTimestamp = 0
	colDate      = 1
	colRole      = 2
	colAction    = 3
	colTxnID     = 4
	colDetails   = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colDate] = e.Date
	row[colRole] = e.Role
	row[colAction] = string(e.Action)
	row[colTxnID] = e.TxnID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Date:      record[colDate],
		Role:      record[colRole],
		Action:    Action(record[colAction]),
		TxnID:     record[colTxnID],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <repoRoot>/logs/activity-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	if err := writeEntries(f, needsHeader, entries); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing activity log: %w", err)
	}
	return nil
}

func writeEntries(w io.Writer, header bool, entries []Entry) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}
	return nil
}

// Read returns all entries from <repoRoot>/logs/activity-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	path := filepath.Join(repoRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FileRecorder appends ledger events to a repository's activity log.
type FileRecorder struct {
	root string
	mu   sync.Mutex
}

// NewFileRecorder returns a recorder writing under repoRoot.
func NewFileRecorder(repoRoot string) *FileRecorder {
	return &FileRecorder{root: repoRoot}
}

// Record appends one entry.
func (r *FileRecorder) Record(_ context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Append(r.root, []Entry{e})
}

// MemoryRecorder keeps entries in memory. Used by the memory store backend and tests.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Record appends one entry.
func (r *MemoryRecorder) Record(_ context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

// Entries returns a copy of the recorded entries.
func (r *MemoryRecorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}
