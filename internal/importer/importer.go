// Package importer turns exported documents and bank statements into
// daybook entries marked as uploaded.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
)

// Draft is one parsed row. Date is empty when the source carries none and
// the caller's date applies.
type Draft struct {
	Date  string
	Entry daybook.NewTransaction
}

// Parser converts an export file into drafts.
type Parser interface {
	Parse(r io.Reader) ([]Draft, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names in order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&DocumentsParser{})
	r.Register(&ChaseParser{})
	return r
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns CSV files in <repoRoot>/import/, sorted by name.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	if err := os.Rename(src, filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Adder records a draft on a date. *daybook.Service satisfies it.
type Adder interface {
	AddTransaction(ctx context.Context, date string, in daybook.NewTransaction) (model.Transaction, error)
}

// RowError is a draft the ledger refused.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Result reports what an Apply call recorded.
type Result struct {
	Added  []model.Transaction
	Failed []RowError
}

// Apply adds every draft, using date for drafts without their own. Rows the
// ledger rejects are collected and the rest still go in; a context error
// stops the run.
func Apply(ctx context.Context, adder Adder, date string, drafts []Draft) (Result, error) {
	var res Result
	for i, d := range drafts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		target := d.Date
		if target == "" {
			target = date
		}
		entry := d.Entry
		entry.FromUpload = true

		txn, err := adder.AddTransaction(ctx, target, entry)
		if err != nil {
			res.Failed = append(res.Failed, RowError{Row: i + 2, Err: err})
			continue
		}
		res.Added = append(res.Added, txn)
	}
	return res, nil
}
