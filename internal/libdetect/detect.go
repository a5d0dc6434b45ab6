package libdetect

import "context"

// Report is the outcome of scanning one block's source: the raw
// include/import paths found, the subset the table recognized, and the
// linker flags those recognized entries contribute.
type Report struct {
	Includes []string
	Detected []string
	Flags    []string
}

// Scanner resolves a block's includes against a library table. The zero
// value uses DefaultTable; construct with NewScanner to supply a custom one
// (e.g. a host-specific table loaded from configuration).
type Scanner struct {
	table []Entry
}

// NewScanner builds a Scanner over table, or DefaultTable if table is nil.
func NewScanner(table []Entry) *Scanner {
	if table == nil {
		table = DefaultTable
	}
	return &Scanner{table: table}
}

// Scan extracts every include/import in source and resolves them against
// the scanner's table (§4.7 "scan the block source for #include directives
// and import-style hints ... consult a static include->library table").
func (s *Scanner) Scan(ctx context.Context, language, source string) (*Report, error) {
	includes, err := Includes(ctx, language, source)
	if err != nil {
		return nil, err
	}
	table := s.table
	if table == nil {
		table = DefaultTable
	}
	detected, flags := Resolve(table, includes)
	return &Report{Includes: includes, Detected: detected, Flags: flags}, nil
}
