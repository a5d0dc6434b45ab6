// Package registry implements the block registry and loader (§4.6, §6):
// a content-addressed store mapping block-id to BlockRecord, and a Loader
// that validates the id grammar, retrieves the record, and hands it to
// whichever language-specific Executor factory the host wired in — with a
// singleflight-guarded first-load path so concurrent calls to the same
// not-yet-compiled block share one compilation instead of racing it.
package registry

import (
	"context"

	"github.com/naab-lang/naab/internal/token"
)

// BlockRecord is the registry's unit of storage (§3 "Block record"):
// everything the loader and executors need to bind, compile, and invoke
// one block, independent of the concrete store backing it.
type BlockRecord struct {
	ID                string
	Name              string
	Language          string // "CPP", "JS", or "PY" — matches token.BlockLanguageHint's vocabulary
	Source            string
	Category          string
	ValidationStatus  string
	TokenCount        int
	DetectedLibraries []string
}

// Store is the abstract block store interface the core consumes (§6):
// "lookup(id) -> BlockRecord | NotFound and optionally iterate_all()". The
// concrete backing store (relational database, file store, HTTP service)
// is not specified by the core and is supplied by the host.
type Store interface {
	Lookup(ctx context.Context, id string) (*BlockRecord, error)
	IterateAll(ctx context.Context) ([]*BlockRecord, error)
}

// ValidateBlockID checks the id against the canonical grammar
// `BLOCK-[A-Z]+-[0-9A-Z]+` (§6), reusing the lexer's own pattern so the
// registry and the token stream never disagree on what counts as a block id.
func ValidateBlockID(id string) bool {
	return token.BlockIDPattern.MatchString(id)
}
