package registry

import "fmt"

// ErrNotFound is returned by a Store when no record matches the requested
// id; Loader.Load propagates it unwrapped so the interpreter's
// wrapExternalErr can classify it as BlockNotFoundError without the
// registry package needing to know about naaberr.Kind.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("block %q not found in registry", e.ID)
}

// ErrInvalidID is returned when a block id fails the BLOCK-[A-Z]+-[0-9A-Z]+
// grammar check before the store is even consulted (§6).
type ErrInvalidID struct {
	ID string
}

func (e *ErrInvalidID) Error() string {
	return fmt.Sprintf("%q is not a valid block id (want BLOCK-[A-Z]+-[0-9A-Z]+)", e.ID)
}
