package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/naab-lang/naab/internal/interpreter"
)

// ExecutorFactory builds a language-specific interpreter.Executor from a
// resolved BlockRecord. internal/executor's cppexec/jsexec/pyexec
// packages each provide one; registry never imports them directly so
// there is no registry<->executor import cycle (the same deferred-wiring
// shape as interpreter.BlockLoader/InlineRunner itself).
type ExecutorFactory interface {
	// Language is the token.BlockLanguageHint suffix this factory builds
	// executors for ("CPP", "JS", or "PY").
	Language() string
	Build(ctx context.Context, rec *BlockRecord) (interpreter.Executor, error)
}

// Loader implements interpreter.BlockLoader (§4.6): validate the id
// grammar, look the record up in a Store, then hand it to whichever
// ExecutorFactory handles that record's language. A built Executor is
// cached by block id for the Loader's lifetime, and a singleflight.Group
// guards the first build so N concurrent calls to an as-yet-uncompiled
// block share one compilation instead of racing separate ones.
type Loader struct {
	store     Store
	factories map[string]ExecutorFactory

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]interpreter.Executor
}

// NewLoader builds a Loader backed by store, dispatching to factories by
// BlockRecord.Language.
func NewLoader(store Store, factories ...ExecutorFactory) *Loader {
	byLang := make(map[string]ExecutorFactory, len(factories))
	for _, f := range factories {
		byLang[f.Language()] = f
	}
	return &Loader{
		store:     store,
		factories: byLang,
		cache:     make(map[string]interpreter.Executor),
	}
}

// Load implements interpreter.BlockLoader.
func (l *Loader) Load(ctx context.Context, blockID string) (interpreter.Executor, error) {
	if !ValidateBlockID(blockID) {
		return nil, &ErrInvalidID{ID: blockID}
	}

	if exec, ok := l.cached(blockID); ok {
		return exec, nil
	}

	v, err, shared := l.group.Do(blockID, func() (any, error) {
		return l.loadUncached(ctx, blockID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logrus.WithField("block_id", blockID).Debug("registry: joined in-flight load")
	}
	return v.(interpreter.Executor), nil
}

func (l *Loader) cached(blockID string) (interpreter.Executor, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	exec, ok := l.cache[blockID]
	return exec, ok
}

func (l *Loader) loadUncached(ctx context.Context, blockID string) (interpreter.Executor, error) {
	// Re-check under the singleflight key: another caller may have
	// populated the cache between our RLock miss above and entering Do.
	if exec, ok := l.cached(blockID); ok {
		return exec, nil
	}

	rec, err := l.store.Lookup(ctx, blockID)
	if err != nil {
		return nil, err
	}

	factory, ok := l.factories[rec.Language]
	if !ok {
		return nil, fmt.Errorf("registry: no executor factory registered for language %q (block %s)", rec.Language, blockID)
	}

	logrus.WithFields(logrus.Fields{"block_id": blockID, "language": rec.Language}).Info("registry: compiling block")
	exec, err := factory.Build(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("registry: building executor for %s: %w", blockID, err)
	}

	l.mu.Lock()
	l.cache[blockID] = exec
	l.mu.Unlock()
	return exec, nil
}

var _ interpreter.BlockLoader = (*Loader)(nil)
