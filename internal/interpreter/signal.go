package interpreter

import "github.com/naab-lang/naab/internal/naaberr"
import "github.com/naab-lang/naab/internal/value"

// signal is how control flow that isn't a plain failure (return, throw)
// travels back up through Eval's ordinary error channel, avoiding panic/
// recover for anything a user program can observe.
type signal struct {
	isReturn bool
	value    value.Value
	err      *naaberr.Error
}

func (s *signal) Error() string {
	if s.isReturn {
		return "return"
	}
	return s.err.Error()
}

func returnSignal(v value.Value) error {
	return &signal{isReturn: true, value: v}
}

func throwSignal(e *naaberr.Error) error {
	return &signal{err: e}
}

// asSignal unwraps err into a *signal, if it is one.
func asSignal(err error) (*signal, bool) {
	s, ok := err.(*signal)
	return s, ok
}
