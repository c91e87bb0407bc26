// Package async models the lifecycle of a remote load as a single tagged
// value instead of a spread of booleans that can drift out of sync.
package async

// Phase is the lifecycle position of a remote load.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// State carries a value through the load lifecycle. Exactly one of the
// phases holds at a time; the value is only meaningful in Ready and the
// error only in Failed.
type State[T any] struct {
	phase Phase
	value T
	err   error
}

func IdleState[T any]() State[T] {
	return State[T]{phase: Idle}
}

func LoadingState[T any]() State[T] {
	return State[T]{phase: Loading}
}

func ReadyState[T any](value T) State[T] {
	return State[T]{phase: Ready, value: value}
}

func FailedState[T any](err error) State[T] {
	return State[T]{phase: Failed, err: err}
}

func (s State[T]) Phase() Phase    { return s.phase }
func (s State[T]) IsLoading() bool { return s.phase == Loading }
func (s State[T]) IsReady() bool   { return s.phase == Ready }
func (s State[T]) IsFailed() bool  { return s.phase == Failed }

// Value returns the loaded value; the zero value outside Ready.
func (s State[T]) Value() T {
	return s.value
}

// Err returns the failure; nil outside Failed.
func (s State[T]) Err() error {
	return s.err
}

// Map applies fn to the value of a Ready state and leaves every other phase
// untouched. Panels use it to reshape loaded data without re-handling the
// loading and error branches.
func Map[T, U any](s State[T], fn func(T) U) State[U] {
	switch s.phase {
	case Ready:
		return ReadyState(fn(s.value))
	case Loading:
		return LoadingState[U]()
	case Failed:
		return FailedState[U](s.err)
	default:
		return IdleState[U]()
	}
}
