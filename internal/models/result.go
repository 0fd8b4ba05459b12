package models

// Outcome classifies the result of a remote lookup.
type Outcome int

const (
	Found        Outcome = iota // Value present
	NotAvailable                // Normal absence: nothing playing, no devices
	Failed                      // Call failed after the refresh protocol ran
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotAvailable:
		return "not_available"
	default:
		return "failed"
	}
}

// Lookup pairs a value with the outcome of the call that produced it.
type Lookup[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// Some returns a Found lookup wrapping v.
func Some[T any](v T) Lookup[T] {
	return Lookup[T]{Value: v, Outcome: Found}
}

// None returns a NotAvailable lookup with the zero value.
func None[T any]() Lookup[T] {
	return Lookup[T]{Outcome: NotAvailable}
}

// Fail returns a Failed lookup carrying err.
func Fail[T any](err error) Lookup[T] {
	return Lookup[T]{Outcome: Failed, Err: err}
}

// Or collapses the lookup to its value, substituting fallback unless the
// value was found. This is the outermost-boundary conversion from the
// three-way result to the empty-default convention.
func (l Lookup[T]) Or(fallback T) T {
	if l.Outcome == Found {
		return l.Value
	}
	return fallback
}
