package checking

// Check that the predicate happens eventually.
//
// Return a predicate that run the provided predicate on terminal states.
// Returns the value of the original predicate if the state is terminal.
// Otherwise, it always returns true.
func Eventually[S any](pred Predicate[S]) Predicate[S] {
	return func(s State[S]) bool {
		if !s.IsTerminal {
			return true
		}
		return pred(s)
	}
}

// Check that cond holds for the model state of every visited state
func Invariant[S any](cond func(S) bool) Predicate[S] {
	return func(s State[S]) bool {
		return cond(s.State)
	}
}

// Check that condition returns true for all the items
//
// Returns false if cond returns false for some item.
// Returns true otherwise.
func ForAll[E any](items []E, cond func(E) bool) bool {
	for _, item := range items {
		if !cond(item) {
			return false
		}
	}
	return true
}
