package checking

// The state of the model at the current point of the traversal
type State[S any] struct {
	// The state of the model
	State S
	// True if the machine reports the state as terminal. Terminal states are not expanded.
	IsTerminal bool
}
