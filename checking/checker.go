package checking

// CheckerResponse is the result of checking the system.
//
// Implemented by PredicateCheckerResponse.
type CheckerResponse[A any] interface {
	// Create a response.
	//
	// Returns a boolean that is true if all properties hold, false otherwise.
	// Returns a string describing the response.
	// This should include a detailed description of which property is violated and the run which caused it to be violated.
	Response() (bool, string)

	// Export the run which caused a property to be violated
	//
	// If a property was violated it will return a slice containing the sequence of actions in the run.
	// Otherwise it will return an empty slice.
	Export() []A
}

var _ CheckerResponse[int] = PredicateCheckerResponse[string, int]{}
