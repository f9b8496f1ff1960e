package ports

// StatusPort observes long-running external work. It is purely
// observational: implementations must not alter the outcome of the
// operation they wrap.
type StatusPort interface {
	Start(scope string)
	Success(scope string)
	Failure(scope string, err error)
}
