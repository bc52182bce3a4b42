package pipeline

// Result is one stream unit: either a value or an error tagged with the
// path of the document it originated from. Errors travel through the
// stream alongside values so a failure never silently vanishes; the
// error sink at the end of the pipeline decides their disposition.
type Result[T any] struct {
	Value T
	Path  string
	Err   error
}

// Ok wraps a value in a successful result.
func Ok[T any](path string, value T) Result[T] {
	return Result[T]{Value: value, Path: path}
}

// Fail wraps an error in a failed result.
func Fail[T any](path string, err error) Result[T] {
	return Result[T]{Path: path, Err: err}
}

// Failed reports whether the unit carries an error.
func (r Result[T]) Failed() bool { return r.Err != nil }
