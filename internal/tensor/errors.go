package tensor

import "fmt"

// LoadError indicates the input file was missing, unreadable, or not a
// 3-D float array. Fatal for the run; there is nothing to retry.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
