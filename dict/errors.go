package dict

import "fmt"

// LoadError indicates that an index or bucket artifact could not be
// fetched or decoded. The store treats it as fail-soft: the resource is
// marked loaded-empty and never retried.
type LoadError struct {
	Resource string
	Cause    error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Resource, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Resource)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
