package rbac

import "fmt"

// ConfigLoadError reports a missing or malformed roles document. It is only
// produced while building a catalog; a process that gets one must not start
// serving requests.
type ConfigLoadError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *ConfigLoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load role catalog: %v", e.Err)
	}
	return fmt.Sprintf("load role catalog from %s: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}
