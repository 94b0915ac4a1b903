package names

import (
	"errors"
	"fmt"
)

var (
	ErrCorrupt     = errors.New("names: corrupt entry")
	ErrInvalidName = errors.New("names: invalid name")
)

// UnregisterError reports which half of an Unregister failed. When the
// generation bump succeeded the binding is already unreachable even if the
// delete failed.
type UnregisterError struct {
	Name    string
	BumpErr error
	DelErr  error
}

func (e *UnregisterError) Error() string {
	switch {
	case e.BumpErr != nil && e.DelErr != nil:
		return fmt.Sprintf("unregister %q: gen bump and delete failed: bump=%v; delete=%v", e.Name, e.BumpErr, e.DelErr)
	case e.BumpErr != nil:
		return fmt.Sprintf("unregister %q: gen bump failed: %v", e.Name, e.BumpErr)
	case e.DelErr != nil:
		return fmt.Sprintf("unregister %q: delete failed: %v", e.Name, e.DelErr)
	default:
		return fmt.Sprintf("unregister %q: unknown error", e.Name)
	}
}

func (e *UnregisterError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.BumpErr != nil {
		errs = append(errs, e.BumpErr)
	}
	if e.DelErr != nil {
		errs = append(errs, e.DelErr)
	}
	return errs
}
