package schema

import "fmt"

// AccessChecker reports whether the caller may read a type or one of its
// fields. Implementations are expected to be synchronous and side-effect
// free; the query package calls them at most once per checked segment and
// propagates any error unchanged.
type AccessChecker interface {
	// CheckObjectReadable returns nil when the object type is readable.
	CheckObjectReadable(object string) error

	// CheckFieldReadable returns nil when the field is readable on the
	// given object type.
	CheckFieldReadable(object, field string) error
}

// PermissionError is returned by AccessChecker implementations when read
// access is denied. Field is empty for object-level denials.
type PermissionError struct {
	Object string
	Field  string
}

func (e *PermissionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: object is not readable", e.Object)
	}
	return fmt.Sprintf("%s.%s: field is not readable", e.Object, e.Field)
}

// AllowAll is an AccessChecker granting read access to everything. It is
// the checker to use when field-level security is not a concern.
type AllowAll struct{}

// CheckObjectReadable implements the AccessChecker interface.
func (AllowAll) CheckObjectReadable(object string) error {
	return nil
}

// CheckFieldReadable implements the AccessChecker interface.
func (AllowAll) CheckFieldReadable(object, field string) error {
	return nil
}
