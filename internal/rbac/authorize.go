package rbac

import "errors"

var (
	// ErrNoPrincipal means no authenticated identity was presented.
	ErrNoPrincipal = errors.New("rbac: principal required")
	// ErrForbidden means the principal's role is not in the allowed set.
	// Deliberately generic: callers must not leak whether a resource exists.
	ErrForbidden = errors.New("rbac: forbidden")
)

// Authorize is the single access decision point: allow iff role is a member
// of allowed. Pure function of its inputs, no I/O.
//
// Rules:
// - empty allowed set means the operation is open to any authenticated caller
// - an anonymous principal (empty role) is denied whenever allowed is non-empty
// - membership is order-independent set containment
func Authorize(role string, allowed ...string) error {
	if len(allowed) == 0 {
		return nil
	}
	if role == "" {
		return ErrNoPrincipal
	}
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return ErrForbidden
}
