package access

import "github.com/cockroachdb/errors"

// Sentinel errors returned by Checker.
var (
	// ErrUnsupportedTarget means the target's kind has no access policy. It is a
	// configuration mistake, not an access decision.
	ErrUnsupportedTarget = errors.New("target does not implement an access policy")
	// ErrDenied is returned by Authorize when the policy refused the request.
	ErrDenied = errors.New("access denied")
)

// IsUnsupportedTarget reports whether err was caused by a target without a policy.
func IsUnsupportedTarget(err error) bool {
	return errors.Is(err, ErrUnsupportedTarget)
}

// IsDenied reports whether err is a refused access decision.
func IsDenied(err error) bool {
	return errors.Is(err, ErrDenied)
}
