package access

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Option configures a Checker.
type Option func(*checkerOptions)

type checkerOptions struct {
	logger *zap.Logger
}

// WithLogger makes the Checker log every decision at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *checkerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Checker resolves targets to their policies and delegates access decisions.
// It holds no mutable state of its own.
type Checker[U any] struct {
	locator Locator[U]
	logger  *zap.Logger
}

// NewChecker creates a Checker that resolves kind identifiers through locator.
// locator may be nil if every target declares its own policy.
func NewChecker[U any](locator Locator[U], opts ...Option) *Checker[U] {
	o := checkerOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Checker[U]{locator: locator, logger: o.logger}
}

// Can reports whether requester may perform action on target.
//
// target is either a kind identifier (string or Kind), checked with a nil
// object, or an Entity, checked with itself as the object. An entity that
// implements Accessible[U] answers for itself; otherwise the policy registered
// for its kind is used. Any other target yields an error matching
// ErrUnsupportedTarget.
func (c *Checker[U]) Can(ctx context.Context, requester U, action Action, target any) (bool, error) {
	policy, object, kind, err := c.resolve(target)
	if err != nil {
		c.logger.Debug("access target unsupported",
			zap.String("action", string(action)),
			zap.Error(err))
		return false, err
	}
	allowed := policy.IsAccessible(ctx, object, action, requester)
	c.logger.Debug("access decision",
		zap.String("kind", string(kind)),
		zap.String("action", string(action)),
		zap.Bool("instance", object != nil),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

// Authorize is Can in error form: nil when allowed, an error matching
// ErrDenied when refused, and ErrUnsupportedTarget when unresolvable.
func (c *Checker[U]) Authorize(ctx context.Context, requester U, action Action, target any) error {
	allowed, err := c.Can(ctx, requester, action, target)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.Wrapf(ErrDenied, "%s on %s", action, describe(target))
	}
	return nil
}

// For binds requester to the Checker.
func (c *Checker[U]) For(requester U) *Requester[U] {
	return &Requester[U]{checker: c, identity: requester}
}

func (c *Checker[U]) resolve(target any) (Accessible[U], Entity, Kind, error) {
	switch t := target.(type) {
	case nil:
		return nil, nil, "", errors.Wrap(ErrUnsupportedTarget, "nil target")
	case Kind:
		return c.resolveKind(t)
	case string:
		return c.resolveKind(Kind(t))
	case Entity:
		if p, ok := t.(Accessible[U]); ok {
			return p, t, t.Kind(), nil
		}
		kind := t.Kind()
		if p, ok := c.locate(kind); ok {
			return p, t, kind, nil
		}
		return nil, nil, kind, errors.Wrapf(ErrUnsupportedTarget, "%s", describe(t))
	default:
		return nil, nil, "", errors.Wrapf(ErrUnsupportedTarget, "%s", describe(t))
	}
}

func (c *Checker[U]) resolveKind(kind Kind) (Accessible[U], Entity, Kind, error) {
	if p, ok := c.locate(kind); ok {
		return p, nil, kind, nil
	}
	return nil, nil, kind, errors.Wrapf(ErrUnsupportedTarget, "%s", describe(kind))
}

func (c *Checker[U]) locate(kind Kind) (Accessible[U], bool) {
	if c.locator == nil {
		return nil, false
	}
	return c.locator.Locate(kind)
}

func describe(target any) string {
	switch t := target.(type) {
	case nil:
		return "nil target"
	case Kind:
		return fmt.Sprintf("kind %q", string(t))
	case string:
		return fmt.Sprintf("kind %q", t)
	case Entity:
		return fmt.Sprintf("%T of kind %q", t, string(t.Kind()))
	default:
		return fmt.Sprintf("value of type %T", t)
	}
}

// Requester is an identity bound to a Checker, so application code can ask
// requester.Can(ctx, action, target) directly.
type Requester[U any] struct {
	checker  *Checker[U]
	identity U
}

// Identity returns the bound requester value.
func (r *Requester[U]) Identity() U { return r.identity }

// Can reports whether the bound requester may perform action on target.
func (r *Requester[U]) Can(ctx context.Context, action Action, target any) (bool, error) {
	return r.checker.Can(ctx, r.identity, action, target)
}

// Authorize is Can in error form.
func (r *Requester[U]) Authorize(ctx context.Context, action Action, target any) error {
	return r.checker.Authorize(ctx, r.identity, action, target)
}
