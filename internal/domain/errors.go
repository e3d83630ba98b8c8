package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a planning failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidParameters
	KindNoCandidatesFound
	KindStorage
	KindProvider
	KindInfeasible
	KindCancelled
)

var (
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrNoCandidatesFound = errors.New("no candidates found")
	ErrStorage           = errors.New("storage error")
	ErrProvider          = errors.New("provider error")
	ErrInfeasible        = errors.New("infeasible")
	ErrCancelled         = errors.New("cancelled")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidParameters: ErrInvalidParameters,
	KindNoCandidatesFound: ErrNoCandidatesFound,
	KindStorage:           ErrStorage,
	KindProvider:          ErrProvider,
	KindInfeasible:        ErrInfeasible,
	KindCancelled:         ErrCancelled,
}

func (k ErrorKind) String() string {
	if s, ok := kindSentinels[k]; ok {
		return s.Error()
	}
	return "unknown error"
}

// PlanError is the error type returned by the planning pipeline.
// errors.Is matches both the kind sentinel and the wrapped cause.
type PlanError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *PlanError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *PlanError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of the outermost PlanError in err's chain.
func KindOf(err error) ErrorKind {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

func InvalidParameters(op, format string, args ...any) error {
	return &PlanError{Kind: KindInvalidParameters, Op: op, Err: fmt.Errorf(format, args...)}
}

func NoCandidates(op, format string, args ...any) error {
	return &PlanError{Kind: KindNoCandidatesFound, Op: op, Err: fmt.Errorf(format, args...)}
}

func Infeasible(op, format string, args ...any) error {
	return &PlanError{Kind: KindInfeasible, Op: op, Err: fmt.Errorf(format, args...)}
}

func Cancelled(op string, err error) error {
	return &PlanError{Kind: KindCancelled, Op: op, Err: err}
}

// StorageFailure classifies a store or cache error. Existing PlanErrors pass
// through unchanged and context errors become Cancelled.
func StorageFailure(op string, err error) error {
	return classify(KindStorage, op, err)
}

// ProviderFailure classifies a route provider error the same way.
func ProviderFailure(op string, err error) error {
	return classify(KindProvider, op, err)
}

func classify(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PlanError
	if errors.As(err, &pe) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = KindCancelled
	}
	return &PlanError{Kind: kind, Op: op, Err: err}
}
