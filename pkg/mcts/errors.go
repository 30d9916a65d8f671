package mcts

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ErrorKind is the §7 error taxonomy.
type ErrorKind int

const (
	// KindConfiguration: invalid config (zero threads, zero max-nodes,
	// non-positive exploration). Raised at construction; fatal to the
	// worker that raised it.
	KindConfiguration ErrorKind = iota
	// KindBusy: StartSearch while a search is already in flight.
	KindBusy
	// KindGameContract: apply/playout violated the Game contract.
	KindGameContract
	// KindInternal: an invariant was violated (e.g. negative virtual
	// loss after drain). The engine is considered poisoned afterward.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "Configuration"
	case KindBusy:
		return "Busy"
	case KindGameContract:
		return "GameContract"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// SearchError is the single error value a consumer sees per failed search
// (§7 "User-visible failure behavior"). Detail carries the pkg/errors-
// wrapped cause, preserving a stack trace for the Configuration/
// GameContract/Internal kinds that are expected to be logged upstream.
type SearchError struct {
	Kind   ErrorKind
	Detail error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("mcts: %s: %v", e.Kind, e.Detail)
}

func (e *SearchError) Unwrap() error { return e.Detail }

func newConfigError(msg string, cause error) *SearchError {
	return &SearchError{Kind: KindConfiguration, Detail: errors.Wrap(cause, msg)}
}

func newBusyError() *SearchError {
	return &SearchError{Kind: KindBusy, Detail: errors.New("a search is already in flight")}
}

func newGameContractError(msg string) *SearchError {
	return &SearchError{Kind: KindGameContract, Detail: errors.New(msg)}
}

func newInternalError(msg string) *SearchError {
	return &SearchError{Kind: KindInternal, Detail: errors.New(msg)}
}

// combineIterationErrors merges errors independently raised by more than
// one iteration goroutine during drain into a single reported error,
// preferring KindInternal over KindGameContract if both occurred.
func combineIterationErrors(errs []*SearchError) *SearchError {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var merged *multierror.Error
	kind := errs[0].Kind
	for _, e := range errs {
		merged = multierror.Append(merged, e.Detail)
		if e.Kind == KindInternal {
			kind = KindInternal
		}
	}
	return &SearchError{Kind: kind, Detail: merged.ErrorOrNil()}
}
