package container

import (
	"fmt"
	"strings"
)

// Resolution failures carry a stable Code so the public ward package can
// translate them into the spec's error taxonomy (§7) without string
// matching on Error().
const (
	CodeUnregistered       = "unregistered"
	CodeCyclicDependency   = "cyclic_dependency"
	CodeLifecycleMismatch  = "lifecycle_mismatch"
	CodeAsyncRequired      = "async_required"
	CodeScopeRequired      = "scope_required"
	CodeScopeClosed        = "scope_closed"
	CodeConstructionFailed = "construction_failed"
	CodeInvalidDescriptor  = "invalid_descriptor"
)

type ResolveError struct {
	Code  string
	Key   string
	Chain []string
	Cause error
}

func (e *ResolveError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	if e.Key != "" {
		fmt.Fprintf(&b, " key=%s", e.Key)
	}
	if len(e.Chain) > 0 {
		fmt.Fprintf(&b, " chain=%s", strings.Join(e.Chain, " -> "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *ResolveError) Unwrap() error { return e.Cause }

func errUnregistered(key string) *ResolveError {
	return &ResolveError{Code: CodeUnregistered, Key: key}
}

func errCyclicDependency(chain []string) *ResolveError {
	return &ResolveError{Code: CodeCyclicDependency, Chain: chain}
}

func errLifecycleMismatch(key string, parent, dep string) *ResolveError {
	return &ResolveError{
		Code:  CodeLifecycleMismatch,
		Key:   key,
		Cause: fmt.Errorf("%s dependency cannot be captured by a %s service", dep, parent),
	}
}

func errAsyncRequired(key string) *ResolveError {
	return &ResolveError{Code: CodeAsyncRequired, Key: key}
}

func errScopeRequired(key string) *ResolveError {
	return &ResolveError{Code: CodeScopeRequired, Key: key}
}

func errScopeClosed(key string) *ResolveError {
	return &ResolveError{Code: CodeScopeClosed, Key: key}
}

func errConstructionFailed(key string, cause error) *ResolveError {
	return &ResolveError{Code: CodeConstructionFailed, Key: key, Cause: cause}
}

func errInvalidDescriptor(key string, cause error) *ResolveError {
	return &ResolveError{Code: CodeInvalidDescriptor, Key: key, Cause: cause}
}

// isStructuralCode reports whether code names a failure in the
// resolution algorithm itself (lifecycle rules, async gating, cycle or
// scope bookkeeping) rather than a provider's own construction logic.
// construct propagates these unwrapped so a caller's errors.As still
// lands on the original code instead of CodeConstructionFailed.
func isStructuralCode(code string) bool {
	switch code {
	case CodeLifecycleMismatch, CodeAsyncRequired, CodeCyclicDependency, CodeScopeRequired, CodeScopeClosed:
		return true
	}
	return false
}
