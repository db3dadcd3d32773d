package typedmock

import (
	"context"
	"reflect"
)

// WrappedMethod is the typed handle for one mocked member. The type
// parameter F is the member's func type; it exists purely so editors and
// the type checker surface the original signature, the runtime behavior is
// carried entirely by the Caller.
type WrappedMethod[F any] struct {
	caller Caller
	name   string
}

// WrapMethod binds a member name on a caller.
func WrapMethod[F any](caller Caller, name string) WrappedMethod[F] {
	return WrappedMethod[F]{caller: caller, name: name}
}

// Name returns the wrapped member's name.
func (w WrappedMethod[F]) Name() string { return w.name }

// Call records an invocation and returns the configured results.
func (w WrappedMethod[F]) Call(args ...any) []any {
	return w.caller.Call(w.name, args...)
}

// Returns configures the values every subsequent call yields.
func (w WrappedMethod[F]) Returns(values ...any) WrappedMethod[F] {
	w.caller.SetReturn(w.name, values...)
	return w
}

// Fails configures an error appended to every call's results.
func (w WrappedMethod[F]) Fails(err error) WrappedMethod[F] {
	w.caller.SetError(w.name, err)
	return w
}

// ReturnsSequence configures per-call results consumed in order.
func (w WrappedMethod[F]) ReturnsSequence(sequence ...[]any) WrappedMethod[F] {
	w.caller.SetSequence(w.name, sequence...)
	return w
}

// Calls returns the recorded history for the member.
func (w WrappedMethod[F]) Calls() []Call { return w.caller.Calls(w.name) }

// CallCount returns how many times the member was invoked.
func (w WrappedMethod[F]) CallCount() int { return w.caller.CallCount(w.name) }

// WrappedAsyncMethod is the handle for members invoked with a context.
type WrappedAsyncMethod[F any] struct {
	WrappedMethod[F]
}

// WrapAsyncMethod binds a context-taking member name on a caller.
func WrapAsyncMethod[F any](caller Caller, name string) WrappedAsyncMethod[F] {
	return WrappedAsyncMethod[F]{WrappedMethod[F]{caller: caller, name: name}}
}

// CallContext records an invocation unless ctx is already done, in which
// case the context error is returned as the sole result.
func (w WrappedAsyncMethod[F]) CallContext(ctx context.Context, args ...any) []any {
	select {
	case <-ctx.Done():
		return []any{ctx.Err()}
	default:
	}
	return w.caller.Call(w.name, append([]any{ctx}, args...)...)
}

// TypedMock pairs a caller with the mocked type so generated accessors can
// expose both the typed member surface and the original type identity.
type TypedMock[T any] struct {
	caller Caller
}

// NewTypedMock creates a typed mock over a fresh Core.
func NewTypedMock[T any]() *TypedMock[T] {
	return &TypedMock[T]{caller: NewCore()}
}

// NewTypedMockWith creates a typed mock over an existing caller.
func NewTypedMockWith[T any](caller Caller) *TypedMock[T] {
	return &TypedMock[T]{caller: caller}
}

// Caller exposes the underlying call-tracking core.
func (m *TypedMock[T]) Caller() Caller { return m.caller }

// TypedClass returns the reflect.Type of the mocked type. For interface
// type parameters this is the interface type itself.
func (m *TypedMock[T]) TypedClass() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
