// Package typedmock is the runtime companion of the typedmock generator.
// Generated mock files compile against this package: it provides the
// call-tracking capability interface, a concrete thread-safe core, typed
// wrapped-method descriptors, and assertion helpers.
package typedmock

import (
	"fmt"
	"sync"
)

// Call records one invocation of a mocked member.
type Call struct {
	Method string
	Args   []any
}

// Caller is the minimal capability a mock core must provide: record calls,
// hand back configured results, and expose the call history. The generated
// wrappers hold a Caller instead of intercepting attribute access, so the
// full mocking surface is explicit and swappable.
type Caller interface {
	// Call records an invocation of method and returns the configured results.
	Call(method string, args ...any) []any
	// SetReturn configures the values every subsequent call returns.
	SetReturn(method string, values ...any)
	// SetError configures a non-nil error appended to every call's results.
	SetError(method string, err error)
	// SetSequence configures per-call return values consumed in order; the
	// last entry repeats once the sequence is exhausted.
	SetSequence(method string, sequence ...[]any)
	// Calls returns the recorded history for method, oldest first.
	Calls(method string) []Call
	// CallCount returns how many times method was invoked.
	CallCount(method string) int
	// Reset discards all recorded calls and configured behavior.
	Reset()
}

type methodBehavior struct {
	returns  []any
	err      error
	sequence [][]any
	consumed int
}

// Core is the default Caller implementation. The zero value is not usable;
// create one with NewCore.
type Core struct {
	mu        sync.Mutex
	behaviors map[string]*methodBehavior
	history   []Call
}

// NewCore creates an empty call-tracking core.
func NewCore() *Core {
	return &Core{behaviors: make(map[string]*methodBehavior)}
}

// Call records the invocation and returns the configured results: the next
// sequence entry if a sequence is set, otherwise the fixed return values,
// with any configured error appended.
func (c *Core) Call(method string, args ...any) []any {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, Call{Method: method, Args: args})

	behavior := c.behaviors[method]
	if behavior == nil {
		return nil
	}

	var results []any
	if len(behavior.sequence) > 0 {
		idx := behavior.consumed
		if idx >= len(behavior.sequence) {
			idx = len(behavior.sequence) - 1
		}
		behavior.consumed++
		results = append(results, behavior.sequence[idx]...)
	} else {
		results = append(results, behavior.returns...)
	}
	if behavior.err != nil {
		results = append(results, behavior.err)
	}
	return results
}

// SetReturn configures fixed return values for method.
func (c *Core) SetReturn(method string, values ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.behavior(method).returns = values
}

// SetError configures an error appended to method's results.
func (c *Core) SetError(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.behavior(method).err = err
}

// SetSequence configures sequential per-call results for method.
func (c *Core) SetSequence(method string, sequence ...[]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.behavior(method)
	b.sequence = sequence
	b.consumed = 0
}

// Calls returns the recorded history for method.
func (c *Core) Calls(method string) []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	var calls []Call
	for _, call := range c.history {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// CallCount returns how many times method was invoked.
func (c *Core) CallCount(method string) int {
	return len(c.Calls(method))
}

// Reset discards all history and behavior.
func (c *Core) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.behaviors = make(map[string]*methodBehavior)
	c.history = nil
}

func (c *Core) behavior(method string) *methodBehavior {
	b := c.behaviors[method]
	if b == nil {
		b = &methodBehavior{}
		c.behaviors[method] = b
	}
	return b
}

// TestingT is the subset of *testing.T the assertion helpers need.
type TestingT interface {
	Errorf(format string, args ...any)
	Helper()
}

// AssertCalled fails the test when method was never invoked.
func AssertCalled(t TestingT, caller Caller, method string) bool {
	t.Helper()
	if caller.CallCount(method) == 0 {
		t.Errorf("expected %s to have been called", method)
		return false
	}
	return true
}

// AssertNotCalled fails the test when method was invoked.
func AssertNotCalled(t TestingT, caller Caller, method string) bool {
	t.Helper()
	if n := caller.CallCount(method); n > 0 {
		t.Errorf("expected %s not to have been called, was called %d times", method, n)
		return false
	}
	return true
}

// AssertCalledWith fails the test when no recorded call to method carried
// exactly the given arguments.
func AssertCalledWith(t TestingT, caller Caller, method string, args ...any) bool {
	t.Helper()
	for _, call := range caller.Calls(method) {
		if argsEqual(call.Args, args) {
			return true
		}
	}
	t.Errorf("no call to %s matched arguments %v", method, args)
	return false
}

func argsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if fmt.Sprintf("%#v", a[i]) != fmt.Sprintf("%#v", b[i]) {
			return false
		}
	}
	return true
}
