package rpn

import (
	"github.com/jcorbin/gorpn/internal/panicerr"
)

// New constructs a VM with an empty stack and the standard native library
// pre-registered.  The integer precision option is fixed for the VM's
// whole lifetime; everything else about the VM is mutable only through
// execution and Register.
func New(opts ...VMOption) *VM {
	vm := &VM{dict: make(map[string]definition)}
	defaultOptions.apply(vm)
	VMOptions(opts...).apply(vm)
	vm.installBuiltins()
	return vm
}

// WithPrecision selects the VM's integer domain: Fixed64 (the default)
// or Arbitrary.
func WithPrecision(p Precision) VMOption { return precisionOption(p) }

// WithCallDepth bounds nested block invocation.  Exceeding the limit
// reports ErrCallDepth instead of exhausting the host's call stack;
// non-positive limits are ignored.
func WithCallDepth(limit int) VMOption { return depthOption(limit) }

// WithLogf routes execution tracing through the given formatting
// function, one line per evaluated form.
func WithLogf(logfn func(mess string, args ...interface{})) VMOption {
	return logfnOption(logfn)
}

// Run parses and executes one chunk of source against the VM's stack and
// dictionary.  A chunk must be syntactically complete (balanced braces);
// state persists across calls, so a front end may feed a session line by
// line.  A failed Run leaves the stack as it was at the failure point --
// no rollback -- but never corrupts the VM: further Runs behave normally.
// A panic inside a native function is contained and reported as an error.
func (vm *VM) Run(source string) error {
	b, err := vm.Compile(source)
	if err != nil {
		return err
	}
	return panicerr.Recover("vm", func() error {
		return vm.runBlock(b)
	})
}
