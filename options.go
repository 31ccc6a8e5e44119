package rpn

// VMOption configures a VM at construction.
type VMOption interface{ apply(vm *VM) }

// VMOptions combines options into one; nil entries are skipped.
func VMOptions(opts ...VMOption) VMOption { return optionList(opts) }

type optionList []VMOption

func (os optionList) apply(vm *VM) {
	for _, o := range os {
		if o != nil {
			o.apply(vm)
		}
	}
}

const defaultCallDepth = 4096

var defaultOptions = VMOptions(
	precisionOption(Fixed64),
	depthOption(defaultCallDepth),
)

type precisionOption Precision
type depthOption int
type logfnOption func(mess string, args ...interface{})

func (p precisionOption) apply(vm *VM) { vm.prec = Precision(p) }

func (d depthOption) apply(vm *VM) {
	if d > 0 {
		vm.depthLimit = int(d)
	}
}

func (f logfnOption) apply(vm *VM) { vm.logfn = f }
