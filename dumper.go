package rpn

import (
	"fmt"
	"io"
	"sort"
)

// Dump writes a human-readable snapshot of VM state: the stack from top
// to bottom, then the dictionary in name order.  Front ends expose it as
// a debugging word; tests print it when an expectation fails.
func (vm *VM) Dump(out io.Writer) {
	dump := vmDumper{vm: vm, out: out}
	dump.dump()
}

type vmDumper struct {
	vm  *VM
	out io.Writer
}

func (dump vmDumper) dump() {
	dump.dumpStack()
	dump.dumpDict()
}

func (dump *vmDumper) dumpStack() {
	fmt.Fprintf(dump.out, "# Stack (%v)\n", len(dump.vm.stack))
	for i := len(dump.vm.stack) - 1; i >= 0; i-- {
		it := dump.vm.stack[i]
		fmt.Fprintf(dump.out, "  %v: %v %v\n", len(dump.vm.stack)-i, it.kind, it)
	}
}

func (dump *vmDumper) dumpDict() {
	names := dump.scanNames()
	fmt.Fprintf(dump.out, "# Dictionary (%v)\n", len(names))
	for _, name := range names {
		def := dump.vm.dict[name]
		if def.native != nil {
			fmt.Fprintf(dump.out, "  %v: <native>\n", name)
		} else {
			fmt.Fprintf(dump.out, "  %v: %v\n", name, def.block)
		}
	}
}

func (dump *vmDumper) scanNames() []string {
	names := make([]string, 0, len(dump.vm.dict))
	for name := range dump.vm.dict {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
