// Command gorpn runs stack programs from files, or interactively when
// given no arguments.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	rpn "github.com/jcorbin/gorpn"
	"github.com/jcorbin/gorpn/internal/logio"
)

func main() {
	var (
		trace     bool
		precision string
		depth     int
	)
	flag.BoolVar(&trace, "trace", false, "enable execution trace logging")
	flag.StringVar(&precision, "precision", "64", "integer precision [64|big]")
	flag.IntVar(&depth, "depth", 0, "override the call depth limit")
	flag.Parse()

	var logg logio.Logger
	logg.SetOutput(os.Stderr)

	opts := []rpn.VMOption{rpn.WithCallDepth(depth)}
	switch precision {
	case "64":
		opts = append(opts, rpn.WithPrecision(rpn.Fixed64))
	case "big":
		opts = append(opts, rpn.WithPrecision(rpn.Arbitrary))
	default:
		logg.Errorf("invalid -precision %q, want 64 or big", precision)
		os.Exit(logg.ExitCode())
	}
	if trace {
		opts = append(opts, rpn.WithLogf(log.Printf))
	}

	vm := rpn.New(opts...)
	hostWords(vm, os.Stdout)

	if flag.NArg() > 0 {
		runFiles(vm, &logg, flag.Args())
		os.Exit(logg.ExitCode())
	}
	if err := repl(vm); err != nil {
		logg.ErrorIf(err)
	}
	os.Exit(logg.ExitCode())
}

// hostWords registers the command's own natives on top of the standard
// library: print pops and prints the top item, dump writes a full VM
// state snapshot.
func hostWords(vm *rpn.VM, out io.Writer) {
	vm.Register("print", func(vm *rpn.VM) error {
		it, err := vm.Pop()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, it)
		return err
	})
	vm.Register("dump", func(vm *rpn.VM) error {
		vm.Dump(out)
		return nil
	})
}

// runFiles executes each named program in order on the shared vm, so
// earlier files may define words for later ones.  Every failure is
// logged, none aborts the remaining files.
func runFiles(vm *rpn.VM, logg *logio.Logger, names []string) {
	for _, name := range names {
		src, err := ioutil.ReadFile(name)
		if err != nil {
			logg.ErrorIf(err)
			continue
		}
		if err := vm.Run(string(src)); err != nil {
			logg.Errorf("%v: %+v", name, err)
			continue
		}
		fmt.Printf("%v: %v\n", name, stackLine(vm))
	}
}

func repl(vm *rpn.VM) error {
	rl, err := readline.New("gorpn> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Println("Welcome to gorpn, quit with <ctrl>D")

	var pending string
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if pending != "" {
			line = pending + "\n" + line
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := vm.Run(line); err != nil {
			if needsMore(err) {
				pending = line
				rl.SetPrompt("   ... ")
				continue
			}
			pterm.Error.Println(err.Error())
		} else {
			pterm.Info.Println(stackLine(vm))
		}
		pending = ""
		rl.SetPrompt("gorpn> ")
	}
	return nil
}

// needsMore reports whether err means the input so far is a syntactically
// incomplete chunk, so the REPL should read another line rather than
// report a failure.
func needsMore(err error) bool {
	return errors.Is(err, rpn.ErrUnclosedBlock) ||
		errors.Is(err, rpn.ErrUnclosedString) ||
		errors.Is(err, rpn.ErrUnclosedComment)
}

func stackLine(vm *rpn.VM) string {
	var sb strings.Builder
	sb.WriteString("stack:")
	for _, it := range vm.Stack() {
		sb.WriteByte(' ')
		sb.WriteString(it.String())
	}
	return sb.String()
}
