// Command lispy runs Lispy programs and the interactive REPL.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thomasrohde/lispy/pkg/diagnostics"
	"github.com/thomasrohde/lispy/pkg/evaluator"
	"github.com/thomasrohde/lispy/pkg/formatter"
	"github.com/thomasrohde/lispy/pkg/help"
	"github.com/thomasrohde/lispy/pkg/loader"
	"github.com/thomasrohde/lispy/pkg/runtime"
)

const usage = `usage: lispy [--trace <out.ndjson>] [file...]
       lispy --check [--pretty] <file>...
       lispy --fmt [--write] <file>...
       lispy --summary [--text] <trace.ndjson>
       lispy --help [topic]`

type mode int

const (
	modeRun mode = iota
	modeCheck
	modeFmt
	modeSummary
	modeHelp
)

type options struct {
	mode   mode
	files  []string
	trace  string
	pretty bool
	write  bool
	text   bool
	topic  string
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}
	setMode := func(m mode, flag string) error {
		if opts.mode != modeRun {
			return fmt.Errorf("%s cannot be combined with another command flag", flag)
		}
		opts.mode = m
		return nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		var err error
		switch arg {
		case "--check":
			err = setMode(modeCheck, arg)
		case "--fmt":
			err = setMode(modeFmt, arg)
		case "--summary":
			err = setMode(modeSummary, arg)
		case "--help", "-h":
			err = setMode(modeHelp, arg)
		case "--trace":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--trace requires an output path")
			}
			i++
			opts.trace = args[i]
		case "--pretty":
			opts.pretty = true
		case "--write":
			opts.write = true
		case "--text":
			opts.text = true
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			opts.files = append(opts.files, arg)
		}
		if err != nil {
			return nil, err
		}
	}

	switch opts.mode {
	case modeHelp:
		if len(opts.files) > 1 {
			return nil, fmt.Errorf("--help takes at most one topic")
		}
		if len(opts.files) == 1 {
			opts.topic = opts.files[0]
			opts.files = nil
		}
	case modeCheck, modeFmt:
		if len(opts.files) == 0 {
			return nil, fmt.Errorf("no input files")
		}
	case modeSummary:
		if len(opts.files) != 1 {
			return nil, fmt.Errorf("--summary takes exactly one trace file")
		}
	}
	if opts.trace != "" && opts.mode != modeRun {
		return nil, fmt.Errorf("--trace only applies when running programs")
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "lispy: %s\n%s\n", err, usage)
		os.Exit(1)
	}

	switch opts.mode {
	case modeCheck:
		os.Exit(cmdCheck(opts))
	case modeFmt:
		os.Exit(cmdFmt(opts))
	case modeSummary:
		os.Exit(cmdSummary(opts))
	case modeHelp:
		os.Exit(cmdHelp(opts))
	default:
		os.Exit(cmdRun(opts))
	}
}

// cmdRun loads each file, or starts the REPL when none is given. Failing
// forms are reported but never change the exit code.
func cmdRun(opts *options) int {
	rtOpts := []runtime.Option{
		runtime.WithLoader(loader.FileLoader{}),
		runtime.WithRunID(newRunID()),
	}

	if opts.trace != "" {
		tw, err := createTraceWriter(opts.trace)
		if err != nil {
			diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot create trace file: %s", opts.trace), nil, "")
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, true))
			return 1
		}
		defer func() {
			if err := tw.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "error writing trace: %s\n", err)
			}
		}()
		rtOpts = append(rtOpts, runtime.WithTrace(tw.Emit))
	}

	rt := runtime.New(rtOpts...)

	if len(opts.files) == 0 {
		return repl(rt)
	}
	for _, file := range opts.files {
		if v := rt.LoadFile(file); evaluator.IsError(v) {
			fmt.Println(formatter.Format(v))
		}
	}
	return 0
}

func cmdCheck(opts *options) int {
	rt := runtime.New()
	status := 0
	for _, file := range opts.files {
		source, filename, code := readSource(file, opts.pretty)
		if code != 0 {
			status = code
			continue
		}
		diags := rt.Check(source, filename)
		if len(diags) > 0 {
			fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, opts.pretty))
			status = 2
			continue
		}
		if opts.pretty {
			fmt.Printf("%s: no errors found.\n", filename)
		} else {
			fmt.Println("[]")
		}
	}
	return status
}

func cmdFmt(opts *options) int {
	rt := runtime.New()
	status := 0
	for _, file := range opts.files {
		source, filename, code := readSource(file, true)
		if code != 0 {
			status = code
			continue
		}

		formatted, err := rt.Format(source, filename)
		if err != nil {
			if diagErr, ok := err.(*runtime.DiagnosticError); ok {
				fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diagErr.Diagnostics, true))
			} else {
				fmt.Fprintln(os.Stderr, err.Error())
			}
			status = 2
			continue
		}

		if opts.write && file != "-" {
			if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "error writing file: %s\n", err)
				status = 1
			}
			continue
		}
		fmt.Print(formatted)
	}
	return status
}

func cmdHelp(opts *options) int {
	if opts.topic == "" {
		fmt.Print(help.QUICKREF)
		return 0
	}
	_, content, err := help.MatchTopic(opts.topic)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(content)
	return 0
}

func readSource(file string, pretty bool) (string, string, int) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading stdin: %s\n", err)
			return "", "", 1
		}
		return string(data), "<stdin>", 0
	}

	source, err := os.ReadFile(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{diag}, pretty))
		return "", "", 1
	}
	return string(source), file, 0
}
