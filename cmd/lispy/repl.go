package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/thomasrohde/lispy/pkg/diagnostics"
	"github.com/thomasrohde/lispy/pkg/formatter"
	"github.com/thomasrohde/lispy/pkg/help"
	"github.com/thomasrohde/lispy/pkg/parser"
	"github.com/thomasrohde/lispy/pkg/runtime"
)

const (
	promptMain  = "lispy> "
	promptCont  = "   ... "
	historyFile = ".lispy_history"
	historyEnv  = "LISPY_HISTORY"
)

func historyPath() string {
	if p := os.Getenv(historyEnv); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func saveHistory(ln *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	_, _ = ln.WriteHistory(f)
	_ = f.Close()
}

// repl reads and evaluates input until end of input or Ctrl+C. Each entry is
// evaluated as one S-expression and its result printed, errors included.
func repl(rt *runtime.Runtime) int {
	fmt.Printf("Lispy Version %s\n", help.Version)
	fmt.Println("Press Ctrl+c to Exit")
	fmt.Println()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer saveHistory(ln, histPath)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		saveHistory(ln, histPath)
		ln.Close()
		os.Exit(130)
	}()

	for {
		code, ok := readForm(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		v, err := rt.EvalLine(code, "<stdin>")
		if err != nil {
			if diagErr, ok := err.(*runtime.DiagnosticError); ok {
				fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diagErr.Diagnostics, true))
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			continue
		}
		fmt.Println(formatter.Format(v))
	}
}

// readForm reads lines until they parse or fail for a reason other than an
// unclosed list. ok is false at end of input or when the prompt is aborted.
func readForm(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, diags := parser.Parse(src, "<stdin>"); parser.Incomplete(diags) {
			continue
		}
		return src, true
	}
}
