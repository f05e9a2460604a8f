package evaluator

import (
	"io"
	"os"
	"time"

	"github.com/thomasrohde/lispy/pkg/ast"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart  TraceEventType = "run_start"
	TraceRunEnd    TraceEventType = "run_end"
	TraceFormStart TraceEventType = "form_start"
	TraceFormEnd   TraceEventType = "form_end"
	TraceCallStart TraceEventType = "call_start"
	TraceCallEnd   TraceEventType = "call_end"
	TraceLoadStart TraceEventType = "load_start"
	TraceLoadEnd   TraceEventType = "load_end"
	TraceError     TraceEventType = "error"
)

// TraceEvent represents a single trace event emitted during evaluation.
type TraceEvent struct {
	Timestamp string         `json:"ts"`
	RunID     string         `json:"runId"`
	Event     TraceEventType `json:"event"`
	Span      *ast.Span      `json:"span,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// SourceLoader reads the text of a source file named by a program.
type SourceLoader interface {
	Load(path string) (string, error)
}

// Options configures an Evaluator.
type Options struct {
	// Stdout receives the output of print and of errors reported by load.
	// Defaults to os.Stdout.
	Stdout io.Writer
	// Loader resolves paths given to load. Without one, load always fails.
	Loader SourceLoader
	Trace  func(event TraceEvent)
	RunID  string
}

// Evaluator reduces expression values in an environment. It is not safe for
// concurrent use.
type Evaluator struct {
	opts  Options
	depth int
}

// New creates an Evaluator.
func New(opts Options) *Evaluator {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Evaluator{opts: opts}
}

// Stdout returns the writer used for program output.
func (ev *Evaluator) Stdout() io.Writer {
	return ev.opts.Stdout
}

// Loader returns the configured source loader, which may be nil.
func (ev *Evaluator) Loader() SourceLoader {
	return ev.opts.Loader
}

// Tracing reports whether a trace callback is installed.
func (ev *Evaluator) Tracing() bool {
	return ev.opts.Trace != nil
}

// Emit sends a trace event if tracing is enabled.
func (ev *Evaluator) Emit(event TraceEventType, span *ast.Span, data map[string]any) {
	if ev.opts.Trace == nil {
		return
	}
	ev.opts.Trace(TraceEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		RunID:     ev.opts.RunID,
		Event:     event,
		Span:      span,
		Data:      data,
	})
}

// Eval evaluates v in env. Symbols are looked up, S-expressions are reduced
// and every other value evaluates to itself. v is consumed: an S-expression
// is evaluated in place.
func (ev *Evaluator) Eval(env *Env, v Value) Value {
	switch val := v.(type) {
	case Symbol:
		return env.Lookup(val.Name)
	case *SExpr:
		return ev.evalSExpr(env, val)
	default:
		return v
	}
}

func (ev *Evaluator) evalSExpr(env *Env, s *SExpr) Value {
	for i, c := range s.Cells {
		s.Cells[i] = ev.Eval(env, c)
	}
	for _, c := range s.Cells {
		if e, ok := c.(Error); ok {
			return e
		}
	}

	switch len(s.Cells) {
	case 0:
		return s
	case 1:
		return s.Cells[0]
	}

	head := s.Cells[0]
	if sym, ok := head.(Symbol); ok {
		head = env.Lookup(sym.Name)
		if IsError(head) {
			return head
		}
	}
	if !IsFunction(head) {
		return ErrNotFunction(head)
	}

	args := make([]Value, len(s.Cells)-1)
	copy(args, s.Cells[1:])
	return ev.Call(env, head, args)
}
