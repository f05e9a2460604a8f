package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/thomasrohde/lispy/pkg/diagnostics"
	"github.com/thomasrohde/lispy/pkg/evaluator"
)

// traceWriter writes trace events as NDJSON, one event per line.
type traceWriter struct {
	f   *os.File
	w   *bufio.Writer
	enc *json.Encoder
	err error
}

func createTraceWriter(path string) (*traceWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriter(f)
	return &traceWriter{f: f, w: w, enc: json.NewEncoder(w)}, nil
}

// Emit writes one event. The first write error is kept and reported by Close.
func (t *traceWriter) Emit(ev evaluator.TraceEvent) {
	if t.err != nil {
		return
	}
	t.err = t.enc.Encode(ev)
}

func (t *traceWriter) Close() error {
	if err := t.w.Flush(); err != nil && t.err == nil {
		t.err = err
	}
	if err := t.f.Close(); err != nil && t.err == nil {
		t.err = err
	}
	return t.err
}

func newRunID() string {
	return fmt.Sprintf("run-%x", time.Now().UnixNano())
}

// TraceSummary aggregates an NDJSON trace.
type TraceSummary struct {
	RunID       string         `json:"runId"`
	TotalEvents int            `json:"totalEvents"`
	Forms       int            `json:"forms"`
	Calls       int            `json:"calls"`
	CallsByName map[string]int `json:"callsByName"`
	Loads       int            `json:"loads"`
	Errors      int            `json:"errors"`
	ErrorCodes  map[string]int `json:"errorCodes"`
	MaxDepth    int            `json:"maxDepth"`
	StartTime   string         `json:"startTime,omitempty"`
	EndTime     string         `json:"endTime,omitempty"`
	DurationMs  float64        `json:"durationMs"`
}

type traceEvent struct {
	Event string         `json:"event"`
	RunID string         `json:"runId"`
	TS    string         `json:"ts"`
	Data  map[string]any `json:"data,omitempty"`
}

func cmdSummary(opts *options) int {
	file := opts.files[0]
	f, err := os.Open(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), nil, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics([]diagnostics.Diagnostic{diag}, false))
		return 1
	}
	defer f.Close()

	summary := computeTraceSummary(f)
	if opts.text {
		printTraceSummaryText(os.Stdout, summary)
		return 0
	}
	b, _ := json.Marshal(summary)
	fmt.Println(string(b))
	return 0
}

func computeTraceSummary(r io.Reader) *TraceSummary {
	summary := &TraceSummary{
		CallsByName: make(map[string]int),
		ErrorCodes:  make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event traceEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}

		summary.TotalEvents++
		if summary.RunID == "" {
			summary.RunID = event.RunID
		}

		switch evaluator.TraceEventType(event.Event) {
		case evaluator.TraceRunStart:
			if summary.StartTime == "" {
				summary.StartTime = event.TS
			}
		case evaluator.TraceRunEnd:
			summary.EndTime = event.TS
		case evaluator.TraceFormStart:
			summary.Forms++
		case evaluator.TraceLoadStart:
			summary.Loads++
		case evaluator.TraceCallStart:
			summary.Calls++
			if name, ok := event.Data["fn"].(string); ok {
				summary.CallsByName[name]++
			}
			// JSON numbers decode as float64.
			if depth, ok := event.Data["depth"].(float64); ok && int(depth)+1 > summary.MaxDepth {
				summary.MaxDepth = int(depth) + 1
			}
		case evaluator.TraceError:
			summary.Errors++
			if code, ok := event.Data["code"].(string); ok {
				summary.ErrorCodes[code]++
			}
		}
	}

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := time.Parse(time.RFC3339Nano, summary.StartTime)
		end, err2 := time.Parse(time.RFC3339Nano, summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Milliseconds())
		}
	}

	return summary
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Events: %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Forms: %d\n", s.Forms)
	fmt.Fprintf(w, "Calls: %d (max depth %d)\n", s.Calls, s.MaxDepth)
	for _, name := range sortedKeys(s.CallsByName) {
		fmt.Fprintf(w, "  %s: %d\n", name, s.CallsByName[name])
	}
	if s.Loads > 0 {
		fmt.Fprintf(w, "Loads: %d\n", s.Loads)
	}
	fmt.Fprintf(w, "Errors: %d\n", s.Errors)
	for _, code := range sortedKeys(s.ErrorCodes) {
		fmt.Fprintf(w, "  %s: %d\n", code, s.ErrorCodes[code])
	}
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.0fms\n", s.DurationMs)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
