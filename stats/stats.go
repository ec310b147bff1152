// Package stats collects heap accounting counters and prints the one-time
// process-exit report. The allocator only increments counters through the
// Recorder hooks; formatting and emission live entirely here.
package stats

import (
	"fmt"
	"io"
	"os"
)

// Recorder holds the monotonically increasing heap counters. Counters are
// written once per event by the allocator and read only at report time.
type Recorder struct {
	Mallocs   uint64
	Frees     uint64
	Reuses    uint64
	Grows     uint64
	Splits    uint64
	Coalesces uint64
	Blocks    uint64
	Requested uint64
	MaxHeap   uint64
}

// Malloc records a successful allocation of requested (aligned) bytes.
func (r *Recorder) Malloc(requested uint32) {
	r.Mallocs++
	r.Requested += uint64(requested)
}

// Free records a release call.
func (r *Recorder) Free() {
	r.Frees++
}

// Reuse records an allocation satisfied from the directory instead of
// growing the heap.
func (r *Recorder) Reuse() {
	r.Reuses++
}

// Grow records a successful heap growth of payload bytes. A growth always
// creates exactly one block, so the block count and heap size advance
// together with it.
func (r *Recorder) Grow(payload uint32) {
	r.Grows++
	r.Blocks++
	r.MaxHeap += uint64(payload)
}

// Split records an oversized block being divided.
func (r *Recorder) Split() {
	r.Splits++
}

// Coalesce records one adjacent free pair being merged.
func (r *Recorder) Coalesce() {
	r.Coalesces++
}

// Report writes the fixed-format statistics report.
func (r *Recorder) Report(w io.Writer) {
	fmt.Fprintf(w, "\nHeap Management Statistics\n")
	fmt.Fprintf(w, "mallocs:\t%d\n", r.Mallocs)
	fmt.Fprintf(w, "frees:\t\t%d\n", r.Frees)
	fmt.Fprintf(w, "reuses:\t\t%d\n", r.Reuses)
	fmt.Fprintf(w, "grows:\t\t%d\n", r.Grows)
	fmt.Fprintf(w, "splits:\t\t%d\n", r.Splits)
	fmt.Fprintf(w, "coalesces:\t%d\n", r.Coalesces)
	fmt.Fprintf(w, "blocks:\t\t%d\n", r.Blocks)
	fmt.Fprintf(w, "requested:\t%d\n", r.Requested)
	fmt.Fprintf(w, "max heap:\t%d\n", r.MaxHeap)
}

// ReportOnExit registers a report to standard output with the exit-hook
// registry. Callers are expected to register at most once per Recorder.
func (r *Recorder) ReportOnExit() {
	OnExit(func() {
		r.Report(os.Stdout)
	})
}

var exitHooks []func()

// OnExit registers f to run when the process exits through Exit or when the
// program runs RunExitHooks before returning from main.
func OnExit(f func()) {
	exitHooks = append(exitHooks, f)
}

// RunExitHooks runs and clears all registered hooks.
func RunExitHooks() {
	hooks := exitHooks
	exitHooks = nil
	for _, f := range hooks {
		f()
	}
}

// Exit runs the registered hooks and terminates the process.
func Exit(code int) {
	RunExitHooks()
	os.Exit(code)
}
