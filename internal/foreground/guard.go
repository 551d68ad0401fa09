// Package foreground enforces the single coordinating-goroutine contract.
//
// Components synchronized with a host shell mutate their state without locks
// because every entry point is required to run on one goroutine. A Guard
// makes that contract checkable: in strict mode it pins itself to the first
// goroutine that touches it and fails fast on any call from another one.
package foreground

import (
	"bytes"
	"os"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/grovetools/hostsync/errors"
)

// Guard pins a component to its coordinating goroutine.
//
// The zero strictness is "off": checks cost one atomic load and nothing else.
// Strict mode is enabled via HOSTSYNC_THREAD_CHECKS=1 or SetStrict, typically
// wired from the thread_checks config key.
type Guard struct {
	component string
	strict    atomic.Bool
	gid       atomic.Uint64 // 0 = not yet bound
}

// NewGuard creates a guard for the named component. Strictness defaults to
// the HOSTSYNC_THREAD_CHECKS environment variable.
func NewGuard(component string) *Guard {
	g := &Guard{component: component}
	g.strict.Store(os.Getenv("HOSTSYNC_THREAD_CHECKS") == "1")
	return g
}

// SetStrict toggles fail-fast checking. Call before the component is used.
func (g *Guard) SetStrict(on bool) {
	g.strict.Store(on)
}

// Bind pins the guard to the current goroutine. Optional; the first Check
// binds implicitly.
func (g *Guard) Bind() {
	if !g.strict.Load() {
		return
	}
	g.gid.CompareAndSwap(0, goroutineID())
}

// Check asserts the caller runs on the coordinating goroutine. The first
// checked call binds the guard; later calls from any other goroutine panic
// with a structured WRONG_THREAD error.
func (g *Guard) Check() {
	if !g.strict.Load() {
		return
	}
	current := goroutineID()
	if g.gid.CompareAndSwap(0, current) {
		return
	}
	if bound := g.gid.Load(); bound != current {
		panic(errors.WrongThread(g.component, bound, current))
	}
}

// goroutineID parses the current goroutine's id out of the stack header
// ("goroutine 123 [running]:"). Debug-only plumbing; never used for logic.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
