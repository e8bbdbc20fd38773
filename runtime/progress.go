package runtime

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// ProgressRenderer renders simulation progress. Start opens a cycle
// under the given label, Set reports the completed percentage in
// [0, 100], Done closes the cycle. Calls arrive from engine callbacks
// on the dispatching goroutine or the engine's background thread;
// implementations must not call back into the Runtime.
type ProgressRenderer interface {
	Start(label string)
	Set(percent float64)
	Done()
}

// statPattern matches the engine's percentage statistics lines, such as
// "tran: 4.2%". Anything else is an ordinary status line.
var statPattern = regexp.MustCompile(`(\w+):\s+([0-9]*\.?[0-9]*)%\s*$`)

// terminalPercent ends a tracking cycle. The engine rarely reports an
// exact 100.
const terminalPercent = 99.9

func parseStat(line string) (label string, percent float64, ok bool) {
	m := statPattern.FindStringSubmatch(line)
	if m == nil {
		return "", 0, false
	}
	percent, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return "", 0, false
	}
	return m[1], percent, true
}

// tracker is the progress state machine: Idle until a percentage line
// arrives, Tracking until a terminal percentage or a silenced cycle
// returns it to Idle. The rendered percentage never decreases within a
// cycle; anomalous reversals clamp to the running maximum.
//
// tracker state is only touched from the statistics callback, which the
// engine serializes, so it needs no locking.
type tracker struct {
	renderer ProgressRenderer
	route    func(line string)

	tracking bool
	value    float64
}

func newTracker(renderer ProgressRenderer, route func(string)) *tracker {
	return &tracker{renderer: renderer, route: route}
}

// observe consumes one statistics line. Lines that do not parse as a
// percentage flow through to the route untouched, whatever state the
// tracker is in; the renderer sees only percentage updates.
func (t *tracker) observe(line string) {
	if t.renderer == nil {
		t.route(line)
		return
	}
	label, pct, ok := parseStat(line)
	if !ok {
		t.route(line)
		return
	}
	if !t.tracking {
		t.tracking = true
		t.value = 0
		t.renderer.Start(label)
	}
	if pct > t.value {
		t.value = pct
	}
	if pct >= terminalPercent {
		t.renderer.Set(100)
		t.reset()
		return
	}
	t.renderer.Set(t.value)
}

// silence abandons the cycle in flight, if any. Statistics received
// under silent mode never reach the renderer or the route.
func (t *tracker) silence() {
	if !t.tracking {
		return
	}
	t.reset()
}

func (t *tracker) reset() {
	t.renderer.Done()
	t.tracking = false
	t.value = 0
}

// WriterRenderer renders progress as plain text lines, at most one per
// ten percentage points, for logs and non-terminal output.
type WriterRenderer struct {
	W io.Writer

	label string
	last  int
}

func (p *WriterRenderer) Start(label string) {
	p.label = label
	p.last = -1
	fmt.Fprintf(p.W, "%s: start\n", label)
}

func (p *WriterRenderer) Set(percent float64) {
	step := int(percent) / 10
	if step <= p.last {
		return
	}
	p.last = step
	fmt.Fprintf(p.W, "%s: %3.0f%%\n", p.label, percent)
}

func (p *WriterRenderer) Done() {
	fmt.Fprintf(p.W, "%s: done\n", p.label)
}
