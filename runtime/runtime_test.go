package runtime

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/spicelab/spice-runtime/engine"
	"github.com/spicelab/spice-runtime/engine/enginetest"
)

// newScriptedRun builds a fake whose "run" command replays a small
// transient analysis: init payload, three data points, then statistics.
func newScriptedRun() *enginetest.Fake {
	fake := enginetest.New()
	fake.ScriptInit("run", engine.PlotInfo{
		Name:  "tran1",
		Title: "divider",
		Type:  "tran",
		Vectors: []engine.VectorMeta{
			{Number: 0, Name: "time", IsReal: true},
			{Number: 1, Name: "v(n2)", IsReal: true},
		},
	})
	fake.ScriptSteps("run",
		engine.StepValues{Index: 0, Values: []engine.StepValue{{Name: "time", Real: 0}}},
		engine.StepValues{Index: 1, Values: []engine.StepValue{{Name: "time", Real: 1e-6}}},
		engine.StepValues{Index: 2, Values: []engine.StepValue{{Name: "time", Real: 2e-6}}},
	)
	fake.ScriptStats("run", "tran: 50.0%", "tran: 100.0%")
	return fake
}

func TestRuntime_StepCountAndHooks(t *testing.T) {
	var gotSteps []engine.StepValues
	var gotInit []engine.PlotInfo

	fake := newScriptedRun()
	sink := &recordSink{}
	rt, err := Open(
		WithEngine(fake.Open),
		WithMessageSink(sink),
		WithOnStep(func(v engine.StepValues) { gotSteps = append(gotSteps, v) }),
		WithOnInitData(func(info engine.PlotInfo) { gotInit = append(gotInit, info) }),
	)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := rt.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rt.StepCount() != 3 {
		t.Fatalf("StepCount = %d, want 3", rt.StepCount())
	}
	if len(gotSteps) != 3 || gotSteps[2].Index != 2 {
		t.Fatalf("step hook saw %v", gotSteps)
	}
	if len(gotInit) != 1 || gotInit[0].Name != "tran1" {
		t.Fatalf("init hook saw %v", gotInit)
	}

	var sawNotice bool
	for _, line := range sink.Lines() {
		if strings.Contains(line, "analysis tran1 (tran): 2 vectors") {
			sawNotice = true
		}
	}
	if !sawNotice {
		t.Fatalf("sink = %q, missing analysis notice", sink.Lines())
	}
}

func TestRuntime_CircuitRunQueryFlow(t *testing.T) {
	fake := enginetest.New()
	fake.ScriptInit("run", engine.PlotInfo{
		Name: "tran1",
		Type: "tran",
		Vectors: []engine.VectorMeta{
			{Number: 0, Name: "time", IsReal: true},
			{Number: 1, Name: "n1", IsReal: true},
			{Number: 2, Name: "n2", IsReal: true},
		},
	})
	fake.AddPlot("tran1")
	fake.SetVector("tran1", enginetest.Vector{Name: "time", Data: []float64{0, 1e-6, 2e-6}})
	fake.SetVector("tran1", enginetest.Vector{Name: "n1", Data: []float64{1, 1, 1}})
	fake.SetVector("tran1", enginetest.Vector{Name: "n2", Data: []float64{0.5, 0.5, 0.5}})

	sink := &recordSink{}
	rt, err := Open(WithEngine(fake.Open), WithMessageSink(sink))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	err = rt.Circuit("* divider", "R1 0 n1 10k", "R2 n1 n2 10k", ".end")
	if err != nil {
		t.Fatalf("Circuit: %v", err)
	}
	if err := rt.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	names, err := rt.Vectors("")
	if err != nil {
		t.Fatalf("Vectors: %v", err)
	}
	if !containsAll(strings.Join(names, " "), "tran1.n1", "tran1.n2") {
		t.Fatalf("Vectors = %v, want the divider nodes", names)
	}

	table, err := rt.Table("")
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	n1, ok1 := table.Column("n1")
	n2, ok2 := table.Column("n2")
	if !ok1 || !ok2 || len(n1) != len(n2) {
		t.Fatalf("columns n1/n2 = %v (%t), %v (%t)", n1, ok1, n2, ok2)
	}
}

func TestRuntime_ProgressThroughDispatch(t *testing.T) {
	fake := newScriptedRun()
	rend := &recordRenderer{}
	sink := &recordSink{}
	rt, err := Open(WithEngine(fake.Open), WithMessageSink(sink), WithProgress(rend))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := rt.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"start:tran", "set:50", "set:100", "done"}
	if len(rend.events) != len(want) {
		t.Fatalf("renderer events = %v, want %v", rend.events, want)
	}
	for i, ev := range want {
		if rend.events[i] != ev {
			t.Fatalf("renderer events = %v, want %v", rend.events, want)
		}
	}
}

func TestRuntime_SilentRunDropsStats(t *testing.T) {
	fake := newScriptedRun()
	rend := &recordRenderer{}
	sink := &recordSink{}
	rt, err := Open(WithEngine(fake.Open), WithMessageSink(sink), WithProgress(rend))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := rt.Silently(rt.Run); err != nil {
		t.Fatalf("Silently: %v", err)
	}
	if len(rend.events) != 0 {
		t.Fatalf("renderer saw %v under silence", rend.events)
	}
	if got := sink.Lines(); len(got) != 0 {
		t.Fatalf("sink saw %q under silence", got)
	}
	if rt.StepCount() != 3 {
		t.Fatalf("StepCount = %d, data must still be counted", rt.StepCount())
	}
}

func TestRuntime_HookPanicContained(t *testing.T) {
	fake := newScriptedRun()
	rt, err := Open(
		WithEngine(fake.Open),
		WithMessageSink(nil),
		WithOnStep(func(engine.StepValues) { panic("hook fault") }),
	)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := rt.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rt.StepCount() != 3 {
		t.Fatalf("StepCount = %d, want 3", rt.StepCount())
	}
}

func TestRuntime_SinkPanicContained(t *testing.T) {
	fake := enginetest.New()
	rt, err := Open(WithEngine(fake.Open), WithMessageSink(panicSink{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := rt.Command("echo hello"); err != nil {
		t.Fatalf("Command: %v", err)
	}
}

func TestRuntime_BackgroundState(t *testing.T) {
	rt, fake, sink := openFake(t)

	if rt.BackgroundRunning() {
		t.Fatal("background flag set before any callback")
	}
	fake.Callbacks.OnBGRunning(true)
	if !rt.BackgroundRunning() {
		t.Fatal("background flag not set")
	}
	fake.Callbacks.OnBGRunning(false)
	if rt.BackgroundRunning() {
		t.Fatal("background flag not cleared")
	}

	lines := sink.Lines()
	if len(lines) != 2 || lines[0] != "background run started" || lines[1] != "background run finished" {
		t.Fatalf("sink = %q", lines)
	}
}

func TestRuntime_OpenFailsWhenOpenerFails(t *testing.T) {
	wantErr := stderrors.New("no library")
	_, err := Open(WithEngine(func(*engine.Callbacks) (engine.SharedSpice, error) {
		return nil, wantErr
	}))
	if !stderrors.Is(err, wantErr) {
		t.Fatalf("Open = %v, want %v", err, wantErr)
	}
}

type panicSink struct{}

func (panicSink) WriteLine(string) { panic("sink fault") }
