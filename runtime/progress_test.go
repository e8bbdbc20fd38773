package runtime

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type recordRenderer struct {
	events []string
}

func (r *recordRenderer) Start(label string) {
	r.events = append(r.events, "start:"+label)
}

func (r *recordRenderer) Set(percent float64) {
	r.events = append(r.events, fmt.Sprintf("set:%g", percent))
}

func (r *recordRenderer) Done() {
	r.events = append(r.events, "done")
}

func TestParseStat(t *testing.T) {
	tests := []struct {
		line    string
		label   string
		percent float64
		ok      bool
	}{
		{"tran: 12.5%", "tran", 12.5, true},
		{"tran: 12%", "tran", 12, true},
		{"tran: .5%", "tran", 0.5, true},
		{"tran: 42.1% ", "tran", 42.1, true},
		{"in tran: 99.9%", "tran", 99.9, true},
		{"tran: %", "", 0, false},
		{"12.5%", "", 0, false},
		{"Reducing trtol to 7", "", 0, false},
		{"tran: 12.5% done extra", "", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			label, percent, ok := parseStat(tt.line)
			if ok != tt.ok || label != tt.label || percent != tt.percent {
				t.Fatalf("parseStat(%q) = %q, %g, %t; want %q, %g, %t",
					tt.line, label, percent, ok, tt.label, tt.percent, tt.ok)
			}
		})
	}
}

func TestTracker_CycleEvents(t *testing.T) {
	rend := &recordRenderer{}
	tr := newTracker(rend, func(string) { t.Fatal("unexpected route") })

	for _, line := range []string{"tran: 10.0%", "tran: 50.0%", "tran: 99.9%"} {
		tr.observe(line)
	}

	want := []string{"start:tran", "set:10", "set:50", "set:100", "done"}
	if !reflect.DeepEqual(rend.events, want) {
		t.Fatalf("events = %v, want %v", rend.events, want)
	}
	if tr.tracking {
		t.Fatal("tracker should be idle after terminal percentage")
	}
}

func TestTracker_FirstValueApplies(t *testing.T) {
	rend := &recordRenderer{}
	tr := newTracker(rend, nil)

	tr.observe("ac: 50.0%")

	want := []string{"start:ac", "set:50"}
	if !reflect.DeepEqual(rend.events, want) {
		t.Fatalf("events = %v, want %v", rend.events, want)
	}
}

func TestTracker_ClampsReversal(t *testing.T) {
	rend := &recordRenderer{}
	tr := newTracker(rend, nil)

	for _, line := range []string{"tran: 10.0%", "tran: 50.0%", "tran: 30.0%", "tran: 80.0%"} {
		tr.observe(line)
	}

	want := []string{"start:tran", "set:10", "set:50", "set:50", "set:80"}
	if !reflect.DeepEqual(rend.events, want) {
		t.Fatalf("events = %v, want %v", rend.events, want)
	}
}

func TestTracker_ImmediateTerminal(t *testing.T) {
	rend := &recordRenderer{}
	tr := newTracker(rend, nil)

	tr.observe("op: 100.0%")

	want := []string{"start:op", "set:100", "done"}
	if !reflect.DeepEqual(rend.events, want) {
		t.Fatalf("events = %v, want %v", rend.events, want)
	}
}

func TestTracker_NonPercentageRoutesThrough(t *testing.T) {
	rend := &recordRenderer{}
	var routed []string
	tr := newTracker(rend, func(line string) { routed = append(routed, line) })

	tr.observe("tran: 10.0%")
	tr.observe("Reducing trtol to 7")
	tr.observe("tran: 20.0%")

	if !reflect.DeepEqual(routed, []string{"Reducing trtol to 7"}) {
		t.Fatalf("routed = %v", routed)
	}
	want := []string{"start:tran", "set:10", "set:20"}
	if !reflect.DeepEqual(rend.events, want) {
		t.Fatalf("events = %v, want %v", rend.events, want)
	}
	if !tr.tracking {
		t.Fatal("a routed line must not end the cycle")
	}
}

func TestTracker_NilRendererRoutesEverything(t *testing.T) {
	var routed []string
	tr := newTracker(nil, func(line string) { routed = append(routed, line) })

	tr.observe("tran: 10.0%")
	tr.observe("no percent")

	want := []string{"tran: 10.0%", "no percent"}
	if !reflect.DeepEqual(routed, want) {
		t.Fatalf("routed = %v, want %v", routed, want)
	}
}

func TestTracker_SilenceAbandonsCycle(t *testing.T) {
	rend := &recordRenderer{}
	tr := newTracker(rend, nil)

	tr.silence()
	if len(rend.events) != 0 {
		t.Fatalf("idle silence produced events: %v", rend.events)
	}

	tr.observe("tran: 40.0%")
	tr.silence()

	want := []string{"start:tran", "set:40", "done"}
	if !reflect.DeepEqual(rend.events, want) {
		t.Fatalf("events = %v, want %v", rend.events, want)
	}
	if tr.tracking {
		t.Fatal("tracker should be idle after silence")
	}

	// A later cycle starts fresh.
	tr.observe("tran: 5.0%")
	if got := rend.events[len(rend.events)-2]; got != "start:tran" {
		t.Fatalf("restart event = %q", got)
	}
}

func TestWriterRenderer_StepsOutput(t *testing.T) {
	var buf strings.Builder
	p := &WriterRenderer{W: &buf}

	p.Start("tran")
	p.Set(3)
	p.Set(7)
	p.Set(42)
	p.Set(44)
	p.Set(100)
	p.Done()

	want := "tran: start\ntran:   3%\ntran:  42%\ntran: 100%\ntran: done\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}
