package store

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spicelab/spice-runtime/vector"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "runs", "archive.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func sampleTable() *vector.Table {
	tbl := vector.NewTable()
	tbl.SetColumn("time", []float64{0, 1e-6, 2e-6})
	tbl.SetColumn("v(n2)", []float64{0.5, 0.5, 0.5})
	tbl.SetColumn("i(vdd)", []float64{-1e-3, -1e-3, -1e-3})
	return tbl
}

func TestArchive_SaveAndGetRun(t *testing.T) {
	a := openTestArchive(t)

	rec := RecordFromTable("tran1", sampleTable())
	if err := a.SaveRun("divider", rec); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, ok := a.GetRun("divider")
	if !ok {
		t.Fatal("GetRun: record missing")
	}
	if got.Plot != "tran1" || got.SavedAt.IsZero() {
		t.Fatalf("record = %+v", got)
	}

	tbl := got.Table()
	want := []string{"time", "v(n2)", "i(vdd)"}
	if !reflect.DeepEqual(tbl.Columns(), want) {
		t.Fatalf("Columns = %v, want %v", tbl.Columns(), want)
	}
	data, _ := tbl.Column("v(n2)")
	if !reflect.DeepEqual(data, []float64{0.5, 0.5, 0.5}) {
		t.Fatalf("Column(v(n2)) = %v", data)
	}
}

func TestArchive_GetRunMissing(t *testing.T) {
	a := openTestArchive(t)

	if _, ok := a.GetRun("nope"); ok {
		t.Fatal("GetRun returned a record for a missing name")
	}
}

func TestArchive_SaveReplaces(t *testing.T) {
	a := openTestArchive(t)

	first := RunRecord{Plot: "op1", Columns: []Column{{Name: "v(n1)", Data: []float64{1}}}}
	if err := a.SaveRun("run", first); err != nil {
		t.Fatal(err)
	}
	second := RunRecord{Plot: "tran1", Columns: []Column{{Name: "time", Data: []float64{0, 1}}}}
	if err := a.SaveRun("run", second); err != nil {
		t.Fatal(err)
	}

	got, ok := a.GetRun("run")
	if !ok || got.Plot != "tran1" || len(got.Columns) != 1 || got.Columns[0].Name != "time" {
		t.Fatalf("record = %+v, %t", got, ok)
	}
}

func TestArchive_ListAndDelete(t *testing.T) {
	a := openTestArchive(t)

	for _, name := range []string{"beta", "alpha", "gamma"} {
		if err := a.SaveRun(name, RunRecord{Plot: "p"}); err != nil {
			t.Fatal(err)
		}
	}

	names, err := a.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"alpha", "beta", "gamma"}) {
		t.Fatalf("ListRuns = %v", names)
	}

	if err := a.DeleteRun("beta"); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	names, err = a.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"alpha", "gamma"}) {
		t.Fatalf("ListRuns after delete = %v", names)
	}

	if err := a.DeleteRun("missing"); err != nil {
		t.Fatalf("DeleteRun on missing name: %v", err)
	}
}

func TestArchive_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	a, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.SaveRun("kept", RecordFromTable("tran1", sampleTable())); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	got, ok := b.GetRun("kept")
	if !ok || got.Plot != "tran1" || len(got.Columns) != 3 {
		t.Fatalf("record after reopen = %+v, %t", got, ok)
	}
}
