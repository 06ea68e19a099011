package wave

import (
	"errors"
	"testing"
)

// buildClock returns a database holding one scalar "clk" with the
// transitions (0,0), (5,1), (10,0), (15,1).
func buildClock(t *testing.T) *Database {
	t.Helper()
	b := NewBuilder()
	if err := b.AddScalar("c1", "clk"); err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	steps := []struct {
		t int64
		v Value
	}{{0, V0}, {5, V1}, {10, V0}, {15, V1}}
	for _, s := range steps {
		if err := b.AppendScalar("c1", s.t, s.v); err != nil {
			t.Fatalf("AppendScalar(t=%d) failed: %v", s.t, err)
		}
	}
	db, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return db
}

// TestBuilderDeclareAndBuild verifies the full load lifecycle:
// declare signals, append transitions, build, query metadata.
func TestBuilderDeclareAndBuild(t *testing.T) {
	b := NewBuilder()
	if err := b.AddScalar("c1", "clk"); err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	if err := b.AddVector("b1", "bus", 4); err != nil {
		t.Fatalf("AddVector failed: %v", err)
	}
	if err := b.AppendScalar("c1", 0, V0); err != nil {
		t.Fatalf("AppendScalar failed: %v", err)
	}
	if err := b.AppendVector("b1", 3, Bits{V1, V0, V1, V0}); err != nil {
		t.Fatalf("AppendVector failed: %v", err)
	}
	if err := b.AppendScalar("c1", 12, V1); err != nil {
		t.Fatalf("AppendScalar failed: %v", err)
	}

	db, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	sigs := db.Signals()
	if len(sigs) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(sigs))
	}
	if sigs[0].ID != "c1" || sigs[1].ID != "b1" {
		t.Errorf("expected load order [c1 b1], got [%s %s]", sigs[0].ID, sigs[1].ID)
	}

	sig, ok := db.Signal("b1")
	if !ok {
		t.Fatalf("Signal(b1) not found")
	}
	if sig.Kind != KindVector || sig.Width != 4 {
		t.Errorf("expected 4-bit vector, got kind=%s width=%d", sig.Kind, sig.Width)
	}
	if sig.Label() != "bus[3:0]" {
		t.Errorf("expected label bus[3:0], got %s", sig.Label())
	}

	if db.GlobalStart() != 0 {
		t.Errorf("expected global start 0, got %d", db.GlobalStart())
	}
	if db.GlobalEnd() != 12 {
		t.Errorf("expected global end 12, got %d", db.GlobalEnd())
	}
}

// TestBuilderRejectsUndeclaredSignal verifies that a change for a
// signal never declared poisons the builder.
func TestBuilderRejectsUndeclaredSignal(t *testing.T) {
	b := NewBuilder()
	err := b.AppendScalar("ghost", 0, V1)
	if !errors.Is(err, ErrCorruptTrace) {
		t.Fatalf("expected ErrCorruptTrace, got %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrCorruptTrace) {
		t.Errorf("expected poisoned Build to fail with ErrCorruptTrace, got %v", err)
	}
}

// TestBuilderRejectsKindMismatch verifies that a vector change on a
// scalar signal (and vice versa) is corrupt input.
func TestBuilderRejectsKindMismatch(t *testing.T) {
	b := NewBuilder()
	if err := b.AddScalar("c1", "clk"); err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	err := b.AppendVector("c1", 0, Bits{V1})
	if !errors.Is(err, ErrCorruptTrace) {
		t.Errorf("expected ErrCorruptTrace for vector change on scalar, got %v", err)
	}

	b = NewBuilder()
	if err := b.AddVector("b1", "bus", 2); err != nil {
		t.Fatalf("AddVector failed: %v", err)
	}
	err = b.AppendScalar("b1", 0, V1)
	if !errors.Is(err, ErrCorruptTrace) {
		t.Errorf("expected ErrCorruptTrace for scalar change on vector, got %v", err)
	}
}

// TestBuilderRejectsWidthMismatch verifies that vector changes must
// carry exactly the declared bit count.
func TestBuilderRejectsWidthMismatch(t *testing.T) {
	b := NewBuilder()
	if err := b.AddVector("b1", "bus", 4); err != nil {
		t.Fatalf("AddVector failed: %v", err)
	}
	err := b.AppendVector("b1", 0, Bits{V1, V0, V1})
	if !errors.Is(err, ErrCorruptTrace) {
		t.Errorf("expected ErrCorruptTrace for 3 bits on 4-bit vector, got %v", err)
	}
}

// TestBuilderRejectsNegativeTime verifies that transitions before
// t=0 are corrupt input.
func TestBuilderRejectsNegativeTime(t *testing.T) {
	b := NewBuilder()
	if err := b.AddScalar("c1", "clk"); err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	err := b.AppendScalar("c1", -1, V1)
	if !errors.Is(err, ErrCorruptTrace) {
		t.Errorf("expected ErrCorruptTrace for negative time, got %v", err)
	}
}

// TestBuilderRejectsDecreasingTime verifies that per-signal
// transitions must arrive in non-decreasing time order.
func TestBuilderRejectsDecreasingTime(t *testing.T) {
	b := NewBuilder()
	if err := b.AddScalar("c1", "clk"); err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	if err := b.AppendScalar("c1", 10, V1); err != nil {
		t.Fatalf("AppendScalar failed: %v", err)
	}
	err := b.AppendScalar("c1", 5, V0)
	if !errors.Is(err, ErrCorruptTrace) {
		t.Errorf("expected ErrCorruptTrace for decreasing time, got %v", err)
	}
}

// TestBuilderRejectsDuplicateID verifies that signal ids are unique.
func TestBuilderRejectsDuplicateID(t *testing.T) {
	b := NewBuilder()
	if err := b.AddScalar("c1", "clk"); err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	err := b.AddScalar("c1", "clk2")
	if !errors.Is(err, ErrCorruptTrace) {
		t.Errorf("expected ErrCorruptTrace for duplicate id, got %v", err)
	}
}

// TestBuilderRejectsBadWidth verifies that vectors need width >= 1.
func TestBuilderRejectsBadWidth(t *testing.T) {
	b := NewBuilder()
	err := b.AddVector("b1", "bus", 0)
	if !errors.Is(err, ErrCorruptTrace) {
		t.Errorf("expected ErrCorruptTrace for zero width, got %v", err)
	}
}

// TestBuildRejectsEmptyTrace verifies that a trace declaring no
// signals cannot build.
func TestBuildRejectsEmptyTrace(t *testing.T) {
	b := NewBuilder()
	_, err := b.Build()
	if !errors.Is(err, ErrCorruptTrace) {
		t.Errorf("expected ErrCorruptTrace for empty trace, got %v", err)
	}
}

// TestBuilderEqualTimeLastWriteWins verifies that a change at the
// same time as the previous one replaces it instead of stacking.
func TestBuilderEqualTimeLastWriteWins(t *testing.T) {
	b := NewBuilder()
	if err := b.AddScalar("c1", "clk"); err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	if err := b.AppendScalar("c1", 5, V1); err != nil {
		t.Fatalf("AppendScalar failed: %v", err)
	}
	if err := b.AppendScalar("c1", 5, V0); err != nil {
		t.Fatalf("AppendScalar at equal time failed: %v", err)
	}
	db, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	tl, err := db.Timeline("c1")
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if tl.Len() != 1 {
		t.Fatalf("expected 1 transition after replacement, got %d", tl.Len())
	}
	if got := tl.At(0); got.Time != 5 || got.Scalar != V0 {
		t.Errorf("expected (5, 0) after last write wins, got (%d, %s)", got.Time, got.Scalar)
	}
}

// TestBuildBackfillsUnknown verifies that a signal whose first sample
// comes after the global start reads as X from the start until then.
func TestBuildBackfillsUnknown(t *testing.T) {
	b := NewBuilder()
	if err := b.AddScalar("c1", "clk"); err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	if err := b.AddVector("b1", "bus", 4); err != nil {
		t.Fatalf("AddVector failed: %v", err)
	}
	if err := b.AppendScalar("c1", 0, V0); err != nil {
		t.Fatalf("AppendScalar failed: %v", err)
	}
	if err := b.AppendVector("b1", 20, Bits{V0, V1, V1, V0}); err != nil {
		t.Fatalf("AppendVector failed: %v", err)
	}
	db, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	tr, err := db.ValueAt("b1", 0)
	if err != nil {
		t.Fatalf("ValueAt(b1, 0) failed: %v", err)
	}
	if !tr.Vector.Equal(AllX(4)) {
		t.Errorf("expected xxxx before first sample, got %s", tr.Vector)
	}
	tr, err = db.ValueAt("b1", 19)
	if err != nil {
		t.Fatalf("ValueAt(b1, 19) failed: %v", err)
	}
	if !tr.Vector.HasUnknown() {
		t.Errorf("expected unknown value at t=19, got %s", tr.Vector)
	}
	tr, err = db.ValueAt("b1", 20)
	if err != nil {
		t.Fatalf("ValueAt(b1, 20) failed: %v", err)
	}
	if !tr.Vector.Equal(Bits{V0, V1, V1, V0}) {
		t.Errorf("expected 0110 at first sample, got %s", tr.Vector)
	}
}

// TestBuildQuietTrace verifies that signals with no transitions at
// all still build, with bounds [0, 0] and an X value everywhere.
func TestBuildQuietTrace(t *testing.T) {
	b := NewBuilder()
	if err := b.AddScalar("c1", "clk"); err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	db, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if db.GlobalStart() != 0 || db.GlobalEnd() != 0 {
		t.Errorf("expected bounds [0, 0], got [%d, %d]", db.GlobalStart(), db.GlobalEnd())
	}
	tr, err := db.ValueAt("c1", 0)
	if err != nil {
		t.Fatalf("ValueAt failed: %v", err)
	}
	if tr.Scalar != VX {
		t.Errorf("expected X for signal that never changes, got %s", tr.Scalar)
	}
}

// TestBuilderConsumedAfterBuild verifies that a builder cannot be
// reused once Build has returned its database.
func TestBuilderConsumedAfterBuild(t *testing.T) {
	b := NewBuilder()
	if err := b.AddScalar("c1", "clk"); err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	if _, err := b.Build(); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrCorruptTrace) {
		t.Errorf("expected second Build to fail with ErrCorruptTrace, got %v", err)
	}
}

// TestValueAtStepHold verifies step-hold lookup: the value at t is
// the one set by the latest transition at or before t.
func TestValueAtStepHold(t *testing.T) {
	db := buildClock(t)

	cases := []struct {
		t    int64
		want Value
	}{
		{0, V0},   // exact first sample
		{4, V0},   // held
		{5, V1},   // exact hit
		{7, V1},   // held between 5 and 10
		{10, V0},  // exact hit
		{15, V1},  // exact last sample
		{400, V1}, // holds past the last transition
	}
	for _, c := range cases {
		tr, err := db.ValueAt("c1", c.t)
		if err != nil {
			t.Fatalf("ValueAt(clk, %d) failed: %v", c.t, err)
		}
		if tr.Scalar != c.want {
			t.Errorf("ValueAt(clk, %d): expected %s, got %s", c.t, c.want, tr.Scalar)
		}
	}
}

// TestValueAtBeforeStart verifies that querying before the first
// sample is out of range rather than silently X.
func TestValueAtBeforeStart(t *testing.T) {
	db := buildClock(t)
	_, err := db.ValueAt("c1", -1)
	if !errors.Is(err, ErrTimeOutOfRange) {
		t.Errorf("expected ErrTimeOutOfRange, got %v", err)
	}
}

// TestValueAtUnknownSignal verifies the unknown-id error path.
func TestValueAtUnknownSignal(t *testing.T) {
	db := buildClock(t)
	_, err := db.ValueAt("ghost", 0)
	if !errors.Is(err, ErrUnknownSignal) {
		t.Errorf("expected ErrUnknownSignal, got %v", err)
	}
	_, err = db.TransitionsIn("ghost", 0, 10)
	if !errors.Is(err, ErrUnknownSignal) {
		t.Errorf("expected ErrUnknownSignal from TransitionsIn, got %v", err)
	}
}

// TestTransitionsInHalfOpen verifies the [from, to) contract and
// that the returned span can be scanned more than once.
func TestTransitionsInHalfOpen(t *testing.T) {
	db := buildClock(t)

	span, err := db.TransitionsIn("c1", 5, 15)
	if err != nil {
		t.Fatalf("TransitionsIn failed: %v", err)
	}
	if len(span) != 2 {
		t.Fatalf("expected 2 transitions in [5, 15), got %d", len(span))
	}
	if span[0].Time != 5 || span[1].Time != 10 {
		t.Errorf("expected times [5 10], got [%d %d]", span[0].Time, span[1].Time)
	}

	// Second scan of the same span sees the same data.
	again := 0
	for range span {
		again++
	}
	if again != 2 {
		t.Errorf("expected re-scan to yield 2 transitions, got %d", again)
	}

	span, err = db.TransitionsIn("c1", 0, 16)
	if err != nil {
		t.Fatalf("TransitionsIn failed: %v", err)
	}
	if len(span) != 4 {
		t.Errorf("expected all 4 transitions in [0, 16), got %d", len(span))
	}

	span, err = db.TransitionsIn("c1", 7, 7)
	if err != nil {
		t.Fatalf("TransitionsIn failed: %v", err)
	}
	if len(span) != 0 {
		t.Errorf("expected empty span for empty range, got %d", len(span))
	}

	span, err = db.TransitionsIn("c1", 15, 5)
	if err != nil {
		t.Fatalf("TransitionsIn failed: %v", err)
	}
	if len(span) != 0 {
		t.Errorf("expected empty span for inverted range, got %d", len(span))
	}
}

// TestTimelineSearch verifies the binary-search primitives the
// navigation layer is built on.
func TestTimelineSearch(t *testing.T) {
	db := buildClock(t)
	tl, err := db.Timeline("c1")
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}

	if got := tl.SearchTime(5); got != 1 {
		t.Errorf("SearchTime(5): expected 1, got %d", got)
	}
	if got := tl.SearchTime(6); got != 2 {
		t.Errorf("SearchTime(6): expected 2, got %d", got)
	}
	if got := tl.SearchTime(100); got != tl.Len() {
		t.Errorf("SearchTime(100): expected %d, got %d", tl.Len(), got)
	}
	if got := tl.IndexAt(7); got != 1 {
		t.Errorf("IndexAt(7): expected 1, got %d", got)
	}
	if got := tl.IndexAt(-1); got != -1 {
		t.Errorf("IndexAt(-1): expected -1, got %d", got)
	}
	if tl.First().Time != 0 || tl.Last().Time != 15 {
		t.Errorf("expected first at 0 and last at 15, got %d and %d",
			tl.First().Time, tl.Last().Time)
	}
}

// BenchmarkValueAt measures step-hold lookup on a long timeline.
func BenchmarkValueAt(b *testing.B) {
	bld := NewBuilder()
	if err := bld.AddScalar("c1", "clk"); err != nil {
		b.Fatalf("AddScalar failed: %v", err)
	}
	for i := 0; i < 100000; i++ {
		v := V0
		if i%2 == 1 {
			v = V1
		}
		if err := bld.AppendScalar("c1", int64(i*5), v); err != nil {
			b.Fatalf("AppendScalar failed: %v", err)
		}
	}
	db, err := bld.Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, err := db.ValueAt("c1", int64(n%500000)); err != nil {
			b.Fatalf("ValueAt failed: %v", err)
		}
	}
}
