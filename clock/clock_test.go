package clock

import "testing"

func TestTimeStamp_Zero(t *testing.T) {
	var ts TimeStamp
	if !ts.Zero() {
		t.Fatalf("zero-value TimeStamp reported non-zero")
	}
	ts.Seconds = 1
	if ts.Zero() {
		t.Fatalf("TimeStamp with Seconds set reported zero")
	}
}

func TestTimeStamp_Before(t *testing.T) {
	a := TimeStamp{Seconds: 1, Nanoseconds: 500}
	b := TimeStamp{Seconds: 1, Nanoseconds: 600}
	c := TimeStamp{Seconds: 2, Nanoseconds: 0}

	if !a.Before(b) {
		t.Fatalf("expected %+v before %+v", a, b)
	}
	if b.Before(a) {
		t.Fatalf("did not expect %+v before %+v", b, a)
	}
	if !b.Before(c) {
		t.Fatalf("expected %+v before %+v", b, c)
	}
}

func TestTimeStamp_BeforeIgnoresIndexFields(t *testing.T) {
	a := TimeStamp{Seconds: 1, Index0: 99}
	b := TimeStamp{Seconds: 1, Index0: 1}
	if a.Before(b) || b.Before(a) {
		t.Fatalf("index fields must not affect ordering: %+v vs %+v", a, b)
	}
}

func TestMonotonicVersionSource_StartsAtOneAndIncreases(t *testing.T) {
	src := NewMonotonicVersionSource()
	first := src.NextVersionNumber()
	if first != 1 {
		t.Fatalf("first version = %d, want 1", first)
	}
	second := src.NextVersionNumber()
	if second <= first {
		t.Fatalf("second version %d did not increase past first %d", second, first)
	}
}

func TestCountingTimeStampSource_IncrementsIndex0(t *testing.T) {
	src := &CountingTimeStampSource{}
	first := src.GetCurrentTimeStamp()
	second := src.GetCurrentTimeStamp()
	if first.Index0 != 0 || second.Index0 != 1 {
		t.Fatalf("got Index0 sequence (%d, %d), want (0, 1)", first.Index0, second.Index0)
	}
	if first.Seconds != 0 || first.Nanoseconds != 0 {
		t.Fatalf("CountingTimeStampSource must pin wall-clock fields at zero, got %+v", first)
	}
}
