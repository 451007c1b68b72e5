package domain

import (
	"testing"
)

func TestSeatLabel(t *testing.T) {
	cases := []struct {
		row, col int
		want     string
	}{
		{0, 0, "A1"},
		{0, 3, "A4"},
		{2, 0, "C1"},
		{5, 11, "F12"},
	}

	for _, c := range cases {
		if got := SeatLabel(c.row, c.col); got != c.want {
			t.Fatalf("SeatLabel(%d,%d) = %q, want %q", c.row, c.col, got, c.want)
		}
		// pure function: a second call with the same input must agree
		if got := SeatLabel(c.row, c.col); got != c.want {
			t.Fatalf("SeatLabel(%d,%d) unstable across calls", c.row, c.col)
		}
	}
}

func TestParseSeatRef(t *testing.T) {
	ref, err := ParseSeatRef("lower-2-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Deck != "lower" || ref.Row != 2 || ref.Col != 3 {
		t.Fatalf("parsed %+v", ref)
	}
	if ref.Label() != "C4" {
		t.Fatalf("label = %q, want C4", ref.Label())
	}
	if ref.String() != "lower-2-3" {
		t.Fatalf("round trip = %q", ref.String())
	}
}

func TestParseSeatRefMalformed(t *testing.T) {
	for _, s := range []string{"", "lower", "lower-1", "lower-x-1", "lower-1-y", "lower-1-2-3", "-1-2", "lower--1-2"} {
		if _, err := ParseSeatRef(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestSeatLayoutCountAvailable(t *testing.T) {
	l := SeatLayout{
		"lower": {
			{SeatAvailable, SeatNone, SeatBooked},
			{SeatAvailable, SeatAvailable, SeatNone},
		},
		"upper": {
			{SeatBooked, SeatAvailable},
		},
	}
	if got := l.CountAvailable(); got != 4 {
		t.Fatalf("CountAvailable = %d, want 4", got)
	}
}

func TestSeatLayoutSet(t *testing.T) {
	l := SeatLayout{
		"lower": {
			{SeatAvailable, SeatAvailable},
		},
	}

	if err := l.Set(SeatRef{Deck: "lower", Row: 0, Col: 1}, SeatBooked); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l["lower"][0][1] != SeatBooked {
		t.Fatalf("cell not updated: %v", l["lower"][0])
	}

	// overwrite is unconditional: setting an already-booked cell succeeds
	if err := l.Set(SeatRef{Deck: "lower", Row: 0, Col: 1}, SeatBooked); err != nil {
		t.Fatalf("overwrite should not fail: %v", err)
	}

	for _, ref := range []SeatRef{
		{Deck: "upper", Row: 0, Col: 0},
		{Deck: "lower", Row: 1, Col: 0},
		{Deck: "lower", Row: 0, Col: 2},
		{Deck: "lower", Row: -1, Col: 0},
	} {
		if err := l.Set(ref, SeatBooked); err == nil {
			t.Fatalf("expected out-of-range error for %+v", ref)
		}
	}
}

func TestSeatLayoutClone(t *testing.T) {
	l := SeatLayout{"lower": {{SeatAvailable, SeatAvailable}}}
	cp := l.Clone()

	if err := cp.Set(SeatRef{Deck: "lower", Row: 0, Col: 0}, SeatBooked); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l["lower"][0][0] != SeatAvailable {
		t.Fatalf("clone mutated the original layout")
	}
}

func TestSeatLayoutJSONRoundTrip(t *testing.T) {
	l := SeatLayout{"lower": {{1, 0, 2}, {1, 1, 1}}}
	b, err := l.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := ParseSeatLayout(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.CountAvailable() != l.CountAvailable() {
		t.Fatalf("available count changed across round trip")
	}
	if got["lower"][0][2] != SeatBooked {
		t.Fatalf("booked cell lost across round trip")
	}
}
