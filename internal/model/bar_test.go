package model

import (
	"errors"
	"math"
	"testing"
)

func TestFromColumns_MissingColumn(t *testing.T) {
	cols := map[string][]float64{
		"ts":    {1, 2},
		"open":  {1, 2},
		"high":  {1, 2},
		"low":   {1, 2},
		"close": {1, 2},
	}
	_, err := FromColumns(cols)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFromColumns_Ragged(t *testing.T) {
	cols := map[string][]float64{
		"ts": {1, 2}, "open": {1, 2}, "high": {1, 2},
		"low": {1, 2}, "close": {1, 2}, "volume": {1},
	}
	if _, err := FromColumns(cols); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for ragged columns, got %v", err)
	}
}

func TestFromColumns_RoundTrip(t *testing.T) {
	cols := map[string][]float64{
		"ts": {1700000000, 1700000060}, "open": {10, 11}, "high": {12, 13},
		"low": {9, 10}, "close": {11, 12}, "volume": {100, 200},
	}
	bars, err := FromColumns(cols)
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("len = %d, want 2", len(bars))
	}
	if bars[1].TS.Unix() != 1700000060 || bars[1].Close != 12 {
		t.Errorf("unexpected bar: %+v", bars[1])
	}
	c := Split(bars)
	if c.High[0] != 12 || c.Volume[1] != 200 {
		t.Errorf("Split mismatch: %+v", c)
	}
}

func TestBar_HasNaN(t *testing.T) {
	b := Bar{Open: 1, High: 2, Low: 0.5, Close: 1.5}
	if b.HasNaN() {
		t.Error("clean bar reported NaN")
	}
	b.Low = math.NaN()
	if !b.HasNaN() {
		t.Error("NaN low not detected")
	}
	if !(Bar{Open: 1, Close: 2}).Up() {
		t.Error("Up() false for rising bar")
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 7: "7", 42: "42", -15: "-15", 1234567: "1234567"}
	for in, want := range cases {
		if got := Itoa(in); got != want {
			t.Errorf("Itoa(%d) = %q, want %q", in, got, want)
		}
	}
}
