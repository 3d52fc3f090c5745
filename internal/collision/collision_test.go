package collision

import (
	"reflect"
	"testing"
)

func TestBump(t *testing.T) {
	tests := []struct {
		name   string
		lons   []float64
		minSep float64
		want   []int
	}{
		{"tight cluster", []float64{10, 11, 12}, 4, []int{0, 1, 2}},
		{"input order preserved", []float64{12, 10, 11}, 4, []int{2, 0, 1}},
		{"spread out", []float64{0, 90, 180, 270}, 4, []int{0, 0, 0, 0}},
		{"reset after gap", []float64{10, 12, 40, 42}, 4, []int{0, 1, 0, 1}},
		{"straddles zero", []float64{359, 1, 180}, 4, []int{0, 1, 0}},
		{"coincident", []float64{50, 50, 50}, 1, []int{0, 1, 2}},
		{"single", []float64{123}, 4, []int{0}},
		{"empty", nil, 4, []int{}},
		{"non-positive separation", []float64{1, 1}, 0, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bump(tt.lons, tt.minSep)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Bump(%v, %v) = %v, want %v", tt.lons, tt.minSep, got, tt.want)
			}
		})
	}
}

func TestBump_StartsAfterWidestGap(t *testing.T) {
	// The cluster 355, 357, 1, 3 wraps through 0°. Walking from the widest
	// gap (100 → 355) keeps it one chain.
	got := Bump([]float64{1, 3, 355, 357, 100}, 5)
	want := []int{2, 3, 0, 1, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if MaxLevel(got) != 3 {
		t.Errorf("MaxLevel = %d, want 3", MaxLevel(got))
	}
}
