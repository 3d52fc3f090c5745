package houses

import (
	"math"
	"testing"
)

func TestCusps_Equal(t *testing.T) {
	cusps := Cusps(Equal, 345)
	if len(cusps) != 12 {
		t.Fatalf("got %d cusps", len(cusps))
	}
	want := []float64{345, 15, 45, 75, 105, 135, 165, 195, 225, 255, 285, 315}
	for i := range want {
		if math.Abs(cusps[i]-want[i]) > 1e-9 {
			t.Errorf("cusp %d = %v, want %v", i+1, cusps[i], want[i])
		}
	}
}

func TestCusps_WholeSign(t *testing.T) {
	cusps := Cusps(WholeSign, 47.3)
	if cusps[0] != 30 || cusps[11] != 0 {
		t.Errorf("whole-sign cusps = %v", cusps)
	}
}

func TestCusps_None(t *testing.T) {
	if c := Cusps(None, 10); c != nil {
		t.Errorf("Cusps(None) = %v", c)
	}
}

func TestHouseOf(t *testing.T) {
	cusps := Cusps(Equal, 345)
	tests := []struct {
		lon  float64
		want int
	}{
		{345, 1},
		{359, 1},
		{14.9, 1},
		{15, 2},
		{344.9, 12},
		{180, 7},
	}
	for _, tt := range tests {
		if got := HouseOf(cusps, tt.lon); got != tt.want {
			t.Errorf("HouseOf(%v) = %d, want %d", tt.lon, got, tt.want)
		}
	}
	if HouseOf(nil, 10) != 0 {
		t.Error("HouseOf without cusps should be 0")
	}
}

func TestParseSystem(t *testing.T) {
	if s, ok := ParseSystem("whole-sign"); !ok || s != WholeSign {
		t.Errorf("ParseSystem(whole-sign) = %v, %v", s, ok)
	}
	if _, ok := ParseSystem("placidus"); ok {
		t.Error("placidus should be rejected")
	}
}
