package aspect

import (
	"math"
	"testing"
)

func TestFind_Basic(t *testing.T) {
	lons := []float64{10, 70, 190, 355}
	got := Find(lons, DefaultAngles, 6)

	// 10/355 are 15° apart, 190/355 are 165° and 70/355 are 75°: all out of orb.
	want := map[[2]int]float64{
		{0, 1}: 60,
		{0, 2}: 180,
		{1, 2}: 120,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d aspects %+v, want %d", len(got), got, len(want))
	}
	for _, a := range got {
		angle, ok := want[[2]int{a.I, a.J}]
		if !ok {
			t.Errorf("unexpected aspect %+v", a)
			continue
		}
		if a.Angle != angle {
			t.Errorf("pair (%d,%d) matched %v, want %v", a.I, a.J, a.Angle, angle)
		}
	}
}

func TestFind_WrapAround(t *testing.T) {
	got := Find([]float64{358, 2}, DefaultAngles, 5)
	if len(got) != 1 || got[0].Angle != 0 || math.Abs(got[0].Separation-4) > 1e-9 {
		t.Fatalf("got %+v, want one conjunction 4° apart", got)
	}
}

func TestFind_Symmetric(t *testing.T) {
	a := []float64{12.5, 101.7, 250, 311.2, 72.3}
	b := []float64{72.3, 311.2, 250, 101.7, 12.5} // reversed

	key := func(lons []float64, x Aspect) [2]float64 {
		p, q := lons[x.I], lons[x.J]
		if p > q {
			p, q = q, p
		}
		return [2]float64{p, q}
	}

	fa, fb := Find(a, DefaultAngles, 8), Find(b, DefaultAngles, 8)
	if len(fa) != len(fb) {
		t.Fatalf("asymmetric results: %d vs %d", len(fa), len(fb))
	}
	seen := map[[2]float64]float64{}
	for _, x := range fa {
		seen[key(a, x)] = x.Angle
	}
	for _, x := range fb {
		if angle, ok := seen[key(b, x)]; !ok || angle != x.Angle {
			t.Errorf("pair %v missing or different after reordering", key(b, x))
		}
	}
}

func TestFind_TightestTargetWins(t *testing.T) {
	got := Find([]float64{0, 100}, []float64{90, 120}, 25)
	if len(got) != 1 || got[0].Angle != 90 || math.Abs(got[0].Orb-10) > 1e-9 {
		t.Errorf("got %+v, want square with orb 10", got)
	}
}

func TestFind_NoTargets(t *testing.T) {
	if got := Find([]float64{0, 0}, nil, 5); got != nil {
		t.Errorf("got %+v with no target angles", got)
	}
}

func TestDrishti_MarsFromAries(t *testing.T) {
	// Index 0 is Mars in Aries; points 1..11 sit in signs 1..11.
	signs := make([]int, 12)
	for i := range signs {
		signs[i] = i
	}
	links := Drishti(signs, Rules{0: {4, 7, 8}})

	var targets []int
	for _, l := range links {
		if l.From != 0 {
			t.Fatalf("unexpected source %d", l.From)
		}
		targets = append(targets, signs[l.To])
	}
	want := []int{3, 6, 7} // Cancer, Libra, Scorpio
	if len(targets) != len(want) {
		t.Fatalf("Mars aspects signs %v, want %v", targets, want)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("Mars aspects signs %v, want %v", targets, want)
		}
	}
}

func TestDrishti_Directional(t *testing.T) {
	// Mars in Aries (0), Venus in Cancer (3). Mars casts its 4th-sign
	// drishti on Venus; Venus only has the 7th, and Aries is 10th from
	// Cancer, so there is no link back.
	signs := []int{0, 3}
	links := Drishti(signs, Rules{0: {4, 7, 8}, 1: {7}})

	if len(links) != 1 {
		t.Fatalf("got %+v, want exactly Mars→Venus", links)
	}
	if l := links[0]; l.From != 0 || l.To != 1 || l.Distance != 4 {
		t.Errorf("got %+v, want {From:0 To:1 Distance:4}", l)
	}
}

func TestDrishti_MutualSeventh(t *testing.T) {
	links := Drishti([]int{2, 8}, Rules{0: {7}, 1: {7}})
	if len(links) != 2 {
		t.Fatalf("opposite signs with 7th-house rules should link both ways, got %+v", links)
	}
}

func TestDrishti_SameSignIgnoresSelf(t *testing.T) {
	links := Drishti([]int{5, 5}, Rules{0: {1}})
	if len(links) != 1 || links[0].To != 1 {
		t.Errorf("got %+v, want only 0→1", links)
	}
}

func TestName(t *testing.T) {
	if Name(120) != "trine" || Name(17) != "aspect" {
		t.Error("aspect names wrong")
	}
}
