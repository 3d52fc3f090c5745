package solver

// Func is a continuous function of one angle-like variable, sampled by the
// crossing search. For the ascendant it maps ecliptic longitude to altitude.
type Func func(x float64) float64

// EventType describes which direction of zero crossing we are looking for.
type EventType int

const (
	// CrossingUp means the function is increasing through zero.
	CrossingUp EventType = iota
	// CrossingDown means the function is decreasing through zero.
	CrossingDown
	// CrossingAny accepts either direction.
	CrossingAny
)

// DefaultIterations refines a 5 degree bracket to roughly 5e-9 degrees.
const DefaultIterations = 30

// FindCrossings samples f over [start, end] every step and returns every x
// where f crosses zero in the direction given by eventType, refined by
// bisection for the given number of iterations.
//
// The last sample is taken exactly at end, so a periodic function scanned
// over one full period closes the loop between its last and first sample.
func FindCrossings(f Func, start, end, step float64, eventType EventType, iterations int) []float64 {
	if !(start < end) || !(step > 0) {
		return nil
	}
	if iterations < 1 {
		iterations = DefaultIterations
	}

	var (
		roots  []float64
		prevX  = start
		prevY  = f(prevX)
		closed bool
	)

	for !closed {
		x := prevX + step
		if x >= end {
			x = end
			closed = true
		}
		y := f(x)

		if hasCrossing(prevY, y, eventType) {
			if root, ok := Bisect(f, prevX, x, eventType, iterations); ok {
				roots = append(roots, root)
			}
		}

		prevX, prevY = x, y
	}

	return roots
}

func hasCrossing(a1, a2 float64, eventType EventType) bool {
	switch eventType {
	case CrossingUp:
		return a1 < 0 && a2 >= 0
	case CrossingDown:
		return a1 > 0 && a2 <= 0
	default:
		// A sample landing exactly on zero is counted once, by the bracket
		// that ends on it.
		return (a1 < 0 && a2 >= 0) || (a1 > 0 && a2 <= 0)
	}
}

// Bisect narrows the bracket [a, b] around a zero crossing of f. It reports
// false when the bracket does not straddle a crossing of the requested kind.
func Bisect(f Func, a, b float64, eventType EventType, iterations int) (float64, bool) {
	fa := f(a)
	fb := f(b)

	if !hasCrossing(fa, fb, eventType) {
		return 0, false
	}
	if fb == 0 {
		return b, true
	}

	for i := 0; i < iterations; i++ {
		mid := a + (b-a)/2
		fm := f(mid)

		if hasCrossing(fa, fm, eventType) {
			b = mid
		} else {
			a = mid
			fa = fm
		}
	}

	return a + (b-a)/2, true
}
