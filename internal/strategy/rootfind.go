package strategy

import "math"

const (
	rootTolerance = 1e-6
	rootMaxIter   = 100
)

// brentq finds a root of f in [a, b] using Brent's method. The interval
// must bracket a sign change; ok is false when it does not or when the
// iteration fails to converge.
func brentq(f func(float64) float64, a, b float64) (root float64, ok bool) {
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, true
	}
	if fb == 0 {
		return b, true
	}
	if fa*fb > 0 {
		return 0, false
	}

	if math.Abs(fa) < math.Abs(fb) {
		a, b = b, a
		fa, fb = fb, fa
	}

	c, fc := a, fa
	var d float64
	mflag := true

	for i := 0; i < rootMaxIter; i++ {
		if fb == 0 || math.Abs(b-a) < rootTolerance {
			return b, true
		}

		var s float64
		if fa != fc && fb != fc {
			// inverse quadratic interpolation
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			// secant
			s = b - fb*(b-a)/(fb-fa)
		}

		lo, hi := (3*a+b)/4, b
		if lo > hi {
			lo, hi = hi, lo
		}
		bisect := s < lo || s > hi ||
			(mflag && math.Abs(s-b) >= math.Abs(b-c)/2) ||
			(!mflag && math.Abs(s-b) >= math.Abs(c-d)/2) ||
			(mflag && math.Abs(b-c) < rootTolerance) ||
			(!mflag && math.Abs(c-d) < rootTolerance)
		if bisect {
			s = (a + b) / 2
			mflag = true
		} else {
			mflag = false
		}

		fs := f(s)
		d = c
		c, fc = b, fb

		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if math.Abs(fa) < math.Abs(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
	return b, math.Abs(fb) < rootTolerance
}
