package drift

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sample sizes with n*m below this use the exact null distribution.
const exactLimit = 10000

// ksTwoSample runs a two-sided two-sample Kolmogorov-Smirnov test and returns
// the statistic D and its p-value. Both samples must be non-empty. A NaN
// statistic yields a NaN p-value.
func ksTwoSample(a, b []float64) (d, p float64) {
	x := sortedCopy(a)
	y := sortedCopy(b)
	d = stat.KolmogorovSmirnov(x, nil, y, nil)
	if math.IsNaN(d) {
		return d, math.NaN()
	}

	n, m := len(x), len(y)
	if n*m < exactLimit {
		p = 1 - smirnovCDF(d, n, m)
	} else {
		en := math.Sqrt(float64(n) * float64(m) / float64(n+m))
		p = kolmogorovSF(en * d)
	}
	return d, math.Max(0, math.Min(1, p))
}

func sortedCopy(v []float64) []float64 {
	out := append([]float64(nil), v...)
	sort.Float64s(out)
	return out
}

// smirnovCDF is P(D < d) under the null for sample sizes m and n, counting
// lattice paths that stay inside the band |i/m - j/n| <= d.
func smirnovCDF(d float64, m, n int) float64 {
	if m > n {
		m, n = n, m
	}
	md, nd := float64(m), float64(n)
	q := (0.5 + math.Floor(d*md*nd-1e-7)) / (md * nd)

	u := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		if float64(j)/nd <= q {
			u[j] = 1
		}
	}
	for i := 1; i <= m; i++ {
		w := float64(i) / float64(i+n)
		if float64(i)/md > q {
			u[0] = 0
		} else {
			u[0] = w * u[0]
		}
		for j := 1; j <= n; j++ {
			if math.Abs(float64(i)/md-float64(j)/nd) > q {
				u[j] = 0
			} else {
				u[j] = w*u[j] + u[j-1]
			}
		}
	}
	return u[n]
}

// kolmogorovSF is the survival function of the limiting Kolmogorov
// distribution. Small arguments use the Jacobi theta form, which converges
// where the alternating series does not.
func kolmogorovSF(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	if lambda < 1.18 {
		var sum float64
		for k := 1; k < 20; k++ {
			odd := float64(2*k - 1)
			term := math.Exp(-odd * odd * math.Pi * math.Pi / (8 * lambda * lambda))
			sum += term
			if term < 1e-16 {
				break
			}
		}
		return 1 - math.Sqrt(2*math.Pi)/lambda*sum
	}
	var sum float64
	sign := 1.0
	for k := 1; k <= 100; k++ {
		fk := float64(k)
		term := math.Exp(-2 * fk * fk * lambda * lambda)
		sum += sign * term
		if term < 1e-16 {
			break
		}
		sign = -sign
	}
	return 2 * sum
}
