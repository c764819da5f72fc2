package gh

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/GRousselet/post-nocrisis/domain/core"
)

// TTestPower computes the exact power of the two-sided one-sample t-test
// at significance level alpha for a normal population shifted by delta
// standard deviations.
//
// With T' noncentral-t (df = n-1, ncp = delta*sqrt(n)) and c the critical
// value, power = P(T' > c) + P(T' < -c). Conditioning on the chi-squared
// denominator gives
//
//	power = E_W[ Phi(ncp - c*sqrt(W/df)) + Phi(-ncp - c*sqrt(W/df)) ]
//
// which is integrated over the chi-squared density, avoiding the
// noncentral-t distribution gonum does not provide.
func TTestPower(delta float64, n int, alpha float64) (float64, error) {
	if n <= 1 {
		return 0, core.NewInvalidParameterError("n", n, "sample size must be > 1")
	}
	if alpha <= 0 || alpha >= 1 {
		return 0, core.NewInvalidParameterError("alpha", alpha, "must be in (0, 1)")
	}

	df := float64(n - 1)
	crit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - alpha/2)
	ncp := delta * math.Sqrt(float64(n))
	chi := distuv.ChiSquared{K: df}

	integrand := func(w float64) float64 {
		scaled := crit * math.Sqrt(w/df)
		return (distuv.UnitNormal.CDF(ncp-scaled) + distuv.UnitNormal.CDF(-ncp-scaled)) * chi.Prob(w)
	}

	// The chi-squared mass is concentrated around df; the upper limit
	// covers the density to far beyond machine precision.
	upper := df + 12*math.Sqrt(2*df) + 50
	return converge("noncentral t power", integrand, 0, upper)
}

// CalibratedShift solves for the mean shift whose one-sample t-test power
// at shape (0,0) equals targetPower. This is the simulation's effect size
// in the shifted condition.
func CalibratedShift(n int, alpha, targetPower float64) (float64, error) {
	if targetPower <= 0 || targetPower >= 1 {
		return 0, core.NewInvalidParameterError("target_power", targetPower, "must be in (0, 1)")
	}

	// Power is strictly increasing in the shift. Bracket then bisect.
	lo, hi := 0.0, 1.0
	for i := 0; ; i++ {
		p, err := TTestPower(hi, n, alpha)
		if err != nil {
			return 0, err
		}
		if p >= targetPower {
			break
		}
		if i >= 20 {
			return 0, core.NewConvergenceError("effect size bracket", i)
		}
		hi *= 2
	}

	for i := 0; i < bisectMaxIter; i++ {
		mid := (lo + hi) / 2
		if hi-lo < 1e-10 {
			return mid, nil
		}
		p, err := TTestPower(mid, n, alpha)
		if err != nil {
			return 0, err
		}
		if p < targetPower {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0, core.NewConvergenceError("effect size bisection", bisectMaxIter)
}
