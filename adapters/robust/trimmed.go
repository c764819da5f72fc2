// Package robust implements the one-sample trimmed-mean significance
// test (Tukey-McLaughlin): a t-like statistic built from a trimmed mean
// and a Winsorized-variance standard error. At trim 0 it reduces to the
// classical one-sample t-test.
package robust

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
)

// TestResult carries the full outcome of one trimmed-mean test.
type TestResult struct {
	TrimmedMean float64
	SE          float64
	T           float64
	DF          int
	PValue      float64
}

// Test runs the one-sample trimmed-mean test of H0: population trimmed
// mean equals nullValue. The input sample is not modified.
func Test(sample []float64, trim simulation.TrimLevel, nullValue float64) (TestResult, error) {
	if err := trim.Validate(); err != nil {
		return TestResult{}, err
	}
	n := len(sample)
	k := trim.TrimCount(n)
	remaining := n - 2*k
	if remaining <= 1 {
		return TestResult{}, core.NewDegenerateSampleError(n, remaining)
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	// Trimmed mean over the middle n-2k order statistics.
	var sum float64
	for i := k; i < n-k; i++ {
		sum += sorted[i]
	}
	trimmedMean := sum / float64(remaining)

	// Winsorized sample: tails replaced, not discarded, then the
	// ordinary bias-corrected variance.
	winsorized := make([]float64, n)
	copy(winsorized, sorted)
	for i := 0; i < k; i++ {
		winsorized[i] = sorted[k]
		winsorized[n-1-i] = sorted[n-1-k]
	}
	var winMean float64
	for _, v := range winsorized {
		winMean += v
	}
	winMean /= float64(n)
	var winVar float64
	for _, v := range winsorized {
		d := v - winMean
		winVar += d * d
	}
	winVar /= float64(n - 1)

	se := math.Sqrt(winVar) / ((1 - 2*float64(trim)) * math.Sqrt(float64(n)))
	df := remaining - 1
	if se == 0 {
		// A constant Winsorized sample has no sampling noise to test
		// against; surface it instead of dividing into a NaN.
		return TestResult{}, fmt.Errorf("%w: winsorized variance is zero (n=%d)", core.ErrDegenerateSample, n)
	}
	t := (trimmedMean - nullValue) / se

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	p := 2 * (1 - tDist.CDF(math.Abs(t)))
	if p > 1 {
		p = 1
	}

	return TestResult{
		TrimmedMean: trimmedMean,
		SE:          se,
		T:           t,
		DF:          df,
		PValue:      p,
	}, nil
}

// PValue is the test's two-sided p-value; a convenience wrapper for
// callers that only record rejections.
func PValue(sample []float64, trim simulation.TrimLevel, nullValue float64) (float64, error) {
	res, err := Test(sample, trim, nullValue)
	if err != nil {
		return 0, err
	}
	return res.PValue, nil
}
