//
// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package bench

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/marko-janic/Local-differential-privacy-testing/checks"
	"github.com/marko-janic/Local-differential-privacy-testing/stattestutils"
)

var ln3 = math.Log(3)

// noFlip is a Source whose draws always fall below the retention
// probability, so every observation passes through unchanged and summaries
// become deterministic.
type noFlip struct{}

func (noFlip) Uniform() float64 {
	return 0
}

// binaryPattern returns n observations where every aligned prefix of length
// divisible by 10 has a true proportion of exactly 0.3.
func binaryPattern(n int) []int64 {
	values := make([]int64, n)
	for i := range values {
		if i%10 < 3 {
			values[i] = 1
		}
	}
	return values
}

func TestRunWithoutFlipsProducesExactSummaries(t *testing.T) {
	values := []int64{1, 0, 1, 1}
	got, err := Run(values, &Config{
		Epsilon: ln3,
		Sizes:   []int{2, 4},
		Trials:  3,
		Rand:    noFlip{},
	})
	if err != nil {
		t.Fatalf("Run: got unexpected error %v", err)
	}
	// With p = 0.75 and no flips, the prefix of size 2 has a noised
	// proportion of 0.5 and estimate (0.5-0.25)/0.5·2 = 1; the prefix of
	// size 4 has a noised proportion of 0.75 and estimate 4.
	want := []SizeSummary{
		{Size: 2, MeanTrueCount: 1, MeanNoisedCount: 1, MeanEstimatedCount: 1, RelativeError: 0},
		{Size: 4, MeanTrueCount: 3, MeanNoisedCount: 3, MeanEstimatedCount: 4, RelativeError: 0.25},
	}
	diff := cmp.Diff(want, got,
		cmpopts.EquateApprox(0, 1e-10),
		cmpopts.IgnoreFields(SizeSummary{}, "MeanElapsedSeconds"))
	if diff != "" {
		t.Errorf("Run: unexpected summaries (-want +got):\n%s", diff)
	}
	for _, s := range got {
		if s.MeanElapsedSeconds < 0 {
			t.Errorf("Run: got MeanElapsedSeconds = %f for size %d, want a nonnegative duration", s.MeanElapsedSeconds, s.Size)
		}
	}
}

func TestRunSkipsSizesExceedingTheColumn(t *testing.T) {
	values := make([]int64, 5000)
	got, err := Run(values, &Config{Sizes: []int{1000, 10000}})
	if err != nil {
		t.Fatalf("Run: got unexpected error %v", err)
	}
	if len(got) != 1 || got[0].Size != 1000 {
		t.Errorf("Run: got summaries %+v, want exactly one summary for size 1000", got)
	}
}

func TestRunAllSizesExceedingTheColumnYieldsNoSummaries(t *testing.T) {
	got, err := Run(make([]int64, 10), &Config{Sizes: []int{100, 200}})
	if err != nil {
		t.Fatalf("Run: got unexpected error %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Run: got summaries %+v, want none", got)
	}
}

func TestRunConfigValidation(t *testing.T) {
	values := binaryPattern(100)
	for _, tc := range []struct {
		desc string
		cfg  *Config
	}{
		{"nil config", nil},
		{"no sizes", &Config{}},
		{"negative epsilon", &Config{Epsilon: -1, Sizes: []int{10}}},
		{"epsilon is NaN", &Config{Epsilon: math.NaN(), Sizes: []int{10}}},
		{"negative trials", &Config{Sizes: []int{10}, Trials: -1}},
		{"nonpositive size", &Config{Sizes: []int{0}}},
		{"negative size", &Config{Sizes: []int{-5}}},
	} {
		if _, err := Run(values, tc.cfg); !errors.Is(err, checks.ErrInvalidParameter) {
			t.Errorf("Run: when %s got %v, want an error wrapping ErrInvalidParameter", tc.desc, err)
		}
	}
}

func TestRunRejectsNonBinaryObservations(t *testing.T) {
	if _, err := Run([]int64{0, 1, 2}, &Config{Sizes: []int{3}}); !errors.Is(err, checks.ErrInvalidParameter) {
		t.Errorf("Run: got %v, want an error wrapping ErrInvalidParameter", err)
	}
}

func TestRunUsesDefaults(t *testing.T) {
	got, err := Run(binaryPattern(100), &Config{Sizes: []int{100}})
	if err != nil {
		t.Fatalf("Run: got unexpected error %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Run: got %d summaries, want 1", len(got))
	}
	if got[0].MeanTrueCount != 30 {
		t.Errorf("Run: got MeanTrueCount = %f, want 30", got[0].MeanTrueCount)
	}
}

func TestRunHighEpsilonIsNearLossless(t *testing.T) {
	for _, tc := range []struct {
		desc          string
		value         int64
		wantTrueCount float64
	}{
		{"all observations are ones", 1, 1000},
		{"all observations are zeros", 0, 0},
	} {
		values := make([]int64, 1000)
		for i := range values {
			values[i] = tc.value
		}
		got, err := Run(values, &Config{Epsilon: 20, Sizes: []int{1000}, Trials: 5})
		if err != nil {
			t.Fatalf("Run: when %s got unexpected error %v", tc.desc, err)
		}
		if len(got) != 1 {
			t.Fatalf("Run: when %s got %d summaries, want 1", tc.desc, len(got))
		}
		// With ε = 20 the flip probability is about 2·10⁻⁹, so the estimate
		// is essentially exact.
		if math.Abs(got[0].MeanEstimatedCount-tc.wantTrueCount) > 2 {
			t.Errorf("Run: when %s got MeanEstimatedCount = %f, want within 2 of %f", tc.desc, got[0].MeanEstimatedCount, tc.wantTrueCount)
		}
		if got[0].RelativeError > 0.005 {
			t.Errorf("Run: when %s got RelativeError = %f, want at most 0.005", tc.desc, got[0].RelativeError)
		}
	}
}

func TestRunLargeEpsilonSaturatedRetentionProbability(t *testing.T) {
	// For ε ≳ 36.7 the retention probability saturates just below 1. The
	// run must still produce summaries for such valid ε rather than fail on
	// the saturated probability.
	values := binaryPattern(100)
	got, err := Run(values, &Config{Epsilon: 50, Sizes: []int{100}, Trials: 2})
	if err != nil {
		t.Fatalf("Run: got unexpected error %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Run: got %d summaries, want 1", len(got))
	}
	// Flips are essentially impossible at this ε, so the estimate matches
	// the true count.
	if math.Abs(got[0].MeanEstimatedCount-30) > 1e-6 {
		t.Errorf("Run: got MeanEstimatedCount = %f, want within 1e-6 of 30", got[0].MeanEstimatedCount)
	}
}

func TestRunRelativeErrorShrinksWithSize(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test over large inputs")
	}
	values := binaryPattern(100000)
	const numberOfRuns = 5
	smallErrors := make([]float64, numberOfRuns)
	largeErrors := make([]float64, numberOfRuns)
	for i := 0; i < numberOfRuns; i++ {
		got, err := Run(values, &Config{Epsilon: 1.0, Sizes: []int{1000, 100000}, Trials: 10})
		if err != nil {
			t.Fatalf("Run: got unexpected error %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Run: got %d summaries, want 2", len(got))
		}
		smallErrors[i] = got[0].RelativeError
		largeErrors[i] = got[1].RelativeError
	}
	// The estimator's standard deviation scales with 1/√size, so a 100x
	// larger sample shrinks the expected relative error by 10x. Averaging
	// over several runs makes an inversion vanishingly unlikely.
	smallMean := stattestutils.SampleMean(smallErrors)
	largeMean := stattestutils.SampleMean(largeErrors)
	if largeMean > smallMean {
		t.Errorf("got mean relative error %f at size 100000 and %f at size 1000, want the larger size to be at most as large", largeMean, smallMean)
	}
	// Averaged over 10 trials, the relative error at size 1000 has a
	// standard deviation of about 0.0096 and at size 100000 about 0.00096.
	// The spread across runs must not exceed a generous multiple of that.
	if spread := stattestutils.SampleStandardDeviation(smallErrors); spread > 0.05 {
		t.Errorf("got relative error spread %f at size 1000, want at most 0.05", spread)
	}
	if spread := stattestutils.SampleStandardDeviation(largeErrors); spread > 0.005 {
		t.Errorf("got relative error spread %f at size 100000, want at most 0.005", spread)
	}
}
