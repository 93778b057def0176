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

// Package checks contains validation checks for the parameters of
// randomized-response operations.
//
// All checks return errors wrapping ErrInvalidParameter, so callers can
// classify failures with errors.Is without parsing messages.
package checks

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is wrapped by every error returned from this package.
var ErrInvalidParameter = errors.New("invalid parameter")

// CheckEpsilonStrict returns an error if ε is nonpositive, NaN or ±∞.
// Randomized response needs ε > 0 so that the retention probability
// exceeds one half and the mechanism stays more informative than a coin flip.
func CheckEpsilonStrict(label string, epsilon float64) error {
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%w: %s is %f, must be strictly positive and finite", ErrInvalidParameter, label, epsilon)
	}
	return nil
}

// CheckBinaryValue returns an error if v is not exactly 0 or 1.
func CheckBinaryValue(label string, v int64) error {
	if v != 0 && v != 1 {
		return fmt.Errorf("%w: %s is %d, must be 0 or 1", ErrInvalidParameter, label, v)
	}
	return nil
}

// CheckRetentionProbability returns an error if p is outside (0, 1).
// p = 0.5 is accepted here; the estimator treats it as a separate
// degenerate-mechanism condition.
func CheckRetentionProbability(label string, p float64) error {
	if !(p > 0 && p < 1) || math.IsNaN(p) {
		return fmt.Errorf("%w: %s is %f, must be within (0, 1)", ErrInvalidParameter, label, p)
	}
	return nil
}

// CheckPopulationSize returns an error if n is nonpositive.
func CheckPopulationSize(label string, n int64) error {
	if n <= 0 {
		return fmt.Errorf("%w: %s is %d, must be strictly positive", ErrInvalidParameter, label, n)
	}
	return nil
}

// CheckTrials returns an error if the trial count is nonpositive.
func CheckTrials(label string, trials int) error {
	if trials <= 0 {
		return fmt.Errorf("%w: %s is %d, must be strictly positive", ErrInvalidParameter, label, trials)
	}
	return nil
}

// CheckNoisedCount returns an error if the noised count is negative or
// exceeds the population size n.
func CheckNoisedCount(label string, noisedCount, n int64) error {
	if noisedCount < 0 || noisedCount > n {
		return fmt.Errorf("%w: %s is %d, must be within [0, %d]", ErrInvalidParameter, label, noisedCount, n)
	}
	return nil
}
