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

// Package agg reconstructs population counts from randomized-response
// aggregates.
//
// A noised count over n records with retention probability p has expectation
// θ·p + (1-θ)·(1-p) per record, where θ is the true proportion of ones.
// Solving for θ gives the unbiased estimator
//
//	θ̂ = (noised_count/n - (1-p)) / (2p - 1)
//
// implemented by EstimatedProportion. The estimate is a reconstruction from
// noise, so individual results may fall outside [0, n]; they are returned
// unclamped because clamping would bias the estimator.
package agg

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
	"github.com/marko-janic/Local-differential-privacy-testing/checks"
)

// ErrDegenerateMechanism is returned when the retention probability is
// exactly 0.5: the noised data then carries no signal and the reconstruction
// is mathematically undefined.
var ErrDegenerateMechanism = errors.New("degenerate mechanism")

// degenerateWarnThreshold bounds |2p-1| below which the estimator still
// succeeds but the noise amplification is large enough to warrant a warning.
const degenerateWarnThreshold = 1e-6

// EstimatedProportion returns an unbiased estimate of the true proportion of
// ones among n records, given the noised count produced with retention
// probability p. The result is not clamped to [0, 1].
func EstimatedProportion(noisedCount, n int64, p float64) (float64, error) {
	if err := checks.CheckPopulationSize("N", n); err != nil {
		return 0, fmt.Errorf("EstimatedProportion: %w", err)
	}
	if err := checks.CheckNoisedCount("NoisedCount", noisedCount, n); err != nil {
		return 0, fmt.Errorf("EstimatedProportion: %w", err)
	}
	if err := checks.CheckRetentionProbability("P", p); err != nil {
		return 0, fmt.Errorf("EstimatedProportion: %w", err)
	}
	denominator := 2*p - 1
	if denominator == 0 {
		return 0, fmt.Errorf("%w: retention probability is exactly 0.5, the true proportion cannot be reconstructed", ErrDegenerateMechanism)
	}
	if math.Abs(denominator) < degenerateWarnThreshold {
		log.Warningf("EstimatedProportion: retention probability %f is within %e of 0.5, the estimate will be dominated by noise", p, degenerateWarnThreshold)
	}
	return (float64(noisedCount)/float64(n) - (1 - p)) / denominator, nil
}

// EstimatedCount returns an unbiased estimate of the true count of ones among
// n records, given the noised count produced with retention probability p.
// The result is not clamped to [0, n].
func EstimatedCount(noisedCount, n int64, p float64) (float64, error) {
	proportion, err := EstimatedProportion(noisedCount, n, p)
	if err != nil {
		return 0, err
	}
	return proportion * float64(n), nil
}
