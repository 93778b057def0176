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

// Package bench measures the accuracy and cost of randomized response as a
// function of input size.
//
// For every requested size the runner takes the prefix of that length from
// the input column, randomizes and denoises it repeatedly, and averages the
// per-trial aggregates into one SizeSummary. Prefixes rather than random
// samples keep the accuracy and timing progression directly comparable
// across sizes.
package bench

import (
	"fmt"
	"math"
	"time"

	log "github.com/golang/glog"
	"github.com/marko-janic/Local-differential-privacy-testing/agg"
	"github.com/marko-janic/Local-differential-privacy-testing/checks"
	"github.com/marko-janic/Local-differential-privacy-testing/response"
	"gonum.org/v1/gonum/stat"
)

// Defaults for Config fields that are left unset.
const (
	DefaultEpsilon = 1.0
	DefaultTrials  = 10
)

// Config describes one benchmarking run.
type Config struct {
	Epsilon float64         // Privacy parameter ε. Defaults to DefaultEpsilon.
	Sizes   []int           // Input sizes to benchmark, in the order they should be reported. Required.
	Trials  int             // Number of trials averaged per size. Defaults to DefaultTrials.
	Rand    response.Source // Source of uniform draws. Defaults to response.SecureSource().
}

// SizeSummary is the averaged outcome of all trials for one input size.
type SizeSummary struct {
	Size               int
	MeanTrueCount      float64
	MeanNoisedCount    float64
	MeanEstimatedCount float64
	// RelativeError is |MeanEstimatedCount - MeanTrueCount| / Size.
	RelativeError float64
	// MeanElapsedSeconds is the mean wall-clock time of the randomize and
	// estimate step, excluding aggregate construction.
	MeanElapsedSeconds float64
}

// trialRecord is the outcome of a single trial.
type trialRecord struct {
	trueCount      float64
	noisedCount    float64
	estimatedCount float64
	elapsedSeconds float64
}

// Run executes the benchmark described by cfg over the given column of
// binary observations and returns one SizeSummary per requested size, in
// request order. Sizes exceeding the column length are skipped with a
// warning rather than truncated, so every reported summary reflects exactly
// the requested size.
func Run(values []int64, cfg *Config) ([]SizeSummary, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	epsilon := cfg.Epsilon
	if epsilon == 0 {
		epsilon = DefaultEpsilon
	}
	trials := cfg.Trials
	if trials == 0 {
		trials = DefaultTrials
	}
	if err := checks.CheckEpsilonStrict("Epsilon", epsilon); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	if err := checks.CheckTrials("Trials", trials); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	if len(cfg.Sizes) == 0 {
		return nil, fmt.Errorf("Run: %w: Sizes must contain at least one input size", checks.ErrInvalidParameter)
	}
	for _, size := range cfg.Sizes {
		if err := checks.CheckPopulationSize("Size", int64(size)); err != nil {
			return nil, fmt.Errorf("Run: %w", err)
		}
	}

	summaries := make([]SizeSummary, 0, len(cfg.Sizes))
	for _, size := range cfg.Sizes {
		if size > len(values) {
			log.Warningf("Run: skipping requested size %d: only %d observations are available", size, len(values))
			continue
		}
		prefix := values[:size]
		trueCount, err := countOnes(prefix)
		if err != nil {
			return nil, fmt.Errorf("Run: %w", err)
		}
		records := make([]trialRecord, trials)
		for i := range records {
			records[i], err = runTrial(prefix, trueCount, epsilon, cfg.Rand)
			if err != nil {
				return nil, fmt.Errorf("Run: size %d, trial %d: %w", size, i, err)
			}
		}
		summaries = append(summaries, summarize(size, records))
	}
	return summaries, nil
}

// runTrial randomizes every observation of the prefix once, denoises the
// aggregate, and measures the wall-clock time of that step.
func runTrial(prefix []int64, trueCount int64, epsilon float64, src response.Source) (trialRecord, error) {
	bc, err := agg.NewBinaryCount(&agg.BinaryCountOptions{Epsilon: epsilon, Rand: src})
	if err != nil {
		return trialRecord{}, err
	}
	start := time.Now()
	for _, v := range prefix {
		if err := bc.Add(v); err != nil {
			return trialRecord{}, err
		}
	}
	res, err := bc.Result()
	elapsed := time.Since(start)
	if err != nil {
		return trialRecord{}, err
	}
	return trialRecord{
		trueCount:      float64(trueCount),
		noisedCount:    float64(res.NoisedCount),
		estimatedCount: res.EstimatedCount,
		elapsedSeconds: elapsed.Seconds(),
	}, nil
}

// summarize reduces the trial records for one size into a SizeSummary. The
// reduction is a plain summation followed by a division, so the order of the
// records does not affect the result.
func summarize(size int, records []trialRecord) SizeSummary {
	trueCounts := make([]float64, len(records))
	noisedCounts := make([]float64, len(records))
	estimatedCounts := make([]float64, len(records))
	elapsed := make([]float64, len(records))
	for i, r := range records {
		trueCounts[i] = r.trueCount
		noisedCounts[i] = r.noisedCount
		estimatedCounts[i] = r.estimatedCount
		elapsed[i] = r.elapsedSeconds
	}
	meanTrue := stat.Mean(trueCounts, nil)
	meanEstimated := stat.Mean(estimatedCounts, nil)
	return SizeSummary{
		Size:               size,
		MeanTrueCount:      meanTrue,
		MeanNoisedCount:    stat.Mean(noisedCounts, nil),
		MeanEstimatedCount: meanEstimated,
		RelativeError:      math.Abs(meanEstimated-meanTrue) / float64(size),
		MeanElapsedSeconds: stat.Mean(elapsed, nil),
	}
}

func countOnes(values []int64) (int64, error) {
	var count int64
	for i, v := range values {
		if err := checks.CheckBinaryValue("Value", v); err != nil {
			return 0, fmt.Errorf("value at index %d: %w", i, err)
		}
		count += v
	}
	return count, nil
}
