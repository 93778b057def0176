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

package agg

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/marko-janic/Local-differential-privacy-testing/response"
)

// BinaryCount aggregates a collection of binary observations under local
// differential privacy using randomized response.
//
// Every observation is randomized at the moment it is added; only the noised
// count and the number of observations are retained, so an aggregator holding
// a BinaryCount never observes a raw value. Result returns an unbiased
// estimate of the true count of ones.
//
// Not thread-safe.
type BinaryCount struct {
	// Parameters
	epsilon   float64
	mechanism *response.Mechanism

	// State variables
	noisedCount int64
	n           int64
	state       aggregationState
}

// BinaryCountOptions contains the options necessary to initialize a BinaryCount.
type BinaryCountOptions struct {
	Epsilon float64         // Privacy parameter ε. Required, must be strictly positive and finite.
	Rand    response.Source // Source of uniform draws. Defaults to response.SecureSource().
}

// NewBinaryCount returns a new BinaryCount with no observations.
func NewBinaryCount(opt *BinaryCountOptions) (*BinaryCount, error) {
	if opt == nil {
		opt = &BinaryCountOptions{}
	}
	mechanism, err := response.NewMechanism(&response.MechanismOptions{
		Epsilon: opt.Epsilon,
		Rand:    opt.Rand,
	})
	if err != nil {
		return nil, fmt.Errorf("NewBinaryCount: %w", err)
	}
	return &BinaryCount{
		epsilon:   opt.Epsilon,
		mechanism: mechanism,
		state:     defaultState,
	}, nil
}

func binaryCountsEquallyInitialized(bc1, bc2 *BinaryCount) bool {
	return bc1.epsilon == bc2.epsilon
}

// Add randomizes the binary observation v and accumulates the noised value.
// The raw value is not retained.
func (bc *BinaryCount) Add(v int64) error {
	if bc.state != defaultState {
		return fmt.Errorf("BinaryCount cannot accept new observations: %s", bc.state.errorMessage())
	}
	noised, err := bc.mechanism.Randomize(v)
	if err != nil {
		return fmt.Errorf("BinaryCount.Add: %w", err)
	}
	bc.noisedCount += noised
	bc.n++
	return nil
}

// Merge merges bc2 into bc (i.e., adds to bc all observations that were added
// to bc2). bc2 is consumed by this operation: it may not be used after it is
// merged into bc. Because merging is a plain summation, the order in which a
// set of BinaryCounts is merged does not affect the released result.
func (bc *BinaryCount) Merge(bc2 *BinaryCount) error {
	if err := checkMergeBinaryCount(bc, bc2); err != nil {
		return err
	}
	bc.noisedCount += bc2.noisedCount
	bc.n += bc2.n
	bc2.state = merged
	return nil
}

func checkMergeBinaryCount(bc1, bc2 *BinaryCount) error {
	if bc1.state != defaultState {
		return fmt.Errorf("checkMergeBinaryCount: bc1 cannot be merged: %s", bc1.state.errorMessage())
	}
	if bc2.state != defaultState {
		return fmt.Errorf("checkMergeBinaryCount: bc2 cannot be merged: %s", bc2.state.errorMessage())
	}
	if !binaryCountsEquallyInitialized(bc1, bc2) {
		return fmt.Errorf("checkMergeBinaryCount: bc1 and bc2 are not compatible: epsilon %f != %f", bc1.epsilon, bc2.epsilon)
	}
	return nil
}

// CountResult is the released aggregate of a BinaryCount.
type CountResult struct {
	// N is the number of observations added.
	N int64
	// NoisedCount is the sum of the randomized observations.
	NoisedCount int64
	// EstimatedCount is the unbiased estimate of the true count of ones.
	// It is not clamped to [0, N].
	EstimatedCount float64
}

// Result releases the aggregate. The method can be called only once.
//
// The estimated count is an unbiased estimate of the raw count of ones. It
// may fall outside [0, N]; clamping is left to the caller since it would
// introduce bias.
func (bc *BinaryCount) Result() (CountResult, error) {
	if bc.state != defaultState {
		return CountResult{}, fmt.Errorf("BinaryCount cannot release a result: %s", bc.state.errorMessage())
	}
	bc.state = resultReturned
	estimated, err := EstimatedCount(bc.noisedCount, bc.n, bc.mechanism.RetentionProbability())
	if err != nil {
		return CountResult{}, fmt.Errorf("BinaryCount.Result: %w", err)
	}
	return CountResult{
		N:              bc.n,
		NoisedCount:    bc.noisedCount,
		EstimatedCount: estimated,
	}, nil
}

// encodableBinaryCount can be encoded by the gob package.
type encodableBinaryCount struct {
	Epsilon     float64
	NoisedCount int64
	N           int64
	State       aggregationState
}

// GobEncode encodes BinaryCount. The encoded form carries only the noised
// aggregate, never raw observations. The receiver is consumed: it transitions
// to the serialized state and cannot be amended afterwards.
func (bc *BinaryCount) GobEncode() ([]byte, error) {
	if bc.state != defaultState && bc.state != serialized {
		return nil, fmt.Errorf("BinaryCount cannot be serialized: %s", bc.state.errorMessage())
	}
	enc := encodableBinaryCount{
		Epsilon:     bc.epsilon,
		NoisedCount: bc.noisedCount,
		N:           bc.n,
		State:       bc.state,
	}
	bc.state = serialized
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(enc); err != nil {
		return nil, fmt.Errorf("GobEncode: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode decodes BinaryCount.
func (bc *BinaryCount) GobDecode(data []byte) error {
	var enc encodableBinaryCount
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&enc); err != nil {
		return fmt.Errorf("GobDecode: %w", err)
	}
	mechanism, err := response.NewMechanism(&response.MechanismOptions{Epsilon: enc.Epsilon})
	if err != nil {
		return fmt.Errorf("GobDecode: %w", err)
	}
	*bc = BinaryCount{
		epsilon:     enc.Epsilon,
		mechanism:   mechanism,
		noisedCount: enc.NoisedCount,
		n:           enc.N,
		state:       enc.State,
	}
	return nil
}
