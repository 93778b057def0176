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

// Package response implements randomized response, a local differential
// privacy mechanism for binary data.
//
// Given a privacy parameter ε > 0, the mechanism reports a binary value
// unchanged with the retention probability p(ε) = e^ε/(1+e^ε) and flipped
// with probability 1-p(ε). Since p(ε) > 0.5 for every positive ε, each
// report carries signal about the true value while granting its holder
// plausible deniability.
package response

import (
	"fmt"
	"math"

	"github.com/marko-janic/Local-differential-privacy-testing/checks"
	"github.com/marko-janic/Local-differential-privacy-testing/rand"
)

// Source provides uniform random draws in (0, 1] that decide whether a
// value is retained. Implementations must return draws that are independent
// across invocations.
type Source interface {
	Uniform() float64
}

// secureSource draws from the buffered crypto/rand reader in the rand package.
type secureSource struct{}

func (secureSource) Uniform() float64 {
	return rand.Uniform()
}

// SecureSource returns a Source backed by cryptographically secure
// randomness. It is the default used when no Source is supplied.
func SecureSource() Source {
	return secureSource{}
}

// RetentionProbability returns p(ε) = e^ε/(1+e^ε), the probability that the
// mechanism reports a value unchanged. It requires ε to be strictly positive
// and finite, which bounds the result within (0.5, 1).
func RetentionProbability(epsilon float64) (float64, error) {
	if err := checks.CheckEpsilonStrict("Epsilon", epsilon); err != nil {
		return 0, err
	}
	return retentionProbability(epsilon), nil
}

// retentionProbability computes p(ε) as 1/(1+e^-ε), which stays finite for
// large ε where e^ε alone would overflow. The invariant p(ε) < 1 must hold
// for every finite ε; beyond ε ≈ 36.7 the quotient rounds to 1 in float64,
// so the result is capped at the largest float64 below 1.
func retentionProbability(epsilon float64) float64 {
	return math.Min(1/(1+math.Exp(-epsilon)), math.Nextafter(1, 0))
}

// Mechanism applies randomized response with a fixed privacy parameter.
// Each Randomize call consumes one uniform draw and is independent of all
// other calls; the mechanism keeps no state across invocations.
type Mechanism struct {
	epsilon float64
	p       float64
	src     Source
}

// MechanismOptions contains the options necessary to initialize a Mechanism.
type MechanismOptions struct {
	Epsilon float64 // Privacy parameter ε. Required, must be strictly positive and finite.
	Rand    Source  // Source of uniform draws. Defaults to SecureSource().
}

// NewMechanism returns a new Mechanism for the given options.
func NewMechanism(opt *MechanismOptions) (*Mechanism, error) {
	if opt == nil {
		opt = &MechanismOptions{}
	}
	if err := checks.CheckEpsilonStrict("Epsilon", opt.Epsilon); err != nil {
		return nil, fmt.Errorf("NewMechanism: %w", err)
	}
	src := opt.Rand
	if src == nil {
		src = SecureSource()
	}
	return &Mechanism{
		epsilon: opt.Epsilon,
		p:       retentionProbability(opt.Epsilon),
		src:     src,
	}, nil
}

// Epsilon returns the privacy parameter the mechanism was initialized with.
func (m *Mechanism) Epsilon() float64 {
	return m.epsilon
}

// RetentionProbability returns p(ε) for the mechanism's privacy parameter.
func (m *Mechanism) RetentionProbability() float64 {
	return m.p
}

// Randomize reports v unchanged with probability p(ε) and flipped with
// probability 1-p(ε). v must be exactly 0 or 1.
func (m *Mechanism) Randomize(v int64) (int64, error) {
	if err := checks.CheckBinaryValue("Value", v); err != nil {
		return 0, fmt.Errorf("Randomize: %w", err)
	}
	if m.src.Uniform() <= m.p {
		return v, nil
	}
	return 1 - v, nil
}

// RandomizeAll applies the mechanism independently to every value and
// returns the noised values in input order. The input slice is not modified.
// It fails on the first value outside {0, 1}.
func (m *Mechanism) RandomizeAll(values []int64) ([]int64, error) {
	noised := make([]int64, len(values))
	for i, v := range values {
		nv, err := m.Randomize(v)
		if err != nil {
			return nil, fmt.Errorf("RandomizeAll: value at index %d: %w", i, err)
		}
		noised[i] = nv
	}
	return noised, nil
}
