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
	"math"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// This file contains structs, functions, and values shared by the tests of
// this package.

// ln3 yields a retention probability of exactly 0.75, which keeps expected
// values in tests exactly representable.
var ln3 = math.Log(3)

// noFlip is a Source whose draws always fall below the retention
// probability, so every observation passes through unchanged.
type noFlip struct{}

func (noFlip) Uniform() float64 {
	return 0
}

// allFlip is a Source whose draws always exceed any retention probability
// below 1, so every observation is flipped.
type allFlip struct{}

func (allFlip) Uniform() float64 {
	return 1
}

func approxEqual(x, y float64) bool {
	return cmp.Equal(x, y, cmpopts.EquateApprox(0, 1e-10))
}
