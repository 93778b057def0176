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

// aggregationState tracks the lifecycle of a BinaryCount. Observations can
// only be added in the default state; once an aggregate has been merged away,
// serialized, or released it cannot be amended.
type aggregationState int

const (
	defaultState aggregationState = iota
	merged
	serialized
	resultReturned
)

var stateNames = []string{"Default", "Merged", "Serialized", "ResultReturned"}

func (s aggregationState) String() string {
	return stateNames[s]
}

var stateErrorMessages = []string{
	"",
	"aggregate has already been merged into another BinaryCount",
	"aggregate has already been serialized",
	"result has already been computed and returned",
}

func (s aggregationState) errorMessage() string {
	return stateErrorMessages[s]
}
