// Copyright 2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package portfolio

import "math"

// Weight assigns a fraction of the portfolio to a ticker
type Weight struct {
	Ticker string
	Value  float64
}

// Weights is an ordered set of ticker weights on a normalized (sum = 1.0)
// basis. Order is preserved because it fixes the summation order during
// valuation.
type Weights []Weight

// weightSumTolerance bounds the acceptable floating point error when
// checking that weights sum to 1.0
const weightSumTolerance = 1e-6

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	sum := 0.0
	for _, weight := range w {
		sum += weight.Value
	}
	return sum
}

// Tickers returns the tickers in weight order
func (w Weights) Tickers() []string {
	tickers := make([]string, len(w))
	for idx, weight := range w {
		tickers[idx] = weight.Ticker
	}
	return tickers
}

// Normalized reports whether the weights sum to 1.0 within floating point
// tolerance
func (w Weights) Normalized() bool {
	return math.Abs(w.Sum()-1.0) <= weightSumTolerance
}
