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

package portfolio_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/nolanspecter/sp500/portfolio"
)

var _ = Describe("Weights", func() {
	It("sums weight values", func() {
		weights := portfolio.Weights{
			{Ticker: "AAPL", Value: 0.25},
			{Ticker: "MSFT", Value: 0.75},
		}
		Expect(weights.Sum()).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("preserves ticker order", func() {
		weights := portfolio.Weights{
			{Ticker: "MSFT", Value: 0.5},
			{Ticker: "AAPL", Value: 0.5},
		}
		Expect(weights.Tickers()).To(Equal([]string{"MSFT", "AAPL"}))
	})

	It("reports normalization within tolerance", func() {
		weights := portfolio.Weights{
			{Ticker: "AAPL", Value: 0.3333333},
			{Ticker: "MSFT", Value: 0.3333333},
			{Ticker: "GOOG", Value: 0.3333334},
		}
		Expect(weights.Normalized()).To(BeTrue())

		weights[0].Value = 0.5
		Expect(weights.Normalized()).To(BeFalse())
	})
})
