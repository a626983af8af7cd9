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

package optimize_test

import (
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/nolanspecter/sp500/dataframe"
	"github.com/nolanspecter/sp500/optimize"
)

// syntheticPrices builds a price table from daily return distributions
// (mean, stdDev) per column using a fixed seed
func syntheticPrices(days int, colNames []string, mean, stdDev []float64) *dataframe.DataFrame {
	rnd := rand.New(rand.NewSource(42))

	dates := make([]time.Time, days)
	vals := make([][]float64, len(colNames))
	for colIdx := range vals {
		vals[colIdx] = make([]float64, days)
		vals[colIdx][0] = 100.0
	}

	dt := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < days; day++ {
		dates[day] = dt
		dt = dt.AddDate(0, 0, 1)

		if day == 0 {
			continue
		}
		for colIdx := range vals {
			r := mean[colIdx] + stdDev[colIdx]*rnd.NormFloat64()
			vals[colIdx][day] = vals[colIdx][day-1] * (1.0 + r)
		}
	}

	return &dataframe.DataFrame{
		Dates:    dates,
		ColNames: colNames,
		Vals:     vals,
	}
}

var _ = Describe("MaxSharpe", func() {
	Context("with one clearly dominant asset", func() {
		var prices *dataframe.DataFrame

		BeforeEach(func() {
			prices = syntheticPrices(500,
				[]string{"GROWTH", "FLAT"},
				[]float64{0.002, -0.001},
				[]float64{0.01, 0.01})
		})

		It("returns normalized long-only weights keyed by price columns", func() {
			weights, err := optimize.MaxSharpe(prices, 0.04)
			Expect(err).To(BeNil())
			Expect(weights.Tickers()).To(Equal([]string{"GROWTH", "FLAT"}))

			sum := 0.0
			for _, weight := range weights {
				Expect(weight.Value).To(BeNumerically(">=", 0.0))
				Expect(weight.Value).To(BeNumerically("<=", 1.0))
				sum += weight.Value
			}
			Expect(sum).To(BeNumerically("~", 1.0, 1e-6))
		})

		It("concentrates in the asset with the higher risk-adjusted return", func() {
			weights, err := optimize.MaxSharpe(prices, 0.04)
			Expect(err).To(BeNil())
			Expect(weights[0].Value).To(BeNumerically(">", 0.75))
		})
	})

	Context("with two symmetric assets", func() {
		It("diversifies across both", func() {
			// both columns repeat the same return cycle, phase shifted, so
			// their means and variances are identical and the optimum splits
			// evenly
			cycleA := []float64{0.02, -0.01, 0.005, -0.005}
			cycleB := []float64{0.005, -0.005, 0.02, -0.01}

			days := 401
			dates := make([]time.Time, days)
			valsA := make([]float64, days)
			valsB := make([]float64, days)
			valsA[0] = 100.0
			valsB[0] = 100.0

			dt := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
			for day := 0; day < days; day++ {
				dates[day] = dt
				dt = dt.AddDate(0, 0, 1)
				if day == 0 {
					continue
				}
				valsA[day] = valsA[day-1] * (1.0 + cycleA[(day-1)%len(cycleA)])
				valsB[day] = valsB[day-1] * (1.0 + cycleB[(day-1)%len(cycleB)])
			}

			prices := &dataframe.DataFrame{
				Dates:    dates,
				ColNames: []string{"A", "B"},
				Vals:     [][]float64{valsA, valsB},
			}

			weights, err := optimize.MaxSharpe(prices, 0.04)
			Expect(err).To(BeNil())
			Expect(weights[0].Value).To(BeNumerically("~", 0.5, 0.1))
			Expect(weights[1].Value).To(BeNumerically("~", 0.5, 0.1))
		})
	})

	Context("with rows containing NaN", func() {
		It("ignores the incomplete rows", func() {
			prices := syntheticPrices(500,
				[]string{"GROWTH", "FLAT"},
				[]float64{0.002, -0.001},
				[]float64{0.01, 0.01})
			prices.Vals[0][0] = math.NaN()
			prices.Vals[1][10] = math.NaN()

			weights, err := optimize.MaxSharpe(prices, 0.04)
			Expect(err).To(BeNil())
			Expect(weights.Tickers()).To(Equal([]string{"GROWTH", "FLAT"}))
		})
	})

	Context("with invalid input", func() {
		It("rejects fewer than two tickers", func() {
			prices := syntheticPrices(500, []string{"ONLY"}, []float64{0.001}, []float64{0.01})
			_, err := optimize.MaxSharpe(prices, 0.04)
			Expect(err).To(Equal(optimize.ErrTooFewTickers))
		})

		It("rejects insufficient history", func() {
			prices := syntheticPrices(3,
				[]string{"A", "B"},
				[]float64{0.001, 0.001},
				[]float64{0.01, 0.01})
			_, err := optimize.MaxSharpe(prices, 0.04)
			Expect(err).To(Equal(optimize.ErrInsufficientHistory))
		})
	})
})
