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

package optimize

import (
	"errors"
	"math"

	"github.com/nolanspecter/sp500/dataframe"
	"github.com/nolanspecter/sp500/portfolio"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	gooptimize "gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes daily return and covariance estimates
const TradingDaysPerYear = 252

// minReturnRows is the fewest daily return observations accepted as
// optimization input; anything less produces a degenerate covariance
const minReturnRows = 3

var (
	ErrTooFewTickers       = errors.New("max-Sharpe optimization needs at least 2 tickers")
	ErrInsufficientHistory = errors.New("not enough historical observations for optimization")
	ErrOptimizationFailed  = errors.New("max-Sharpe optimization did not converge")
)

// penaltyWeight enforces the sum-to-one constraint via the penalty method
const penaltyWeight = 1000.0

// MaxSharpe computes long-only weights maximizing the Sharpe ratio
// (mu'w - rf) / sqrt(w' sigma w) over the historical price table. Expected
// returns are annualized mean daily returns; sigma is the annualized sample
// covariance. The returned weights are keyed by the price table's columns
// and sum to 1.0.
func MaxSharpe(prices *dataframe.DataFrame, riskFreeRate float64) (portfolio.Weights, error) {
	prices = prices.Copy().Drop(math.NaN())

	n := prices.ColCount()
	if n < 2 {
		return nil, ErrTooFewTickers
	}

	// daily simple returns; the first row has no prior observation
	returns := prices.PctChange()
	rows := returns.Len() - 1
	if rows < minReturnRows {
		return nil, ErrInsufficientHistory
	}

	retMat := mat.NewDense(rows, n, nil)
	mu := make([]float64, n)
	for colIdx := range returns.ColNames {
		col := returns.Vals[colIdx][1:]
		for rowIdx, v := range col {
			retMat.Set(rowIdx, colIdx, v)
		}
		mu[colIdx] = stat.Mean(col, nil) * TradingDaysPerYear
	}

	sigma := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(sigma, retMat, nil)
	sigma.ScaleSym(TradingDaysPerYear, sigma)

	weights, err := solveMaxSharpe(mu, sigma, riskFreeRate)
	if err != nil {
		return nil, err
	}

	res := make(portfolio.Weights, n)
	for idx, ticker := range prices.ColNames {
		res[idx] = portfolio.Weight{Ticker: ticker, Value: weights[idx]}
	}

	log.Debug().Strs("Tickers", prices.ColNames).Floats64("Weights", weights).Msg("solved max-Sharpe weights")
	return res, nil
}

// solveMaxSharpe minimizes the negative Sharpe ratio with a quadratic
// penalty on the sum-to-one constraint; weights are projected into [0, 1]
// (long-only)
func solveMaxSharpe(mu []float64, sigma *mat.SymDense, riskFreeRate float64) ([]float64, error) {
	n := len(mu)

	stats := func(w []float64) (excess, stdDev float64) {
		excess = -riskFreeRate
		var variance float64
		for i := 0; i < n; i++ {
			excess += mu[i] * w[i]
			for j := 0; j < n; j++ {
				variance += w[i] * w[j] * sigma.At(i, j)
			}
		}
		return excess, math.Sqrt(math.Max(variance, 1e-10))
	}

	problem := gooptimize.Problem{
		Func: func(x []float64) float64 {
			w := clampUnit(x)
			excess, stdDev := stats(w)

			sum := 0.0
			for i := 0; i < n; i++ {
				sum += w[i]
			}

			return -excess/stdDev + penaltyWeight*(sum-1.0)*(sum-1.0)
		},
		Grad: func(grad, x []float64) {
			w := clampUnit(x)
			excess, stdDev := stats(w)

			sum := 0.0
			for i := 0; i < n; i++ {
				sum += w[i]
			}

			for i := 0; i < n; i++ {
				var dVariance float64
				for j := 0; j < n; j++ {
					dVariance += 2 * sigma.At(i, j) * w[j]
				}
				grad[i] = -mu[i]/stdDev + excess*dVariance/(2*stdDev*stdDev*stdDev)
				grad[i] += 2 * penaltyWeight * (sum - 1.0)
			}
		},
	}

	initial := make([]float64, n)
	for i := range initial {
		initial[i] = 1.0 / float64(n)
	}

	result, err := gooptimize.Minimize(problem, initial, &gooptimize.Settings{}, &gooptimize.BFGS{})
	if err != nil || !converged(result.Status) {
		// BFGS struggles near the projection boundary; retry derivative-free
		result, err = gooptimize.Minimize(problem, initial, &gooptimize.Settings{}, &gooptimize.NelderMead{})
		if err != nil {
			log.Error().Err(err).Msg("max-Sharpe optimization failed")
			return nil, ErrOptimizationFailed
		}
		if !converged(result.Status) {
			log.Error().Str("Status", result.Status.String()).Msg("max-Sharpe optimization did not converge")
			return nil, ErrOptimizationFailed
		}
	}

	weights := clampUnit(result.X)
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 || math.IsNaN(sum) {
		return nil, ErrOptimizationFailed
	}
	for i := range weights {
		weights[i] /= sum
	}

	return weights, nil
}

func converged(status gooptimize.Status) bool {
	switch status {
	case gooptimize.Success, gooptimize.GradientThreshold, gooptimize.FunctionConvergence:
		return true
	default:
		return false
	}
}

func clampUnit(x []float64) []float64 {
	proj := make([]float64, len(x))
	for i, v := range x {
		proj[i] = math.Max(0.0, math.Min(1.0, v))
	}
	return proj
}
