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

import (
	"errors"
	"time"

	"github.com/nolanspecter/sp500/common"
	"github.com/nolanspecter/sp500/dataframe"
	"gonum.org/v1/gonum/floats"
)

// BaseNotional is the fixed starting value every portfolio series is
// normalized to
const BaseNotional = 1000.0

var (
	ErrWeightsNotNormalized = errors.New("weights do not sum to 1.0")
	ErrTickerNotInPrices    = errors.New("weighted ticker has no price column")
	ErrNoPrices             = errors.New("price table is empty")
)

// Value computes the rebalancing-free cumulative value of a portfolio. For
// each weighted ticker the simple-return series r_t = p_t/p_{t-1} - 1 is
// compounded into a cumulative growth factor (1.0 on the first row), scaled
// by baseNotional times the ticker's weight, and summed across tickers in
// weight order into a single VALUE column on exactly the input date index.
//
// Value is pure: it never mutates prices and identical inputs yield
// identical output.
func Value(prices *dataframe.DataFrame, weights Weights, baseNotional float64) (*dataframe.DataFrame, error) {
	if prices.Len() == 0 {
		return nil, ErrNoPrices
	}
	if !weights.Normalized() {
		return nil, ErrWeightsNotNormalized
	}

	for _, weight := range weights {
		if prices.ColIndex(weight.Ticker) == -1 {
			return nil, ErrTickerNotInPrices
		}
	}

	// cumulative growth factor per ticker; the first row has no price
	// relative and compounds as 1.0
	growth := prices.PctChange().AddScalar(1.0).CumProd()

	acc := make([]float64, prices.Len())
	for _, weight := range weights {
		colIdx := growth.ColIndex(weight.Ticker)
		floats.AddScaled(acc, baseNotional*weight.Value, growth.Vals[colIdx])
	}

	dates := make([]time.Time, len(prices.Dates))
	copy(dates, prices.Dates)

	return &dataframe.DataFrame{
		Dates:    dates,
		ColNames: []string{common.ValueCol},
		Vals:     [][]float64{acc},
	}, nil
}
