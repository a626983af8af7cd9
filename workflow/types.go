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

package workflow

import (
	"errors"
	"time"

	"github.com/nolanspecter/sp500/data"
	"github.com/nolanspecter/sp500/portfolio"
)

var (
	// ErrEmptySelection is recoverable; the picker stays usable and the
	// operator is prompted again
	ErrEmptySelection = errors.New("no tickers selected")

	// ErrCancelled means the operator closed a form without submitting;
	// callers must treat this as no selection made, not an empty result
	ErrCancelled = errors.New("operator cancelled the workflow")

	ErrUnknownTicker   = errors.New("ticker is not part of this form")
	ErrNegativePercent = errors.New("allocation percentage cannot be negative")
	ErrOverAllocated   = errors.New("total allocation exceeds 100%")
	ErrUnderAllocated  = errors.New("total allocation must equal exactly 100%")
	ErrMissingDates    = errors.New("both start and end dates must be set")
	ErrInvalidDates    = errors.New("start date must be before end date")
)

// DateRange is the display window selected by the operator; Start is
// strictly before End
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Lookback derives the historical window used as optimization input
func (r DateRange) Lookback() (time.Time, time.Time) {
	return data.LookbackWindow(r.Start)
}

// Allocation maps tickers to percentages summing to exactly 100. It is
// immutable once a form has been submitted; each workflow run creates a
// fresh one.
type Allocation struct {
	tickers  []string
	percents map[string]float64
}

// Tickers returns the tickers in entry order
func (a Allocation) Tickers() []string {
	tickers := make([]string, len(a.tickers))
	copy(tickers, a.tickers)
	return tickers
}

// Percent returns the percentage allocated to the ticker
func (a Allocation) Percent(ticker string) float64 {
	return a.percents[ticker]
}

// Weights converts percentages to normalized weights in entry order
func (a Allocation) Weights() portfolio.Weights {
	weights := make(portfolio.Weights, len(a.tickers))
	for idx, ticker := range a.tickers {
		weights[idx] = portfolio.Weight{Ticker: ticker, Value: a.percents[ticker] / 100.0}
	}
	return weights
}
