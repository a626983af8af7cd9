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
	"math"
	"time"
)

// allocationTolerance bounds acceptable floating point error on the
// must-equal-100 check
const allocationTolerance = 1e-9

// AllocationForm collects a percentage per chosen ticker plus the display
// date range. Entries default to an equal split that sums to exactly 100.
// The rule is applied uniformly: no single edit may push the total above
// 100, and the total must equal exactly 100 at submission.
type AllocationForm struct {
	tickers  []string
	percents map[string]float64

	start time.Time
	end   time.Time

	cancelled bool
}

// NewAllocationForm creates a form for the chosen tickers with an
// equal-split default
func NewAllocationForm(tickers []string) *AllocationForm {
	form := &AllocationForm{
		tickers:  make([]string, len(tickers)),
		percents: make(map[string]float64, len(tickers)),
	}
	copy(form.tickers, tickers)

	for ticker, pct := range EqualSplit(form.tickers) {
		form.percents[ticker] = pct
	}

	return form
}

// EqualSplit divides 100 evenly across tickers at two-decimal precision,
// assigning the rounding remainder to the last ticker so the total is
// exactly 100
func EqualSplit(tickers []string) map[string]float64 {
	split := make(map[string]float64, len(tickers))
	if len(tickers) == 0 {
		return split
	}

	base := math.Floor(100.0/float64(len(tickers))*100.0) / 100.0
	total := 0.0
	for _, ticker := range tickers[:len(tickers)-1] {
		split[ticker] = base
		total += base
	}
	split[tickers[len(tickers)-1]] = math.Round((100.0-total)*100.0) / 100.0

	return split
}

// ValidateEdit checks a proposed entry edit against the current percentage
// map without mutating it. The returned error is nil when applying the edit
// keeps the total at or below 100.
func ValidateEdit(percents map[string]float64, ticker string, value float64) error {
	if _, ok := percents[ticker]; !ok {
		return ErrUnknownTicker
	}
	if value < 0 {
		return ErrNegativePercent
	}

	total := value
	for t, pct := range percents {
		if t != ticker {
			total += pct
		}
	}

	if total > 100.0+allocationTolerance {
		return ErrOverAllocated
	}

	return nil
}

// Percent returns the current entry for a ticker
func (f *AllocationForm) Percent(ticker string) float64 {
	return f.percents[ticker]
}

// Tickers returns the form's tickers in entry order
func (f *AllocationForm) Tickers() []string {
	tickers := make([]string, len(f.tickers))
	copy(tickers, f.tickers)
	return tickers
}

// SetPercent applies an edit to a single entry. An edit that would push the
// total above 100 is rejected and the offending entry is reset to zero, so
// the operator re-enters it rather than the form silently clamping.
func (f *AllocationForm) SetPercent(ticker string, value float64) error {
	if err := ValidateEdit(f.percents, ticker, value); err != nil {
		if err == ErrOverAllocated {
			f.percents[ticker] = 0
		}
		return err
	}

	f.percents[ticker] = value
	return nil
}

// Remaining returns 100 minus the current total, recomputed on every edit
// for operator feedback
func (f *AllocationForm) Remaining() float64 {
	total := 0.0
	for _, pct := range f.percents {
		total += pct
	}
	return 100.0 - total
}

// SetDates records the display window bounds
func (f *AllocationForm) SetDates(start, end time.Time) {
	f.start = start
	f.end = end
}

// Cancel marks the workflow as abandoned; Submit will fail afterwards
func (f *AllocationForm) Cancel() {
	f.cancelled = true
}

// Submit finalizes the allocation and date range. Each violated condition
// has its own error so the operator gets a specific message: total above
// 100, total below 100, missing dates, or inverted dates. All are
// recoverable; the form stays usable.
func (f *AllocationForm) Submit() (Allocation, DateRange, error) {
	if f.cancelled {
		return Allocation{}, DateRange{}, ErrCancelled
	}

	remaining := f.Remaining()
	switch {
	case remaining < -allocationTolerance:
		return Allocation{}, DateRange{}, ErrOverAllocated
	case remaining > allocationTolerance:
		return Allocation{}, DateRange{}, ErrUnderAllocated
	}

	if f.start.IsZero() || f.end.IsZero() {
		return Allocation{}, DateRange{}, ErrMissingDates
	}
	if !f.start.Before(f.end) {
		return Allocation{}, DateRange{}, ErrInvalidDates
	}

	percents := make(map[string]float64, len(f.percents))
	for ticker, pct := range f.percents {
		percents[ticker] = pct
	}
	tickers := make([]string, len(f.tickers))
	copy(tickers, f.tickers)

	return Allocation{tickers: tickers, percents: percents},
		DateRange{Start: f.start, End: f.end},
		nil
}
