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

package cmd

import (
	"context"
	"math"
	"time"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/nolanspecter/sp500/common"
	"github.com/nolanspecter/sp500/data"
	"github.com/nolanspecter/sp500/dataframe"
	"github.com/nolanspecter/sp500/pgxmockhelper"
	"github.com/nolanspecter/sp500/workflow"
	"github.com/spf13/viper"
)

var _ = Describe("alignColumn", func() {
	It("matches dates naming the same instant in different location instances", func() {
		// two LoadLocation calls return distinct *time.Location pointers for
		// the same zone; alignment must match on the instant regardless
		tzA, err := time.LoadLocation("America/New_York")
		Expect(err).To(BeNil())
		tzB, err := time.LoadLocation("America/New_York")
		Expect(err).To(BeNil())

		target := []time.Time{
			time.Date(2021, time.January, 4, 0, 0, 0, 0, tzA),
			time.Date(2021, time.January, 5, 0, 0, 0, 0, tzA),
		}
		value := &dataframe.DataFrame{
			Dates: []time.Time{
				time.Date(2021, time.January, 4, 0, 0, 0, 0, tzB),
				time.Date(2021, time.January, 5, 0, 0, 0, 0, tzB),
			},
			ColNames: []string{common.ValueCol},
			Vals:     [][]float64{{1000.0, 1010.0}},
		}

		col := alignColumn(target, value)
		Expect(col).To(Equal([]float64{1000.0, 1010.0}))
	})

	It("fills uncovered dates with NaN", func() {
		tz := common.GetTimezone()
		target := []time.Time{
			time.Date(2021, time.January, 4, 0, 0, 0, 0, tz),
			time.Date(2021, time.January, 5, 0, 0, 0, 0, tz),
			time.Date(2021, time.January, 6, 0, 0, 0, 0, tz),
		}
		value := &dataframe.DataFrame{
			Dates: []time.Time{
				time.Date(2021, time.January, 4, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 6, 0, 0, 0, 0, tz),
			},
			ColNames: []string{common.ValueCol},
			Vals:     [][]float64{{1000.0, 1020.0}},
		}

		col := alignColumn(target, value)
		Expect(col[0]).To(Equal(1000.0))
		Expect(math.IsNaN(col[1])).To(BeTrue())
		Expect(col[2]).To(Equal(1020.0))
	})
})

var _ = Describe("chartSeries", func() {
	It("carries the last observation forward over NaN cells", func() {
		col, ok := chartSeries([]float64{math.NaN(), 1000.0, math.NaN(), 1020.0})
		Expect(ok).To(BeTrue())
		Expect(col).To(Equal([]float64{1000.0, 1000.0, 1000.0, 1020.0}))
	})

	It("reports a series with no observations", func() {
		_, ok := chartSeries([]float64{math.NaN(), math.NaN()})
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("benchmarkValue", func() {
	var (
		ctx       context.Context
		dateRange workflow.DateRange
	)

	BeforeEach(func() {
		ctx = context.Background()
		viper.Set("benchmark.ticker", "SPY")
		viper.Set("tiingo.token", "TEST")
		httpmock.Activate()

		dateRange = workflow.DateRange{
			Start: time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2021, time.January, 6, 0, 0, 0, 0, time.UTC),
		}

		httpmock.RegisterResponder("GET", "https://api.tiingo.com/tiingo/daily/SPY/prices?startDate=2021-01-04&endDate=2021-01-06&resampleFreq=daily&token=TEST",
			httpmock.NewStringResponder(200, `[
				{"date": "2021-01-04T00:00:00.000Z", "close": 368.79, "adjClose": 350.00},
				{"date": "2021-01-05T00:00:00.000Z", "close": 371.33, "adjClose": 353.50},
				{"date": "2021-01-06T00:00:00.000Z", "close": 373.55, "adjClose": 357.00}
			]`))
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	It("aligns onto a price-store date axis without losing values", func() {
		pgxmockhelper.MockPriceQuery(dbPool, []pgxmockhelper.Quote{
			{Date: time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC), Ticker: "AAPL", Close: 100.0},
			{Date: time.Date(2021, time.January, 5, 0, 0, 0, 0, time.UTC), Ticker: "AAPL", Close: 110.0},
			{Date: time.Date(2021, time.January, 6, 0, 0, 0, 0, time.UTC), Ticker: "AAPL", Close: 105.0},
		})

		prices, err := data.NewPriceDb().Fetch(ctx, []string{"AAPL"}, dateRange.Start, dateRange.End)
		Expect(err).To(BeNil())

		value := benchmarkValue(ctx, dateRange)
		Expect(value).ToNot(BeNil())

		col := alignColumn(prices.Dates, value)
		Expect(col[0]).To(Equal(1000.0))
		Expect(col[1]).To(BeNumerically("~", 1010.0, 1e-9))
		Expect(col[2]).To(BeNumerically("~", 1020.0, 1e-9))
	})
})
