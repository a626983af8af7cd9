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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/nolanspecter/sp500/data"
	"github.com/nolanspecter/sp500/data/database"
	"github.com/nolanspecter/sp500/dataframe"
	"github.com/nolanspecter/sp500/optimize"
	"github.com/nolanspecter/sp500/portfolio"
	"github.com/nolanspecter/sp500/workflow"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	portfolioCol = "PORTFOLIO"
	maxSharpeCol = "MAX SHARPE"
)

var (
	compareTickers []string
	comparePcts    []string
	compareBegin   string
	compareEnd     string
	compareTable   bool
)

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringSliceVar(&compareTickers, "tickers", []string{}, "tickers to hold; when omitted an interactive picker runs")
	compareCmd.Flags().StringSliceVar(&comparePcts, "percent", []string{}, "TICKER=PCT allocation overrides; unset tickers keep their equal-split default")
	compareCmd.Flags().StringVar(&compareBegin, "begin", "", "start of the comparison window (YYYY-MM-DD)")
	compareCmd.Flags().StringVar(&compareEnd, "end", "", "end of the comparison window (YYYY-MM-DD)")
	compareCmd.Flags().BoolVar(&compareTable, "table", false, "print the full daily value table in addition to the chart")
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Value a portfolio and compare it against the benchmark and the max-Sharpe weights",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()

		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}

		universe, err := data.NewSP500Universe().Constituents(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load ticker universe")
		}

		allocation, dateRange, err := buildAllocation(universe)
		if err != nil {
			if err == workflow.ErrCancelled {
				fmt.Println("cancelled")
				return
			}
			log.Fatal().Err(err).Msg("could not build allocation")
		}

		compare(ctx, allocation, dateRange)
		database.LogOpenTransactions()
	},
}

// buildAllocation runs either the flag-driven or the interactive workflow and
// returns a submitted allocation plus the display window
func buildAllocation(universe []string) (workflow.Allocation, workflow.DateRange, error) {
	if len(compareTickers) == 0 {
		return promptWorkflow(universe)
	}

	picker := workflow.NewTickerPicker(universe)
	for _, ticker := range compareTickers {
		if _, err := picker.Toggle(data.NormalizeSymbol(ticker)); err != nil {
			return workflow.Allocation{}, workflow.DateRange{}, fmt.Errorf("%w: %s", err, ticker)
		}
	}

	selected, err := picker.Submit()
	if err != nil {
		return workflow.Allocation{}, workflow.DateRange{}, err
	}

	form := workflow.NewAllocationForm(selected)
	for _, pct := range comparePcts {
		parts := strings.SplitN(pct, "=", 2)
		if len(parts) != 2 {
			return workflow.Allocation{}, workflow.DateRange{}, fmt.Errorf("invalid --percent value %q; expected TICKER=PCT", pct)
		}
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return workflow.Allocation{}, workflow.DateRange{}, fmt.Errorf("invalid --percent value %q: %w", pct, err)
		}
		if err := form.SetPercent(data.NormalizeSymbol(parts[0]), value); err != nil {
			return workflow.Allocation{}, workflow.DateRange{}, fmt.Errorf("%w: %s", err, parts[0])
		}
	}

	begin, err := parseDate(compareBegin)
	if err != nil {
		return workflow.Allocation{}, workflow.DateRange{}, err
	}
	end, err := parseDate(compareEnd)
	if err != nil {
		return workflow.Allocation{}, workflow.DateRange{}, err
	}
	form.SetDates(begin, end)

	return form.Submit()
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

// compare values the allocation over the display window and overlays the
// benchmark index and a max-Sharpe portfolio fit on the trailing lookback
// history. The optimization and benchmark halves are independent of the
// portfolio valuation; either may fail without suppressing the rest.
func compare(ctx context.Context, allocation workflow.Allocation, dateRange workflow.DateRange) {
	priceDb := data.NewPriceDb()

	prices, err := priceDb.Fetch(ctx, allocation.Tickers(), dateRange.Start, dateRange.End)
	if err != nil {
		log.Fatal().Err(err).Msg("could not fetch portfolio prices")
	}

	userValue, err := portfolio.Value(prices, allocation.Weights(), portfolio.BaseNotional)
	if err != nil {
		log.Fatal().Err(err).Msg("could not value portfolio")
	}

	combined := &dataframe.DataFrame{
		Dates:    userValue.Dates,
		ColNames: []string{portfolioCol},
		Vals:     [][]float64{userValue.Vals[0]},
	}

	if mptValue := maxSharpeValue(ctx, priceDb, allocation, dateRange, prices); mptValue != nil {
		combined.Insert(maxSharpeCol, alignColumn(combined.Dates, mptValue))
	}

	if benchValue := benchmarkValue(ctx, dateRange); benchValue != nil {
		combined.Insert(viper.GetString("benchmark.ticker"), alignColumn(combined.Dates, benchValue))
	}

	render(combined, allocation)
}

// maxSharpeValue fits max-Sharpe weights on the five-year lookback window and
// values them over the display window; returns nil when the optimization
// cannot produce a usable portfolio
func maxSharpeValue(ctx context.Context, priceDb *data.PriceDb, allocation workflow.Allocation, dateRange workflow.DateRange, prices *dataframe.DataFrame) *dataframe.DataFrame {
	lookbackBegin, lookbackEnd := dateRange.Lookback()

	history, err := priceDb.Fetch(ctx, allocation.Tickers(), lookbackBegin, lookbackEnd)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch lookback history; skipping max-Sharpe comparison")
		return nil
	}

	weights, err := optimize.MaxSharpe(history, viper.GetFloat64("portfolio.risk_free_rate"))
	if err != nil {
		log.Warn().Err(err).Msg("max-Sharpe optimization failed; skipping comparison")
		return nil
	}

	fmt.Println("\nmax-Sharpe weights (fit on trailing 5y):")
	for _, weight := range weights {
		fmt.Printf("  %-6s %6.2f%%\n", weight.Ticker, weight.Value*100.0)
	}

	value, err := portfolio.Value(prices, weights, portfolio.BaseNotional)
	if err != nil {
		log.Warn().Err(err).Msg("could not value max-Sharpe portfolio; skipping comparison")
		return nil
	}

	return value
}

// benchmarkValue normalizes the benchmark index through the same cumulative
// return pipeline as the portfolio so all series start at the base notional
func benchmarkValue(ctx context.Context, dateRange workflow.DateRange) *dataframe.DataFrame {
	ticker := viper.GetString("benchmark.ticker")

	quotes, err := data.NewBenchmark().Fetch(ctx, dateRange.Start, dateRange.End)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch benchmark quotes; skipping comparison")
		return nil
	}

	value, err := portfolio.Value(quotes, portfolio.Weights{{Ticker: ticker, Value: 1.0}}, portfolio.BaseNotional)
	if err != nil {
		log.Warn().Err(err).Msg("could not value benchmark; skipping comparison")
		return nil
	}

	return value
}

// alignColumn projects a single-column value series onto the target date
// index; dates the series does not cover are NaN. Keyed by instant rather
// than time.Time so two dates naming the same moment always match, even if
// their *time.Location pointers differ.
func alignColumn(dates []time.Time, value *dataframe.DataFrame) []float64 {
	byDate := make(map[int64]float64, value.Len())
	for rowIdx, dt := range value.Dates {
		byDate[dt.Unix()] = value.Vals[0][rowIdx]
	}

	col := make([]float64, len(dates))
	for rowIdx, dt := range dates {
		if v, ok := byDate[dt.Unix()]; ok {
			col[rowIdx] = v
		} else {
			col[rowIdx] = math.NaN()
		}
	}

	return col
}

func render(combined *dataframe.DataFrame, allocation workflow.Allocation) {
	fmt.Println("\nallocation:")
	for _, ticker := range allocation.Tickers() {
		fmt.Printf("  %-6s %6.2f%%\n", ticker, allocation.Percent(ticker))
	}

	if compareTable {
		fmt.Println()
		fmt.Println(combined.Table())
	}

	series := make([][]float64, 0, combined.ColCount())
	plotted := make([]string, 0, combined.ColCount())
	for colIdx := range combined.Vals {
		col, ok := chartSeries(combined.Vals[colIdx])
		if !ok {
			log.Warn().Str("Column", combined.ColNames[colIdx]).Msg("series has no values; omitting from chart")
			continue
		}
		series = append(series, col)
		plotted = append(plotted, combined.ColNames[colIdx])
	}

	caption := fmt.Sprintf("portfolio value %s to %s (%s)",
		combined.Start().Format("2006-01-02"), combined.End().Format("2006-01-02"),
		strings.Join(plotted, " / "))

	fmt.Println()
	fmt.Println(asciigraph.PlotMany(series, asciigraph.Height(15), asciigraph.Caption(caption)))

	fmt.Println("\nending value:")
	last := combined.Last()
	for colIdx, colName := range last.ColNames {
		fmt.Printf("  %-12s $%.2f\n", colName, last.Vals[colIdx][0])
	}
}

// chartSeries replaces NaN cells with the nearest preceding observation so
// the plot library always receives finite values; ok is false when the
// column has no observations at all
func chartSeries(col []float64) ([]float64, bool) {
	first := math.NaN()
	for _, v := range col {
		if !math.IsNaN(v) {
			first = v
			break
		}
	}
	if math.IsNaN(first) {
		return nil, false
	}

	out := make([]float64, len(col))
	prev := first
	for idx, v := range col {
		if math.IsNaN(v) {
			out[idx] = prev
		} else {
			out[idx] = v
			prev = v
		}
	}

	return out, true
}
