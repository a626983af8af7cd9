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

package data

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/nolanspecter/sp500/common"
	"github.com/nolanspecter/sp500/data/database"
	"github.com/nolanspecter/sp500/dataframe"
	"github.com/rs/zerolog/log"
)

// PriceDb loads daily closing prices from the local price store
type PriceDb struct {
}

// NewPriceDb creates a new price store data provider
func NewPriceDb() *PriceDb {
	return &PriceDb{}
}

// Fetch returns closing prices for the requested tickers over [begin, end]
// inclusive, pivoted so each ticker is a column and the date is the index.
// Cells with no matching row are back-filled from the next available
// observation for that ticker; every back-fill is logged because the filled
// series is a lossy approximation of the source data. Tickers with no rows
// at all are dropped from the result and logged.
//
// The database transaction is opened and closed within this call; it is
// never shared or held across calls.
func (p *PriceDb) Fetch(ctx context.Context, tickers []string, begin, end time.Time) (*dataframe.DataFrame, error) {
	subLog := log.With().Strs("Tickers", tickers).Time("Begin", begin).Time("End", end).Logger()

	if len(tickers) == 0 {
		return nil, ErrNoTickers
	}
	if end.Before(begin) {
		subLog.Error().Stack().Msg("end before begin in call to Fetch")
		return nil, ErrInvalidTimeRange
	}

	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when querying prices")
		return nil, err
	}

	// the single- and multi-ticker query shapes are semantically identical;
	// both are kept because the store must answer them identically
	args := make([]interface{}, 0, len(tickers)+2)
	args = append(args, begin, end)

	var sql string
	if len(tickers) == 1 {
		sql = "SELECT event_date, ticker, close FROM prices WHERE ticker = $3 AND event_date BETWEEN $1 AND $2 ORDER BY event_date, ticker"
		args = append(args, tickers[0])
	} else {
		placeholders := make([]string, len(tickers))
		for idx, ticker := range tickers {
			placeholders[idx] = fmt.Sprintf("$%d", idx+3)
			args = append(args, ticker)
		}
		sql = fmt.Sprintf("SELECT event_date, ticker, close FROM prices WHERE ticker IN (%s) AND event_date BETWEEN $1 AND $2 ORDER BY event_date, ticker", strings.Join(placeholders, ", "))
	}

	rows, err := trx.Query(ctx, sql, args...)
	if err != nil {
		subLog.Error().Stack().Err(err).Str("SQL", sql).Msg("could not query prices")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	tz := common.GetTimezone()
	prices := make(map[time.Time]map[string]float64)

	for rows.Next() {
		var eventDate time.Time
		var ticker string
		var closePrice float64

		if err := rows.Scan(&eventDate, &ticker, &closePrice); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not scan price row")
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}

		eventDate = time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, tz)
		row, ok := prices[eventDate]
		if !ok {
			row = make(map[string]float64, len(tickers))
			prices[eventDate] = row
		}
		row[ticker] = closePrice
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	if len(prices) == 0 {
		subLog.Error().Stack().Msg("query matched no price rows")
		return nil, ErrNoData
	}

	return pivot(prices, tickers), nil
}

// pivot turns (date, ticker) -> close into a date-indexed dataframe with one
// column per ticker. The date index is the union of dates present for the
// requested tickers.
func pivot(prices map[time.Time]map[string]float64, tickers []string) *dataframe.DataFrame {
	dates := make([]time.Time, 0, len(prices))
	for dt := range prices {
		dates = append(dates, dt)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	df := dataframe.New(dates, tickers...)
	for rowIdx, dt := range dates {
		row := prices[dt]
		for colIdx, ticker := range tickers {
			if v, ok := row[ticker]; ok {
				df.Vals[colIdx][rowIdx] = v
			}
		}
	}

	// drop tickers with no rows at all; they cannot be back-filled
	keepNames := make([]string, 0, len(df.ColNames))
	keepVals := make([][]float64, 0, len(df.Vals))
	for colIdx, colName := range df.ColNames {
		empty := true
		for _, v := range df.Vals[colIdx] {
			if !math.IsNaN(v) {
				empty = false
				break
			}
		}
		if empty {
			log.Warn().Str("Ticker", colName).Msg("no price rows for ticker in requested range; dropping column")
			continue
		}
		keepNames = append(keepNames, colName)
		keepVals = append(keepVals, df.Vals[colIdx])
	}
	df.ColNames = keepNames
	df.Vals = keepVals

	// back-fill remaining gaps from the next available observation; this is
	// a lossy data-availability policy, not a correctness guarantee
	for ticker, cnt := range df.BackFill() {
		log.Warn().Str("Ticker", ticker).Int("FilledCells", cnt).Msg("back-filled missing prices from next available observation")
	}

	return df
}
