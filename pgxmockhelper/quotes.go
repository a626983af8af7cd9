// Copyright 2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pgxmockhelper

import (
	"time"

	"github.com/pashagolub/pgxmock"
)

// Quote is one (event_date, ticker, close) row of the mocked price store
type Quote struct {
	Date   time.Time
	Ticker string
	Close  float64
}

// MockPriceQuery queues the transaction and query expectations for a single
// price fetch against the mocked price store
func MockPriceQuery(db pgxmock.PgxConnIface, quotes []Quote) {
	rows := pgxmock.NewRows([]string{"event_date", "ticker", "close"})
	for _, quote := range quotes {
		rows.AddRow(quote.Date, quote.Ticker, quote.Close)
	}

	db.ExpectBegin()
	db.ExpectQuery("SELECT event_date, ticker, close FROM prices").WillReturnRows(rows)
	db.ExpectCommit()
}

// MockUniverseQuery queues the transaction and query expectations for a
// single constituent universe load
func MockUniverseQuery(db pgxmock.PgxConnIface, tickers []string) {
	rows := pgxmock.NewRows([]string{"ticker"})
	for _, ticker := range tickers {
		rows.AddRow(ticker)
	}

	db.ExpectBegin()
	db.ExpectQuery("SELECT DISTINCT ticker FROM prices").WillReturnRows(rows)
	db.ExpectCommit()
}
