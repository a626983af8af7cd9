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
	"strings"

	"github.com/goccy/go-json"
	"github.com/nolanspecter/sp500/common"
	"github.com/nolanspecter/sp500/data/database"
	"github.com/rs/zerolog/log"
)

// Universe defines the set of tickers an operator may select from
type Universe interface {
	Constituents(ctx context.Context) ([]string, error)
}

// SP500Universe lists the constituents present in the price store
type SP500Universe struct {
}

// NewSP500Universe creates a new SP500Universe
func NewSP500Universe() *SP500Universe {
	return &SP500Universe{}
}

const universeCacheKey = "universe:sp500"

// NormalizeSymbol rewrites share-class dots to the dash convention the
// price store is keyed by, e.g. BRK.B -> BRK-B. It must be applied exactly
// once, at the point symbols enter the system; downstream code assumes
// symbols are already normalized.
func NormalizeSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, ".", "-")
}

// Constituents returns the sorted, normalized ticker universe. Results are
// cached for the lifetime of the run.
func (u *SP500Universe) Constituents(ctx context.Context) ([]string, error) {
	if raw, err := common.CacheGet(universeCacheKey); err == nil {
		var tickers []string
		if err = json.Unmarshal(raw, &tickers); err == nil {
			return tickers, nil
		}
		log.Warn().Err(err).Msg("could not unmarshal cached universe; reloading")
	}

	trx, err := database.Trx(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not get transaction when querying universe")
		return nil, err
	}

	rows, err := trx.Query(ctx, "SELECT DISTINCT ticker FROM prices ORDER BY ticker")
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not query universe")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	tickers := make([]string, 0, 500)
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			log.Error().Stack().Err(err).Msg("could not scan universe row")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		tickers = append(tickers, NormalizeSymbol(ticker))
	}

	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	if raw, err := json.Marshal(tickers); err == nil {
		if err := common.CacheSet(universeCacheKey, raw); err != nil {
			log.Warn().Err(err).Msg("could not cache universe")
		}
	}

	return tickers, nil
}
