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
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nolanspecter/sp500/common"
	"github.com/nolanspecter/sp500/dataframe"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var tiingoAPI = "https://api.tiingo.com"

// Benchmark downloads the reference index quotes used for overlay
// comparison
type Benchmark struct {
	ticker string
	apikey string
}

type tiingoJSONResponse struct {
	Date     string  `json:"date"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adjClose"`
}

// NewBenchmark creates a benchmark provider for the configured reference
// index ticker
func NewBenchmark() *Benchmark {
	return &Benchmark{
		ticker: viper.GetString("benchmark.ticker"),
		apikey: viper.GetString("tiingo.token"),
	}
}

// Fetch returns daily closes for the benchmark ticker over [begin, end] as a
// single-column dataframe. Responses are cached per (ticker, range) for the
// lifetime of the run.
func (b *Benchmark) Fetch(ctx context.Context, begin, end time.Time) (*dataframe.DataFrame, error) {
	subLog := log.With().Str("Ticker", b.ticker).Time("Begin", begin).Time("End", end).Logger()

	cacheKey := fmt.Sprintf("benchmark:%s:%s:%s", b.ticker, begin.Format("2006-01-02"), end.Format("2006-01-02"))
	if body, err := common.CacheGet(cacheKey); err == nil {
		return b.parse(body)
	}

	url := fmt.Sprintf("%s/tiingo/daily/%s/prices?startDate=%s&endDate=%s&resampleFreq=daily&token=%s",
		tiingoAPI, b.ticker, begin.Format("2006-01-02"), end.Format("2006-01-02"), b.apikey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		subLog.Error().Err(err).Msg("could not build benchmark request")
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		subLog.Error().Err(err).Msg("benchmark http request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("benchmark provider returned invalid response code")
		return nil, fmt.Errorf("%w: HTTP status %d", ErrBenchmark, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		subLog.Error().Err(err).Msg("could not read benchmark body")
		return nil, err
	}

	if err := common.CacheSet(cacheKey, body); err != nil {
		subLog.Warn().Err(err).Msg("could not cache benchmark response")
	}

	return b.parse(body)
}

func (b *Benchmark) parse(body []byte) (*dataframe.DataFrame, error) {
	jsonResp := []tiingoJSONResponse{}
	if err := json.Unmarshal(body, &jsonResp); err != nil {
		log.Error().Err(err).Msg("could not unmarshal benchmark json")
		return nil, err
	}

	if len(jsonResp) == 0 {
		return nil, ErrBenchmark
	}

	tz := common.GetTimezone()
	dates := make([]time.Time, 0, len(jsonResp))
	closes := make([]float64, 0, len(jsonResp))

	for _, quote := range jsonResp {
		dtParts := strings.Split(quote.Date, "T")
		dt, err := time.ParseInLocation("2006-01-02", dtParts[0], tz)
		if err != nil {
			log.Error().Err(err).Str("DateStr", quote.Date).Msg("cannot parse benchmark date string")
			return nil, err
		}
		dates = append(dates, dt)
		closes = append(closes, quote.AdjClose)
	}

	return &dataframe.DataFrame{
		Dates:    dates,
		ColNames: []string{b.ticker},
		Vals:     [][]float64{closes},
	}, nil
}
