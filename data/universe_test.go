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

package data_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/nolanspecter/sp500/common"
	"github.com/nolanspecter/sp500/data"
	"github.com/nolanspecter/sp500/pgxmockhelper"
)

var _ = Describe("NormalizeSymbol", func() {
	It("rewrites share-class dots to dashes", func() {
		Expect(data.NormalizeSymbol("BRK.B")).To(Equal("BRK-B"))
		Expect(data.NormalizeSymbol("BF.B")).To(Equal("BF-B"))
	})

	It("leaves plain symbols unchanged", func() {
		Expect(data.NormalizeSymbol("AAPL")).To(Equal("AAPL"))
	})

	It("is idempotent", func() {
		Expect(data.NormalizeSymbol(data.NormalizeSymbol("BRK.B"))).To(Equal("BRK-B"))
	})
})

var _ = Describe("SP500Universe", func() {
	var (
		ctx      context.Context
		universe *data.SP500Universe
	)

	BeforeEach(func() {
		ctx = context.Background()
		universe = data.NewSP500Universe()
	})

	Context("with tickers in the price store", func() {
		BeforeEach(func() {
			pgxmockhelper.MockUniverseQuery(dbPool, []string{"AAPL", "BRK.B", "MSFT"})
		})

		It("returns normalized constituents and caches the result", func() {
			tickers, err := universe.Constituents(ctx)
			Expect(err).To(BeNil())
			Expect(tickers).To(Equal([]string{"AAPL", "BRK-B", "MSFT"}))

			// second call is served from cache; no query expectation queued
			tickers, err = universe.Constituents(ctx)
			Expect(err).To(BeNil())
			Expect(tickers).To(Equal([]string{"AAPL", "BRK-B", "MSFT"}))
		})
	})

	Context("when the cached payload is corrupt", func() {
		It("falls back to the price store", func() {
			Expect(common.CacheSet("universe:sp500", []byte("not json"))).To(BeNil())
			pgxmockhelper.MockUniverseQuery(dbPool, []string{"AAPL", "MSFT"})

			tickers, err := universe.Constituents(ctx)
			Expect(err).To(BeNil())
			Expect(tickers).To(Equal([]string{"AAPL", "MSFT"}))
		})
	})
})
