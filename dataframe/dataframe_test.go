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

package dataframe_test

import (
	"math"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/nolanspecter/sp500/dataframe"
)

var _ = Describe("DataFrame", func() {
	Context("with no values", func() {
		var df *dataframe.DataFrame

		BeforeEach(func() {
			df = &dataframe.DataFrame{}
		})

		It("has zero length", func() {
			Expect(df.Len()).To(Equal(0))
		})

		It("has zero columns", func() {
			Expect(df.ColCount()).To(Equal(0))
		})

		It("does not error on drop", func() {
			df = df.Drop(1)
			Expect(df.Len()).To(Equal(0))
		})

		It("does not error on trim", func() {
			df = df.Trim(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
			Expect(df.Len()).To(Equal(0))
		})

		It("has zero value start and end dates", func() {
			Expect(df.Start().IsZero()).To(BeTrue())
			Expect(df.End().IsZero()).To(BeTrue())
		})
	})

	Context("with 5 days of values and two columns", func() {
		var df *dataframe.DataFrame

		BeforeEach(func() {
			df = &dataframe.DataFrame{
				Dates: []time.Time{
					time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.January, 2, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.January, 3, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC),
					time.Date(2021, time.January, 5, 0, 0, 0, 0, time.UTC),
				},
				ColNames: []string{"col1", "col2"},
				Vals: [][]float64{
					{1.0, 2.0, 3.0, 4.0, 5.0},
					{10.0, 20.0, 30.0, 40.0, 50.0},
				},
			}
		})

		It("finds columns by name", func() {
			Expect(df.ColIndex("col2")).To(Equal(1))
			Expect(df.ColIndex("missing")).To(Equal(-1))
		})

		It("returns column values", func() {
			col, err := df.Col("col2")
			Expect(err).To(BeNil())
			Expect(col).To(Equal([]float64{10.0, 20.0, 30.0, 40.0, 50.0}))
		})

		It("errors when the column does not exist", func() {
			_, err := df.Col("missing")
			Expect(err).To(Equal(dataframe.ErrColumnNotFound))
		})

		It("copies are independent of the original", func() {
			df2 := df.Copy()
			df2.Vals[0][0] = 99.0
			Expect(df.Vals[0][0]).To(Equal(1.0))
		})

		It("returns the start and end dates", func() {
			Expect(df.Start()).To(Equal(time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)))
			Expect(df.End()).To(Equal(time.Date(2021, time.January, 5, 0, 0, 0, 0, time.UTC)))
		})

		It("returns only the last row from Last", func() {
			last := df.Last()
			Expect(last.Len()).To(Equal(1))
			Expect(last.Dates[0]).To(Equal(time.Date(2021, time.January, 5, 0, 0, 0, 0, time.UTC)))
			Expect(last.Vals[0][0]).To(Equal(5.0))
			Expect(last.Vals[1][0]).To(Equal(50.0))
		})

		It("drops rows matching a value in any column", func() {
			df = df.Drop(30.0)
			Expect(df.Len()).To(Equal(4))
			Expect(df.Vals[0]).To(Equal([]float64{1.0, 2.0, 4.0, 5.0}))
		})

		It("drops rows containing NaN when dropping NaN", func() {
			df.Vals[1][2] = math.NaN()
			df = df.Drop(math.NaN())
			Expect(df.Len()).To(Equal(4))
			Expect(df.Vals[0]).To(Equal([]float64{1.0, 2.0, 4.0, 5.0}))
		})

		It("trims to an inclusive date range", func() {
			df2 := df.Trim(
				time.Date(2021, time.January, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC),
			)
			Expect(df2.Len()).To(Equal(3))
			Expect(df2.Vals[0]).To(Equal([]float64{2.0, 3.0, 4.0}))
		})

		It("trims to an empty dataframe when the range is disjoint", func() {
			df2 := df.Trim(
				time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC),
			)
			Expect(df2.Len()).To(Equal(0))
		})

		It("trims to an empty dataframe when the range is inverted", func() {
			df2 := df.Trim(
				time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2021, time.January, 2, 0, 0, 0, 0, time.UTC),
			)
			Expect(df2.Len()).To(Equal(0))
		})

		It("inserts a new column at the end", func() {
			df.Insert("col3", []float64{0.1, 0.2, 0.3, 0.4, 0.5})
			Expect(df.ColCount()).To(Equal(3))
			Expect(df.ColIndex("col3")).To(Equal(2))
		})

		It("renders every row of the table", func() {
			table := df.Table()
			Expect(strings.Contains(table, "2021-01-01")).To(BeTrue())
			Expect(strings.Contains(table, "2021-01-05")).To(BeTrue())
			Expect(strings.Contains(table, "3.0000")).To(BeTrue())
		})

		It("renders a placeholder when there is no data", func() {
			Expect((&dataframe.DataFrame{}).Table()).To(Equal("<NO DATA>"))
		})
	})

	Context("when created with New", func() {
		It("initializes every cell to NaN", func() {
			dates := []time.Time{
				time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2021, time.January, 2, 0, 0, 0, 0, time.UTC),
			}
			df := dataframe.New(dates, "col1", "col2")
			Expect(df.Len()).To(Equal(2))
			Expect(df.ColCount()).To(Equal(2))
			for _, col := range df.Vals {
				for _, v := range col {
					Expect(math.IsNaN(v)).To(BeTrue())
				}
			}
		})
	})
})
