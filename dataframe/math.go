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

package dataframe

import (
	"math"
)

// AddScalar adds the scalar value to all columns and returns a new dataframe
func (df *DataFrame) AddScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx := range df.Vals[colIdx] {
			df.Vals[colIdx][rowIdx] += scalar
		}
	}
	return df
}

// MulScalar multiplies all columns by the scalar and returns a new dataframe
func (df *DataFrame) MulScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		for rowIdx := range df.Vals[colIdx] {
			df.Vals[colIdx][rowIdx] *= scalar
		}
	}
	return df
}

// PctChange computes the period-over-period simple return of each column,
// r_t = v_t / v_{t-1} - 1, and returns a new dataframe. The first row has no
// prior observation and is NaN.
func (df *DataFrame) PctChange() *DataFrame {
	df2 := df.Copy()

	for colIdx := range df2.Vals {
		col := df.Vals[colIdx]
		for rowIdx := len(col) - 1; rowIdx > 0; rowIdx-- {
			df2.Vals[colIdx][rowIdx] = col[rowIdx]/col[rowIdx-1] - 1.0
		}
		if len(col) > 0 {
			df2.Vals[colIdx][0] = math.NaN()
		}
	}

	return df2
}

// CumProd computes the running product of each column and returns a new
// dataframe. NaN entries do not advance the product; the running value is
// emitted in their place, so a leading NaN row yields 1.0.
func (df *DataFrame) CumProd() *DataFrame {
	df2 := df.Copy()

	for colIdx := range df2.Vals {
		roll := 1.0
		for rowIdx, v := range df.Vals[colIdx] {
			if !math.IsNaN(v) {
				roll *= v
			}
			df2.Vals[colIdx][rowIdx] = roll
		}
	}

	return df2
}

// BackFill replaces each NaN cell with the next chronologically available
// value in its column, in place. Cells with no later observation remain NaN.
// Returns the number of filled cells per column; a non-zero count means the
// result is a lossy approximation of the source data.
func (df *DataFrame) BackFill() map[string]int {
	filled := make(map[string]int, len(df.ColNames))

	for colIdx, colName := range df.ColNames {
		col := df.Vals[colIdx]
		next := math.NaN()
		cnt := 0
		for rowIdx := len(col) - 1; rowIdx >= 0; rowIdx-- {
			if math.IsNaN(col[rowIdx]) {
				if !math.IsNaN(next) {
					col[rowIdx] = next
					cnt++
				}
			} else {
				next = col[rowIdx]
			}
		}
		if cnt > 0 {
			filled[colName] = cnt
		}
	}

	return filled
}
