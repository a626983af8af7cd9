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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/nolanspecter/sp500/data"
)

var _ = Describe("LookbackWindow", func() {
	It("spans five years ending the day before the start date", func() {
		begin, end := data.LookbackWindow(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC))
		Expect(begin).To(Equal(time.Date(2019, time.January, 15, 0, 0, 0, 0, time.UTC)))
		Expect(end).To(Equal(time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)))
	})

	It("handles leap days via date normalization", func() {
		begin, end := data.LookbackWindow(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC))
		Expect(begin).To(Equal(time.Date(2019, time.March, 1, 0, 0, 0, 0, time.UTC)))
		Expect(end).To(Equal(time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC)))
	})
})
