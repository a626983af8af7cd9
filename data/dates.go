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

import "time"

// LookbackYears is the length of the historical window used as optimization
// input
const LookbackYears = 5

// LookbackWindow derives the historical window used for optimization input:
// [start - 5 years, start - 1 day]. The window ends the day before `start`,
// so no observation from the display window can leak into the optimization
// input.
func LookbackWindow(start time.Time) (time.Time, time.Time) {
	return start.AddDate(-LookbackYears, 0, 0), start.AddDate(0, 0, -1)
}
