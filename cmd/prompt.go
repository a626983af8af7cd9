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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nolanspecter/sp500/data"
	"github.com/nolanspecter/sp500/workflow"
)

// promptWorkflow runs the interactive terminal workflow: pick tickers, then
// assign percentages and a date range. EOF on stdin cancels.
func promptWorkflow(universe []string) (workflow.Allocation, workflow.DateRange, error) {
	scanner := bufio.NewScanner(os.Stdin)

	selected, err := promptTickers(scanner, universe)
	if err != nil {
		return workflow.Allocation{}, workflow.DateRange{}, err
	}

	return promptAllocation(scanner, selected)
}

func promptTickers(scanner *bufio.Scanner, universe []string) ([]string, error) {
	picker := workflow.NewTickerPicker(universe)

	fmt.Printf("%d tickers available. Commands: <TICKER> toggle, /text filter, all, none, list, done, cancel\n", len(universe))

	for {
		fmt.Printf("[%d selected] > ", len(picker.Selected()))
		if !scanner.Scan() {
			picker.Cancel()
			_, err := picker.Submit()
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "cancel":
			picker.Cancel()
			_, err := picker.Submit()
			return nil, err
		case line == "done":
			selected, err := picker.Submit()
			if err == workflow.ErrEmptySelection {
				fmt.Println("select at least one ticker before done")
				continue
			}
			return selected, err
		case line == "all":
			picker.SelectAll(true)
		case line == "none":
			picker.SelectAll(false)
		case line == "list":
			printColumns(picker.Visible())
		case strings.HasPrefix(line, "/"):
			picker.SetFilter(line[1:])
			printColumns(picker.Visible())
		default:
			ticker := data.NormalizeSymbol(strings.ToUpper(line))
			state, err := picker.Toggle(ticker)
			if err != nil {
				fmt.Printf("unknown ticker %s (filter first with /%s?)\n", ticker, strings.ToLower(ticker))
				continue
			}
			if state {
				fmt.Printf("+ %s\n", ticker)
			} else {
				fmt.Printf("- %s\n", ticker)
			}
		}
	}
}

func promptAllocation(scanner *bufio.Scanner, selected []string) (workflow.Allocation, workflow.DateRange, error) {
	form := workflow.NewAllocationForm(selected)

	fmt.Println("\nAssign percentages (defaults are an equal split). Commands: <TICKER> <PCT>, dates <BEGIN> <END>, show, done, cancel")
	printForm(form)

	for {
		fmt.Printf("[%.2f%% remaining] > ", form.Remaining())
		if !scanner.Scan() {
			form.Cancel()
			_, _, err := form.Submit()
			return workflow.Allocation{}, workflow.DateRange{}, err
		}

		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		switch {
		case line == "":
			continue
		case line == "cancel":
			form.Cancel()
			_, _, err := form.Submit()
			return workflow.Allocation{}, workflow.DateRange{}, err
		case line == "show":
			printForm(form)
		case line == "done":
			allocation, dateRange, err := form.Submit()
			if err != nil {
				// every Submit error is recoverable; report and re-prompt
				fmt.Println(err)
				continue
			}
			return allocation, dateRange, nil
		case fields[0] == "dates" && len(fields) == 3:
			begin, err := time.Parse("2006-01-02", fields[1])
			if err != nil {
				fmt.Println("dates must be YYYY-MM-DD")
				continue
			}
			end, err := time.Parse("2006-01-02", fields[2])
			if err != nil {
				fmt.Println("dates must be YYYY-MM-DD")
				continue
			}
			form.SetDates(begin, end)
		case len(fields) == 2:
			value, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				fmt.Printf("%s is not a percentage\n", fields[1])
				continue
			}
			ticker := data.NormalizeSymbol(strings.ToUpper(fields[0]))
			if err := form.SetPercent(ticker, value); err != nil {
				fmt.Println(err)
				continue
			}
		default:
			fmt.Println("commands: <TICKER> <PCT>, dates <BEGIN> <END>, show, done, cancel")
		}
	}
}

func printForm(form *workflow.AllocationForm) {
	for _, ticker := range form.Tickers() {
		fmt.Printf("  %-6s %6.2f%%\n", ticker, form.Percent(ticker))
	}
}

func printColumns(tickers []string) {
	const perRow = 8
	for idx, ticker := range tickers {
		fmt.Printf("%-8s", ticker)
		if (idx+1)%perRow == 0 {
			fmt.Println()
		}
	}
	if len(tickers)%perRow != 0 {
		fmt.Println()
	}
}
