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

package workflow

import "strings"

// TickerPicker collects a non-empty subset of the ticker universe. It owns
// all selection state; the presentation layer renders Visible() and relays
// operator actions as method calls.
type TickerPicker struct {
	universe []string
	filter   string

	// shown holds the selection state of every ticker that has been
	// presented by any filtered view; the select-all shortcut applies to
	// this whole map, not only to the tickers visible right now
	shown map[string]bool

	cancelled bool
}

// NewTickerPicker creates a picker over the given universe. Symbols must
// already be normalized; duplicates are dropped. The initial, unfiltered
// view presents the entire universe.
func NewTickerPicker(universe []string) *TickerPicker {
	unique := make([]string, 0, len(universe))
	seen := make(map[string]bool, len(universe))
	for _, ticker := range universe {
		if !seen[ticker] {
			seen[ticker] = true
			unique = append(unique, ticker)
		}
	}

	p := &TickerPicker{
		universe: unique,
		shown:    make(map[string]bool, len(unique)),
	}
	p.SetFilter("")
	return p
}

// SetFilter narrows the visible list to tickers containing text
// (case-insensitive); selection state of hidden tickers is retained
func (p *TickerPicker) SetFilter(text string) {
	p.filter = strings.ToLower(strings.TrimSpace(text))
	for _, ticker := range p.Visible() {
		if _, ok := p.shown[ticker]; !ok {
			p.shown[ticker] = false
		}
	}
}

// Visible returns the tickers matching the current filter, in universe order
func (p *TickerPicker) Visible() []string {
	visible := make([]string, 0, len(p.universe))
	for _, ticker := range p.universe {
		if p.filter == "" || strings.Contains(strings.ToLower(ticker), p.filter) {
			visible = append(visible, ticker)
		}
	}
	return visible
}

// Toggle flips the selection state of a ticker and returns the new state
func (p *TickerPicker) Toggle(ticker string) (bool, error) {
	if _, ok := p.shown[ticker]; !ok {
		return false, ErrUnknownTicker
	}
	p.shown[ticker] = !p.shown[ticker]
	return p.shown[ticker], nil
}

// SelectAll sets the selection state of every ticker any filtered view has
// presented
func (p *TickerPicker) SelectAll(state bool) {
	for ticker := range p.shown {
		p.shown[ticker] = state
	}
}

// Selected returns the chosen tickers in universe order
func (p *TickerPicker) Selected() []string {
	selected := make([]string, 0, len(p.shown))
	for _, ticker := range p.universe {
		if p.shown[ticker] {
			selected = append(selected, ticker)
		}
	}
	return selected
}

// Cancel marks the workflow as abandoned; Submit will fail afterwards
func (p *TickerPicker) Cancel() {
	p.cancelled = true
}

// Submit finalizes the selection. An empty selection is rejected with
// ErrEmptySelection and the picker remains usable so the operator can be
// prompted again.
func (p *TickerPicker) Submit() ([]string, error) {
	if p.cancelled {
		return nil, ErrCancelled
	}

	selected := p.Selected()
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	return selected, nil
}
