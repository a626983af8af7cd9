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
	"context"
	"fmt"

	"github.com/nolanspecter/sp500/data"
	"github.com/nolanspecter/sp500/data/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(universeCmd)
}

var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "List the selectable ticker universe",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()

		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}

		tickers, err := data.NewSP500Universe().Constituents(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load ticker universe")
		}

		for _, ticker := range tickers {
			fmt.Println(ticker)
		}
	},
}
