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
	"fmt"
	"os"

	"github.com/nolanspecter/sp500/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Database
	if err := viper.BindEnv("database.url", "DATABASE_URL"); err != nil {
		panic(err)
	}
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	if err := viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url")); err != nil {
		panic(err)
	}

	// Benchmark data provider
	if err := viper.BindEnv("tiingo.token", "TIINGO_TOKEN"); err != nil {
		panic(err)
	}
	rootCmd.PersistentFlags().String("tiingo-token", "", "tiingo API token used for benchmark quotes")
	if err := viper.BindPFlag("tiingo.token", rootCmd.PersistentFlags().Lookup("tiingo-token")); err != nil {
		panic(err)
	}
	viper.SetDefault("benchmark.ticker", "SPY")

	// Optimization
	viper.SetDefault("portfolio.risk_free_rate", 0.04)

	// Cache
	viper.SetDefault("cache.local_size", 64)

	// Logging configuration
	if err := viper.BindEnv("log.level", "SP500_LOG_LEVEL"); err != nil {
		panic(err)
	}
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	if err := viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}

	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	if err := viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output")); err != nil {
		panic(err)
	}

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs in a human readable console format")
	if err := viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty")); err != nil {
		panic(err)
	}

	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	if err := viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller")); err != nil {
		panic(err)
	}
}

var rootCmd = &cobra.Command{
	Use:     "sp500",
	Version: common.CurrentVersion.String(),
	Short:   "Compare a hand-picked S&P 500 portfolio against the index and a max-Sharpe portfolio",
	Long: `sp500 values a user-allocated basket of S&P 500 constituents over a
date range and overlays it with the index benchmark and the weights a
mean-variance max-Sharpe optimization would have chosen from the trailing
five years of history.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		common.SetupLogging()
		common.SetupCache()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
