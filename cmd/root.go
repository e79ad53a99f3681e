// Copyright 2025
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
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "goldpipe",
	Short: "goldpipe maintains a dimensional warehouse of daily prices and technical indicators",
	Long: `goldpipe is a daily batch pipeline that ingests price observations for a
financial instrument, persists them into a star-schema warehouse, and derives a
fixed catalog of technical indicators (moving averages, volatility, 52-week
extremes, percentile rank, days-since-extreme) stored alongside the raw facts.

Each run extracts the raw feed, stages it as CSV in the object lake, loads the
cleaned observations into the warehouse, and recomputes the indicator facts.
One ticker is processed per invocation.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.goldpipe.toml)")

	rootCmd.PersistentFlags().String("dbUrl", "", "database connection string")
	if err := viper.BindPFlag("DBUrl", rootCmd.PersistentFlags().Lookup("dbUrl")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for dbUrl failed")
	}

	rootCmd.PersistentFlags().String("ticker", "", "ticker symbol to process")
	if err := viper.BindPFlag("Ticker", rootCmd.PersistentFlags().Lookup("ticker")); err != nil {
		log.Panic().Err(err).Msg("BindPFlag for ticker failed")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".goldpipe" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".goldpipe")
	}

	viper.SetDefault("Ticker", "GLD")
	viper.SetDefault("AssetName", "GLD Gold ETF")
	viper.SetDefault("AssetExchange", "NYSEARCA")
	viper.SetDefault("AssetRegion", "Global")
	viper.SetDefault("StartDate", "2021-01-01")
	viper.SetDefault("EndDate", "2025-12-01")
	viper.SetDefault("Bucket", "goldpipe-bronze")
	viper.SetDefault("quote.rate_limit", 5)

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}
