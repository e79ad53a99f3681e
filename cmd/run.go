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
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goldvault/goldpipe/clean"
	"github.com/goldvault/goldpipe/data"
	"github.com/goldvault/goldpipe/fetch"
	"github.com/goldvault/goldpipe/healthcheck"
	"github.com/goldvault/goldpipe/storage"
	"github.com/goldvault/goldpipe/transform"
	"github.com/goldvault/goldpipe/warehouse"
)

var (
	extractionDate string
	fullRefresh    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the extract-load-transform pipeline",
	Long: `The run sub-command executes the full daily pipeline: fetch raw prices from
the quote API, stage them as CSV in the object lake, load the cleaned
observations into the warehouse, and recompute the indicator facts.

With --date a single day is fetched and the transform emits only that day's
indicator row (incremental mode). Without --date the configured full date
range is fetched and every date's indicators are recomputed (full refresh).`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		runID := uuid.New().String()[:8]
		logger := log.With().Str("RunID", runID).Logger()

		startTime := time.Now()

		ticker := viper.GetString("Ticker")
		asset := data.Asset{
			Ticker:   ticker,
			Name:     viper.GetString("AssetName"),
			Exchange: viper.GetString("AssetExchange"),
			Region:   viper.GetString("AssetRegion"),
		}
		catalog := data.DefaultCatalog()

		// a dated extract is an incremental load; a full-range extract
		// always triggers a full indicator refresh
		fullRefresh = extractionDate == "" || fullRefresh

		logger.Info().Str("Ticker", ticker).Bool("FullRefresh", fullRefresh).
			Msg("starting pipeline run")

		// Extract
		client := fetch.New(viper.GetString("quote.base_url"), viper.GetString("quote.api_key"),
			viper.GetInt("quote.rate_limit"))

		var (
			records []*data.RawRecord
			err     error
		)

		if extractionDate != "" {
			day, parseErr := time.Parse("2006-01-02", extractionDate)
			if parseErr != nil {
				logger.Fatal().Err(parseErr).Str("Date", extractionDate).Msg("invalid --date value")
			}
			records, err = client.SingleDay(ctx, ticker, day)
		} else {
			startDate, parseErr := time.Parse("2006-01-02", viper.GetString("StartDate"))
			if parseErr != nil {
				logger.Fatal().Err(parseErr).Msg("invalid StartDate configuration")
			}
			endDate, parseErr := time.Parse("2006-01-02", viper.GetString("EndDate"))
			if parseErr != nil {
				logger.Fatal().Err(parseErr).Msg("invalid EndDate configuration")
			}
			records, err = client.DailyPrices(ctx, ticker, startDate, endDate)
		}
		if err != nil {
			reportFailure(logger, err, "extract stage failed")
		}
		if len(records) == 0 {
			logger.Warn().Str("Ticker", ticker).Msg("no observations returned, nothing to load")
			return
		}

		bucket := viper.GetString("Bucket")
		objectName := storage.ObjectName(extractionDate)

		if err := storage.Upload(records, bucket, objectName); err != nil {
			reportFailure(logger, err, "staging raw extract in object lake failed")
		}

		// the loader reads the staged CSV back out of the lake rather than
		// trusting the in-memory fetch result
		blob, err := storage.Download(bucket, objectName)
		if err != nil {
			reportFailure(logger, err, "reading raw extract from object lake failed")
		}

		// Load
		bars := clean.Standardize(blob, ticker)
		if len(bars) == 0 {
			logger.Error().Str("Ticker", ticker).Msg("cleaned dataset is empty, aborting pipeline")
			return
		}

		wh := warehouse.New(viper.GetString("DBUrl"))
		if err := wh.Connect(ctx); err != nil {
			reportFailure(logger, err, "could not connect to warehouse")
		}
		defer wh.Close()

		if err := wh.LoadPrices(ctx, bars, asset, catalog); err != nil {
			reportFailure(logger, err, "raw price load failed")
		}

		// Transform
		if err := transform.Run(ctx, wh, catalog, ticker, fullRefresh); err != nil {
			reportFailure(logger, err, "transform stage failed")
		}

		if checkID := viper.GetString("healthchecks.checkid"); checkID != "" {
			if err := healthcheck.Ping(checkID); err != nil {
				logger.Error().Err(err).Msg("could not ping health check")
			}
		}

		runTime := time.Since(startTime)
		logger.Info().Str("RunTime", durafmt.Parse(runTime).String()).Int("NumRecords", len(records)).
			Msg("pipeline run complete")
	},
}

// reportFailure pings the health check fail endpoint and exits. Used for
// structural failures only; expected data-quality conditions log and
// return instead.
func reportFailure(logger zerolog.Logger, err error, msg string) {
	if checkID := viper.GetString("healthchecks.checkid"); checkID != "" {
		if pingErr := healthcheck.PingFail(checkID); pingErr != nil {
			logger.Error().Err(pingErr).Msg("could not ping health check fail endpoint")
		}
	}
	logger.Fatal().Err(err).Msg(msg)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&extractionDate, "date", "", "specific date for incremental load (YYYY-MM-DD)")
	runCmd.Flags().BoolVar(&fullRefresh, "full", false, "run full history refresh")
}
