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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goldvault/goldpipe/data"
	"github.com/goldvault/goldpipe/transform"
	"github.com/goldvault/goldpipe/warehouse"
)

var transformFull bool

// transformCmd represents the transform command
var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Recompute indicator facts from stored raw prices",
	Long: `The transform sub-command reads raw price facts back out of the warehouse,
recomputes the indicator catalog, and upserts the results into
fact_calculated_metrics. By default only the most recent date's indicator row
is written (incremental); --full recomputes and writes the whole history.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		ticker := viper.GetString("Ticker")

		wh := warehouse.New(viper.GetString("DBUrl"))
		if err := wh.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to warehouse")
		}
		defer wh.Close()

		if err := transform.Run(ctx, wh, data.DefaultCatalog(), ticker, transformFull); err != nil {
			log.Fatal().Err(err).Str("Ticker", ticker).Msg("transform failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().BoolVar(&transformFull, "full", false, "recompute the full history")
}
