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
package warehouse

import (
	"context"
	"fmt"

	"github.com/goldvault/goldpipe/data"
	"github.com/rs/zerolog/log"
)

// UpsertRawPrices bulk-writes fact_daily_prices_raw rows keyed by
// (date_key, asset_key). Re-ingesting a day overwrites every non-key
// column; no row is ever duplicated or deleted.
func (wh *Warehouse) UpsertRawPrices(ctx context.Context, rows []data.RawPriceRow) error {
	const numCols = 7

	for start := 0; start < len(rows); start += upsertPageSize {
		end := min(start+upsertPageSize, len(rows))
		page := rows[start:end]

		sql := fmt.Sprintf(`INSERT INTO %s (
			"date_key",
			"asset_key",
			"open_price",
			"high_price",
			"low_price",
			"close_price",
			"volume"
		) VALUES %s
		ON CONFLICT (date_key, asset_key) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume`, factRawTbl, valuesPlaceholders(len(page), numCols))

		args := make([]any, 0, len(page)*numCols)
		for _, row := range page {
			args = append(args, row.DateKey, row.AssetKey, row.Open, row.High, row.Low, row.Close, row.Volume)
		}

		if _, err := wh.Pool.Exec(ctx, sql, args...); err != nil {
			log.Error().Err(err).Int("PageStart", start).Msg("bulk upsert of raw prices failed")
			return fmt.Errorf("upsert raw prices: %w", err)
		}
	}

	log.Info().Int("NumRows", len(rows)).Msg("bulk upsert complete for fact_daily_prices_raw")
	return nil
}

// UpsertCalculatedMetrics bulk-writes fact_calculated_metrics rows keyed
// by (date_key, asset_key, metric_key), overwriting only the value column
// on conflict
func (wh *Warehouse) UpsertCalculatedMetrics(ctx context.Context, rows []data.CalculatedMetricRow) error {
	const numCols = 4

	for start := 0; start < len(rows); start += upsertPageSize {
		end := min(start+upsertPageSize, len(rows))
		page := rows[start:end]

		sql := fmt.Sprintf(`INSERT INTO %s (
			"date_key",
			"asset_key",
			"metric_key",
			"metric_value"
		) VALUES %s
		ON CONFLICT (date_key, asset_key, metric_key) DO UPDATE SET
			metric_value = EXCLUDED.metric_value`, factCalcTbl, valuesPlaceholders(len(page), numCols))

		args := make([]any, 0, len(page)*numCols)
		for _, row := range page {
			args = append(args, row.DateKey, row.AssetKey, row.MetricKey, row.Value)
		}

		if _, err := wh.Pool.Exec(ctx, sql, args...); err != nil {
			log.Error().Err(err).Int("PageStart", start).Msg("bulk upsert of calculated metrics failed")
			return fmt.Errorf("upsert calculated metrics: %w", err)
		}
	}

	log.Info().Int("NumRows", len(rows)).Msg("bulk upsert complete for fact_calculated_metrics")
	return nil
}
