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
	"time"

	"github.com/goldvault/goldpipe/data"
	"github.com/rs/zerolog/log"
)

// LoadPrices makes dimension and fact state consistent with a batch of
// cleaned price bars. Steps run in dependency order: dates, metric
// catalog, asset key, raw facts. The first failing step aborts the rest
// of the batch; completed bulk statements are not rolled back.
func (wh *Warehouse) LoadPrices(ctx context.Context, bars []data.PriceBar, asset data.Asset, catalog data.Catalog) error {
	if len(bars) == 0 {
		log.Warn().Str("Ticker", asset.Ticker).Msg("no bars to load")
		return nil
	}

	dates := make([]time.Time, 0, len(bars))
	for _, bar := range bars {
		dates = append(dates, bar.Date)
	}

	if err := wh.EnsureDates(ctx, dates); err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	if _, err := wh.EnsureMetrics(ctx, catalog); err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	assetKey, err := wh.ResolveAsset(ctx, asset)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	rows := make([]data.RawPriceRow, 0, len(bars))
	for _, bar := range bars {
		rows = append(rows, data.RawPriceRow{
			DateKey:  bar.Date,
			AssetKey: assetKey,
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			Volume:   bar.Volume,
		})
	}

	if err := wh.UpsertRawPrices(ctx, rows); err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	log.Info().Int("NumRows", len(rows)).Str("Ticker", asset.Ticker).Msg("raw price load complete")
	return nil
}
