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

// Package transform reads raw price facts back out of the warehouse,
// drives the indicator engine, and loads the reshaped results into
// fact_calculated_metrics.
package transform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/goldvault/goldpipe/data"
	"github.com/goldvault/goldpipe/indicators"
	"github.com/goldvault/goldpipe/warehouse"
	"github.com/rs/zerolog/log"
)

// Lookback is the trailing calendar-day window read in incremental mode.
// 252 trading days plus the longest secondary window (50) guarantees the
// final row has full history for every indicator, provided trading-day
// coverage has no gaps.
const Lookback = data.WindowYear + data.WindowMedium

var ErrMetricUnmapped = errors.New("metric has no surrogate key")

type rawFact struct {
	DateKey  time.Time `db:"date_key"`
	AssetKey int64     `db:"asset_key"`
	Open     float64   `db:"open_price"`
	High     float64   `db:"high_price"`
	Low      float64   `db:"low_price"`
	Close    float64   `db:"close_price"`
	Volume   float64   `db:"volume"`
}

// FetchRawSeries reads an asset's raw price facts ordered by date. In
// incremental mode only the trailing Lookback calendar days (measured
// from the newest stored date) are returned.
func FetchRawSeries(ctx context.Context, wh *warehouse.Warehouse, ticker string, fullHistory bool) (indicators.Series, int64, error) {
	sql := `SELECT
		f.date_key, f.asset_key,
		f.open_price, f.high_price, f.low_price, f.close_price, f.volume
	FROM "public"."fact_daily_prices_raw" f
	JOIN "public"."dim_asset" a ON f.asset_key = a.asset_key
	WHERE a.ticker = $1`
	if !fullHistory {
		sql += fmt.Sprintf(`
	AND f.date_key >= (SELECT max(date_key) FROM "public"."fact_daily_prices_raw") - INTERVAL '%d days'`, Lookback)
	}
	sql += `
	ORDER BY f.date_key ASC`

	var facts []*rawFact
	if err := pgxscan.Select(ctx, wh.Pool, &facts, sql, ticker); err != nil {
		return indicators.Series{}, 0, fmt.Errorf("fetch raw series for %s: %w", ticker, err)
	}

	if len(facts) == 0 {
		log.Warn().Str("Ticker", ticker).Msg("no raw price facts found")
		return indicators.Series{}, 0, nil
	}

	bars := make([]data.PriceBar, 0, len(facts))
	for _, fact := range facts {
		bars = append(bars, data.PriceBar{
			Date:   fact.DateKey,
			Ticker: ticker,
			Open:   fact.Open,
			High:   fact.High,
			Low:    fact.Low,
			Close:  fact.Close,
			Volume: fact.Volume,
		})
	}

	return indicators.NewSeries(bars), facts[0].AssetKey, nil
}

// Reshape converts the wide indicator frame into one row per
// (date, metric) pair, dropping undefined values and substituting each
// metric name for its surrogate key. The column list comes from the same
// catalog used by EnsureMetrics, so adding an indicator is a single
// declaration. When lastOnly is set only the most recent date's row
// survives.
func Reshape(frame *indicators.Frame, catalog data.Catalog, assetKey int64, metricMap map[string]int64, lastOnly bool) ([]data.CalculatedMetricRow, error) {
	startIdx := 0
	if lastOnly {
		startIdx = len(frame.Dates) - 1
		if startIdx < 0 {
			return nil, nil
		}
	}

	rows := make([]data.CalculatedMetricRow, 0, (len(frame.Dates)-startIdx)*len(catalog))
	for idx := startIdx; idx < len(frame.Dates); idx++ {
		for _, def := range catalog {
			if !frame.Defined(def.Name, idx) {
				continue
			}

			metricKey, ok := metricMap[def.Name]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrMetricUnmapped, def.Name)
			}

			rows = append(rows, data.CalculatedMetricRow{
				DateKey:   frame.Dates[idx],
				AssetKey:  assetKey,
				MetricKey: metricKey,
				Value:     frame.Column(def.Name)[idx],
			})
		}
	}

	return rows, nil
}

// Run executes the transform stage for one ticker. A full refresh
// recomputes and loads the entire history; incremental mode recomputes
// the trailing lookback window but loads only the most recent date.
func Run(ctx context.Context, wh *warehouse.Warehouse, catalog data.Catalog, ticker string, fullRefresh bool) error {
	series, assetKey, err := FetchRawSeries(ctx, wh, ticker, fullRefresh)
	if err != nil {
		return err
	}

	if series.Len() == 0 {
		return nil
	}

	frame, err := indicators.Compute(series, catalog)
	if err != nil {
		return fmt.Errorf("compute indicators for %s: %w", ticker, err)
	}

	metricMap, err := wh.EnsureMetrics(ctx, catalog)
	if err != nil {
		return err
	}

	rows, err := Reshape(frame, catalog, assetKey, metricMap, !fullRefresh)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		log.Warn().Str("Ticker", ticker).Msg("no defined metric values after reshape")
		return nil
	}

	if err := wh.UpsertCalculatedMetrics(ctx, rows); err != nil {
		return err
	}

	log.Info().Str("Ticker", ticker).Int("NumRows", len(rows)).Bool("FullRefresh", fullRefresh).
		Msg("transform stage complete")
	return nil
}
