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
package data

import (
	"time"

	"github.com/rs/zerolog"
)

// RawRecord is one row of the raw CSV object as it comes out of the lake:
// everything is still a string and column values may be unparsable. The
// cleaner is responsible for turning these into PriceBars.
type RawRecord struct {
	Date   string `csv:"date"`
	Open   string `csv:"open"`
	High   string `csv:"high"`
	Low    string `csv:"low"`
	Close  string `csv:"close"`
	Volume string `csv:"volume"`
	Ticker string `csv:"ticker"`
}

// PriceBar is one cleaned daily price observation. Open, High, Low and
// Volume may be NaN when the source value was unparsable; Date and Close
// are always valid.
type PriceBar struct {
	Date   time.Time
	Ticker string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

func (bar *PriceBar) MarshalZerologObject(e *zerolog.Event) {
	e.Time("Date", bar.Date)
	e.Str("Ticker", bar.Ticker)
	e.Float64("Close", bar.Close)
}

// Asset holds the descriptive attributes of a dim_asset row. Ticker is
// the natural key; the surrogate key lives only in the database.
type Asset struct {
	Ticker   string
	Name     string
	Exchange string
	Region   string
}

// RawPriceRow is one fact_daily_prices_raw row keyed by (date, asset)
type RawPriceRow struct {
	DateKey  time.Time `db:"date_key"`
	AssetKey int64     `db:"asset_key"`
	Open     float64   `db:"open_price"`
	High     float64   `db:"high_price"`
	Low      float64   `db:"low_price"`
	Close    float64   `db:"close_price"`
	Volume   float64   `db:"volume"`
}

// CalculatedMetricRow is one fact_calculated_metrics row keyed by
// (date, asset, metric)
type CalculatedMetricRow struct {
	DateKey   time.Time `db:"date_key"`
	AssetKey  int64     `db:"asset_key"`
	MetricKey int64     `db:"metric_key"`
	Value     float64   `db:"metric_value"`
}

func (row *CalculatedMetricRow) MarshalZerologObject(e *zerolog.Event) {
	e.Time("DateKey", row.DateKey)
	e.Int64("AssetKey", row.AssetKey)
	e.Int64("MetricKey", row.MetricKey)
	e.Float64("Value", row.Value)
}
