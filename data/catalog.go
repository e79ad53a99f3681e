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

// Rolling window lengths shared by the indicator engine and the metric
// catalog. A trading year is 252 sessions.
const (
	WindowShort  = 20
	WindowMedium = 50
	WindowYear   = 252
)

// IndicatorDef describes a single calculated metric. Name is the natural
// key of the dim_metric row; Window is the number of trailing periods
// (inclusive of the current one) the indicator needs before it is defined.
type IndicatorDef struct {
	Name        string
	Description string
	Formula     string
	Unit        string
	Window      int
}

// Catalog is an ordered set of indicator definitions. The order determines
// the column order of computed frames and the reshape output.
type Catalog []IndicatorDef

// Names returns the metric names in catalog order
func (catalog Catalog) Names() []string {
	names := make([]string, 0, len(catalog))
	for _, def := range catalog {
		names = append(names, def.Name)
	}
	return names
}

// Lookup returns the definition for the given metric name
func (catalog Catalog) Lookup(name string) (IndicatorDef, bool) {
	for _, def := range catalog {
		if def.Name == name {
			return def, true
		}
	}
	return IndicatorDef{}, false
}

// DefaultCatalog returns the full set of metrics computed by the pipeline.
// The catalog is passed explicitly to every component that needs it so
// tests can substitute a smaller one.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Name:        "ma_20_day",
			Description: "20-day Simple Moving Average",
			Formula:     "AVG(close) over 20 days",
			Unit:        "Price",
			Window:      WindowShort,
		},
		{
			Name:        "ma_50_day",
			Description: "50-day Simple Moving Average",
			Formula:     "AVG(close) over 50 days",
			Unit:        "Price",
			Window:      WindowMedium,
		},
		{
			Name:        "daily_return",
			Description: "Daily Percentage Return",
			Formula:     "(Close / LAG(Close)) - 1",
			Unit:        "Percent",
			Window:      1,
		},
		{
			Name:        "volatility_20_day",
			Description: "20-day Rolling Volatility",
			Formula:     "STDDEV(daily_return) over 20 days",
			Unit:        "StdDev",
			Window:      WindowShort,
		},
		{
			Name:        "price_rank_52w",
			Description: "52-week Price Percentile Rank",
			Formula:     "PERCENT_RANK() over 252 days",
			Unit:        "Percent",
			Window:      WindowYear,
		},
		{
			Name:        "highest_52_week",
			Description: "52-week High Price",
			Formula:     "MAX(high) over 252 days",
			Unit:        "Price",
			Window:      WindowYear,
		},
		{
			Name:        "lowest_52_week",
			Description: "52-week Low Price",
			Formula:     "MIN(low) over 252 days",
			Unit:        "Price",
			Window:      WindowYear,
		},
		{
			Name:        "days_since_high",
			Description: "Days Since 52-week High",
			Formula:     "Date - IDxmax(high) over 252 days",
			Unit:        "Days",
			Window:      WindowYear,
		},
		{
			Name:        "days_since_low",
			Description: "Days Since 52-week Low",
			Formula:     "Date - IDxmin(low) over 252 days",
			Unit:        "Days",
			Window:      WindowYear,
		},
	}
}
