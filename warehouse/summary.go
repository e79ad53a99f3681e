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
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type assetSummary struct {
	Ticker    string    `db:"ticker"`
	NumPrices int       `db:"num_prices"`
	FirstDate time.Time `db:"first_date"`
	LastDate  time.Time `db:"last_date"`
}

// Summary returns a description of the warehouse in markdown
func (wh *Warehouse) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	name := wh.Name
	if name == "" {
		name = "Price Warehouse"
	}

	builder.WriteString(fmt.Sprintf("# %s\n\n## Details\n\n", name))
	builder.WriteString(fmt.Sprintf("Database: %s\n\n", wh.DBUrl))

	var numAssets, numMetrics, numRawFacts, numCalcFacts int
	counts := []struct {
		sql  string
		dest *int
	}{
		{fmt.Sprintf("SELECT count(*) FROM %s", dimAssetTbl), &numAssets},
		{fmt.Sprintf("SELECT count(*) FROM %s", dimMetricTbl), &numMetrics},
		{fmt.Sprintf("SELECT count(*) FROM %s", factRawTbl), &numRawFacts},
		{fmt.Sprintf("SELECT count(*) FROM %s", factCalcTbl), &numCalcFacts},
	}
	for _, count := range counts {
		if err := wh.Pool.QueryRow(ctx, count.sql).Scan(count.dest); err != nil {
			return "", err
		}
	}

	builder.WriteString(p.Sprintf("  * Assets Tracked: %d\n", numAssets))
	builder.WriteString(p.Sprintf("  * Metrics Declared: %d\n", numMetrics))
	builder.WriteString(p.Sprintf("  * Raw Price Facts: %d\n", numRawFacts))
	builder.WriteString(p.Sprintf("  * Calculated Metric Facts: %d\n\n", numCalcFacts))

	var lastLoaded time.Time
	if err := wh.Pool.QueryRow(ctx,
		fmt.Sprintf("SELECT coalesce(max(date_key), '0001-01-01'::date) FROM %s", factRawTbl)).
		Scan(&lastLoaded); err != nil {
		return "", err
	}

	if lastLoaded.Equal(time.Time{}) || lastLoaded.Year() <= 1 {
		builder.WriteString("Last Observation: Never\n\n")
	} else {
		builder.WriteString(fmt.Sprintf("Last Observation: %s (%s)\n\n",
			timeago.English.Format(lastLoaded), lastLoaded.Format("01/02/2006")))
	}

	builder.WriteString("## Assets\n\n")

	var assets []*assetSummary
	if err := pgxscan.Select(ctx, wh.Pool, &assets, fmt.Sprintf(
		`SELECT a.ticker, count(*) AS num_prices,
min(f.date_key) AS first_date, max(f.date_key) AS last_date
FROM %s f JOIN %s a ON f.asset_key = a.asset_key
GROUP BY a.ticker ORDER BY a.ticker`, factRawTbl, dimAssetTbl)); err != nil {
		return "", err
	}

	for _, asset := range assets {
		builder.WriteString(p.Sprintf("  * %s: %d observations (%s - %s)\n", asset.Ticker,
			asset.NumPrices, asset.FirstDate.Format("Jan 2006"), asset.LastDate.Format("Jan 2006")))
	}

	return builder.String(), nil
}
