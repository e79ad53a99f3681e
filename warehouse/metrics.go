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

// EnsureMetrics upserts the indicator catalog into dim_metric and returns
// the metric-name to surrogate-key mapping. Descriptive fields track the
// catalog on every run; the name and surrogate key never change once
// assigned. Safe to call every run.
func (wh *Warehouse) EnsureMetrics(ctx context.Context, catalog data.Catalog) (map[string]int64, error) {
	metricMap := make(map[string]int64, len(catalog))

	sql := fmt.Sprintf(`INSERT INTO %s (
		"metric_name",
		"metric_description",
		"calculation_formula",
		"unit_of_measure"
	) VALUES (
		$1, $2, $3, $4
	) ON CONFLICT (metric_name) DO UPDATE SET
		metric_description = EXCLUDED.metric_description,
		calculation_formula = EXCLUDED.calculation_formula,
		unit_of_measure = EXCLUDED.unit_of_measure
	RETURNING metric_key`, dimMetricTbl)

	for _, def := range catalog {
		var metricKey int64
		if err := wh.Pool.QueryRow(ctx, sql, def.Name, def.Description, def.Formula, def.Unit).Scan(&metricKey); err != nil {
			log.Error().Err(err).Str("MetricName", def.Name).Msg("loading dim_metric failed")
			return nil, fmt.Errorf("ensure metric %q: %w", def.Name, err)
		}
		metricMap[def.Name] = metricKey
	}

	log.Info().Int("NumMetrics", len(metricMap)).Msg("loaded metric catalog into dim_metric")
	return metricMap, nil
}
