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

// Package warehouse loads dimension and fact rows into the star schema.
// All fact writes are bulk, conflict-aware upserts; dimension rows are
// created lazily on first reference and never deleted.
package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dimDateTbl  = `"public"."dim_date"`
	dimAssetTbl = `"public"."dim_asset"`
	dimMetricTbl = `"public"."dim_metric"`
	factRawTbl  = `"public"."fact_daily_prices_raw"`
	factCalcTbl = `"public"."fact_calculated_metrics"`

	// rows per bulk INSERT statement, mirrors the loader's page size
	upsertPageSize = 1000
)

type Warehouse struct {
	DBUrl string
	Name  string

	Pool *pgxpool.Pool `toml:"-"`
}

// New creates an unconnected warehouse handle
func New(dbURL string) *Warehouse {
	return &Warehouse{DBUrl: dbURL}
}

// Connect to the database configured for the warehouse
func (wh *Warehouse) Connect(ctx context.Context) error {
	if wh.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, wh.DBUrl)
	if err != nil {
		return err
	}
	wh.Pool = pool

	return nil
}

// Close the database pool
func (wh *Warehouse) Close() {
	if wh.Pool != nil {
		wh.Pool.Close()
	}
}

// valuesPlaceholders renders ($1, $2), ($3, $4), ... for a multi-row
// parameterized INSERT of numRows rows with numCols columns each
func valuesPlaceholders(numRows, numCols int) string {
	builder := strings.Builder{}
	arg := 1
	for row := 0; row < numRows; row++ {
		if row > 0 {
			builder.WriteString(", ")
		}
		builder.WriteByte('(')
		for col := 0; col < numCols; col++ {
			if col > 0 {
				builder.WriteString(", ")
			}
			fmt.Fprintf(&builder, "$%d", arg)
			arg++
		}
		builder.WriteByte(')')
	}
	return builder.String()
}
