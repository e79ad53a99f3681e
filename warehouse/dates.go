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
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// DateRow carries the derived calendar attributes of one dim_date row
type DateRow struct {
	DateKey        time.Time `db:"date_key"`
	FullDateString string    `db:"full_date_string"`
	Year           int       `db:"year"`
	Quarter        int       `db:"quarter"`
	Month          int       `db:"month"`
	DayOfMonth     int       `db:"day_of_month"`
	DayOfWeek      string    `db:"day_of_week"`
	IsWeekend      bool      `db:"is_weekend"`
	IsTradingDay   bool      `db:"is_trading_day"`
}

// calendarAttributes derives the dim_date attribute set for a date. Every
// observed date is a trading day; the dimension is never back-filled for
// dates with no data.
func calendarAttributes(date time.Time) DateRow {
	weekday := date.Weekday()
	return DateRow{
		DateKey:        date,
		FullDateString: date.Format("2006-01-02"),
		Year:           date.Year(),
		Quarter:        (int(date.Month())-1)/3 + 1,
		Month:          int(date.Month()),
		DayOfMonth:     date.Day(),
		DayOfWeek:      weekday.String(),
		IsWeekend:      weekday == time.Saturday || weekday == time.Sunday,
		IsTradingDay:   true,
	}
}

// EnsureDates bulk-inserts dim_date rows for every distinct date, as a
// no-op for dates already present. It must succeed before any fact row
// referencing those dates is written.
func (wh *Warehouse) EnsureDates(ctx context.Context, dates []time.Time) error {
	distinct := make(map[time.Time]struct{}, len(dates))
	for _, date := range dates {
		distinct[date] = struct{}{}
	}

	rows := make([]DateRow, 0, len(distinct))
	for date := range distinct {
		rows = append(rows, calendarAttributes(date))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DateKey.Before(rows[j].DateKey) })

	log.Info().Int("NumDates", len(rows)).Msg("loading distinct dates into dim_date")

	const numCols = 9
	for start := 0; start < len(rows); start += upsertPageSize {
		end := min(start+upsertPageSize, len(rows))
		page := rows[start:end]

		sql := fmt.Sprintf(`INSERT INTO %s (
			"date_key",
			"full_date_string",
			"year",
			"quarter",
			"month",
			"day_of_month",
			"day_of_week",
			"is_weekend",
			"is_trading_day"
		) VALUES %s
		ON CONFLICT (date_key) DO NOTHING`, dimDateTbl, valuesPlaceholders(len(page), numCols))

		args := make([]any, 0, len(page)*numCols)
		for _, row := range page {
			args = append(args, row.DateKey, row.FullDateString, row.Year, row.Quarter,
				row.Month, row.DayOfMonth, row.DayOfWeek, row.IsWeekend, row.IsTradingDay)
		}

		if _, err := wh.Pool.Exec(ctx, sql, args...); err != nil {
			log.Error().Err(err).Int("PageStart", start).Msg("loading dim_date failed")
			return fmt.Errorf("ensure dates: %w", err)
		}
	}

	return nil
}
