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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendarAttributes(t *testing.T) {
	tests := []struct {
		name       string
		date       time.Time
		year       int
		quarter    int
		month      int
		dayOfMonth int
		dayOfWeek  string
		isWeekend  bool
	}{
		{
			name:       "weekday in Q1",
			date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			year:       2024,
			quarter:    1,
			month:      3,
			dayOfMonth: 15,
			dayOfWeek:  "Friday",
			isWeekend:  false,
		},
		{
			name:       "saturday",
			date:       time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
			year:       2024,
			quarter:    1,
			month:      3,
			dayOfMonth: 16,
			dayOfWeek:  "Saturday",
			isWeekend:  true,
		},
		{
			name:       "sunday at quarter boundary",
			date:       time.Date(2024, 9, 29, 0, 0, 0, 0, time.UTC),
			year:       2024,
			quarter:    3,
			month:      9,
			dayOfMonth: 29,
			dayOfWeek:  "Sunday",
			isWeekend:  true,
		},
		{
			name:       "first day of Q4",
			date:       time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
			year:       2023,
			quarter:    4,
			month:      10,
			dayOfMonth: 1,
			dayOfWeek:  "Sunday",
			isWeekend:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := calendarAttributes(tt.date)

			assert.Equal(t, tt.date, row.DateKey)
			assert.Equal(t, tt.date.Format("2006-01-02"), row.FullDateString)
			assert.Equal(t, tt.year, row.Year)
			assert.Equal(t, tt.quarter, row.Quarter)
			assert.Equal(t, tt.month, row.Month)
			assert.Equal(t, tt.dayOfMonth, row.DayOfMonth)
			assert.Equal(t, tt.dayOfWeek, row.DayOfWeek)
			assert.Equal(t, tt.isWeekend, row.IsWeekend)

			// every observed date is a trading day
			assert.True(t, row.IsTradingDay)
		})
	}
}

func TestValuesPlaceholders(t *testing.T) {
	assert.Equal(t, "($1)", valuesPlaceholders(1, 1))
	assert.Equal(t, "($1, $2, $3), ($4, $5, $6)", valuesPlaceholders(2, 3))

	// a full page of raw price rows ends at $7000
	page := valuesPlaceholders(upsertPageSize, 7)
	assert.Contains(t, page, "$7000)")
	assert.NotContains(t, page, "$7001")
}
