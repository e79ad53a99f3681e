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
package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/goldvault/goldpipe/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSeries builds a series of n consecutive calendar days starting
// 2020-01-01 with high = low = close unless overridden afterwards
func testSeries(n int, closeAt func(idx int) float64) Series {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	series := Series{
		Dates:  make([]time.Time, n),
		Open:   make([]float64, n),
		High:   make([]float64, n),
		Low:    make([]float64, n),
		Close:  make([]float64, n),
		Volume: make([]float64, n),
	}
	for idx := 0; idx < n; idx++ {
		price := closeAt(idx)
		series.Dates[idx] = start.AddDate(0, 0, idx)
		series.Open[idx] = price
		series.High[idx] = price
		series.Low[idx] = price
		series.Close[idx] = price
		series.Volume[idx] = 1000
	}
	return series
}

func TestMovingAverageWarmup(t *testing.T) {
	series := testSeries(25, func(idx int) float64 { return float64(idx + 1) })

	frame, err := Compute(series, data.DefaultCatalog())
	require.NoError(t, err)

	ma20 := frame.Column("ma_20_day")
	for idx := 0; idx < 19; idx++ {
		assert.True(t, math.IsNaN(ma20[idx]), "ma_20_day must be undefined at index %d", idx)
	}

	// mean of 1..20
	assert.InDelta(t, 10.5, ma20[19], 1e-9)
	// mean of 6..25
	assert.InDelta(t, 15.5, ma20[24], 1e-9)

	// 50-day window never fills on a 25-period series
	ma50 := frame.Column("ma_50_day")
	assert.True(t, math.IsNaN(ma50[24]))
}

func TestShortSeriesLeavesLongWindowsUndefined(t *testing.T) {
	series := testSeries(10, func(idx int) float64 { return 100 + float64(idx) })

	frame, err := Compute(series, data.DefaultCatalog())
	require.NoError(t, err)

	last := series.Len() - 1
	for _, name := range []string{
		"ma_20_day", "ma_50_day", "volatility_20_day", "price_rank_52w",
		"highest_52_week", "lowest_52_week", "days_since_high", "days_since_low",
	} {
		assert.False(t, frame.Defined(name, last), "%s must be undefined on a 10-period series", name)
	}

	// daily return only needs one prior period
	assert.True(t, frame.Defined("daily_return", last))
}

func TestDailyReturn(t *testing.T) {
	series := testSeries(3, func(idx int) float64 { return []float64{100, 110, 99}[idx] })

	frame, err := Compute(series, data.DefaultCatalog())
	require.NoError(t, err)

	returns := frame.Column("daily_return")
	assert.True(t, math.IsNaN(returns[0]), "first period has no prior close")
	assert.InDelta(t, 0.10, returns[1], 1e-12)
	assert.InDelta(t, -0.10, returns[2], 1e-12)
}

func TestVolatilityIsSampleStdDevOfReturns(t *testing.T) {
	// alternate +1% and +3% daily returns: sample std dev over any 20 of
	// them (10 each) is sqrt(20 * 0.0001 / 19)
	returns := []float64{0.01, 0.03}
	series := testSeries(21, func(idx int) float64 {
		price := 100.0
		for i := 1; i <= idx; i++ {
			price *= 1 + returns[(i-1)%2]
		}
		return price
	})

	frame, err := Compute(series, data.DefaultCatalog())
	require.NoError(t, err)

	vol := frame.Column("volatility_20_day")

	// index 19's window still contains the undefined first return
	assert.True(t, math.IsNaN(vol[19]))

	want := math.Sqrt(20 * 0.0001 / 19)
	assert.InDelta(t, want, vol[20], 1e-9)
}

func TestRisingSeries(t *testing.T) {
	// 260 consecutive trading days with a strictly increasing close
	series := testSeries(260, func(idx int) float64 { return float64(idx + 1) })

	frame, err := Compute(series, data.DefaultCatalog())
	require.NoError(t, err)

	rank := frame.Column("price_rank_52w")
	for idx := 0; idx < 251; idx++ {
		assert.True(t, math.IsNaN(rank[idx]), "price_rank_52w must be undefined at index %d", idx)
	}
	for idx := 251; idx < 260; idx++ {
		// the current close is always the window maximum
		assert.InDelta(t, 100.0, rank[idx], 1e-9, "price_rank_52w at index %d", idx)
	}

	last := 259
	assert.InDelta(t, series.Close[last], frame.Column("highest_52_week")[last], 1e-9)
	assert.InDelta(t, 0, frame.Column("days_since_high")[last], 1e-9)

	// window minimum sits at the oldest period of the trailing 252
	assert.InDelta(t, series.Low[last-251], frame.Column("lowest_52_week")[last], 1e-9)
	assert.InDelta(t, 251, frame.Column("days_since_low")[last], 1e-9)
}

func TestDaysSinceHighMostRecentTieWins(t *testing.T) {
	series := testSeries(252, func(idx int) float64 { return 50 })
	last := series.Len() - 1

	// the high is first reached 100 days before the final day and equaled
	// again 3 days before it
	series.High[last-100] = 100
	series.High[last-3] = 100

	frame, err := Compute(series, data.DefaultCatalog())
	require.NoError(t, err)

	assert.InDelta(t, 3, frame.Column("days_since_high")[last], 1e-9)
}

func TestDaysSinceLowMostRecentTieWins(t *testing.T) {
	series := testSeries(252, func(idx int) float64 { return 50 })
	last := series.Len() - 1

	series.Low[last-40] = 10
	series.Low[last-7] = 10

	frame, err := Compute(series, data.DefaultCatalog())
	require.NoError(t, err)

	assert.InDelta(t, 7, frame.Column("days_since_low")[last], 1e-9)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	series := testSeries(60, func(idx int) float64 { return float64(100 + idx%7) })

	closes := append([]float64(nil), series.Close...)
	highs := append([]float64(nil), series.High...)

	_, err := Compute(series, data.DefaultCatalog())
	require.NoError(t, err)

	assert.Equal(t, closes, series.Close)
	assert.Equal(t, highs, series.High)
}

func TestComputeRejectsUnknownIndicator(t *testing.T) {
	series := testSeries(5, func(idx int) float64 { return 1 })

	catalog := data.Catalog{{Name: "rsi_14", Window: 14}}
	_, err := Compute(series, catalog)
	assert.Error(t, err)
}

func TestComputeRejectsUnorderedDates(t *testing.T) {
	series := testSeries(5, func(idx int) float64 { return 1 })
	series.Dates[3], series.Dates[1] = series.Dates[1], series.Dates[3]

	_, err := Compute(series, data.DefaultCatalog())
	assert.ErrorIs(t, err, ErrUnorderedDate)
}

func TestComputeRejectsRaggedSeries(t *testing.T) {
	series := testSeries(5, func(idx int) float64 { return 1 })
	series.Volume = series.Volume[:3]

	_, err := Compute(series, data.DefaultCatalog())
	assert.ErrorIs(t, err, ErrRaggedSeries)
}
