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

// Package indicators computes the technical indicator catalog over a
// daily price series. All windows are trailing and inclusive of the
// current day. Volatility is the sample standard deviation of daily
// returns (ddof=1).
package indicators

import (
	"fmt"
	"math"
	"time"

	"github.com/goldvault/goldpipe/data"
	"gonum.org/v1/gonum/stat"
)

// Compute derives every indicator in the catalog as a series aligned to
// the input dates. The input series is not modified.
func Compute(series Series, catalog data.Catalog) (*Frame, error) {
	if err := series.validate(); err != nil {
		return nil, err
	}

	frame := newFrame(series.Dates)
	returns := dailyReturns(series.Close)

	for _, def := range catalog {
		var column []float64

		switch def.Name {
		case "ma_20_day", "ma_50_day":
			column = rollingMean(series.Close, def.Window)
		case "daily_return":
			column = returns
		case "volatility_20_day":
			column = rollingStdDev(returns, def.Window)
		case "price_rank_52w":
			column = rollingPercentileRank(series.Close, def.Window)
		case "highest_52_week":
			column = rollingExtreme(series.High, def.Window, true)
		case "lowest_52_week":
			column = rollingExtreme(series.Low, def.Window, false)
		case "days_since_high":
			column = daysSinceExtreme(series.Dates, series.High, def.Window, true)
		case "days_since_low":
			column = daysSinceExtreme(series.Dates, series.Low, def.Window, false)
		default:
			return nil, fmt.Errorf("unknown indicator %q in catalog", def.Name)
		}

		frame.add(def.Name, column)
	}

	return frame, nil
}

// dailyReturns is close(t)/close(t-1) - 1; the first period has no prior
// close and is undefined
func dailyReturns(closes []float64) []float64 {
	returns := undefinedColumn(len(closes))
	for idx := 1; idx < len(closes); idx++ {
		returns[idx] = closes[idx]/closes[idx-1] - 1
	}
	return returns
}

func rollingMean(values []float64, window int) []float64 {
	column := undefinedColumn(len(values))
	for idx := window - 1; idx < len(values); idx++ {
		slice := values[idx-window+1 : idx+1]
		if containsNaN(slice) {
			continue
		}
		column[idx] = stat.Mean(slice, nil)
	}
	return column
}

// rollingStdDev computes the sample standard deviation over the window.
// A window containing an undefined value (the first return) stays
// undefined, matching min_periods == window semantics.
func rollingStdDev(values []float64, window int) []float64 {
	column := undefinedColumn(len(values))
	for idx := window - 1; idx < len(values); idx++ {
		slice := values[idx-window+1 : idx+1]
		if containsNaN(slice) {
			continue
		}
		column[idx] = stat.StdDev(slice, nil)
	}
	return column
}

// rollingPercentileRank ranks the current value within its trailing
// window as 100 * (count of window values <= current) / window size
func rollingPercentileRank(values []float64, window int) []float64 {
	column := undefinedColumn(len(values))
	for idx := window - 1; idx < len(values); idx++ {
		current := values[idx]
		atOrBelow := 0
		for _, value := range values[idx-window+1 : idx+1] {
			if value <= current {
				atOrBelow++
			}
		}
		column[idx] = 100 * float64(atOrBelow) / float64(window)
	}
	return column
}

func rollingExtreme(values []float64, window int, wantMax bool) []float64 {
	column := undefinedColumn(len(values))
	for idx := window - 1; idx < len(values); idx++ {
		if pos := extremeIndex(values, idx-window+1, idx, wantMax); pos >= 0 {
			column[idx] = values[pos]
		}
	}
	return column
}

// daysSinceExtreme measures the calendar-day distance from the current
// date back to the window's extreme. When several days share the extreme
// value the most recent occurrence wins, minimizing the day count.
func daysSinceExtreme(dates []time.Time, values []float64, window int, wantMax bool) []float64 {
	column := undefinedColumn(len(values))
	for idx := window - 1; idx < len(values); idx++ {
		pos := extremeIndex(values, idx-window+1, idx, wantMax)
		if pos < 0 {
			continue
		}
		column[idx] = math.Round(dates[idx].Sub(dates[pos]).Hours() / 24)
	}
	return column
}

// extremeIndex returns the index of the window's max (or min), taking the
// last occurrence on ties; -1 when the window holds only NaN
func extremeIndex(values []float64, lo, hi int, wantMax bool) int {
	pos := -1
	best := math.NaN()
	for idx := lo; idx <= hi; idx++ {
		value := values[idx]
		if math.IsNaN(value) {
			continue
		}
		switch {
		case pos < 0:
			pos, best = idx, value
		case wantMax && value >= best:
			pos, best = idx, value
		case !wantMax && value <= best:
			pos, best = idx, value
		}
	}
	return pos
}

func undefinedColumn(n int) []float64 {
	column := make([]float64, n)
	for idx := range column {
		column[idx] = math.NaN()
	}
	return column
}

func containsNaN(values []float64) bool {
	for _, value := range values {
		if math.IsNaN(value) {
			return true
		}
	}
	return false
}
