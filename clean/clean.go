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

// Package clean normalizes the raw CSV pulled from the object lake into
// canonical price bars. It fails soft: bad rows are dropped and an
// unusable input produces an empty result, never an error.
package clean

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/goldvault/goldpipe/data"
	"github.com/rs/zerolog/log"
)

// date layouts accepted in the raw feed, tried in order
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// Standardize parses a raw CSV blob and returns cleaned price bars sorted
// ascending by date with no duplicate dates. Column names are matched
// case-insensitively. Rows where the date or the close price cannot be
// parsed are dropped; other unparsable numeric fields become NaN. Callers
// must treat an empty result as "nothing to load".
func Standardize(blob []byte, ticker string) []data.PriceBar {
	if len(blob) == 0 {
		log.Warn().Str("Ticker", ticker).Msg("input blob is empty, skipping data cleaning")
		return nil
	}

	records := []*data.RawRecord{}
	if err := gocsv.UnmarshalBytes(lowercaseHeader(blob), &records); err != nil {
		log.Error().Err(err).Str("Ticker", ticker).Msg("could not parse raw CSV")
		return nil
	}

	bars := make([]data.PriceBar, 0, len(records))
	dropped := 0
	for _, record := range records {
		date, ok := parseDate(record.Date)
		if !ok {
			dropped++
			continue
		}

		closePrice, ok := parsePrice(record.Close)
		if !ok {
			dropped++
			continue
		}

		bar := data.PriceBar{
			Date:   date,
			Ticker: ticker,
			Open:   coercePrice(record.Open),
			High:   coercePrice(record.High),
			Low:    coercePrice(record.Low),
			Close:  closePrice,
			Volume: coercePrice(record.Volume),
		}
		if bar.Ticker == "" {
			bar.Ticker = strings.TrimSpace(record.Ticker)
		}

		bars = append(bars, bar)
	}

	// sort ascending; the stable sort preserves file order between equal
	// dates so dedupe below keeps the last row the feed sent for a day
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	deduped := bars[:0]
	for _, bar := range bars {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(bar.Date) {
			deduped[n-1] = bar
			continue
		}
		deduped = append(deduped, bar)
	}

	if dropped > 0 {
		log.Warn().Int("Dropped", dropped).Str("Ticker", ticker).Msg("dropped rows with unparsable date or close")
	}

	log.Info().Int("NumBars", len(deduped)).Str("Ticker", ticker).Msg("standardization complete")
	return deduped
}

// lowercaseHeader rewrites the first CSV line in lower case so the feed's
// heterogeneous column casing matches the csv struct tags
func lowercaseHeader(blob []byte) []byte {
	idx := bytes.IndexByte(blob, '\n')
	if idx < 0 {
		return bytes.ToLower(blob)
	}
	header := bytes.ToLower(blob[:idx])
	return append(append(make([]byte, 0, len(blob)), header...), blob[idx:]...)
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date.Truncate(24 * time.Hour), true
		}
	}
	return time.Time{}, false
}

func parsePrice(value string) (float64, bool) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) {
		return 0, false
	}
	return parsed, true
}

// coercePrice turns an unparsable value into NaN instead of failing
func coercePrice(value string) float64 {
	if parsed, ok := parsePrice(value); ok {
		return parsed
	}
	return math.NaN()
}
