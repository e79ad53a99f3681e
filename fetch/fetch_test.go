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
package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyPrices(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"ticker": r.URL.Query().Get("ticker"),
			"start":  r.URL.Query().Get("start"),
			"end":    r.URL.Query().Get("end"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ticker": "GLD",
			"bars": [
				{"date": "2024-01-02", "open": 191.2, "high": 192.5, "low": 190.1, "close": 192.0, "volume": 5400000},
				{"date": "2024-01-03", "open": 192.1, "high": 193.0, "low": 191.5, "close": 191.8, "volume": 4800000}
			]
		}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key", 0)

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	records, err := client.DailyPrices(context.Background(), "GLD", start, end)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "GLD", gotQuery["ticker"])
	assert.Equal(t, "2024-01-02", gotQuery["start"])
	assert.Equal(t, "2024-01-04", gotQuery["end"])

	assert.Equal(t, "2024-01-02", records[0].Date)
	assert.Equal(t, "192", records[0].Close)
	assert.Equal(t, "GLD", records[0].Ticker)
	assert.Equal(t, "191.8", records[1].Close)
}

func TestDailyPricesEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ticker": "GLD", "bars": []}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key", 0)

	records, err := client.DailyPrices(context.Background(), "GLD", time.Now().AddDate(0, 0, -1), time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDailyPricesBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "test-key", 0)

	_, err := client.DailyPrices(context.Background(), "BOGUS", time.Now().AddDate(0, 0, -1), time.Now())
	assert.ErrorIs(t, err, ErrInvalidStatusCode)
}

func TestSingleDayRange(t *testing.T) {
	var gotStart, gotEnd string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ticker": "GLD", "bars": [{"date": "2024-06-14", "open": 1, "high": 1, "low": 1, "close": 1, "volume": 1}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key", 0)

	day := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	records, err := client.SingleDay(context.Background(), "GLD", day)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "2024-06-14", gotStart)
	assert.Equal(t, "2024-06-15", gotEnd)
}
