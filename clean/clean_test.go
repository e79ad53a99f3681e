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
package clean

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardizeSortsAndDeduplicates(t *testing.T) {
	blob := []byte(`Date,Open,High,Low,Close,Volume,Ticker
2024-01-03,101,103,100,102,5000,GLD
2024-01-01,99,101,98,100,4000,GLD
2024-01-02,100,102,99,101,4500,GLD
2024-01-02,100,102,99,101.5,4600,GLD
`)

	bars := Standardize(blob, "GLD")
	require.Len(t, bars, 3)

	for idx := 1; idx < len(bars); idx++ {
		assert.True(t, bars[idx-1].Date.Before(bars[idx].Date), "output must be sorted ascending")
	}

	// the duplicate day keeps the last row the feed sent
	assert.Equal(t, "2024-01-02", bars[1].Date.Format("2006-01-02"))
	assert.InDelta(t, 101.5, bars[1].Close, 1e-9)
}

func TestStandardizeDropsRowsWithBadDateOrClose(t *testing.T) {
	blob := []byte(`date,open,high,low,close,volume,ticker
2024-01-01,99,101,98,100,4000,GLD
not-a-date,99,101,98,100,4000,GLD
2024-01-03,99,101,98,,4000,GLD
2024-01-04,99,101,98,n/a,4000,GLD
`)

	bars := Standardize(blob, "GLD")
	require.Len(t, bars, 1)
	assert.Equal(t, "2024-01-01", bars[0].Date.Format("2006-01-02"))
}

func TestStandardizeCoercesUnparsableNumericsToNaN(t *testing.T) {
	blob := []byte(`DATE,OPEN,HIGH,LOW,CLOSE,VOLUME,TICKER
2024-01-01,abc,101,98,100,oops,GLD
`)

	bars := Standardize(blob, "GLD")
	require.Len(t, bars, 1)

	assert.True(t, math.IsNaN(bars[0].Open))
	assert.True(t, math.IsNaN(bars[0].Volume))
	assert.InDelta(t, 100, bars[0].Close, 1e-9)
	assert.InDelta(t, 101, bars[0].High, 1e-9)
}

func TestStandardizeAcceptsThousandsSeparators(t *testing.T) {
	blob := []byte(`date,open,high,low,close,volume,ticker
2024-01-01,"1,899.50","1,912.00","1,890.25","1,905.75","12,345",GLD
`)

	bars := Standardize(blob, "GLD")
	require.Len(t, bars, 1)
	assert.InDelta(t, 1905.75, bars[0].Close, 1e-9)
	assert.InDelta(t, 12345, bars[0].Volume, 1e-9)
}

func TestStandardizeFailsSoft(t *testing.T) {
	assert.Empty(t, Standardize(nil, "GLD"))
	assert.Empty(t, Standardize([]byte{}, "GLD"))
	assert.Empty(t, Standardize([]byte("garbage with no header"), "GLD"))
}
