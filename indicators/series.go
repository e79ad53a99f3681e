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
	"errors"
	"math"
	"time"

	"github.com/goldvault/goldpipe/data"
)

var (
	ErrRaggedSeries  = errors.New("series columns have different lengths")
	ErrUnorderedDate = errors.New("series dates are not strictly ascending")
)

// Series is one asset's daily price history, indexed by date ascending
// with no duplicate dates. The engine never mutates a Series.
type Series struct {
	Dates  []time.Time
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
}

// NewSeries builds a Series from cleaned price bars
func NewSeries(bars []data.PriceBar) Series {
	series := Series{
		Dates:  make([]time.Time, 0, len(bars)),
		Open:   make([]float64, 0, len(bars)),
		High:   make([]float64, 0, len(bars)),
		Low:    make([]float64, 0, len(bars)),
		Close:  make([]float64, 0, len(bars)),
		Volume: make([]float64, 0, len(bars)),
	}
	for _, bar := range bars {
		series.Dates = append(series.Dates, bar.Date)
		series.Open = append(series.Open, bar.Open)
		series.High = append(series.High, bar.High)
		series.Low = append(series.Low, bar.Low)
		series.Close = append(series.Close, bar.Close)
		series.Volume = append(series.Volume, bar.Volume)
	}
	return series
}

// Len returns the number of periods in the series
func (series Series) Len() int {
	return len(series.Dates)
}

func (series Series) validate() error {
	n := series.Len()
	if len(series.Open) != n || len(series.High) != n || len(series.Low) != n ||
		len(series.Close) != n || len(series.Volume) != n {
		return ErrRaggedSeries
	}
	for idx := 1; idx < n; idx++ {
		if !series.Dates[idx-1].Before(series.Dates[idx]) {
			return ErrUnorderedDate
		}
	}
	return nil
}

// Frame is the engine's output: one aligned column per indicator, one row
// per input date. NaN marks values where the rolling window did not yet
// have enough history; those rows are omitted when loaded, never stored.
type Frame struct {
	Dates   []time.Time
	order   []string
	columns map[string][]float64
}

func newFrame(dates []time.Time) *Frame {
	return &Frame{
		Dates:   dates,
		columns: make(map[string][]float64),
	}
}

func (frame *Frame) add(name string, values []float64) {
	frame.order = append(frame.order, name)
	frame.columns[name] = values
}

// Column returns the named indicator column, or nil if absent
func (frame *Frame) Column(name string) []float64 {
	return frame.columns[name]
}

// Names lists the frame's columns in catalog order
func (frame *Frame) Names() []string {
	return frame.order
}

// Defined reports whether the named indicator has a value at idx
func (frame *Frame) Defined(name string, idx int) bool {
	column, ok := frame.columns[name]
	if !ok || idx < 0 || idx >= len(column) {
		return false
	}
	return !math.IsNaN(column[idx])
}
