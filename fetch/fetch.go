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

// Package fetch retrieves daily price observations from the quote API.
// Retry and backoff live here; the warehouse loader performs no retries
// of its own.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/goldvault/goldpipe/data"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var ErrInvalidStatusCode = errors.New("invalid status code received")

const (
	maxRetries   = 3
	retryBackoff = 5 * time.Second
	dateFormat   = "2006-01-02"
)

// Client fetches daily bars for a single ticker per call
type Client struct {
	baseURL string
	apiKey  string
	client  *resty.Client
	limiter *rate.Limiter
}

type quoteResponse struct {
	Ticker string     `json:"ticker"`
	Bars   []quoteBar `json:"bars"`
}

type quoteBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// New creates a client against the given quote API. requestsPerMinute
// bounds the request rate; zero disables pacing.
func New(baseURL, apiKey string, requestsPerMinute int) *Client {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: resty.New().
			SetRetryCount(maxRetries - 1).
			SetRetryWaitTime(retryBackoff).
			SetRetryMaxWaitTime(retryBackoff).
			AddRetryCondition(func(resp *resty.Response, err error) bool {
				return err != nil || resp.StatusCode() >= 500
			}),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// DailyPrices fetches bars for the ticker over [startDate, endDate)
// and returns them as raw records ready for the object lake
func (c *Client) DailyPrices(ctx context.Context, ticker string, startDate, endDate time.Time) ([]*data.RawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	log.Info().Str("Ticker", ticker).Time("StartDate", startDate).Time("EndDate", endDate).
		Msg("fetching daily prices")

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"ticker": ticker,
			"start":  startDate.Format(dateFormat),
			"end":    endDate.Format(dateFormat),
			"apiKey": c.apiKey,
		}).
		Get(fmt.Sprintf("%s/v1/daily", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("fetch daily prices for %s: %w", ticker, err)
	}

	if resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatusCode, resp.StatusCode())
	}

	quotes := quoteResponse{}
	if err := json.Unmarshal(resp.Body(), &quotes); err != nil {
		return nil, fmt.Errorf("decode quote response for %s: %w", ticker, err)
	}

	if len(quotes.Bars) == 0 {
		log.Warn().Str("Ticker", ticker).Msg("quote API returned no bars")
		return nil, nil
	}

	records := make([]*data.RawRecord, 0, len(quotes.Bars))
	for _, bar := range quotes.Bars {
		records = append(records, &data.RawRecord{
			Date:   bar.Date,
			Open:   formatPrice(bar.Open),
			High:   formatPrice(bar.High),
			Low:    formatPrice(bar.Low),
			Close:  formatPrice(bar.Close),
			Volume: formatPrice(bar.Volume),
			Ticker: ticker,
		})
	}

	log.Info().Str("Ticker", ticker).Int("NumRecords", len(records)).Msg("successfully fetched daily prices")
	return records, nil
}

// SingleDay fetches exactly one observation day
func (c *Client) SingleDay(ctx context.Context, ticker string, day time.Time) ([]*data.RawRecord, error) {
	return c.DailyPrices(ctx, ticker, day, day.AddDate(0, 0, 1))
}

func formatPrice(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
