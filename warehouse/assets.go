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
	"errors"
	"fmt"

	"github.com/goldvault/goldpipe/data"
	"github.com/rs/zerolog/log"
)

var ErrAssetUnresolved = errors.New("asset key could not be resolved")

// ResolveAsset returns the surrogate key for the asset's ticker, minting
// a new dim_asset row on first reference. The upsert returns the key in a
// single round trip whether the row is new or pre-existing, so there is
// no lookup-then-insert gap under concurrent invocations. The no-op
// DO UPDATE is required: DO NOTHING returns no row for existing tickers.
func (wh *Warehouse) ResolveAsset(ctx context.Context, asset data.Asset) (int64, error) {
	sql := fmt.Sprintf(`INSERT INTO %s (
		"ticker",
		"asset_name",
		"asset_exchange",
		"region"
	) VALUES (
		$1, $2, $3, $4
	) ON CONFLICT (ticker) DO UPDATE SET
		ticker = EXCLUDED.ticker
	RETURNING asset_key`, dimAssetTbl)

	var assetKey int64
	if err := wh.Pool.QueryRow(ctx, sql, asset.Ticker, asset.Name, asset.Exchange, asset.Region).Scan(&assetKey); err != nil {
		log.Error().Err(err).Str("Ticker", asset.Ticker).Msg("resolving asset key failed")
		return 0, fmt.Errorf("%w: %s", ErrAssetUnresolved, asset.Ticker)
	}

	log.Info().Str("Ticker", asset.Ticker).Int64("AssetKey", assetKey).Msg("resolved asset key")
	return assetKey, nil
}
