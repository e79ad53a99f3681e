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
package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.Len(t, catalog, 9)

	seen := make(map[string]bool)
	for _, def := range catalog {
		assert.False(t, seen[def.Name], "metric name %q declared twice", def.Name)
		seen[def.Name] = true

		assert.Positive(t, def.Window, "%s must declare a window", def.Name)
		assert.NotEmpty(t, def.Description)
		assert.NotEmpty(t, def.Formula)
		assert.NotEmpty(t, def.Unit)
	}

	// names() preserves declaration order
	names := catalog.Names()
	assert.Equal(t, "ma_20_day", names[0])
	assert.Equal(t, "days_since_low", names[len(names)-1])
}

func TestCatalogLookup(t *testing.T) {
	catalog := DefaultCatalog()

	def, ok := catalog.Lookup("volatility_20_day")
	require.True(t, ok)
	assert.Equal(t, WindowShort, def.Window)

	_, ok = catalog.Lookup("not_a_metric")
	assert.False(t, ok)
}
