// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lexcompile

import (
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bufbuild/lexcompile/table"
)

// Cache remembers the tables built from lexer definitions, keyed by a hash
// of their source, so that compiling the same source again skips building
// the table. A Cache is safe for concurrent use, and may be shared between
// compilers.
type Cache struct {
	tables *lru.Cache[[sha256.Size]byte, *table.Table]
}

// NewCache returns a cache holding at most size tables.
func NewCache(size int) (*Cache, error) {
	tables, err := lru.New[[sha256.Size]byte, *table.Table](size)
	if err != nil {
		return nil, err
	}
	return &Cache{tables: tables}, nil
}

// Get returns the table built from src, if it is cached.
func (c *Cache) Get(src []byte) (*table.Table, bool) {
	return c.tables.Get(sha256.Sum256(src))
}

// Add records the table built from src.
func (c *Cache) Add(src []byte, t *table.Table) {
	c.tables.Add(sha256.Sum256(src), t)
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	return c.tables.Len()
}
