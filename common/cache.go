// Copyright 2023
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

package common

import (
	"errors"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var cache *lru.Cache

var ErrCacheMiss = errors.New("key not found in cache")

// SetupCache initializes the in-process LRU cache. Entries are lz4
// compressed; the cache holds downloaded benchmark quotes and the
// constituent universe for the lifetime of the run.
func SetupCache() {
	size := viper.GetInt("cache.local_size")
	if size <= 0 {
		size = 64
	}

	var err error
	cache, err = lru.New(size)
	if err != nil {
		log.Panic().Err(err).Msg("could not create LRU cache")
	}
}

func CacheSet(key string, val []byte) error {
	if cache == nil {
		SetupCache()
	}

	compressed, err := Compress(val)
	if err != nil {
		return err
	}

	cache.Add(key, compressed)
	return nil
}

func CacheGet(key string) ([]byte, error) {
	if cache == nil {
		SetupCache()
	}

	v, ok := cache.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}

	return Decompress(v.([]byte))
}
