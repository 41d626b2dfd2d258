// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/qianbin/directcache"

	"github.com/vechain/eoaproxy/cache"
	"github.com/vechain/eoaproxy/thor"
)

// codeCache keeps recently used code, keyed by code hash.
var codeCache, _ = cache.NewLRU(512)

// storageCache caches committed storage values.
// Values are raw rlp, an empty value stands for an unset slot.
type storageCache struct {
	values      *directcache.Cache
	stats       cache.Stats
	lastLogTime atomic.Int64
}

func newStorageCache(sizeMB int) *storageCache {
	if sizeMB < 1 {
		sizeMB = 1
	}
	c := &storageCache{values: directcache.New(sizeMB * 1024 * 1024)}
	c.lastLogTime.Store(time.Now().UnixNano())
	return c
}

func storageCacheKey(buf *[]byte, addr thor.Address, key thor.Bytes32) []byte {
	*buf = append(append((*buf)[:0], addr[:]...), key[:]...)
	return *buf
}

// get returns the cached value and whether it was present.
func (c *storageCache) get(addr thor.Address, key thor.Bytes32) ([]byte, bool) {
	var (
		buf []byte
		val []byte
	)
	if c.values.AdvGet(storageCacheKey(&buf, addr, key), func(v []byte) {
		val = slices.Clone(v)
	}, false) {
		c.hit()
		return val, true
	}
	c.stats.Miss()
	return nil, false
}

func (c *storageCache) set(addr thor.Address, key thor.Bytes32, val []byte) {
	var buf []byte
	_ = c.values.Set(storageCacheKey(&buf, addr, key), val)
}

func (c *storageCache) hit() {
	if c.stats.Hit()%2000 != 0 {
		return
	}
	now := time.Now().UnixNano()
	last := c.lastLogTime.Swap(now)
	if now-last > int64(time.Second*20) {
		if changed, hit, miss := c.stats.Stats(); changed {
			logger.Debug("storage cache stats", "hit", hit, "miss", miss, "rate", c.stats.HitRate())
		}
	} else {
		c.lastLogTime.CompareAndSwap(now, last)
	}
}
