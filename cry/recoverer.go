// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"github.com/vechain/eoaproxy/cache"
	"github.com/vechain/eoaproxy/thor"
)

// Recoverer recovers signers and remembers the results.
// Only successful recoveries are cached.
type Recoverer struct {
	cache *cache.LRU
}

// NewRecoverer creates a recoverer keeping up to size recent signers.
func NewRecoverer(size int) *Recoverer {
	c, err := cache.NewLRU(size)
	if err != nil {
		panic(err)
	}
	return &Recoverer{c}
}

// Recover is the cached version of Recover.
func (r *Recoverer) Recover(hash thor.Bytes32, sig []byte) (thor.Address, error) {
	key := thor.Keccak256(hash[:], sig)
	if v, ok := r.cache.Get(key); ok {
		return v.(thor.Address), nil
	}
	signer, err := Recover(hash, sig)
	if err != nil {
		return thor.Address{}, err
	}
	r.cache.Add(key, signer)
	return signer, nil
}
