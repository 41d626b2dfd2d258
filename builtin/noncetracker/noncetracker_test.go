// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package noncetracker

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/eoaproxy/builtin/solidity"
	"github.com/vechain/eoaproxy/lvldb"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
)

func newTracker(t *testing.T) (*NonceTracker, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db, 1)
	return New(thor.BytesToAddress([]byte("tracker")), st), st
}

func TestUseNonce(t *testing.T) {
	tracker, _ := newTracker(t)
	alice := thor.BytesToAddress([]byte("alice"))
	bob := thor.BytesToAddress([]byte("bob"))

	next, err := tracker.GetNextNonce(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), next.Int64())

	for i := range 3 {
		used, err := tracker.UseNonce(alice)
		require.NoError(t, err)
		assert.Equal(t, int64(i), used.Int64())
	}
	next, _ = tracker.GetNextNonce(alice)
	assert.Equal(t, int64(3), next.Int64())

	// accounts are independent
	next, _ = tracker.GetNextNonce(bob)
	assert.Equal(t, int64(0), next.Int64())
}

func TestVerifyAndUseNonce(t *testing.T) {
	tracker, _ := newTracker(t)
	alice := thor.BytesToAddress([]byte("alice"))

	tests := []struct {
		nonce int64
		ok    bool
		next  int64
	}{
		{1, false, 0},
		{0, true, 1},
		{0, false, 1},
		{1, true, 2},
		{5, false, 2},
	}
	for _, tt := range tests {
		ok, err := tracker.VerifyAndUseNonce(alice, big.NewInt(tt.nonce))
		require.NoError(t, err)
		assert.Equal(t, tt.ok, ok, "nonce %d", tt.nonce)
		next, _ := tracker.GetNextNonce(alice)
		assert.Equal(t, tt.next, next.Int64())
	}
}

func TestStorageLayout(t *testing.T) {
	tracker, st := newTracker(t)
	alice := thor.BytesToAddress([]byte("alice"))
	for range 7 {
		_, err := tracker.UseNonce(alice)
		require.NoError(t, err)
	}

	// nonces[alice] reads as a plain uint256 at the solidity mapping slot
	v, err := st.GetStorage(tracker.addr, solidity.MappingSlot(alice.Bytes(), thor.Bytes32{}))
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Big().Int64())
}
