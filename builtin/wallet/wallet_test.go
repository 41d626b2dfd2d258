// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/eoaproxy/lvldb"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
)

func TestWallet(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.New(db, 1)

	account := thor.BytesToAddress([]byte("account"))
	owner := thor.BytesToAddress([]byte("owner"))
	stranger := thor.BytesToAddress([]byte("stranger"))
	w := New(account, st)

	initialized, err := w.Initialized()
	require.NoError(t, err)
	assert.False(t, initialized)

	// before an owner is set only the account itself is authorized
	for _, tt := range []struct {
		caller thor.Address
		want   bool
	}{
		{account, true},
		{owner, false},
		{thor.Address{}, false},
	} {
		ok, err := w.IsAuthorized(tt.caller)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, tt.caller.String())
	}

	w.SetOwner(owner)
	w.SetInitialized()

	got, _ := w.Owner()
	assert.Equal(t, owner, got)
	initialized, _ = w.Initialized()
	assert.True(t, initialized)

	ok, _ := w.IsAuthorized(owner)
	assert.True(t, ok)
	ok, _ = w.IsAuthorized(stranger)
	assert.False(t, ok)

	// stored in the account's storage
	raw, _ := st.GetStorage(account, ownerSlot)
	assert.Equal(t, owner, thor.BytesToAddress(raw.Bytes()))
}
