// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/eoaproxy/lvldb"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
)

func TestSupportedImplementation(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.New(db, 1)

	addr := thor.BytesToAddress([]byte("validator"))
	impl := thor.BytesToAddress([]byte("impl"))
	v := New(addr, st)

	got, err := v.SupportedImplementation()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	v.SetSupportedImplementation(impl)
	got, err = v.SupportedImplementation()
	require.NoError(t, err)
	assert.Equal(t, impl, got)

	raw, err := st.GetStorage(addr, thor.Bytes32{})
	require.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32(impl.Bytes()), raw)
}
