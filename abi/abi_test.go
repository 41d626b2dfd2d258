// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/eoaproxy/thor"
)

const testJSON = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"address"}]},
	{"type":"event","name":"Transfer","anonymous":false,
	 "inputs":[{"name":"from","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"error","name":"Unauthorized","inputs":[]},
	{"type":"error","name":"InvalidImplementation","inputs":[{"name":"implementation","type":"address"}]}
]`

func TestABIMethod(t *testing.T) {
	abi, err := New([]byte(testJSON))
	require.NoError(t, err)

	transfer, ok := abi.MethodByName("transfer")
	require.True(t, ok)
	assert.Equal(t, MethodID(thor.Selector("transfer(address,uint256)")), transfer.ID())
	assert.Equal(t, "transfer(address,uint256)", transfer.Sig())
	assert.False(t, transfer.Const())

	to := common.HexToAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	input, err := transfer.EncodeInput(to, big.NewInt(100))
	require.NoError(t, err)

	m, err := abi.MethodByInput(input)
	require.NoError(t, err)
	assert.Equal(t, transfer, m)

	var args struct {
		To     common.Address
		Amount *big.Int
	}
	require.NoError(t, transfer.DecodeInput(input, &args))
	assert.Equal(t, to, args.To)
	assert.Equal(t, big.NewInt(100), args.Amount)

	out, err := transfer.EncodeOutput(true)
	require.NoError(t, err)
	var ret bool
	require.NoError(t, transfer.DecodeOutput(out, &ret))
	assert.True(t, ret)

	owner, _ := abi.MethodByName("owner")
	assert.True(t, owner.Const())

	_, err = abi.MethodByInput([]byte{1, 2})
	assert.Error(t, err)
	_, err = abi.MethodByInput([]byte{1, 2, 3, 4})
	assert.Error(t, err)
	assert.Error(t, transfer.DecodeInput(append([]byte{0, 0, 0, 0}, input[4:]...), &args))
}

func TestABIEvent(t *testing.T) {
	abi, err := New([]byte(testJSON))
	require.NoError(t, err)

	ev, ok := abi.EventByName("Transfer")
	require.True(t, ok)
	assert.Equal(t, thor.Keccak256([]byte("Transfer(address,uint256)")), ev.ID())

	data, err := ev.Encode(big.NewInt(5))
	require.NoError(t, err)
	assert.Len(t, data, 32)

	var amount *big.Int
	require.NoError(t, ev.Decode(data, &amount))
	assert.Equal(t, big.NewInt(5), amount)

	byID, ok := abi.EventByID(ev.ID())
	assert.True(t, ok)
	assert.Equal(t, ev, byID)
}

func TestABIError(t *testing.T) {
	abi, err := New([]byte(testJSON))
	require.NoError(t, err)

	unauthorized, ok := abi.ErrorByName("Unauthorized")
	require.True(t, ok)
	data, err := unauthorized.Encode()
	require.NoError(t, err)
	assert.Equal(t, thor.Selector("Unauthorized()"), [4]byte(data))

	invalid, _ := abi.ErrorByName("InvalidImplementation")
	impl := common.HexToAddress("0x01")
	data, err = invalid.Encode(impl)
	require.NoError(t, err)
	assert.Len(t, data, 36)

	found, ok := abi.ErrorByData(data)
	require.True(t, ok)
	assert.Equal(t, "InvalidImplementation", found.Name())

	var got common.Address
	require.NoError(t, found.Decode(data, &got))
	assert.Equal(t, impl, got)

	_, ok = abi.ErrorByData([]byte{0xde, 0xad})
	assert.False(t, ok)
}

func TestMustMethodByName(t *testing.T) {
	abi, err := New([]byte(testJSON))
	require.NoError(t, err)

	transfer, _ := abi.MethodByName("transfer")
	assert.Equal(t, transfer, abi.MustMethodByName("transfer"))
	assert.PanicsWithValue(t, "abi: method not found: approve", func() {
		abi.MustMethodByName("approve")
	})
}
