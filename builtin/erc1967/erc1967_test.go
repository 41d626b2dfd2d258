// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package erc1967_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/eoaproxy/builtin/erc1967"
	"github.com/vechain/eoaproxy/builtin/reverts"
	"github.com/vechain/eoaproxy/lvldb"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

var (
	alice    = thor.BytesToAddress([]byte("alice"))
	upgrader = thor.BytesToAddress([]byte("upgrader"))
	logic    = thor.BytesToAddress([]byte("logic"))
	noCode   = thor.BytesToAddress([]byte("no code"))
	mark     = thor.BytesToBytes32([]byte("mark"))
)

// the upgrader takes the implementation in the first 20 bytes of input, the call data after
func setup(t *testing.T) *vm.Machine {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	m := vm.New(&vm.Context{ChainID: 1}, state.New(db, 1), vm.NewPrograms())

	require.NoError(t, m.Deploy(upgrader, "Upgrader", vm.ProgramFunc(func(env *vm.Env) ([]byte, error) {
		in := env.Input()
		erc1967.UpgradeToAndCall(env, thor.BytesToAddress(in[:20]), in[20:])
		return nil, nil
	})))
	require.NoError(t, m.Deploy(logic, "Logic", vm.ProgramFunc(func(env *vm.Env) ([]byte, error) {
		if string(env.Input()) == "fail" {
			env.Revert([]byte("failed"))
		}
		env.State().SetStorage(env.Self(), mark, thor.BytesToBytes32(env.Input()))
		return nil, nil
	})))
	require.NoError(t, m.State().SetBalance(alice, big.NewInt(10)))
	return m
}

func implementation(t *testing.T, m *vm.Machine) thor.Address {
	impl, err := erc1967.Implementation(m.State(), upgrader)
	require.NoError(t, err)
	return impl
}

func TestUpgradeTo(t *testing.T) {
	m := setup(t)
	assert.True(t, implementation(t, m).IsZero())

	_, err := m.Call(alice, upgrader, nil, logic.Bytes())
	require.NoError(t, err)
	assert.Equal(t, logic, implementation(t, m))

	// stored at the standard slot
	raw, err := m.State().GetStorage(upgrader, thor.ImplementationSlot)
	require.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32(logic.Bytes()), raw)

	upgraded, _ := erc1967.ABI.EventByName("Upgraded")
	logs := m.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, upgrader, logs[0].Address)
	assert.Equal(t, []thor.Bytes32{upgraded.ID(), thor.BytesToBytes32(logic.Bytes())}, logs[0].Topics)
}

func TestUpgradeToAndCall(t *testing.T) {
	m := setup(t)

	_, err := m.Call(alice, upgrader, nil, append(logic.Bytes(), 0x2a))
	require.NoError(t, err)
	v, err := m.State().GetStorage(upgrader, mark)
	require.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte{0x2a}), v)

	// value is fine with a call
	_, err = m.Call(alice, upgrader, big.NewInt(1), append(logic.Bytes(), 0x2b))
	assert.NoError(t, err)
}

func TestUpgradeFailures(t *testing.T) {
	invalidImplementation, _ := erc1967.ABI.ErrorByName("ERC1967InvalidImplementation")
	nonPayable, _ := erc1967.ABI.ErrorByName("ERC1967NonPayable")

	tests := []struct {
		name     string
		value    *big.Int
		input    []byte
		expected []byte
	}{
		{"no code", nil, noCode.Bytes(), reverts.MustEncode(invalidImplementation, common.Address(noCode))},
		{"value without call", big.NewInt(1), logic.Bytes(), reverts.MustEncode(nonPayable)},
		{"call reverts", nil, append(logic.Bytes(), "fail"...), []byte("failed")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setup(t)
			_, err := m.Call(alice, upgrader, tt.value, tt.input)
			data, ok := vm.RevertData(err)
			require.True(t, ok, "%v", err)
			assert.Equal(t, tt.expected, data)
			assert.True(t, implementation(t, m).IsZero())
			assert.Empty(t, m.Logs())
		})
	}
}

func TestUpgradeReadOnly(t *testing.T) {
	m := setup(t)
	_, err := m.StaticCall(alice, upgrader, logic.Bytes())
	assert.ErrorIs(t, err, vm.ErrWriteProtection)
}
