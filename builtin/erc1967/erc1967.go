// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package erc1967 manages the ERC-1967 implementation slot of the executing account.
package erc1967

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/eoaproxy/builtin/gen"
	"github.com/vechain/eoaproxy/builtin/reverts"
	"github.com/vechain/eoaproxy/builtin/solidity"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

var (
	ABI = gen.MustABI("ERC1967")

	upgradedEvent, _         = ABI.EventByName("Upgraded")
	invalidImplementation, _ = ABI.ErrorByName("ERC1967InvalidImplementation")
	nonPayable, _            = ABI.ErrorByName("ERC1967NonPayable")
)

func slot(addr thor.Address, st *state.State) *solidity.Address {
	return solidity.NewAddress(solidity.NewContext(addr, st), thor.ImplementationSlot)
}

// Implementation returns the implementation recorded by addr, zero if unset.
func Implementation(st *state.State, addr thor.Address) (thor.Address, error) {
	return slot(addr, st).Get()
}

// UpgradeTo points the executing account at impl and emits Upgraded.
// It reverts with ERC1967InvalidImplementation when impl has no code.
func UpgradeTo(env *vm.Env, impl thor.Address) {
	env.RequireWritable()
	env.Require(env.HasCode(impl), reverts.MustEncode(invalidImplementation, common.Address(impl)))

	slot(env.Self(), env.State()).Set(impl)
	env.Log(upgradedEvent, []thor.Bytes32{thor.BytesToBytes32(impl.Bytes())})
}

// UpgradeToAndCall upgrades, then runs data on the new implementation in the account's context.
// A failure of that call stops execution with the same error, revert data included.
// Without data, value may not be sent along.
func UpgradeToAndCall(env *vm.Env, impl thor.Address, data []byte) {
	UpgradeTo(env, impl)

	if len(data) > 0 {
		if _, err := env.DelegateCall(impl, data); err != nil {
			env.Stop(err)
		}
		return
	}
	env.Require(env.Value().Sign() == 0, reverts.MustEncode(nonPayable))
}
