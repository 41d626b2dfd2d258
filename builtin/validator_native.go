// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/eoaproxy/builtin/erc1967"
	"github.com/vechain/eoaproxy/builtin/native"
	"github.com/vechain/eoaproxy/builtin/reverts"
	"github.com/vechain/eoaproxy/builtin/validator"
	"github.com/vechain/eoaproxy/thor"
)

func init() {
	invalidImplementation, _ := Validator.ABI.ErrorByName("InvalidImplementation")
	invalidWalletState, _ := Validator.ABI.ErrorByName("InvalidWalletState")
	owner, _ := Wallet.ABI.MethodByName("owner")

	Validator.define([]native.Definition{
		{Name: "supportedImplementation", Run: func(env *native.Env) []any {
			impl, err := validator.New(env.Self(), env.State()).SupportedImplementation()
			env.Must(err)
			return []any{impl}
		}},
		{Name: "validateWallet", Run: func(env *native.Env) []any {
			var wallet common.Address
			env.ParseArgs(&wallet)

			supported, err := validator.New(env.Self(), env.State()).SupportedImplementation()
			env.Must(err)
			impl, err := erc1967.Implementation(env.State(), thor.Address(wallet))
			env.Must(err)
			env.Require(impl == supported, reverts.MustEncode(invalidImplementation, common.Address(impl)))

			// the wallet must have been initialized with an owner
			input, err := owner.EncodeInput()
			env.Must(err)
			ret, err := env.StaticCall(thor.Address(wallet), input)
			var current common.Address
			if err == nil {
				err = owner.DecodeOutput(ret, &current)
			}
			env.Require(err == nil && current != (common.Address{}), reverts.MustEncode(invalidWalletState))

			return []any{[4]byte(env.Method().ID())}
		}},
	})
}
