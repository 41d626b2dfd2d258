// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/eoaproxy/builtin/native"
	"github.com/vechain/eoaproxy/builtin/noncetracker"
	"github.com/vechain/eoaproxy/thor"
)

func init() {
	nonceUsed, _ := NonceTracker.ABI.EventByName("NonceUsed")

	NonceTracker.define([]native.Definition{
		{Name: "getNextNonce", Run: func(env *native.Env) []any {
			var account common.Address
			env.ParseArgs(&account)

			nonce, err := noncetracker.New(env.Self(), env.State()).GetNextNonce(thor.Address(account))
			env.Must(err)
			return []any{nonce}
		}},
		{Name: "useNonce", Run: func(env *native.Env) []any {
			nonce, err := noncetracker.New(env.Self(), env.State()).UseNonce(env.Caller())
			env.Must(err)

			env.Log(nonceUsed, []thor.Bytes32{thor.BytesToBytes32(env.Caller().Bytes())}, nonce)
			return []any{nonce}
		}},
		{Name: "verifyAndUseNonce", Run: func(env *native.Env) []any {
			var nonce *big.Int
			env.ParseArgs(&nonce)

			ok, err := noncetracker.New(env.Self(), env.State()).VerifyAndUseNonce(env.Caller(), nonce)
			env.Must(err)
			if ok {
				env.Log(nonceUsed, []thor.Bytes32{thor.BytesToBytes32(env.Caller().Bytes())}, nonce)
			}
			return []any{ok}
		}},
	})
}
