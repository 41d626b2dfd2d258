// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/eoaproxy/builtin/erc1967"
	"github.com/vechain/eoaproxy/builtin/native"
	"github.com/vechain/eoaproxy/builtin/reverts"
	"github.com/vechain/eoaproxy/builtin/wallet"
	"github.com/vechain/eoaproxy/cry"
	"github.com/vechain/eoaproxy/thor"
)

// The wallet is logic an account delegates to, so it always runs on the account's storage.
func init() {
	ownershipTransferred, _ := Wallet.ABI.EventByName("OwnershipTransferred")
	alreadyInitialized, _ := Wallet.ABI.ErrorByName("AlreadyInitialized")
	unauthorized, _ := Wallet.ABI.ErrorByName("Unauthorized")

	bind := func(env *native.Env) *wallet.Wallet {
		return wallet.New(env.Self(), env.State())
	}
	requireAuthorized := func(env *native.Env, w *wallet.Wallet) {
		ok, err := w.IsAuthorized(env.Caller())
		env.Must(err)
		env.Require(ok, reverts.MustEncode(unauthorized))
	}
	transfer := func(env *native.Env, w *wallet.Wallet, newOwner thor.Address) {
		prev, err := w.Owner()
		env.Must(err)
		w.SetOwner(newOwner)
		env.Log(ownershipTransferred, []thor.Bytes32{
			thor.BytesToBytes32(prev.Bytes()),
			thor.BytesToBytes32(newOwner.Bytes()),
		})
	}

	Wallet.define([]native.Definition{
		{Name: "initialize", Run: func(env *native.Env) []any {
			var owner common.Address
			env.ParseArgs(&owner)

			w := bind(env)
			initialized, err := w.Initialized()
			env.Must(err)
			env.Require(!initialized, reverts.MustEncode(alreadyInitialized))

			w.SetInitialized()
			transfer(env, w, thor.Address(owner))
			return nil
		}},
		{Name: "owner", Run: func(env *native.Env) []any {
			owner, err := bind(env).Owner()
			env.Must(err)
			return []any{owner}
		}},
		{Name: "transferOwnership", Run: func(env *native.Env) []any {
			var newOwner common.Address
			env.ParseArgs(&newOwner)

			w := bind(env)
			requireAuthorized(env, w)
			transfer(env, w, thor.Address(newOwner))
			return nil
		}},
		{Name: "execute", Run: func(env *native.Env) []any {
			var args struct {
				Target common.Address
				Value  *big.Int
				Data   []byte
			}
			env.ParseArgs(&args)

			requireAuthorized(env, bind(env))
			ret, err := env.Call(thor.Address(args.Target), args.Value, args.Data)
			if err != nil {
				env.Stop(err)
			}
			return []any{ret}
		}},
		{Name: "isValidSignature", Run: func(env *native.Env) []any {
			var args struct {
				Hash      common.Hash
				Signature []byte
			}
			env.ParseArgs(&args)

			owner, err := bind(env).Owner()
			env.Must(err)
			signer, err := cry.Recover(thor.Bytes32(args.Hash), args.Signature)
			if err == nil && !owner.IsZero() && signer == owner {
				return []any{thor.ERC1271MagicValue}
			}
			return []any{thor.ERC1271FailValue}
		}},
		{Name: "upgradeToAndCall", Run: func(env *native.Env) []any {
			var args struct {
				NewImplementation common.Address
				Data              []byte
			}
			env.ParseArgs(&args)

			requireAuthorized(env, bind(env))
			erc1967.UpgradeToAndCall(env.Env, thor.Address(args.NewImplementation), args.Data)
			return nil
		}},
	})
	Wallet.program.WithReceive()
}
