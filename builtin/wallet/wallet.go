// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wallet

import (
	"github.com/vechain/eoaproxy/builtin/solidity"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
)

// The wallet runs in the storage of the account delegating to it,
// so its slots are namespaced away from other logic the account may have run.
var (
	ownerSlot       = thor.Keccak256([]byte("eoaproxy.wallet.owner"))
	initializedSlot = thor.Keccak256([]byte("eoaproxy.wallet.initialized"))
)

// Wallet binder of `Wallet` contract, bound to the account it runs for.
type Wallet struct {
	addr        thor.Address
	owner       *solidity.Address
	initialized *solidity.Bool
}

func New(addr thor.Address, state *state.State) *Wallet {
	ctx := solidity.NewContext(addr, state)
	return &Wallet{
		addr:        addr,
		owner:       solidity.NewAddress(ctx, ownerSlot),
		initialized: solidity.NewBool(ctx, initializedSlot),
	}
}

func (w *Wallet) Owner() (thor.Address, error) {
	return w.owner.Get()
}

func (w *Wallet) SetOwner(owner thor.Address) {
	w.owner.Set(owner)
}

// Initialized returns whether initialize has run for the account.
func (w *Wallet) Initialized() (bool, error) {
	return w.initialized.Get()
}

func (w *Wallet) SetInitialized() {
	w.initialized.Set(true)
}

// IsAuthorized reports whether caller may manage the wallet: the owner or the account itself.
func (w *Wallet) IsAuthorized(caller thor.Address) (bool, error) {
	if caller == w.addr {
		return true, nil
	}
	owner, err := w.owner.Get()
	if err != nil {
		return false, err
	}
	return !owner.IsZero() && caller == owner, nil
}
