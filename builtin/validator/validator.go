// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"github.com/vechain/eoaproxy/builtin/solidity"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
)

var supportedImplementationSlot = thor.Bytes32{}

// Validator binder of `WalletValidator` contract.
// A validator accepts wallets running exactly one implementation.
type Validator struct {
	supported *solidity.Address
}

func New(addr thor.Address, state *state.State) *Validator {
	return &Validator{
		supported: solidity.NewAddress(solidity.NewContext(addr, state), supportedImplementationSlot),
	}
}

func (v *Validator) SupportedImplementation() (thor.Address, error) {
	return v.supported.Get()
}

func (v *Validator) SetSupportedImplementation(impl thor.Address) {
	v.supported.Set(impl)
}
