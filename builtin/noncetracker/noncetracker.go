// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package noncetracker

import (
	"math/big"

	"github.com/vechain/eoaproxy/builtin/solidity"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
)

// slot of `mapping(address => uint256) nonces`
var noncesSlot = thor.Bytes32{}

// NonceTracker binder of `NonceTracker` contract.
// It keeps the next expected nonce of each account.
type NonceTracker struct {
	addr   thor.Address
	state  *state.State
	nonces *solidity.Mapping[thor.Address, *big.Int]
}

func New(addr thor.Address, state *state.State) *NonceTracker {
	return &NonceTracker{
		addr:   addr,
		state:  state,
		nonces: solidity.NewMapping[thor.Address, *big.Int](solidity.NewContext(addr, state), noncesSlot),
	}
}

// GetNextNonce returns the nonce the account will consume next.
func (n *NonceTracker) GetNextNonce(account thor.Address) (*big.Int, error) {
	return n.nonces.Get(account)
}

// UseNonce consumes and returns the next nonce of the account.
func (n *NonceTracker) UseNonce(account thor.Address) (*big.Int, error) {
	nonce, err := n.nonces.Get(account)
	if err != nil {
		return nil, err
	}
	if err := n.nonces.Set(account, new(big.Int).Add(nonce, big.NewInt(1))); err != nil {
		return nil, err
	}
	return nonce, nil
}

// VerifyAndUseNonce consumes nonce if it is the next one of the account.
// It returns false and leaves the counter untouched otherwise.
func (n *NonceTracker) VerifyAndUseNonce(account thor.Address, nonce *big.Int) (bool, error) {
	next, err := n.nonces.Get(account)
	if err != nil {
		return false, err
	}
	if next.Cmp(nonce) != 0 {
		return false, nil
	}
	if err := n.nonces.Set(account, new(big.Int).Add(next, big.NewInt(1))); err != nil {
		return false, err
	}
	return true, nil
}
