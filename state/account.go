// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/eoaproxy/kv"
	"github.com/vechain/eoaproxy/thor"
)

// Account is the stored representation of an account.
// RLP encoded objects are stored in the account bucket.
type Account struct {
	Balance  *big.Int
	CodeHash []byte // hash of code
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance and zero length code hash.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0 && len(a.CodeHash) == 0
}

func emptyAccount() *Account {
	return &Account{Balance: &big.Int{}}
}

// loadAccount loads an account object by address.
// It returns empty account if no account found at the address.
func loadAccount(getter kv.Getter, addr thor.Address) (*Account, error) {
	data, err := getter.Get(addr[:])
	if err != nil {
		if getter.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, err
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// saveAccount saves account into the putter.
// If the given account is empty, the entry is deleted.
func saveAccount(putter kv.Putter, addr thor.Address, a *Account) error {
	if a.IsEmpty() {
		return putter.Delete(addr[:])
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return putter.Put(addr[:], data)
}
