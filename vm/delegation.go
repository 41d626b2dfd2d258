// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"bytes"

	"github.com/vechain/eoaproxy/thor"
)

// delegationCodeLen is the length of an EIP-7702 delegation designator.
const delegationCodeLen = 23

// NewDelegation returns the designator code 0xef0100 || target.
func NewDelegation(target thor.Address) []byte {
	return append(append(make([]byte, 0, delegationCodeLen), thor.DelegationPrefix...), target[:]...)
}

// ParseDelegation returns the target of a delegation designator.
func ParseDelegation(code []byte) (thor.Address, bool) {
	if len(code) != delegationCodeLen || !bytes.HasPrefix(code, thor.DelegationPrefix) {
		return thor.Address{}, false
	}
	return thor.BytesToAddress(code[len(thor.DelegationPrefix):]), true
}
