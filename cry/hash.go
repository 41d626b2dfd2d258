// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"github.com/ethereum/go-ethereum/accounts"

	"github.com/vechain/eoaproxy/thor"
)

// PersonalHash wraps the 32-byte hash as an EIP-191 personal message:
// keccak256("\x19Ethereum Signed Message:\n32" || hash).
func PersonalHash(hash thor.Bytes32) thor.Bytes32 {
	return thor.BytesToBytes32(accounts.TextHash(hash[:]))
}
