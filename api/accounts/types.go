// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/eoaproxy/api/utils/types"
	"github.com/vechain/eoaproxy/thor"
)

// Account for marshal account
type Account struct {
	Balance        math.HexOrDecimal256 `json:"balance"`
	HasCode        bool                 `json:"hasCode"`
	DelegatedTo    *thor.Address        `json:"delegatedTo"`
	Implementation *thor.Address        `json:"implementation"`
}

// Nonce is the next nonce of an account at a tracker.
type Nonce struct {
	Tracker thor.Address `json:"tracker"`
	Nonce   string       `json:"nonce"`
}

// CallData represents a read-only call body.
type CallData struct {
	types.Clause
	Caller *thor.Address `json:"caller"`
}
