// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/vechain/eoaproxy/api/utils/types"
	"github.com/vechain/eoaproxy/thor"
)

// Transaction is a clause executed on behalf of origin.
// The origin is trusted, the service stands in for signature checks on the outer transaction.
type Transaction struct {
	Origin thor.Address `json:"origin"`
	types.Clause
}
