// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

// Event for json marshal
type Event struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
}

// ConvertEvent converts a log emitted during execution.
func ConvertEvent(l *vm.Log) *Event {
	return &Event{
		Address: l.Address,
		Topics:  l.Topics,
		Data:    hexutil.Encode(l.Data),
	}
}
