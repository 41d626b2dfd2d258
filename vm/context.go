// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"github.com/vechain/eoaproxy/thor"
)

// Context is the execution context shared by all frames of one clause.
type Context struct {
	ChainID     uint64
	BlockNumber uint32
	Time        uint64
	Origin      thor.Address
}

// Log is an event emitted during execution.
type Log struct {
	Address thor.Address
	Topics  []thor.Bytes32
	Data    []byte
}
