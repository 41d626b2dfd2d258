// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/eoaproxy/runtime"
)

// Output of a clause, for json marshal.
type Output struct {
	Data         string   `json:"data"`
	Events       []*Event `json:"events"`
	Reverted     bool     `json:"reverted"`
	RevertData   string   `json:"revertData,omitempty"`
	RevertReason string   `json:"revertReason,omitempty"`
}

// ConvertOutput converts a runtime output.
func ConvertOutput(out *runtime.Output) *Output {
	o := &Output{
		Data:         hexutil.Encode(out.Data),
		Events:       make([]*Event, 0, len(out.Events)),
		Reverted:     out.Reverted,
		RevertReason: out.RevertReason,
	}
	if len(out.RevertData) > 0 {
		o.RevertData = hexutil.Encode(out.RevertData)
	}
	for _, ev := range out.Events {
		o.Events = append(o.Events, ConvertEvent(ev))
	}
	return o
}
