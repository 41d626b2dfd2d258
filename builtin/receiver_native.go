// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/eoaproxy/builtin/native"
)

// The receiver holds no state. It accepts value and acknowledges token callbacks,
// so an account can receive assets before it is initialized.
func init() {
	var defines []native.Definition
	for _, name := range []string{"onERC721Received", "onERC1155Received", "onERC1155BatchReceived"} {
		defines = append(defines, native.Definition{Name: name, Run: func(env *native.Env) []any {
			return []any{[4]byte(env.Method().ID())}
		}})
	}
	Receiver.define(defines)
	Receiver.program.WithReceive()
}
