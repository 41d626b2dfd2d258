// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/eoaproxy/thor"
)

func TestERC1271Values(t *testing.T) {
	assert.Equal(t, thor.Selector("isValidSignature(bytes32,bytes)"), thor.ERC1271MagicValue)
	assert.NotEqual(t, thor.ERC1271MagicValue, thor.ERC1271FailValue)
}

func TestDelegationPrefix(t *testing.T) {
	assert.Len(t, thor.DelegationPrefix, 3)
	assert.Equal(t, byte(0xef), thor.DelegationPrefix[0])
}
