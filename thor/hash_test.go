// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestKeccak256(t *testing.T) {
	tests := [][][]byte{
		nil,
		{[]byte("foo")},
		{[]byte("foo"), []byte("bar")},
		{make([]byte, 1000)},
	}
	for _, data := range tests {
		assert.Equal(t, Bytes32(crypto.Keccak256Hash(data...)), Keccak256(data...))
	}
}

func TestSelector(t *testing.T) {
	assert.Equal(t, [4]byte{0x16, 0x26, 0xba, 0x7e}, Selector("isValidSignature(bytes32,bytes)"))
	assert.Equal(t, [4]byte{0x8d, 0xa5, 0xcb, 0x5b}, Selector("owner()"))
}

func TestImplementationSlot(t *testing.T) {
	h := Keccak256([]byte("eip1967.proxy.implementation")).Big()
	h.Sub(h, bigOne)
	assert.Equal(t, ImplementationSlot, BytesToBytes32(h.Bytes()))
}
