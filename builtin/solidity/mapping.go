// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/eoaproxy/thor"
)

type Key interface {
	Bytes() []byte
}

// MappingSlot returns the slot of key in a mapping declared at base,
// keccak256(pad32(key) ++ base) as solidity lays it out.
func MappingSlot(key []byte, base thor.Bytes32) thor.Bytes32 {
	padded := thor.BytesToBytes32(key)
	return thor.Keccak256(padded[:], base[:])
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are stored rlp encoded, so a single integer value reads as a plain uint256 slot.
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	position := MappingSlot(key.Bytes(), m.basePos)
	err = m.context.state.DecodeStorage(m.context.address, position, func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	position := MappingSlot(key.Bytes(), m.basePos)
	return m.context.state.EncodeStorage(m.context.address, position, func() ([]byte, error) {
		if reflect.ValueOf(value).IsZero() {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}
