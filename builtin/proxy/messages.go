// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proxy

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/eoaproxy/thor"
)

// Type hashes of the authorization messages.
var (
	InitTypeHash = thor.Keccak256([]byte(
		"EIP7702ProxyInitialization(uint256 chainId,address proxy,bytes32 args,uint256 nonce)"))
	SetTypeHash = thor.Keccak256([]byte(
		"EIP7702ProxyImplementationSet(uint256 chainId,address proxy,uint256 nonce,address currentImplementation,address newImplementation,bytes callData,address validator)"))
	ResetTypeHash = thor.Keccak256([]byte(
		"EIP7702ProxyImplementationReset(uint256 chainId,address proxy,uint256 nonce,address currentImplementation,address newImplementation)"))
)

// message accumulates abi.encode of static words.
type message []byte

func (m message) word(w thor.Bytes32) message {
	return append(m, w[:]...)
}

func (m message) uint(v *big.Int) message {
	if v == nil {
		v = new(big.Int)
	}
	return append(m, math.U256Bytes(new(big.Int).Set(v))...)
}

func (m message) address(a thor.Address) message {
	return m.word(thor.BytesToBytes32(a.Bytes()))
}

func (m message) hash() thor.Bytes32 {
	return thor.Keccak256(m)
}

// InitDigest is the digest the account signs to initialize.
// chainID 0 makes it valid on any chain.
func InitDigest(chainID *big.Int, proxy thor.Address, args []byte, nonce *big.Int) thor.Bytes32 {
	return message(nil).
		word(InitTypeHash).
		uint(chainID).
		address(proxy).
		word(thor.Keccak256(args)).
		uint(nonce).
		hash()
}

// SetDigest is the digest the account signs to move from current to newImpl with callData and validator.
func SetDigest(chainID *big.Int, proxy thor.Address, nonce *big.Int, current, newImpl thor.Address, callData []byte, validator thor.Address) thor.Bytes32 {
	return message(nil).
		word(SetTypeHash).
		uint(chainID).
		address(proxy).
		uint(nonce).
		address(current).
		address(newImpl).
		word(thor.Keccak256(callData)).
		address(validator).
		hash()
}

// ResetDigest is the digest the account signs to move from current to newImpl without a call.
func ResetDigest(chainID *big.Int, proxy thor.Address, nonce *big.Int, current, newImpl thor.Address) thor.Bytes32 {
	return message(nil).
		word(ResetTypeHash).
		uint(chainID).
		address(proxy).
		uint(nonce).
		address(current).
		address(newImpl).
		hash()
}
