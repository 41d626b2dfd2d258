// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Constants of the execution environment.
const (
	MaxCallDepth = 1024 // nested call frames allowed before ErrDepth
)

var (
	// ImplementationSlot is the ERC-1967 implementation slot,
	// bytes32(uint256(keccak256("eip1967.proxy.implementation")) - 1).
	ImplementationSlot = MustParseBytes32("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")

	// ERC1271MagicValue is returned by isValidSignature for a valid signature.
	ERC1271MagicValue = [4]byte{0x16, 0x26, 0xba, 0x7e}
	// ERC1271FailValue is returned by isValidSignature for an invalid signature.
	ERC1271FailValue = [4]byte{0xff, 0xff, 0xff, 0xff}

	// DelegationPrefix prefixes the code of an account delegated by EIP-7702.
	DelegationPrefix = []byte{0xef, 0x01, 0x00}
)
