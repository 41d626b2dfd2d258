// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/eoaproxy/thor"
)

var (
	ErrInvalidSignature       = errors.New("invalid signature")
	ErrInvalidSignatureLength = errors.New("invalid signature length")
	ErrInvalidSignatureS      = errors.New("invalid signature 's' value")
)

var (
	secp256k1N     = secp256k1.S256().N
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

// Sign calculates an ECDSA signature of the 32-byte hash.
//
// The produced signature is in the [R || S || V] format where V is 27 or 28,
// as expected by contract-level recovery.
func Sign(hash thor.Bytes32, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

// Normalize returns the canonical [R || S || V] form of sig, V being 27 or 28.
//
// Accepted forms are the 65-byte [R || S || V] signature with V in {27, 28}
// and the 64-byte EIP-2098 compact signature. Both encodings of one signature
// normalize to the same bytes. High-s signatures are rejected.
func Normalize(sig []byte) ([]byte, error) {
	normalized := make([]byte, 65)
	switch len(sig) {
	case 65:
		if sig[64] != 27 && sig[64] != 28 {
			return nil, ErrInvalidSignature
		}
		copy(normalized, sig)
	case 64:
		// r || yParity<<255 | s
		copy(normalized, sig)
		normalized[64] = 27 + normalized[32]>>7
		normalized[32] &= 0x7f
	default:
		return nil, ErrInvalidSignatureLength
	}

	r := new(big.Int).SetBytes(normalized[:32])
	s := new(big.Int).SetBytes(normalized[32:64])
	if s.Cmp(secp256k1HalfN) > 0 {
		return nil, ErrInvalidSignatureS
	}
	if r.Sign() == 0 || r.Cmp(secp256k1N) >= 0 || s.Sign() == 0 {
		return nil, ErrInvalidSignature
	}
	return normalized, nil
}

// Recover extracts the signer of hash from a signature in any form Normalize accepts.
func Recover(hash thor.Bytes32, sig []byte) (thor.Address, error) {
	normalized, err := Normalize(sig)
	if err != nil {
		return thor.Address{}, err
	}
	normalized[64] -= 27

	pub, err := crypto.SigToPub(hash[:], normalized)
	if err != nil {
		return thor.Address{}, ErrInvalidSignature
	}
	signer := thor.Address(crypto.PubkeyToAddress(*pub))
	if signer.IsZero() {
		return thor.Address{}, ErrInvalidSignature
	}
	return signer, nil
}

// PubkeyToAddress returns the address of the public key.
func PubkeyToAddress(pub ecdsa.PublicKey) thor.Address {
	return thor.Address(crypto.PubkeyToAddress(pub))
}
