// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proxy

import (
	"crypto/ecdsa"
	"errors"

	"github.com/vechain/eoaproxy/builtin/solidity"
	"github.com/vechain/eoaproxy/cry"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

var (
	errSignerMismatch = errors.New("signer mismatch")

	recoverer = cry.NewRecoverer(4096)

	// mapping(bytes32 => bool) of authorizations already accepted by the account
	consumedSlot = thor.Keccak256([]byte("eoaproxy.proxy.consumed"))
)

// Sign signs digest as an EIP-191 personal message.
func Sign(digest thor.Bytes32, key *ecdsa.PrivateKey) ([]byte, error) {
	return cry.Sign(cry.PersonalHash(digest), key)
}

// verifySigner checks that signature signs the personal message of digest, by expected.
func verifySigner(digest thor.Bytes32, signature []byte, expected thor.Address) error {
	signer, err := recoverer.Recover(cry.PersonalHash(digest), signature)
	if err != nil {
		return err
	}
	if signer != expected {
		return errSignerMismatch
	}
	return nil
}

// consumed flags signatures the account already accepted, in the account's storage.
// A flagged signature is rejected as a stale nonce before it is verified.
// The flag is keyed on the normalized r and s, so the 65-byte and compact
// encodings of one signature share it. Replay protection itself comes from
// the nonce bound into every digest.
func consumed(env *vm.Env, signature []byte) *solidity.Bool {
	id := signature
	if normalized, err := cry.Normalize(signature); err == nil {
		id = normalized[:64]
	}
	pos := solidity.MappingSlot(thor.Keccak256(id).Bytes(), consumedSlot)
	return solidity.NewBool(solidity.NewContext(env.Self(), env.State()), pos)
}
