// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/eoaproxy/thor"
)

var testPrivHex = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"

func TestSignRecover(t *testing.T) {
	key, err := crypto.HexToECDSA(testPrivHex)
	require.NoError(t, err)
	addr := PubkeyToAddress(key.PublicKey)

	msg := thor.Keccak256([]byte("foo"))
	sig, err := Sign(msg, key)
	require.NoError(t, err)
	assert.Len(t, sig, 65)
	assert.True(t, sig[64] == 27 || sig[64] == 28)

	signer, err := Recover(msg, sig)
	require.NoError(t, err)
	assert.Equal(t, addr, signer)

	// v in {0, 1} is not accepted
	raw := append([]byte(nil), sig...)
	raw[64] -= 27
	_, err = Recover(msg, raw)
	assert.Equal(t, ErrInvalidSignature, err)

	// other message recovers another address
	signer, err = Recover(thor.Keccak256([]byte("bar")), sig)
	require.NoError(t, err)
	assert.NotEqual(t, addr, signer)
}

func TestRecoverCompact(t *testing.T) {
	key, _ := crypto.GenerateKey()
	addr := PubkeyToAddress(key.PublicKey)
	msg := thor.Keccak256([]byte("compact"))

	sig, err := Sign(msg, key)
	require.NoError(t, err)

	compact := make([]byte, 64)
	copy(compact, sig[:64])
	if sig[64] == 28 {
		compact[32] |= 0x80
	}
	signer, err := Recover(msg, compact)
	require.NoError(t, err)
	assert.Equal(t, addr, signer)
}

func TestNormalize(t *testing.T) {
	key, _ := crypto.GenerateKey()
	msg := thor.Keccak256([]byte("normalize"))

	// both parities, both encodings
	for parity := byte(27); parity <= 28; parity++ {
		var sig []byte
		for sig == nil || sig[64] != parity {
			msg = thor.Keccak256(msg[:])
			var err error
			sig, err = Sign(msg, key)
			require.NoError(t, err)
		}
		compact := append([]byte(nil), sig[:64]...)
		compact[32] |= (parity - 27) << 7

		full, err := Normalize(sig)
		require.NoError(t, err)
		assert.Equal(t, sig, full)

		fromCompact, err := Normalize(compact)
		require.NoError(t, err)
		assert.Equal(t, sig, fromCompact)
		assert.Equal(t, byte(0), fromCompact[32]&0x80)
	}

	_, err := Normalize(make([]byte, 66))
	assert.Equal(t, ErrInvalidSignatureLength, err)
}

func TestRecoverRejects(t *testing.T) {
	key, _ := crypto.GenerateKey()
	msg := thor.Keccak256([]byte("reject"))
	sig, err := Sign(msg, key)
	require.NoError(t, err)

	_, err = Recover(msg, sig[:63])
	assert.Equal(t, ErrInvalidSignatureLength, err)

	_, err = Recover(msg, nil)
	assert.Equal(t, ErrInvalidSignatureLength, err)

	badV := append([]byte(nil), sig...)
	badV[64] = 30
	_, err = Recover(msg, badV)
	assert.Equal(t, ErrInvalidSignature, err)

	// flip s into the upper half of the curve order
	highS := append([]byte(nil), sig...)
	s := new(big.Int).SetBytes(sig[32:64])
	s.Sub(secp256k1N, s)
	copy(highS[32:64], thor.BytesToBytes32(s.Bytes()).Bytes())
	_, err = Recover(msg, highS)
	assert.Equal(t, ErrInvalidSignatureS, err)

	zeroR := append([]byte(nil), sig...)
	copy(zeroR[:32], make([]byte, 32))
	_, err = Recover(msg, zeroR)
	assert.Equal(t, ErrInvalidSignature, err)
}

func TestPersonalHash(t *testing.T) {
	h := thor.Keccak256([]byte("digest"))
	expected := thor.Keccak256([]byte("\x19Ethereum Signed Message:\n32"), h[:])
	assert.Equal(t, expected, PersonalHash(h))
}

func TestRecoverer(t *testing.T) {
	key, _ := crypto.GenerateKey()
	addr := PubkeyToAddress(key.PublicKey)
	msg := thor.Keccak256([]byte("cached"))
	sig, _ := Sign(msg, key)

	r := NewRecoverer(16)
	for range 3 {
		signer, err := r.Recover(msg, sig)
		require.NoError(t, err)
		assert.Equal(t, addr, signer)
	}
	assert.Equal(t, 1, r.cache.Len())

	_, err := r.Recover(msg, sig[:10])
	assert.Error(t, err)
	assert.Equal(t, 1, r.cache.Len())
}
