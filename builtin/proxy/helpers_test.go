// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proxy_test

import (
	"bytes"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/eoaproxy/abi"
	"github.com/vechain/eoaproxy/builtin"
	"github.com/vechain/eoaproxy/builtin/erc1967"
	"github.com/vechain/eoaproxy/builtin/proxy"
	"github.com/vechain/eoaproxy/builtin/reverts"
	"github.com/vechain/eoaproxy/cry"
	"github.com/vechain/eoaproxy/lvldb"
	"github.com/vechain/eoaproxy/runtime"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

const chainID = 7702

var (
	echoSelector = thor.Selector("echo(bytes)")
	failSelector = thor.Selector("fail(bytes)")
)

// echoLogic answers echo with the raw bytes after the selector, and fail by reverting with them.
var echoLogic = vm.ProgramFunc(func(env *vm.Env) ([]byte, error) {
	in := env.Input()
	switch {
	case bytes.HasPrefix(in, echoSelector[:]):
		return in[4:], nil
	case bytes.HasPrefix(in, failSelector[:]):
		env.Revert(in[4:])
	}
	return nil, nil
})

// world is a runtime with the builtins deployed and one account delegated to the proxy.
type world struct {
	t       *testing.T
	rt      *runtime.Runtime
	key     *ecdsa.PrivateKey
	account thor.Address
	proxy   thor.Address
}

func newWorld(t *testing.T) *world {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(state.New(db, 1), chainID)
	require.NoError(t, rt.DeployBuiltins())

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	w := &world{
		t:       t,
		rt:      rt,
		key:     key,
		account: cry.PubkeyToAddress(key.PublicKey),
		proxy:   builtin.Proxy.Address,
	}
	require.NoError(t, rt.Delegate(w.account, w.proxy))
	return w
}

func newKey(t *testing.T) *ecdsa.PrivateKey {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}

func (w *world) deploy(addr thor.Address, name string, prog vm.Program) {
	require.NoError(w.t, w.rt.Update(func(m *vm.Machine) error {
		return m.Deploy(addr, name, prog)
	}))
}

func (w *world) exec(from thor.Address, data []byte) *runtime.Output {
	return w.execValue(from, nil, data)
}

func (w *world) execValue(from thor.Address, value *big.Int, data []byte) *runtime.Output {
	out, err := w.rt.ExecuteClause(from, &runtime.Clause{To: w.account, Value: value, Data: data})
	require.NoError(w.t, err)
	return out
}

// call simulates a call to the account, discarding its effects.
func (w *world) call(from thor.Address, data []byte) *runtime.Output {
	out, err := w.rt.Call(from, &runtime.Clause{To: w.account, Data: data})
	require.NoError(w.t, err)
	return out
}

func (w *world) nextNonce() *big.Int {
	var nonce *big.Int
	require.NoError(w.t, w.rt.View(func(st *state.State) (err error) {
		nonce, err = builtin.NonceTracker.WithState(st).GetNextNonce(w.account)
		return
	}))
	return nonce
}

func (w *world) implementation() thor.Address {
	var impl thor.Address
	require.NoError(w.t, w.rt.View(func(st *state.State) (err error) {
		impl, err = erc1967.Implementation(st, w.account)
		return
	}))
	return impl
}

func (w *world) owner() thor.Address {
	out := w.call(w.account, encode(w.t, builtin.Wallet.ABI, "owner"))
	require.False(w.t, out.Reverted, out.RevertReason)
	var owner common.Address
	require.NoError(w.t, method(w.t, builtin.Wallet.ABI, "owner").DecodeOutput(out.Data, &owner))
	return thor.Address(owner)
}

// initArgs are the wallet initializer arguments without selector.
func initArgs(t *testing.T, owner thor.Address) []byte {
	return encode(t, builtin.Wallet.ABI, "initialize", common.Address(owner))[4:]
}

func (w *world) initializeInput(key *ecdsa.PrivateKey, args []byte, chain int64) []byte {
	digest := proxy.InitDigest(big.NewInt(chain), w.proxy, args, w.nextNonce())
	sig, err := proxy.Sign(digest, key)
	require.NoError(w.t, err)
	return encode(w.t, proxy.ABI, "initialize", args, sig, big.NewInt(chain))
}

// initialize makes owner the owner of the wallet the account runs.
func (w *world) initialize(owner thor.Address) {
	out := w.exec(w.account, w.initializeInput(w.key, initArgs(w.t, owner), chainID))
	require.False(w.t, out.Reverted, out.RevertReason)
}

func (w *world) setInput(key *ecdsa.PrivateKey, newImpl thor.Address, callData []byte, validator thor.Address, crossChain bool) []byte {
	chain := big.NewInt(chainID)
	if crossChain {
		chain = new(big.Int)
	}
	digest := proxy.SetDigest(chain, w.proxy, w.nextNonce(), w.implementation(), newImpl, callData, validator)
	sig, err := proxy.Sign(digest, key)
	require.NoError(w.t, err)
	return encode(w.t, proxy.ABI, "setImplementation", common.Address(newImpl), callData, common.Address(validator), sig, crossChain)
}

func (w *world) resetInput(key *ecdsa.PrivateKey, newImpl thor.Address, chain int64) []byte {
	digest := proxy.ResetDigest(big.NewInt(chain), w.proxy, w.nextNonce(), w.implementation(), newImpl)
	sig, err := proxy.Sign(digest, key)
	require.NoError(w.t, err)
	return encode(w.t, proxy.ABI, "resetImplementation", common.Address(newImpl), sig, big.NewInt(chain))
}

func method(t *testing.T, a *abi.ABI, name string) *abi.Method {
	m, ok := a.MethodByName(name)
	require.True(t, ok, name)
	return m
}

func encode(t *testing.T, a *abi.ABI, name string, args ...any) []byte {
	data, err := method(t, a, name).EncodeInput(args...)
	require.NoError(t, err)
	return data
}

// assertProxyError asserts out reverted with the named proxy error.
func assertProxyError(t *testing.T, out *runtime.Output, name string) {
	t.Helper()
	e, ok := proxy.ABI.ErrorByName(name)
	require.True(t, ok, name)
	require.True(t, out.Reverted, "expected %s", name)
	assert.Equal(t, reverts.MustEncode(e), out.RevertData, "got %s", out.RevertReason)
}

// compact returns the EIP-2098 encoding of a 65-byte signature.
func compact(sig []byte) []byte {
	c := append([]byte(nil), sig[:64]...)
	c[32] |= (sig[64] - 27) << 7
	return c
}
