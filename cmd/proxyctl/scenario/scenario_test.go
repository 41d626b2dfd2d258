// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"math/big"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/eoaproxy/builtin"
	"github.com/vechain/eoaproxy/builtin/erc1967"
	"github.com/vechain/eoaproxy/lvldb"
	"github.com/vechain/eoaproxy/runtime"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
)

const lifecycle = `
chainId: 100
accounts:
  - name: alice
    balance: "1000"
  - name: bob
  - name: carol
    delegate: none
deploy:
  - name: wallet2
    kind: wallet
  - name: validator2
    kind: validator
    supports: wallet2
steps:
  - name: sig-before-init
    op: check-signature
    account: alice
    message: hello
    expect: {valid: true}
  - op: call
    account: alice
    data: "0x12345678"
    expect: {reverted: true, reason: ProxyNotInitialized()}
  - name: init
    op: initialize
    account: alice
    expect: {reverted: false}
  - op: initialize
    replay: init
    expect: {reverted: true, reason: InvalidNonce()}
  - op: call
    account: alice
    data: "0x8da5cb5b"
    expect: {reverted: false}
  - op: set
    account: alice
    implementation: wallet2
    expect: {reverted: true}
  - op: set
    account: alice
    implementation: wallet2
    validator: validator2
    expect: {reverted: false}
  - op: reset
    account: alice
    implementation: wallet
    chainId: 7
    expect: {reverted: true, reason: InvalidChainId()}
  - op: reset
    account: alice
    implementation: wallet
    expect: {reverted: false}
  - op: check-signature
    account: alice
    signer: bob
    message: hello
    expect: {valid: false}
`

func newRuntime(t *testing.T, chainID uint64) *runtime.Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return runtime.New(state.New(db, 1), chainID)
}

func TestRun(t *testing.T) {
	sc, err := Parse(strings.NewReader(lifecycle))
	require.NoError(t, err)

	w, err := Build(newRuntime(t, 100), sc)
	require.NoError(t, err)

	results, err := w.Run(sc.Steps)
	require.NoError(t, err)
	require.Len(t, results, len(sc.Steps))
	assert.Equal(t, "sig-before-init", results[0].Step)
	assert.Equal(t, "#1", results[1].Step)
	assert.Equal(t, "ProxyNotInitialized()", results[1].RevertReason)

	alice, err := w.Address("alice")
	require.NoError(t, err)
	carol, err := w.Address("carol")
	require.NoError(t, err)

	require.NoError(t, w.Runtime().View(func(st *state.State) error {
		nonce, err := builtin.NonceTracker.WithState(st).GetNextNonce(alice)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(3), nonce)

		impl, err := erc1967.Implementation(st, alice)
		require.NoError(t, err)
		assert.Equal(t, builtin.Wallet.Address, impl)

		balance, err := st.GetBalance(alice)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(1000), balance)

		code, err := st.GetCode(carol)
		require.NoError(t, err)
		assert.Empty(t, code)
		return nil
	}))
}

func TestRunUnmetExpectation(t *testing.T) {
	sc, err := Parse(strings.NewReader(`
chainId: 100
accounts:
  - name: alice
steps:
  - name: first
    op: initialize
    account: alice
  - name: again
    op: call
    account: alice
    data: "0x12345678"
    expect: {reverted: true}
`))
	require.NoError(t, err)

	w, err := Build(newRuntime(t, 100), sc)
	require.NoError(t, err)

	// the wallet has no such method, so the call reverts but with another reason than expected
	sc.Steps[1].Expect.Reason = "ProxyNotInitialized()"
	results, err := w.Run(sc.Steps)
	require.Error(t, err)
	assert.Equal(t, ErrUnexpected, errors.Cause(err))
	assert.Contains(t, err.Error(), "step again")
	assert.Len(t, results, 2)
}

func TestRunErrors(t *testing.T) {
	sc := &Scenario{ChainID: 100, Accounts: []Account{{Name: "alice"}}}
	w, err := Build(newRuntime(t, 100), sc)
	require.NoError(t, err)

	tests := []struct {
		name string
		step Step
		want string
	}{
		{"unknown account", Step{Op: OpInitialize, Account: "nobody"}, "unknown account"},
		{"no key", Step{Op: OpInitialize, Account: "alice", Signer: "proxy"}, "no key"},
		{"bad data", Step{Op: OpCall, Account: "alice", Data: "zz"}, "data"},
		{"bad value", Step{Op: OpCall, Account: "alice", Value: "-1"}, "invalid value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Run([]Step{tt.step})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildChainMismatch(t *testing.T) {
	_, err := Build(newRuntime(t, 1), &Scenario{ChainID: 100})
	assert.ErrorContains(t, err, "chain id mismatch")
}

func TestBuildKeepsExistingBalance(t *testing.T) {
	rt := newRuntime(t, 100)
	sc := &Scenario{ChainID: 100, Accounts: []Account{{
		Name:    "alice",
		Key:     "0xb71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291",
		Balance: "10",
	}}}
	w, err := Build(rt, sc)
	require.NoError(t, err)
	alice, _ := w.Address("alice")

	sc.Accounts[0].Balance = "20"
	_, err = Build(rt, sc)
	require.NoError(t, err)

	require.NoError(t, rt.View(func(st *state.State) error {
		balance, err := st.GetBalance(alice)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(10), balance)
		return nil
	}))
}

func TestAddress(t *testing.T) {
	w, err := Build(newRuntime(t, 100), &Scenario{ChainID: 100})
	require.NoError(t, err)

	addr, err := w.Address("proxy")
	require.NoError(t, err)
	assert.Equal(t, builtin.Proxy.Address, addr)

	hex := thor.BytesToAddress([]byte("x"))
	addr, err = w.Address(hex.String())
	require.NoError(t, err)
	assert.Equal(t, hex, addr)

	_, err = w.Address("ghost")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown field", "chainId: 1\nfoo: bar\n", "field foo not found"},
		{"no chain", "accounts: []\n", "chainId: required"},
		{"duplicated account", "chainId: 1\naccounts: [{name: a}, {name: a}]\n", "duplicated"},
		{"deploy shadows account", "chainId: 1\naccounts: [{name: a}]\ndeploy: [{name: a, kind: wallet}]\n", "unique"},
		{"bad kind", "chainId: 1\ndeploy: [{name: d, kind: token}]\n", "unknown kind"},
		{"bad op", "chainId: 1\nsteps: [{op: mint}]\n", "unknown op"},
		{"forward replay", "chainId: 1\nsteps: [{op: call, replay: later}, {name: later, op: call}]\n", "replays unknown step"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
