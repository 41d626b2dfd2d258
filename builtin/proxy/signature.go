// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proxy

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/eoaproxy/builtin/native"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

// signature check paths
const (
	pathDelegate = "delegate"
	pathKey      = "key"
	pathInvalid  = "invalid"
)

// checkResult is the outcome of one validation step.
type checkResult int

const (
	checkFailed checkResult = iota
	checkValid
)

// isValidSignature answers ERC-1271 for the account.
// The logic the account runs is asked first, then the account key. It never reverts.
func (p *Proxy) isValidSignature(nenv *native.Env) []any {
	env := nenv.Env
	var args struct {
		Hash      common.Hash
		Signature []byte
	}
	nenv.ParseArgs(&args)

	if p.delegateCheck(env) == checkValid {
		countSignatureCheck(pathDelegate)
		return []any{thor.ERC1271MagicValue}
	}
	if keyCheck(thor.Bytes32(args.Hash), args.Signature, env.Self()) == checkValid {
		countSignatureCheck(pathKey)
		return []any{thor.ERC1271MagicValue}
	}
	countSignatureCheck(pathInvalid)
	return []any{thor.ERC1271FailValue}
}

// delegateCheck runs the original call on the implementation, or on the receiver before initialization.
// A failed call and an unexpected answer both fall back.
func (p *Proxy) delegateCheck(env *vm.Env) checkResult {
	target := p.implementation(env)
	if target.IsZero() {
		target = p.cfg.Receiver
	}
	if target.IsZero() {
		return checkFailed
	}
	ret, err := env.DelegateCall(target, env.Input())
	if err != nil {
		return checkFailed
	}
	if len(ret) == 32 && bytes.HasPrefix(ret, thor.ERC1271MagicValue[:]) {
		return checkValid
	}
	return checkFailed
}

// keyCheck recovers the signer of hash, which must be the account.
func keyCheck(hash thor.Bytes32, signature []byte, account thor.Address) checkResult {
	signer, err := recoverer.Recover(hash, signature)
	if err == nil && signer == account {
		return checkValid
	}
	return checkFailed
}
