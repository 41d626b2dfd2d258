// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/vechain/eoaproxy/builtin"
	"github.com/vechain/eoaproxy/builtin/erc1967"
	"github.com/vechain/eoaproxy/builtin/proxy"
	"github.com/vechain/eoaproxy/cry"
	"github.com/vechain/eoaproxy/runtime"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
)

// ErrUnexpected is returned when a step's outcome does not match its expectation.
var ErrUnexpected = errors.New("unexpected outcome")

// Result is the outcome of a step.
type Result struct {
	Step         string `json:"step"`
	Op           string `json:"op"`
	Reverted     bool   `json:"reverted"`
	RevertReason string `json:"revertReason,omitempty"`
	Data         string `json:"data"`
	Events       int    `json:"events"`
	Valid        *bool  `json:"valid,omitempty"`
}

func (r *Result) String() string {
	s := fmt.Sprintf("%-24s %-16s", r.Step, r.Op)
	switch {
	case r.Reverted:
		s += " reverted: " + r.RevertReason
	case r.Valid != nil:
		s += fmt.Sprintf(" valid: %v", *r.Valid)
	default:
		s += fmt.Sprintf(" ok, %d events", r.Events)
	}
	return s
}

// Run runs the steps in order, stopping at the first failure or unmet expectation.
// The results of the steps run so far are returned either way.
func (w *World) Run(steps []Step) ([]*Result, error) {
	results := make([]*Result, 0, len(steps))
	for i, step := range steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		res, err := w.run(step)
		if err != nil {
			return results, errors.WithMessage(err, "step "+name)
		}
		res.Step = name
		results = append(results, res)
		logger.Debug("step done", "step", name, "op", step.Op, "reverted", res.Reverted)

		if err := check(step.Expect, res); err != nil {
			return results, errors.WithMessage(err, "step "+name)
		}
	}
	return results, nil
}

func (w *World) run(step Step) (*Result, error) {
	var (
		origin thor.Address
		clause *runtime.Clause
		err    error
	)
	if step.Replay != "" {
		clause, origin = w.clauses[step.Replay], w.origins[step.Replay]
	} else {
		if origin, err = w.Address(or(step.From, step.Account)); err != nil {
			return nil, errors.WithMessage(err, "from")
		}
		if clause, err = w.buildClause(step); err != nil {
			return nil, err
		}
	}
	if step.Name != "" {
		w.clauses[step.Name], w.origins[step.Name] = clause, origin
	}

	res := &Result{Op: step.Op}
	var out *runtime.Output
	if step.Op == OpCheckSignature {
		out, err = w.rt.Call(origin, clause)
	} else {
		out, err = w.rt.ExecuteClause(origin, clause)
	}
	if err != nil {
		return nil, err
	}
	res.Reverted = out.Reverted
	res.RevertReason = out.RevertReason
	res.Data = hexutil.Encode(out.Data)
	res.Events = len(out.Events)

	if step.Op == OpCheckSignature && !out.Reverted {
		var magic [4]byte
		if err := proxy.ABI.MustMethodByName("isValidSignature").DecodeOutput(out.Data, &magic); err != nil {
			return nil, errors.WithMessage(err, "decode isValidSignature")
		}
		valid := magic == thor.ERC1271MagicValue
		res.Valid = &valid
	}
	return res, nil
}

func (w *World) buildClause(step Step) (*runtime.Clause, error) {
	if step.Op == OpCall {
		return w.callClause(step)
	}
	account, err := w.Address(step.Account)
	if err != nil {
		return nil, errors.WithMessage(err, "account")
	}

	key, err := w.key(or(step.Signer, step.Account))
	if err != nil {
		return nil, errors.WithMessage(err, "signer")
	}
	chainID := new(big.Int).SetUint64(w.chainID)
	if step.ChainID != nil {
		chainID.SetUint64(*step.ChainID)
	}

	var data []byte
	switch step.Op {
	case OpInitialize:
		owner, err := w.Address(or(step.Owner, step.Account))
		if err != nil {
			return nil, errors.WithMessage(err, "owner")
		}
		input, err := builtin.Wallet.ABI.MustMethodByName("initialize").EncodeInput(common.Address(owner))
		if err != nil {
			return nil, err
		}
		args := input[4:]
		nonce, err := w.nextNonce(account)
		if err != nil {
			return nil, err
		}
		sig, err := proxy.Sign(proxy.InitDigest(chainID, builtin.Proxy.Address, args, nonce), key)
		if err != nil {
			return nil, err
		}
		data, err = proxy.ABI.MustMethodByName("initialize").EncodeInput(args, sig, chainID)
		if err != nil {
			return nil, err
		}

	case OpSet:
		impl, err := w.Address(step.Implementation)
		if err != nil {
			return nil, errors.WithMessage(err, "implementation")
		}
		validator, err := w.Address(or(step.Validator, "validator"))
		if err != nil {
			return nil, errors.WithMessage(err, "validator")
		}
		callData, err := ParseBytes(step.CallData)
		if err != nil {
			return nil, errors.WithMessage(err, "callData")
		}
		if step.CrossChain && step.ChainID == nil {
			chainID.SetUint64(0)
		}
		nonce, current, err := w.transition(account)
		if err != nil {
			return nil, err
		}
		digest := proxy.SetDigest(chainID, builtin.Proxy.Address, nonce, current, impl, callData, validator)
		sig, err := proxy.Sign(digest, key)
		if err != nil {
			return nil, err
		}
		data, err = proxy.ABI.MustMethodByName("setImplementation").EncodeInput(
			common.Address(impl), callData, common.Address(validator), sig, step.CrossChain)
		if err != nil {
			return nil, err
		}

	case OpReset:
		impl, err := w.Address(step.Implementation)
		if err != nil {
			return nil, errors.WithMessage(err, "implementation")
		}
		nonce, current, err := w.transition(account)
		if err != nil {
			return nil, err
		}
		sig, err := proxy.Sign(proxy.ResetDigest(chainID, builtin.Proxy.Address, nonce, current, impl), key)
		if err != nil {
			return nil, err
		}
		data, err = proxy.ABI.MustMethodByName("resetImplementation").EncodeInput(common.Address(impl), sig, chainID)
		if err != nil {
			return nil, err
		}

	case OpCheckSignature:
		hash := thor.Keccak256([]byte(step.Message))
		sig, err := cry.Sign(hash, key)
		if err != nil {
			return nil, err
		}
		data, err = proxy.ABI.MustMethodByName("isValidSignature").EncodeInput(common.Hash(hash), sig)
		if err != nil {
			return nil, err
		}
	}
	return &runtime.Clause{To: account, Value: new(big.Int), Data: data}, nil
}

func (w *World) callClause(step Step) (*runtime.Clause, error) {
	to, err := w.Address(or(step.To, step.Account))
	if err != nil {
		return nil, errors.WithMessage(err, "to")
	}
	data, err := ParseBytes(step.Data)
	if err != nil {
		return nil, errors.WithMessage(err, "data")
	}
	value, err := ParseValue(step.Value)
	if err != nil {
		return nil, err
	}
	return &runtime.Clause{To: to, Value: value, Data: data}, nil
}

func (w *World) nextNonce(account thor.Address) (nonce *big.Int, err error) {
	err = w.rt.View(func(st *state.State) (err error) {
		nonce, err = builtin.NonceTracker.WithState(st).GetNextNonce(account)
		return
	})
	return
}

// transition returns what a set or reset message is bound to: the next nonce and the current implementation.
func (w *World) transition(account thor.Address) (nonce *big.Int, current thor.Address, err error) {
	err = w.rt.View(func(st *state.State) (err error) {
		if nonce, err = builtin.NonceTracker.WithState(st).GetNextNonce(account); err != nil {
			return
		}
		current, err = erc1967.Implementation(st, account)
		return
	})
	return
}

func check(expect *Expect, res *Result) error {
	if expect == nil {
		return nil
	}
	if expect.Reverted != nil && *expect.Reverted != res.Reverted {
		return errors.Wrapf(ErrUnexpected, "reverted %v, want %v (%s)", res.Reverted, *expect.Reverted, res.RevertReason)
	}
	if expect.Reason != "" && expect.Reason != res.RevertReason {
		return errors.Wrapf(ErrUnexpected, "reason %q, want %q", res.RevertReason, expect.Reason)
	}
	if expect.Valid != nil && (res.Valid == nil || *res.Valid != *expect.Valid) {
		return errors.Wrapf(ErrUnexpected, "signature validity, want %v", *expect.Valid)
	}
	return nil
}

func or(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
