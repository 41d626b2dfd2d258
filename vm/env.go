// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/eoaproxy/abi"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
)

// Env is the environment a program runs in.
// Methods that stop execution do so by panic, which is recovered when the program returns.
type Env struct {
	machine *Machine
	frame   *frame
}

func (env *Env) Self() thor.Address        { return env.frame.self }
func (env *Env) Caller() thor.Address      { return env.frame.caller }
func (env *Env) CodeAddress() thor.Address { return env.frame.codeAddr }
func (env *Env) Value() *big.Int           { return env.frame.value }
func (env *Env) Input() []byte             { return env.frame.input }
func (env *Env) ReadOnly() bool            { return env.frame.readOnly }
func (env *Env) Context() *Context         { return env.machine.ctx }
func (env *Env) State() *state.State       { return env.machine.state }

// ChainID returns the chain id as uint256.
func (env *Env) ChainID() *big.Int {
	return new(big.Int).SetUint64(env.machine.ctx.ChainID)
}

// ParseArgs decodes the input for method into val. Malformed input reverts with no data.
func (env *Env) ParseArgs(method *abi.Method, val any) {
	if err := method.DecodeInput(env.frame.input, val); err != nil {
		logger.Trace("malformed input", "method", method.Name(), "err", err)
		env.Revert(nil)
	}
}

// Must stops execution with err if it is not nil.
func (env *Env) Must(err error) {
	if err != nil {
		panic(&vmError{err})
	}
}

// Require reverts with data unless cond holds.
func (env *Env) Require(cond bool, data []byte) {
	if !cond {
		env.Revert(data)
	}
}

// Revert stops execution and reverts the frame with data.
func (env *Env) Revert(data []byte) {
	panic(&vmError{&RevertError{data}})
}

// Stop stops execution with the given error.
func (env *Env) Stop(err error) {
	panic(&vmError{err})
}

// RequireWritable stops with ErrWriteProtection in a read-only frame.
func (env *Env) RequireWritable() {
	if env.frame.readOnly {
		env.Stop(ErrWriteProtection)
	}
}

// HasCode returns whether addr has code.
func (env *Env) HasCode(addr thor.Address) bool {
	code, err := env.machine.state.GetCode(addr)
	env.Must(err)
	return len(code) > 0
}

// Log emits the event from Self. The event id is prepended to topics.
func (env *Env) Log(event *abi.Event, topics []thor.Bytes32, args ...any) {
	env.RequireWritable()

	data, err := event.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}
	all := make([]thor.Bytes32, 0, len(topics)+1)
	all = append(all, event.ID())
	all = append(all, topics...)

	env.machine.logs = append(env.machine.logs, &Log{
		Address: env.frame.self,
		Topics:  all,
		Data:    data,
	})
}

// Call calls to from Self, transferring value.
func (env *Env) Call(to thor.Address, value *big.Int, input []byte) ([]byte, error) {
	return env.nested(env.machine.run(&frame{
		self:     to,
		caller:   env.frame.self,
		codeAddr: to,
		value:    value,
		input:    input,
		readOnly: env.frame.readOnly,
	}, true))
}

// StaticCall calls to from Self in read-only mode.
func (env *Env) StaticCall(to thor.Address, input []byte) ([]byte, error) {
	return env.nested(env.machine.run(&frame{
		self:     to,
		caller:   env.frame.self,
		codeAddr: to,
		input:    input,
		readOnly: true,
	}, false))
}

// DelegateCall runs the code at to in the context of the current frame.
// Self, Caller, Value and the read-only flag are kept.
func (env *Env) DelegateCall(to thor.Address, input []byte) ([]byte, error) {
	return env.nested(env.machine.run(&frame{
		self:     env.frame.self,
		caller:   env.frame.caller,
		codeAddr: to,
		value:    env.frame.value,
		input:    input,
		readOnly: env.frame.readOnly,
	}, false))
}

// nested passes execution failures back to the program, and aborts on fatal ones.
func (env *Env) nested(ret []byte, err error) ([]byte, error) {
	if err != nil && IsFatal(err) {
		panic(&vmError{err})
	}
	return ret, err
}
