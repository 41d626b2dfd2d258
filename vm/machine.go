// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"math/big"

	"github.com/vechain/eoaproxy/log"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
)

var logger = log.WithContext("pkg", "vm")

// frame is one level of the call stack.
type frame struct {
	self     thor.Address // whose storage and balance are used
	caller   thor.Address
	codeAddr thor.Address // whose code runs
	value    *big.Int
	input    []byte
	readOnly bool
}

// Machine executes programs against the state.
// It is not safe for concurrent use.
type Machine struct {
	ctx      *Context
	state    *state.State
	programs *Programs
	logs     []*Log
	depth    int
}

// New creates a machine.
func New(ctx *Context, state *state.State, programs *Programs) *Machine {
	return &Machine{
		ctx:      ctx,
		state:    state,
		programs: programs,
	}
}

// Context returns the execution context.
func (m *Machine) Context() *Context { return m.ctx }

// State returns the state the machine runs against.
func (m *Machine) State() *state.State { return m.state }

// Logs returns the logs emitted by frames that did not revert.
func (m *Machine) Logs() []*Log { return m.logs }

// Deploy installs the program at addr.
func (m *Machine) Deploy(addr thor.Address, name string, prog Program) error {
	code := NativeCode(name, addr)
	m.programs.Register(code, prog)
	return m.state.SetCode(addr, code)
}

// Call runs the code at to, transferring value from caller.
func (m *Machine) Call(caller, to thor.Address, value *big.Int, input []byte) ([]byte, error) {
	return m.run(&frame{
		self:     to,
		caller:   caller,
		codeAddr: to,
		value:    value,
		input:    input,
	}, true)
}

// StaticCall runs the code at to, any state modification fails with ErrWriteProtection.
func (m *Machine) StaticCall(caller, to thor.Address, input []byte) ([]byte, error) {
	return m.run(&frame{
		self:     to,
		caller:   caller,
		codeAddr: to,
		input:    input,
		readOnly: true,
	}, false)
}

func (m *Machine) run(f *frame, transfer bool) ([]byte, error) {
	if m.depth >= thor.MaxCallDepth {
		return nil, ErrDepth
	}
	if f.value == nil {
		f.value = new(big.Int)
	}

	rev := m.state.NewCheckpoint()
	nlogs := len(m.logs)

	ret, err := m.execute(f, transfer)
	if err != nil {
		m.state.RevertTo(rev)
		m.logs = m.logs[:nlogs]
		logger.Trace("frame reverted", "depth", m.depth, "to", f.codeAddr, "err", err)
	}
	return ret, err
}

func (m *Machine) execute(f *frame, transfer bool) ([]byte, error) {
	if transfer && f.value.Sign() > 0 {
		if f.readOnly {
			return nil, ErrWriteProtection
		}
		if err := m.transfer(f.caller, f.self, f.value); err != nil {
			return nil, err
		}
	}

	prog, err := m.resolve(f.codeAddr)
	if err != nil || prog == nil {
		return nil, err
	}

	m.depth++
	defer func() { m.depth-- }()

	return m.exec(prog, &Env{m, f})
}

// exec runs the program and recovers the errors it stops with.
func (m *Machine) exec(prog Program, env *Env) (ret []byte, err error) {
	defer func() {
		if e := recover(); e != nil {
			ve, ok := e.(*vmError)
			if !ok {
				panic(e)
			}
			ret, err = nil, ve.cause
		}
	}()
	return prog.Run(env)
}

// resolve returns the program to run for the code at addr.
// A nil program means there is no code, and the call succeeds with no output.
func (m *Machine) resolve(addr thor.Address) (Program, error) {
	code, err := m.state.GetCode(addr)
	if err != nil {
		return nil, err
	}
	if target, ok := ParseDelegation(code); ok {
		if code, err = m.state.GetCode(target); err != nil {
			return nil, err
		}
		// designators are followed one level only
		if _, ok := ParseDelegation(code); ok {
			return nil, nil
		}
	}
	if len(code) == 0 {
		return nil, nil
	}
	prog, ok := m.programs.Lookup(code)
	if !ok {
		return nil, ErrNoProgram
	}
	return prog, nil
}

func (m *Machine) transfer(from, to thor.Address, value *big.Int) error {
	fromBalance, err := m.state.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(value) < 0 {
		return ErrInsufficientBalance
	}
	if err := m.state.SetBalance(from, new(big.Int).Sub(fromBalance, value)); err != nil {
		return err
	}
	toBalance, err := m.state.GetBalance(to)
	if err != nil {
		return err
	}
	return m.state.SetBalance(to, new(big.Int).Add(toBalance, value))
}
