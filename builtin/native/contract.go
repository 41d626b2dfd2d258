// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package native dispatches ABI encoded calls to natively implemented methods.
package native

import (
	"fmt"

	"github.com/vechain/eoaproxy/abi"
	"github.com/vechain/eoaproxy/vm"
)

// Env is the environment of a native method invocation.
type Env struct {
	*vm.Env
	method *abi.Method
}

// ParseArgs decodes the arguments of the invoked method into val.
func (env *Env) ParseArgs(val any) {
	env.Env.ParseArgs(env.method, val)
}

// Method returns the invoked method.
func (env *Env) Method() *abi.Method {
	return env.method
}

// nativeMethod describes a native call.
type nativeMethod struct {
	abi *abi.Method
	run func(env *Env) []any
}

// Definition binds a method name of the ABI to its implementation.
type Definition struct {
	Name string
	Run  func(env *Env) []any
}

var _ vm.Program = (*Contract)(nil)

// Contract is a vm.Program that dispatches on the method selector.
type Contract struct {
	abi      *abi.ABI
	methods  map[abi.MethodID]*nativeMethod
	receive  bool
	fallback vm.ProgramFunc
}

// NewContract creates a contract from the ABI and the method definitions.
// It panics if a definition names a method missing in the ABI.
func NewContract(contractABI *abi.ABI, defines []Definition) *Contract {
	c := &Contract{
		abi:     contractABI,
		methods: make(map[abi.MethodID]*nativeMethod, len(defines)),
	}
	for _, def := range defines {
		method, found := contractABI.MethodByName(def.Name)
		if !found {
			panic(fmt.Sprintf("method %s not found", def.Name))
		}
		c.methods[method.ID()] = &nativeMethod{abi: method, run: def.Run}
	}
	return c
}

// WithReceive makes calls with empty input succeed, accepting value.
func (c *Contract) WithReceive() *Contract {
	c.receive = true
	return c
}

// WithFallback sets the handler of calls that match no method.
// It takes precedence over receive.
func (c *Contract) WithFallback(f vm.ProgramFunc) *Contract {
	c.fallback = f
	return c
}

// ABI returns the contract ABI.
func (c *Contract) ABI() *abi.ABI {
	return c.abi
}

// Run implements vm.Program.
func (c *Contract) Run(env *vm.Env) ([]byte, error) {
	input := env.Input()
	if len(input) >= 4 {
		var id abi.MethodID
		copy(id[:], input)
		if m, ok := c.methods[id]; ok {
			return c.call(env, m)
		}
	}
	if c.fallback != nil {
		return c.fallback(env)
	}
	if c.receive && len(input) == 0 {
		return nil, nil
	}
	env.Revert(nil)
	return nil, nil
}

func (c *Contract) call(env *vm.Env, m *nativeMethod) ([]byte, error) {
	if !m.abi.Payable() && env.Value().Sign() > 0 {
		env.Revert(nil)
	}
	if env.ReadOnly() && !m.abi.Const() {
		env.Stop(vm.ErrWriteProtection)
	}
	out := m.run(&Env{env, m.abi})
	return m.abi.EncodeOutput(out...)
}
