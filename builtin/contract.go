// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/eoaproxy/abi"
	"github.com/vechain/eoaproxy/builtin/gen"
	"github.com/vechain/eoaproxy/builtin/native"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

type contract struct {
	name    string
	Address thor.Address // default address
	ABI     *abi.ABI
}

func mustLoadContract(name string) *contract {
	return &contract{
		name,
		thor.BytesToAddress([]byte(name)),
		gen.MustABI(name),
	}
}

// Name returns the contract name.
func (c *contract) Name() string {
	return c.name
}

// deploy installs prog at addr, the default address if addr is zero.
func (c *contract) deploy(m *vm.Machine, addr thor.Address, prog vm.Program) (thor.Address, error) {
	if addr.IsZero() {
		addr = c.Address
	}
	return addr, m.Deploy(addr, c.name, prog)
}

// nativeContract is a contract whose program is stateless, shared by every deployment.
type nativeContract struct {
	*contract
	program *native.Contract
}

// Deploy installs the contract at addr, the default address if addr is zero.
func (c *nativeContract) Deploy(m *vm.Machine, addr thor.Address) (thor.Address, error) {
	return c.deploy(m, addr, c.program)
}

func (c *nativeContract) define(defines []native.Definition) {
	c.program = native.NewContract(c.ABI, defines)
}
