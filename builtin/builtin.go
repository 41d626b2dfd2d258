// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/pkg/errors"

	"github.com/vechain/eoaproxy/abi"
	"github.com/vechain/eoaproxy/builtin/erc1967"
	"github.com/vechain/eoaproxy/builtin/noncetracker"
	"github.com/vechain/eoaproxy/builtin/proxy"
	"github.com/vechain/eoaproxy/builtin/reverts"
	"github.com/vechain/eoaproxy/builtin/validator"
	"github.com/vechain/eoaproxy/builtin/wallet"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

// Builtin contracts binding.
var (
	NonceTracker = &nonceTrackerContract{nativeContract{contract: mustLoadContract("NonceTracker")}}
	Receiver     = &receiverContract{nativeContract{contract: mustLoadContract("DefaultReceiver")}}
	Validator    = &validatorContract{nativeContract{contract: mustLoadContract("WalletValidator")}}
	Wallet       = &walletContract{nativeContract{contract: mustLoadContract("Wallet")}}
	Proxy        = &proxyContract{mustLoadContract("EIP7702Proxy")}
)

type (
	nonceTrackerContract struct{ nativeContract }
	receiverContract     struct{ nativeContract }
	validatorContract    struct{ nativeContract }
	walletContract       struct{ nativeContract }
	proxyContract        struct{ *contract }
)

func (n *nonceTrackerContract) WithState(state *state.State) *noncetracker.NonceTracker {
	return noncetracker.New(n.Address, state)
}

func (v *validatorContract) WithState(state *state.State) *validator.Validator {
	return validator.New(v.Address, state)
}

// DeployFor installs a validator at addr accepting wallets that run supported.
func (v *validatorContract) DeployFor(m *vm.Machine, addr, supported thor.Address) (thor.Address, error) {
	addr, err := v.Deploy(m, addr)
	if err != nil {
		return addr, err
	}
	validator.New(addr, m.State()).SetSupportedImplementation(supported)
	return addr, nil
}

// WithState binds the wallet logic to the storage of account.
func (w *walletContract) WithState(account thor.Address, state *state.State) *wallet.Wallet {
	return wallet.New(account, state)
}

// Initializer returns the selector of the wallet's one-time initializer.
func (w *walletContract) Initializer() abi.MethodID {
	m, _ := w.ABI.MethodByName("initialize")
	return m.ID()
}

// DefaultConfig wires a proxy to the builtins at their default addresses.
func (p *proxyContract) DefaultConfig() proxy.Config {
	return proxy.Config{
		NonceTracker:          NonceTracker.Address,
		Receiver:              Receiver.Address,
		InitialImplementation: Wallet.Address,
		GuardedInitializer:    Wallet.Initializer(),
	}
}

// Deploy installs a proxy at addr, the default address if addr is zero.
func (p *proxyContract) Deploy(m *vm.Machine, addr thor.Address, cfg proxy.Config) (*proxy.Proxy, error) {
	if addr.IsZero() {
		addr = p.Address
	}
	prog, err := proxy.New(addr, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := p.deploy(m, addr, prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// DeployAll installs every builtin at its default address.
// The default validator accepts wallets running the builtin wallet.
func DeployAll(m *vm.Machine) error {
	for _, c := range []interface {
		Deploy(*vm.Machine, thor.Address) (thor.Address, error)
	}{NonceTracker, Receiver, Wallet} {
		if _, err := c.Deploy(m, thor.Address{}); err != nil {
			return errors.Wrap(err, "deploy builtin")
		}
	}
	if _, err := Validator.DeployFor(m, thor.Address{}, Wallet.Address); err != nil {
		return errors.Wrap(err, "deploy validator")
	}
	if _, err := Proxy.Deploy(m, thor.Address{}, Proxy.DefaultConfig()); err != nil {
		return errors.Wrap(err, "deploy proxy")
	}
	return nil
}

// ABIs lists the ABIs of all builtins.
func ABIs() []*abi.ABI {
	return []*abi.ABI{Proxy.ABI, erc1967.ABI, NonceTracker.ABI, Validator.ABI, Wallet.ABI, Receiver.ABI}
}

// RevertReason renders revert data, naming the errors of any builtin.
func RevertReason(data []byte) string {
	return reverts.Reason(data, ABIs()...)
}
