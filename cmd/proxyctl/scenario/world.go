// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/eoaproxy/builtin"
	"github.com/vechain/eoaproxy/cry"
	"github.com/vechain/eoaproxy/log"
	"github.com/vechain/eoaproxy/runtime"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

var logger = log.WithContext("pkg", "scenario")

// builtin names usable wherever an address is expected
var builtinAddresses = map[string]thor.Address{
	"proxy":        builtin.Proxy.Address,
	"wallet":       builtin.Wallet.Address,
	"validator":    builtin.Validator.Address,
	"nonceTracker": builtin.NonceTracker.Address,
	"receiver":     builtin.Receiver.Address,
}

// World is a runtime populated from a scenario.
type World struct {
	rt      *runtime.Runtime
	chainID uint64
	keys    map[string]*ecdsa.PrivateKey
	addrs   map[string]thor.Address
	clauses map[string]*runtime.Clause
	origins map[string]thor.Address
}

// Build deploys the builtins and the scenario's programs, and sets up its accounts.
// Balances are only given to accounts that do not exist yet, so a persisted world can be built again.
func Build(rt *runtime.Runtime, sc *Scenario) (*World, error) {
	if rt.Context().ChainID != sc.ChainID {
		return nil, errors.Errorf("chain id mismatch: runtime %d, scenario %d", rt.Context().ChainID, sc.ChainID)
	}
	w := &World{
		rt:      rt,
		chainID: sc.ChainID,
		keys:    make(map[string]*ecdsa.PrivateKey),
		addrs:   make(map[string]thor.Address),
		clauses: make(map[string]*runtime.Clause),
		origins: make(map[string]thor.Address),
	}
	if err := rt.DeployBuiltins(); err != nil {
		return nil, err
	}
	for _, d := range sc.Deploy {
		if err := w.deploy(d); err != nil {
			return nil, errors.WithMessage(err, "deploy "+d.Name)
		}
	}
	for _, acc := range sc.Accounts {
		if err := w.addAccount(acc); err != nil {
			return nil, errors.WithMessage(err, "account "+acc.Name)
		}
	}
	return w, nil
}

// Runtime returns the runtime of the world.
func (w *World) Runtime() *runtime.Runtime {
	return w.rt
}

// Address resolves an account name, a deployment name, a builtin name or a hex address.
func (w *World) Address(name string) (thor.Address, error) {
	if addr, ok := w.addrs[name]; ok {
		return addr, nil
	}
	if addr, ok := builtinAddresses[name]; ok {
		return addr, nil
	}
	addr, err := thor.ParseAddress(name)
	if err != nil {
		return thor.Address{}, errors.Errorf("unknown account %q", name)
	}
	return addr, nil
}

func (w *World) key(name string) (*ecdsa.PrivateKey, error) {
	if key, ok := w.keys[name]; ok {
		return key, nil
	}
	return nil, errors.Errorf("no key for %q", name)
}

func (w *World) deploy(d Deploy) error {
	addr := thor.BytesToAddress([]byte(d.Name))
	if d.Address != "" {
		var err error
		if addr, err = thor.ParseAddress(d.Address); err != nil {
			return err
		}
	}
	var supported thor.Address
	if d.Kind == "validator" {
		var err error
		if supported, err = w.Address(d.Supports); err != nil {
			return errors.WithMessage(err, "supports")
		}
	}
	if err := w.rt.Update(func(m *vm.Machine) (err error) {
		switch d.Kind {
		case "wallet":
			_, err = builtin.Wallet.Deploy(m, addr)
		case "validator":
			_, err = builtin.Validator.DeployFor(m, addr, supported)
		}
		return
	}); err != nil {
		return err
	}
	w.addrs[d.Name] = addr
	logger.Debug("deployed", "name", d.Name, "kind", d.Kind, "address", addr)
	return nil
}

func (w *World) addAccount(acc Account) error {
	var (
		key *ecdsa.PrivateKey
		err error
	)
	if acc.Key != "" {
		key, err = crypto.HexToECDSA(strings.TrimPrefix(acc.Key, "0x"))
	} else {
		key, err = crypto.GenerateKey()
	}
	if err != nil {
		return errors.WithMessage(err, "key")
	}
	addr := cry.PubkeyToAddress(key.PublicKey)
	w.keys[acc.Name] = key
	w.addrs[acc.Name] = addr

	if acc.Balance != "" {
		balance, ok := math.ParseBig256(acc.Balance)
		if !ok || balance.Sign() < 0 {
			return errors.Errorf("invalid balance %q", acc.Balance)
		}
		if err := w.rt.View(func(st *state.State) error {
			exists, err := st.Exists(addr)
			if err != nil || exists {
				return err
			}
			return st.SetBalance(addr, balance)
		}); err != nil {
			return err
		}
	}

	var target thor.Address
	switch acc.Delegate {
	case "":
		target = builtin.Proxy.Address
	case "none":
	default:
		if target, err = w.Address(acc.Delegate); err != nil {
			return errors.WithMessage(err, "delegate")
		}
	}
	if err := w.rt.Delegate(addr, target); err != nil {
		return err
	}
	logger.Debug("account ready", "name", acc.Name, "address", addr, "delegate", target)
	return nil
}

