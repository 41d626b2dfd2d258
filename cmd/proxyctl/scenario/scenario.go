// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package scenario describes a world of delegated accounts and the steps run against it.
package scenario

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Operations a step can run.
const (
	OpInitialize     = "initialize"
	OpSet            = "set"
	OpReset          = "reset"
	OpCall           = "call"
	OpCheckSignature = "check-signature"
)

// Scenario is the content of a scenario file.
type Scenario struct {
	ChainID  uint64    `yaml:"chainId"`
	Accounts []Account `yaml:"accounts"`
	Deploy   []Deploy  `yaml:"deploy"`
	Steps    []Step    `yaml:"steps"`
}

// Account is an externally owned account of the world.
type Account struct {
	Name string `yaml:"name"`
	// Key is the hex private key, generated when empty.
	Key     string `yaml:"key"`
	Balance string `yaml:"balance"`
	// Delegate names the code the account delegates to, the proxy when empty, none when "none".
	Delegate string `yaml:"delegate"`
}

// Deploy installs an extra builtin program.
type Deploy struct {
	Name string `yaml:"name"`
	// Kind is wallet or validator.
	Kind    string `yaml:"kind"`
	Address string `yaml:"address"`
	// Supports is the implementation a validator accepts.
	Supports string `yaml:"supports"`
}

// Step is one clause, built from the operation and its parameters.
type Step struct {
	Name    string `yaml:"name"`
	Op      string `yaml:"op"`
	Account string `yaml:"account"`
	// From is the origin of the clause, the account when empty.
	From string `yaml:"from"`
	// Signer signs the authorization, the account when empty.
	Signer string `yaml:"signer"`

	Owner          string  `yaml:"owner"`
	Implementation string  `yaml:"implementation"`
	Validator      string  `yaml:"validator"`
	CallData       string  `yaml:"callData"`
	ChainID        *uint64 `yaml:"chainId"`
	CrossChain     bool    `yaml:"crossChain"`

	To      string `yaml:"to"`
	Data    string `yaml:"data"`
	Value   string `yaml:"value"`
	Message string `yaml:"message"`
	// Replay resubmits the clause of the named earlier step.
	Replay string `yaml:"replay"`

	Expect *Expect `yaml:"expect"`
}

// Expect is checked against the outcome of a step.
type Expect struct {
	Reverted *bool  `yaml:"reverted"`
	Reason   string `yaml:"reason"`
	Valid    *bool  `yaml:"valid"`
}

// Parse decodes a scenario, rejecting unknown fields.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads the scenario file at path.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scenario")
	}
	defer f.Close()
	return Parse(f)
}

func (sc *Scenario) validate() error {
	if sc.ChainID == 0 {
		return errors.New("chainId: required")
	}
	names := make(map[string]bool)
	for _, acc := range sc.Accounts {
		if acc.Name == "" {
			return errors.New("account: name required")
		}
		if names[acc.Name] {
			return errors.Errorf("account %s: duplicated", acc.Name)
		}
		names[acc.Name] = true
	}
	for _, d := range sc.Deploy {
		if d.Name == "" || names[d.Name] {
			return errors.Errorf("deploy %q: name required and unique", d.Name)
		}
		names[d.Name] = true
		if d.Kind != "wallet" && d.Kind != "validator" {
			return errors.Errorf("deploy %s: unknown kind %q", d.Name, d.Kind)
		}
	}
	steps := make(map[string]bool)
	for i, s := range sc.Steps {
		switch s.Op {
		case OpInitialize, OpSet, OpReset, OpCall, OpCheckSignature:
		default:
			return errors.Errorf("step %d: unknown op %q", i, s.Op)
		}
		if s.Replay != "" && !steps[s.Replay] {
			return errors.Errorf("step %d: replays unknown step %q", i, s.Replay)
		}
		if s.Name != "" {
			steps[s.Name] = true
		}
	}
	return nil
}
