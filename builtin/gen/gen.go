// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen holds the ABI definitions of the builtin contracts.
package gen

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/vechain/eoaproxy/abi"
)

//go:embed compiled/*.abi
var compiled embed.FS

// MustAsset returns the named asset, e.g. "compiled/Wallet.abi".
func MustAsset(name string) []byte {
	data, err := compiled.ReadFile(name)
	if err != nil {
		panic(fmt.Errorf("asset %s: %w", name, err))
	}
	return data
}

// MustABI parses the ABI of the named contract.
func MustABI(name string) *abi.ABI {
	a, err := abi.New(MustAsset("compiled/" + name + ".abi"))
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}
	return a
}

// Names lists the contracts whose ABI is embedded.
func Names() []string {
	entries, _ := compiled.ReadDir("compiled")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	return names
}
