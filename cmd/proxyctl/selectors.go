// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/eoaproxy/builtin"
	"github.com/vechain/eoaproxy/builtin/proxy"
	"github.com/vechain/eoaproxy/thor"
)

var (
	managementMethods = []string{"initialize", "setImplementation", "resetImplementation", "isValidSignature"}
	proxyErrors       = []string{
		"InvalidSignature", "InvalidNonce", "InvalidChainId", "InvalidInitializer",
		"ProxyNotInitialized", "InvalidValidation", "ERC1967InvalidImplementation", "ERC1967NonPayable",
	}
)

func selectorsAction(ctx *cli.Context) error {
	w := ctx.App.Writer

	fmt.Fprintln(w, "methods:")
	for _, name := range managementMethods {
		m := proxy.ABI.MustMethodByName(name)
		id := m.ID()
		fmt.Fprintf(w, "  %s  %s\n", hexutil.Encode(id[:]), m.Sig())
	}
	guarded := builtin.Wallet.Initializer()
	fmt.Fprintf(w, "  %s  guarded initializer of %s\n", hexutil.Encode(guarded[:]), builtin.Wallet.Name())

	fmt.Fprintln(w, "errors:")
	for _, name := range proxyErrors {
		e, _ := proxy.ABI.ErrorByName(name)
		id := e.ID()
		fmt.Fprintf(w, "  %s  %s\n", hexutil.Encode(id[:]), e.Name())
	}

	fmt.Fprintln(w, "type hashes:")
	fmt.Fprintf(w, "  init   %v\n", proxy.InitTypeHash)
	fmt.Fprintf(w, "  set    %v\n", proxy.SetTypeHash)
	fmt.Fprintf(w, "  reset  %v\n", proxy.ResetTypeHash)

	fmt.Fprintln(w, "constants:")
	fmt.Fprintf(w, "  implementation slot  %v\n", thor.ImplementationSlot)
	fmt.Fprintf(w, "  erc1271 magic        %s\n", hexutil.Encode(thor.ERC1271MagicValue[:]))
	fmt.Fprintf(w, "  proxy                %v\n", builtin.Proxy.Address)
	return nil
}
