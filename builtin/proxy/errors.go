// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package proxy

import (
	"errors"

	"github.com/vechain/eoaproxy/abi"
	"github.com/vechain/eoaproxy/builtin/gen"
)

// ErrZeroValueConstructorArguments is returned by New when a collaborator is left unset.
var ErrZeroValueConstructorArguments = errors.New("proxy: zero value constructor arguments")

var (
	// ABI of the proxy, errors included.
	ABI = gen.MustABI("EIP7702Proxy")

	errInvalidSignature    = mustError("InvalidSignature")
	errInvalidNonce        = mustError("InvalidNonce")
	errInvalidChainID      = mustError("InvalidChainId")
	errInvalidInitializer  = mustError("InvalidInitializer")
	errProxyNotInitialized = mustError("ProxyNotInitialized")
	errInvalidValidation   = mustError("InvalidValidation")
)

func mustError(name string) *abi.Error {
	e, ok := ABI.ErrorByName(name)
	if !ok {
		panic("error not found: " + name)
	}
	return e
}
