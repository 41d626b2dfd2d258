// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// Error is a custom solidity error, see abi.Error in go-ethereum.
type Error struct {
	id  MethodID
	err *ethabi.Error
}

func newError(err *ethabi.Error) *Error {
	var id MethodID
	copy(id[:], err.ID[:4])
	return &Error{id, err}
}

// ID returns the 4-byte selector of the error.
func (e *Error) ID() MethodID {
	return e.id
}

// Name returns error name.
func (e *Error) Name() string {
	return e.err.Name
}

// Encode encodes args into revert data, prefixed with the error selector.
func (e *Error) Encode(args ...any) ([]byte, error) {
	data, err := e.err.Inputs.Pack(args...)
	if err != nil {
		return nil, err
	}
	return append(e.id[:], data...), nil
}

// Decode decodes revert data into v.
func (e *Error) Decode(data []byte, v any) error {
	if !bytes.HasPrefix(data, e.id[:]) {
		return errors.New("data has incorrect prefix")
	}
	return unpackInto(e.err.Inputs, v, data[4:])
}

// UnpackRevert resolves the abi-encoded revert reason, for Error(string) and Panic(uint256).
func UnpackRevert(data []byte) (string, error) {
	return ethabi.UnpackRevert(data)
}
