// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/eoaproxy/abi"
)

type ErrRequire struct {
	message string
}

func NewRequireError(message string) *ErrRequire {
	return &ErrRequire{
		message: message,
	}
}

func (e *ErrRequire) Error() string {
	return e.message
}

func (e *ErrRequire) Bytes() []byte {
	if e == nil {
		return nil
	}

	// 4-byte selector for Error(string)
	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(e.message)
	msgLen := uint64(len(msgBytes))

	// selector + offset (32 bytes) + length (32 bytes) + data (padded to 32)
	encoded := make([]byte, 0, 4+32+32+((len(msgBytes)+31)/32)*32)
	encoded = append(encoded, selector...)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], msgLen)
	encoded = append(encoded, length...)

	data := make([]byte, ((len(msgBytes)+31)/32)*32)
	copy(data, msgBytes)
	encoded = append(encoded, data...)

	return encoded
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRequire
	if errors.As(e, &ve) {
		return ve != nil
	}
	return false
}

// MustEncode encodes a custom error into revert data.
// It panics if args do not match the error inputs.
func MustEncode(e *abi.Error, args ...any) []byte {
	data, err := e.Encode(args...)
	if err != nil {
		panic(fmt.Errorf("encode error %s: %w", e.Name(), err))
	}
	return data
}

// Reason renders revert data for humans.
// Error(string) and Panic(uint256) yield their message, known custom errors their name,
// anything else its hex form. Empty data yields an empty string.
func Reason(data []byte, abis ...*abi.ABI) string {
	if len(data) == 0 {
		return ""
	}
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason
	}
	for _, a := range abis {
		if e, ok := a.ErrorByData(data); ok {
			if len(data) == 4 {
				return e.Name() + "()"
			}
			return e.Name() + "(" + hexutil.Encode(data[4:]) + ")"
		}
	}
	return hexutil.Encode(data)
}
