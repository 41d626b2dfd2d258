// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/eoaproxy/abi"
	"github.com/vechain/eoaproxy/state"
)

// List of execution errors
var (
	ErrDepth               = errors.New("max call depth exceeded")
	ErrWriteProtection     = errors.New("write protection")
	ErrInsufficientBalance = errors.New("insufficient balance for transfer")
	ErrNoProgram           = errors.New("no program for code")
	ErrExecutionReverted   = errors.New("execution reverted")
)

// RevertError is returned when a frame reverts, it carries the revert data unchanged.
type RevertError struct {
	Data []byte
}

func (e *RevertError) Error() string {
	if reason, err := abi.UnpackRevert(e.Data); err == nil {
		return fmt.Sprintf("%v: %s", ErrExecutionReverted, reason)
	}
	if len(e.Data) > 0 {
		return fmt.Sprintf("%v: %s", ErrExecutionReverted, hexutil.Encode(e.Data))
	}
	return ErrExecutionReverted.Error()
}

// Unwrap makes errors.Is(err, ErrExecutionReverted) hold.
func (e *RevertError) Unwrap() error {
	return ErrExecutionReverted
}

// RevertData returns the revert data carried by err, and whether err is a revert.
func RevertData(err error) ([]byte, bool) {
	var re *RevertError
	if errors.As(err, &re) {
		return re.Data, true
	}
	return nil, false
}

// IsFatal reports whether err comes from the host rather than from execution.
// Fatal errors abort the whole call tree instead of being returned to the calling program.
func IsFatal(err error) bool {
	var se *state.Error
	return errors.As(err, &se)
}

// vmError carries an error out of a program by panic. It is recovered at the program boundary.
type vmError struct {
	cause error
}
