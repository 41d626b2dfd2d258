// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"sync"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/eoaproxy/thor"
)

// nativeCodePrefix marks code that is executed by a registered Program.
// 0xfe is the invalid opcode, so such code can never run as bytecode.
const nativeCodePrefix = 0xfe

// Program is contract logic implemented natively.
// Run returns the output data, or an error which reverts the frame.
type Program interface {
	Run(env *Env) ([]byte, error)
}

// ProgramFunc adapts a function to Program.
type ProgramFunc func(env *Env) ([]byte, error)

// Run implements Program.
func (f ProgramFunc) Run(env *Env) ([]byte, error) { return f(env) }

// NativeCode returns the code stored at addr for a program deployed under name.
func NativeCode(name string, addr thor.Address) []byte {
	data, _ := rlp.EncodeToBytes([]any{name, addr})
	return append([]byte{nativeCodePrefix}, data...)
}

// Programs is the registry of programs, keyed by the hash of their code.
// It outlives machines and is safe for concurrent use.
type Programs struct {
	lock sync.RWMutex
	m    map[thor.Bytes32]Program
}

// NewPrograms creates an empty registry.
func NewPrograms() *Programs {
	return &Programs{m: make(map[thor.Bytes32]Program)}
}

// Register binds code to the program.
func (p *Programs) Register(code []byte, prog Program) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.m[thor.Keccak256(code)] = prog
}

// Lookup returns the program bound to code.
func (p *Programs) Lookup(code []byte) (Program, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	prog, ok := p.m[thor.Keccak256(code)]
	return prog, ok
}
