// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/eoaproxy/builtin"
	"github.com/vechain/eoaproxy/log"
	"github.com/vechain/eoaproxy/metrics"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

var (
	logger            = log.WithContext("pkg", "runtime")
	metricClauseCount = metrics.LazyLoadCounterVec("runtime_clause_count", []string{"result", "simulated"})
)

// Clause is one top-level call.
type Clause struct {
	To    thor.Address
	Value *big.Int
	Data  []byte
}

// Output is the outcome of a clause.
type Output struct {
	Data         []byte
	Events       []*vm.Log
	Reverted     bool
	RevertData   []byte
	RevertReason string
	VMErr        error
}

// Runtime executes clauses against the state. It is safe for concurrent use,
// clauses are executed one at a time.
type Runtime struct {
	lock     sync.Mutex
	state    *state.State
	programs *vm.Programs
	ctx      vm.Context
}

// New create a Runtime object.
func New(state *state.State, chainID uint64) *Runtime {
	return &Runtime{
		state:    state,
		programs: vm.NewPrograms(),
		ctx:      vm.Context{ChainID: chainID},
	}
}

// Context returns the execution context clauses run with.
func (rt *Runtime) Context() vm.Context {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	return rt.ctx
}

// SetBlock sets the block number and time clauses run with.
func (rt *Runtime) SetBlock(number uint32, time uint64) {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	rt.ctx.BlockNumber = number
	rt.ctx.Time = time
}

// View runs f with exclusive access to the state.
func (rt *Runtime) View(f func(st *state.State) error) error {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	return f(rt.state)
}

// Update runs f with exclusive access to a machine. Changes stay in the journal until Commit.
func (rt *Runtime) Update(f func(m *vm.Machine) error) error {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	return f(rt.machine(thor.Address{}))
}

func (rt *Runtime) machine(origin thor.Address) *vm.Machine {
	ctx := rt.ctx
	ctx.Origin = origin
	return vm.New(&ctx, rt.state, rt.programs)
}

// DeployBuiltins installs the builtin contracts at their default addresses.
func (rt *Runtime) DeployBuiltins() error {
	return rt.Update(builtin.DeployAll)
}

// Delegate sets the code of eoa to the delegation designator of target,
// as an EIP-7702 authorization would. A zero target clears the delegation.
func (rt *Runtime) Delegate(eoa, target thor.Address) error {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	var code []byte
	if !target.IsZero() {
		code = vm.NewDelegation(target)
	}
	logger.Debug("delegate", "eoa", eoa, "target", target)
	return rt.state.SetCode(eoa, code)
}

// ExecuteClause runs the clause from origin. A reverted clause leaves no trace but the output.
// Errors are returned only when the state fails.
func (rt *Runtime) ExecuteClause(origin thor.Address, clause *Clause) (*Output, error) {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	return rt.execute(origin, clause, false)
}

// Call runs the clause from origin and discards its effects.
func (rt *Runtime) Call(origin thor.Address, clause *Clause) (*Output, error) {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	rev := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(rev)
	return rt.execute(origin, clause, true)
}

func (rt *Runtime) execute(origin thor.Address, clause *Clause, simulated bool) (*Output, error) {
	labels := map[string]string{"simulated": strconv.FormatBool(simulated)}

	m := rt.machine(origin)
	data, err := m.Call(origin, clause.To, clause.Value, clause.Data)
	if err != nil {
		if vm.IsFatal(err) {
			labels["result"] = "fatal"
			metricClauseCount().AddWithLabel(1, labels)
			return nil, errors.Wrap(err, "execute clause")
		}
		out := &Output{Reverted: true, VMErr: err}
		if revertData, ok := vm.RevertData(err); ok {
			out.RevertData = revertData
			out.RevertReason = builtin.RevertReason(revertData)
		} else {
			out.RevertReason = err.Error()
		}
		labels["result"] = "reverted"
		metricClauseCount().AddWithLabel(1, labels)
		logger.Debug("clause reverted", "origin", origin, "to", clause.To, "reason", out.RevertReason)
		return out, nil
	}

	labels["result"] = "success"
	metricClauseCount().AddWithLabel(1, labels)
	logger.Trace("clause executed", "origin", origin, "to", clause.To, "events", len(m.Logs()))
	return &Output{Data: data, Events: m.Logs()}, nil
}

// Commit persists the executed clauses.
func (rt *Runtime) Commit() error {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	return errors.Wrap(rt.state.Commit(), "commit state")
}
