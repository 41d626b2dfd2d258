// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/eoaproxy/api/utils"
	"github.com/vechain/eoaproxy/api/utils/types"
	"github.com/vechain/eoaproxy/builtin"
	"github.com/vechain/eoaproxy/builtin/erc1967"
	"github.com/vechain/eoaproxy/builtin/noncetracker"
	"github.com/vechain/eoaproxy/runtime"
	"github.com/vechain/eoaproxy/state"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) getAccount(addr thor.Address) (*Account, error) {
	acc := &Account{}
	err := a.rt.View(func(st *state.State) error {
		balance, err := st.GetBalance(addr)
		if err != nil {
			return err
		}
		code, err := st.GetCode(addr)
		if err != nil {
			return err
		}
		impl, err := erc1967.Implementation(st, addr)
		if err != nil {
			return err
		}

		acc.Balance = math.HexOrDecimal256(*balance)
		acc.HasCode = len(code) != 0
		if target, ok := vm.ParseDelegation(code); ok {
			acc.DelegatedTo = &target
		}
		if !impl.IsZero() {
			acc.Implementation = &impl
		}
		return nil
	})
	return acc, err
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleGetStorage(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	key, err := thor.ParseBytes32(mux.Vars(req)["key"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "key"))
	}
	var value thor.Bytes32
	if err := a.rt.View(func(st *state.State) (err error) {
		value, err = st.GetStorage(addr, key)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, map[string]string{"value": value.String()})
}

func (a *Accounts) handleGetNonce(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	tracker := builtin.NonceTracker.Address
	if s := req.URL.Query().Get("tracker"); s != "" {
		if tracker, err = thor.ParseAddress(s); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "tracker"))
		}
	}
	var nonce *big.Int
	if err := a.rt.View(func(st *state.State) (err error) {
		nonce, err = noncetracker.New(tracker, st).GetNextNonce(addr)
		return
	}); err != nil {
		return err
	}
	n, overflow := uint256.FromBig(nonce)
	if overflow {
		return errors.New("nonce overflows uint256")
	}
	return utils.WriteJSON(w, &Nonce{Tracker: tracker, Nonce: n.Hex()})
}

func (a *Accounts) handleCallContract(w http.ResponseWriter, req *http.Request) error {
	callData := &CallData{}
	if err := utils.ParseJSON(req.Body, &callData); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if s := mux.Vars(req)["address"]; s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "address"))
		}
		callData.To = &addr
	}
	clause, err := callData.Convert()
	if err != nil {
		return utils.BadRequest(err)
	}
	var caller thor.Address
	if callData.Caller != nil {
		caller = *callData.Caller
	}
	out, err := a.rt.Call(caller, clause)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, types.ConvertOutput(out))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/*").
		Methods(http.MethodPost).
		Name("accounts_call").
		HandlerFunc(utils.WrapHandlerFunc(a.handleCallContract))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("accounts_get_account").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/storage/{key}").
		Methods(http.MethodGet).
		Name("accounts_get_storage").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStorage))
	sub.Path("/{address}/nonce").
		Methods(http.MethodGet).
		Name("accounts_get_nonce").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetNonce))
	sub.Path("/{address}").
		Methods(http.MethodPost).
		Name("accounts_call_contract").
		HandlerFunc(utils.WrapHandlerFunc(a.handleCallContract))
}
