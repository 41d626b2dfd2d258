// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/eoaproxy/api/utils"
	"github.com/vechain/eoaproxy/api/utils/types"
	"github.com/vechain/eoaproxy/log"
	"github.com/vechain/eoaproxy/runtime"
)

var logger = log.WithContext("pkg", "transactions")

type Transactions struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Transactions {
	return &Transactions{rt}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var trx *Transaction
	if err := utils.ParseJSON(req.Body, &trx); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if trx == nil {
		return utils.BadRequest(errors.New("body: empty"))
	}
	clause, err := trx.Convert()
	if err != nil {
		return utils.BadRequest(err)
	}

	out, err := t.rt.ExecuteClause(trx.Origin, clause)
	if err != nil {
		return err
	}
	if err := t.rt.Commit(); err != nil {
		return err
	}

	result := "ok"
	if out.Reverted {
		result = "reverted"
	}
	metricTransactionResult().AddWithLabel(1, map[string]string{"result": result})
	logger.Debug("transaction executed", "origin", trx.Origin, "to", clause.To, "reverted", out.Reverted)

	return utils.WriteJSON(w, types.ConvertOutput(out))
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("transactions_send").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
}
