// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/eoaproxy/api"
	"github.com/vechain/eoaproxy/cmd/proxyctl/scenario"
	"github.com/vechain/eoaproxy/metrics"
	"github.com/vechain/eoaproxy/runtime"
	"github.com/vechain/eoaproxy/state"
)

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	db, err := openDB(ctx.String(dataDirFlag.Name), ctx.Int(cacheFlag.Name))
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); db.Close() }()

	rt, err := newServeRuntime(ctx, state.New(db, ctx.Int(cacheFlag.Name)/2))
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", ctx.String(apiAddrFlag.Name))
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", ctx.String(apiAddrFlag.Name))
	}
	srv := &http.Server{
		Handler: api.New(rt, api.Options{
			AllowedOrigins:  ctx.String(apiCorsFlag.Name),
			EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
			EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		}),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}

	exitCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(exitCtx, srv, listener)
}

// newServeRuntime deploys the builtins, and the world of --scenario when given, committing them.
func newServeRuntime(ctx *cli.Context, st *state.State) (*runtime.Runtime, error) {
	chainID := ctx.Uint64(chainIDFlag.Name)

	var sc *scenario.Scenario
	if path := ctx.String(scenarioFlag.Name); path != "" {
		var err error
		if sc, err = scenario.Load(path); err != nil {
			return nil, err
		}
		chainID = sc.ChainID
	}

	rt := runtime.New(st, chainID)
	if sc != nil {
		// only the accounts and deployments, steps are left to API clients
		if _, err := scenario.Build(rt, sc); err != nil {
			return nil, err
		}
	} else if err := rt.DeployBuiltins(); err != nil {
		return nil, err
	}
	if err := rt.Commit(); err != nil {
		return nil, err
	}
	return rt, nil
}

// serve runs srv on listener until ctx is done, then shuts it down.
func serve(ctx context.Context, srv *http.Server, listener net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API server started", "addr", "http://"+listener.Addr().String()+"/")
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve API")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
