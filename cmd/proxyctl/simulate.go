// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/eoaproxy/cmd/proxyctl/scenario"
	"github.com/vechain/eoaproxy/runtime"
	"github.com/vechain/eoaproxy/state"
)

func simulateAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("a scenario file is required")
	}
	sc, err := scenario.Load(ctx.Args().First())
	if err != nil {
		return err
	}

	db, err := openDB(ctx.String(dataDirFlag.Name), ctx.Int(cacheFlag.Name))
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); db.Close() }()

	rt := runtime.New(state.New(db, ctx.Int(cacheFlag.Name)/2), sc.ChainID)
	world, err := scenario.Build(rt, sc)
	if err != nil {
		return err
	}

	results, runErr := world.Run(sc.Steps)
	for _, res := range results {
		fmt.Fprintln(ctx.App.Writer, res)
	}
	if runErr != nil {
		return runErr
	}

	if ctx.String(dataDirFlag.Name) != "" {
		if err := rt.Commit(); err != nil {
			return err
		}
		logger.Info("world persisted", "steps", len(results))
	}
	return nil
}
