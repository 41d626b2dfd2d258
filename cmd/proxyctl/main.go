// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/eoaproxy/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "proxyctl")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "proxyctl"
	app.Usage = "Toolbox for EIP-7702 delegated accounts behind the EOA proxy"
	app.Copyright = "2025 VeChain Foundation <https://vechain.org/>"
	app.Flags = []cli.Flag{verbosityFlag, jsonLogsFlag, logFormatFlag}
	app.Before = initLogger
	app.Commands = []cli.Command{
		{
			Name:   "selectors",
			Usage:  "print the proxy selectors, type hashes and constants",
			Action: selectorsAction,
		},
		{
			Name:  "sign",
			Usage: "sign a management operation and print the call data",
			Subcommands: []cli.Command{
				{
					Name:   "init",
					Usage:  "sign an initialization of the proxy",
					Flags:  append(signFlags, ownerFlag, argsFlag),
					Action: signInitAction,
				},
				{
					Name:   "set",
					Usage:  "sign an implementation change validated by a wallet validator",
					Flags:  append(signFlags, currentFlag, implementationFlag, callDataFlag, validatorFlag, crossChainFlag),
					Action: signSetAction,
				},
				{
					Name:   "reset",
					Usage:  "sign a recovery reset of the implementation",
					Flags:  append(signFlags, currentFlag, implementationFlag),
					Action: signResetAction,
				},
			},
		},
		{
			Name:      "simulate",
			Usage:     "run a scenario file against a fresh or persisted world",
			ArgsUsage: "<scenario.yaml>",
			Flags:     []cli.Flag{dataDirFlag, cacheFlag},
			Action:    simulateAction,
		},
		{
			Name:  "serve",
			Usage: "serve the HTTP API over a world",
			Flags: []cli.Flag{
				dataDirFlag,
				cacheFlag,
				chainIDFlag,
				scenarioFlag,
				apiAddrFlag,
				apiCorsFlag,
				enableAPILogsFlag,
				enableMetricsFlag,
			},
			Action: serveAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
