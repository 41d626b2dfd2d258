// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format, same as --log-format json",
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Value: "terminal",
		Usage: "log output format (terminal|json|logfmt)",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory of the state database, in memory when empty",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 64,
		Usage: "megabytes of RAM allocated to the state and database caches",
	}
	chainIDFlag = cli.Uint64Flag{
		Name:  "chain-id",
		Value: 1,
		Usage: "chain id clauses run with",
	}
	scenarioFlag = cli.StringFlag{
		Name:  "scenario",
		Usage: "scenario file to build the world from before serving",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection, served at /metrics",
	}

	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "hex private key of the account",
	}
	keystoreFlag = cli.StringFlag{
		Name:  "keystore",
		Usage: "keystore file of the account, the password is prompted",
	}
	nonceFlag = cli.StringFlag{
		Name:  "nonce",
		Value: "0",
		Usage: "next nonce of the account in the nonce tracker",
	}
	proxyFlag = cli.StringFlag{
		Name:  "proxy",
		Usage: "address of the proxy program, the builtin when empty",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "owner the wallet is initialized with, the signer when empty",
	}
	argsFlag = cli.StringFlag{
		Name:  "args",
		Usage: "hex encoded initializer arguments, overrides --owner",
	}
	currentFlag = cli.StringFlag{
		Name:  "current",
		Usage: "current implementation of the account, the builtin wallet when empty",
	}
	implementationFlag = cli.StringFlag{
		Name:  "implementation",
		Usage: "new implementation",
	}
	callDataFlag = cli.StringFlag{
		Name:  "call-data",
		Usage: "hex call data run on the new implementation",
	}
	validatorFlag = cli.StringFlag{
		Name:  "validator",
		Usage: "wallet validator, the builtin when empty",
	}
	crossChainFlag = cli.BoolFlag{
		Name:  "cross-chain",
		Usage: "sign for every chain",
	}

	signFlags = []cli.Flag{keyFlag, keystoreFlag, chainIDFlag, nonceFlag, proxyFlag}
)
