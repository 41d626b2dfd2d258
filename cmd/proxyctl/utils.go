// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-tty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/eoaproxy/log"
	"github.com/vechain/eoaproxy/lvldb"
	"github.com/vechain/eoaproxy/thor"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) error {
	format, err := log.ParseFormat(ctx.GlobalString(logFormatFlag.Name))
	if err != nil {
		return err
	}
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		format = log.FormatJSON
	}
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name)))
	log.SetDefault(log.NewLogger(log.StreamHandler(os.Stderr, level, format)))
	return nil
}

// loadKey reads the signing key from --key, or from --keystore with a password read from the terminal.
func loadKey(ctx *cli.Context) (*ecdsa.PrivateKey, error) {
	if hex := ctx.String(keyFlag.Name); hex != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(hex, "0x"))
		return key, errors.Wrap(err, "parse key")
	}
	path := ctx.String(keystoreFlag.Name)
	if path == "" {
		return nil, errors.Errorf("either --%s or --%s is required", keyFlag.Name, keystoreFlag.Name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read keystore")
	}
	password, err := readPasswordFromNewTTY("Enter passphrase: ")
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt keystore")
	}
	return key.PrivateKey, nil
}

func readPasswordFromNewTTY(prompt string) (string, error) {
	t, err := tty.Open()
	if err != nil {
		return "", errors.Wrap(err, "open tty")
	}
	defer t.Close()
	fmt.Fprint(t.Output(), prompt)
	pass, err := t.ReadPasswordNoEcho()
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return pass, nil
}

// openDB opens the state database under dataDir, or an in-memory one when dataDir is empty.
func openDB(dataDir string, cacheMB int) (*lvldb.LevelDB, error) {
	if dataDir == "" {
		return lvldb.NewMem()
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, errors.Wrapf(err, "create data dir at '%v'", dataDir)
	}
	dir := filepath.Join(dataDir, "state.db")
	db, err := lvldb.New(dir, lvldb.Options{CacheSize: cacheMB / 2, OpenFilesCacheCapacity: 64})
	if err != nil {
		return nil, errors.WithMessagef(err, "open state database at '%v'", dir)
	}
	logger.Info("state database opened", "dir", dir)
	return db, nil
}

func parseAddress(s string, fallback thor.Address) (thor.Address, error) {
	if s == "" {
		return fallback, nil
	}
	return thor.ParseAddress(s)
}
