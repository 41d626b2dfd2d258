// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/eoaproxy/builtin"
	"github.com/vechain/eoaproxy/builtin/proxy"
	"github.com/vechain/eoaproxy/cmd/proxyctl/scenario"
	"github.com/vechain/eoaproxy/cry"
	"github.com/vechain/eoaproxy/thor"
)

// signing holds what every management message is bound to.
type signing struct {
	key     *ecdsa.PrivateKey
	signer  thor.Address
	chainID *big.Int
	nonce   *big.Int
	proxy   thor.Address
}

func newSigning(ctx *cli.Context) (*signing, error) {
	key, err := loadKey(ctx)
	if err != nil {
		return nil, err
	}
	nonce, err := scenario.ParseValue(ctx.String(nonceFlag.Name))
	if err != nil {
		return nil, errors.WithMessage(err, "nonce")
	}
	proxyAddr, err := parseAddress(ctx.String(proxyFlag.Name), builtin.Proxy.Address)
	if err != nil {
		return nil, errors.WithMessage(err, "proxy")
	}
	return &signing{
		key:     key,
		signer:  cry.PubkeyToAddress(key.PublicKey),
		chainID: new(big.Int).SetUint64(ctx.Uint64(chainIDFlag.Name)),
		nonce:   nonce,
		proxy:   proxyAddr,
	}, nil
}

func (s *signing) print(ctx *cli.Context, digest thor.Bytes32, sig []byte, method string, args ...any) error {
	data, err := proxy.ABI.MustMethodByName(method).EncodeInput(args...)
	if err != nil {
		return errors.Wrap(err, "encode call data")
	}
	logger.Debug("signed", "method", method, "signer", s.signer, "nonce", s.nonce)

	w := ctx.App.Writer
	fmt.Fprintf(w, "signer:    %v\n", s.signer)
	fmt.Fprintf(w, "digest:    %v\n", digest)
	fmt.Fprintf(w, "signature: %v\n", hexutil.Encode(sig))
	fmt.Fprintf(w, "to:        %v\n", s.signer)
	fmt.Fprintf(w, "data:      %v\n", hexutil.Encode(data))
	return nil
}

func signInitAction(ctx *cli.Context) error {
	s, err := newSigning(ctx)
	if err != nil {
		return err
	}
	args, err := scenario.ParseBytes(ctx.String(argsFlag.Name))
	if err != nil {
		return errors.WithMessage(err, "args")
	}
	if args == nil {
		owner, err := parseAddress(ctx.String(ownerFlag.Name), s.signer)
		if err != nil {
			return errors.WithMessage(err, "owner")
		}
		input, err := builtin.Wallet.ABI.MustMethodByName("initialize").EncodeInput(common.Address(owner))
		if err != nil {
			return err
		}
		args = input[4:]
	}

	digest := proxy.InitDigest(s.chainID, s.proxy, args, s.nonce)
	sig, err := proxy.Sign(digest, s.key)
	if err != nil {
		return err
	}
	return s.print(ctx, digest, sig, "initialize", args, sig, s.chainID)
}

func transitionFlags(ctx *cli.Context) (current, impl thor.Address, err error) {
	if current, err = parseAddress(ctx.String(currentFlag.Name), builtin.Wallet.Address); err != nil {
		return current, impl, errors.WithMessage(err, "current")
	}
	if ctx.String(implementationFlag.Name) == "" {
		return current, impl, errors.Errorf("--%s is required", implementationFlag.Name)
	}
	if impl, err = thor.ParseAddress(ctx.String(implementationFlag.Name)); err != nil {
		return current, impl, errors.WithMessage(err, "implementation")
	}
	return current, impl, nil
}

func signSetAction(ctx *cli.Context) error {
	s, err := newSigning(ctx)
	if err != nil {
		return err
	}
	current, impl, err := transitionFlags(ctx)
	if err != nil {
		return err
	}
	callData, err := scenario.ParseBytes(ctx.String(callDataFlag.Name))
	if err != nil {
		return errors.WithMessage(err, "call data")
	}
	validator, err := parseAddress(ctx.String(validatorFlag.Name), builtin.Validator.Address)
	if err != nil {
		return errors.WithMessage(err, "validator")
	}
	crossChain := ctx.Bool(crossChainFlag.Name)
	chainID := s.chainID
	if crossChain {
		chainID = new(big.Int)
	}

	digest := proxy.SetDigest(chainID, s.proxy, s.nonce, current, impl, callData, validator)
	sig, err := proxy.Sign(digest, s.key)
	if err != nil {
		return err
	}
	return s.print(ctx, digest, sig, "setImplementation",
		common.Address(impl), callData, common.Address(validator), sig, crossChain)
}

func signResetAction(ctx *cli.Context) error {
	s, err := newSigning(ctx)
	if err != nil {
		return err
	}
	current, impl, err := transitionFlags(ctx)
	if err != nil {
		return err
	}

	digest := proxy.ResetDigest(s.chainID, s.proxy, s.nonce, current, impl)
	sig, err := proxy.Sign(digest, s.key)
	if err != nil {
		return err
	}
	return s.print(ctx, digest, sig, "resetImplementation", common.Address(impl), sig, s.chainID)
}
