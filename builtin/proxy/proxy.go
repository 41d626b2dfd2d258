// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package proxy implements the EIP-7702 proxy an account delegates to.
//
// The proxy runs in the account's context. It keeps the address of the logic the account
// runs in the ERC-1967 implementation slot, lets only the account's own key set or change it,
// and forwards every other call to that logic.
package proxy

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/eoaproxy/abi"
	"github.com/vechain/eoaproxy/builtin/erc1967"
	"github.com/vechain/eoaproxy/builtin/gen"
	"github.com/vechain/eoaproxy/builtin/native"
	"github.com/vechain/eoaproxy/builtin/reverts"
	"github.com/vechain/eoaproxy/log"
	"github.com/vechain/eoaproxy/thor"
	"github.com/vechain/eoaproxy/vm"
)

var logger = log.WithContext("pkg", "proxy")

var (
	trackerABI         = gen.MustABI("NonceTracker")
	getNextNonceMethod = trackerABI.MustMethodByName("getNextNonce")
	useNonceMethod     = trackerABI.MustMethodByName("useNonce")
	verifyAndUseMethod = trackerABI.MustMethodByName("verifyAndUseNonce")

	validatorABI         = gen.MustABI("WalletValidator")
	validateWalletMethod = validatorABI.MustMethodByName("validateWallet")
)

// protected operations
const (
	opInitialize = "initialize"
	opSet        = "setImplementation"
	opReset      = "resetImplementation"
)

// Config holds what a proxy is constructed with. None of it can change later.
type Config struct {
	NonceTracker          thor.Address
	Receiver              thor.Address // runs empty calls before initialization
	InitialImplementation thor.Address // installed by initialize
	GuardedInitializer    abi.MethodID // selector of InitialImplementation run by initialize only
}

// Proxy is the program an account delegates to.
type Proxy struct {
	address  thor.Address // where the proxy itself is deployed, bound into every digest
	cfg      Config
	contract *native.Contract
}

// New creates the proxy deployed at address.
func New(address thor.Address, cfg Config) (*Proxy, error) {
	if address.IsZero() ||
		cfg.NonceTracker.IsZero() ||
		cfg.Receiver.IsZero() ||
		cfg.InitialImplementation.IsZero() ||
		cfg.GuardedInitializer.IsEmpty() {
		return nil, ErrZeroValueConstructorArguments
	}

	p := &Proxy{address: address, cfg: cfg}
	p.contract = native.NewContract(ABI, []native.Definition{
		{Name: "initialize", Run: p.initialize},
		{Name: "setImplementation", Run: p.setImplementation},
		{Name: "resetImplementation", Run: p.resetImplementation},
		{Name: "isValidSignature", Run: p.isValidSignature},
	}).WithFallback(p.fallback)
	return p, nil
}

// Address returns where the proxy is deployed.
func (p *Proxy) Address() thor.Address { return p.address }

// Config returns the construction parameters.
func (p *Proxy) Config() Config { return p.cfg }

// Run implements vm.Program.
func (p *Proxy) Run(env *vm.Env) ([]byte, error) {
	if _, err := ABI.MethodByInput(env.Input()); err == nil {
		countDispatch(kindManagement)
	}
	return p.contract.Run(env)
}

// implementation returns the logic the account runs, zero before initialization.
func (p *Proxy) implementation(env *vm.Env) thor.Address {
	impl, err := erc1967.Implementation(env.State(), env.Self())
	env.Must(err)
	return impl
}

// fallback handles every call that is not a management operation.
func (p *Proxy) fallback(env *vm.Env) ([]byte, error) {
	input := env.Input()
	impl := p.implementation(env)

	if impl.IsZero() {
		if len(input) == 0 {
			countDispatch(kindReceive)
			return p.delegate(env, p.cfg.Receiver, input)
		}
		countDispatch(kindNotInitialized)
		env.Revert(reverts.MustEncode(errProxyNotInitialized))
	}

	var selector abi.MethodID
	copy(selector[:], input)
	if selector == p.cfg.GuardedInitializer {
		countDispatch(kindGuarded)
		env.Revert(reverts.MustEncode(errInvalidInitializer))
	}

	countDispatch(kindForward)
	return p.delegate(env, impl, input)
}

// delegate runs input on target in the account's context, relaying output and failure unchanged.
func (p *Proxy) delegate(env *vm.Env, target thor.Address, input []byte) ([]byte, error) {
	ret, err := env.DelegateCall(target, input)
	if err != nil {
		env.Stop(err)
	}
	return ret, nil
}

func (p *Proxy) initialize(nenv *native.Env) []any {
	env := nenv.Env
	var args struct {
		Args      []byte
		Signature []byte
		ChainId   *big.Int
	}
	nenv.ParseArgs(&args)

	p.requireChain(env, opInitialize, args.ChainId)

	nonce := p.nextNonce(env)
	digest := InitDigest(args.ChainId, p.address, args.Args, nonce)
	p.authorize(env, opInitialize, digest, args.Signature)

	if !p.verifyAndUseNonce(env, nonce) {
		p.reject(env, opInitialize, errInvalidNonce)
	}

	data := make([]byte, 0, 4+len(args.Args))
	data = append(data, p.cfg.GuardedInitializer[:]...)
	data = append(data, args.Args...)
	p.upgrade(env, opInitialize, func() { erc1967.UpgradeToAndCall(env, p.cfg.InitialImplementation, data) })

	logger.Debug("initialized", "account", env.Self(), "implementation", p.cfg.InitialImplementation, "nonce", nonce)
	countProtected(opInitialize, "ok")
	return nil
}

func (p *Proxy) setImplementation(nenv *native.Env) []any {
	env := nenv.Env
	var args struct {
		NewImplementation     common.Address
		CallData              []byte
		Validator             common.Address
		Signature             []byte
		AllowCrossChainReplay bool
	}
	nenv.ParseArgs(&args)

	newImpl := thor.Address(args.NewImplementation)
	validator := thor.Address(args.Validator)

	nonce := p.useNonce(env)
	chainID := env.ChainID()
	if args.AllowCrossChainReplay {
		chainID = new(big.Int)
	}
	current := p.implementation(env)
	digest := SetDigest(chainID, p.address, nonce, current, newImpl, args.CallData, validator)
	p.authorize(env, opSet, digest, args.Signature)

	p.upgrade(env, opSet, func() { erc1967.UpgradeToAndCall(env, newImpl, args.CallData) })
	p.validate(env, validator)

	logger.Debug("implementation set", "account", env.Self(), "from", current, "to", newImpl, "nonce", nonce)
	countProtected(opSet, "ok")
	return nil
}

func (p *Proxy) resetImplementation(nenv *native.Env) []any {
	env := nenv.Env
	var args struct {
		NewImplementation common.Address
		Signature         []byte
		ChainId           *big.Int
	}
	nenv.ParseArgs(&args)

	newImpl := thor.Address(args.NewImplementation)

	p.requireChain(env, opReset, args.ChainId)

	nonce := p.useNonce(env)
	current := p.implementation(env)
	digest := ResetDigest(args.ChainId, p.address, nonce, current, newImpl)
	p.authorize(env, opReset, digest, args.Signature)

	p.upgrade(env, opReset, func() { erc1967.UpgradeTo(env, newImpl) })

	logger.Debug("implementation reset", "account", env.Self(), "from", current, "to", newImpl, "nonce", nonce)
	countProtected(opReset, "ok")
	return nil
}

// reject reverts the operation with a proxy error.
func (p *Proxy) reject(env *vm.Env, op string, e *abi.Error) {
	countProtected(op, e.Name())
	env.Revert(reverts.MustEncode(e))
}

// requireChain accepts 0, valid on any chain, or the live chain id.
func (p *Proxy) requireChain(env *vm.Env, op string, chainID *big.Int) {
	if chainID.Sign() != 0 && chainID.Cmp(env.ChainID()) != 0 {
		p.reject(env, op, errInvalidChainID)
	}
}

// authorize requires signature to be the account's own over digest,
// and to be presented for the first time.
func (p *Proxy) authorize(env *vm.Env, op string, digest thor.Bytes32, signature []byte) {
	flag := consumed(env, signature)
	spent, err := flag.Get()
	env.Must(err)
	if spent {
		p.reject(env, op, errInvalidNonce)
	}
	if err := verifySigner(digest, signature, env.Self()); err != nil {
		logger.Trace("authorization rejected", "account", env.Self(), "op", op, "err", err)
		p.reject(env, op, errInvalidSignature)
	}
	flag.Set(true)
}

// upgrade runs f, counting a failure before it stops the operation.
func (p *Proxy) upgrade(env *vm.Env, op string, f func()) {
	ok := false
	defer func() {
		if !ok {
			countProtected(op, "reverted")
		}
	}()
	f()
	ok = true
}

// validate requires the validator to accept the account as it is after the upgrade.
// A reverting validator fails the operation with its own revert data.
func (p *Proxy) validate(env *vm.Env, validator thor.Address) {
	input, err := validateWalletMethod.EncodeInput(common.Address(env.Self()))
	env.Must(err)
	ret, err := env.StaticCall(validator, input)
	if err != nil {
		countProtected(opSet, "reverted")
		env.Stop(err)
	}
	var magic [4]byte
	if err := validateWalletMethod.DecodeOutput(ret, &magic); err != nil || magic != validateWalletMethod.ID() {
		p.reject(env, opSet, errInvalidValidation)
	}
}

func (p *Proxy) nextNonce(env *vm.Env) *big.Int {
	input, err := getNextNonceMethod.EncodeInput(common.Address(env.Self()))
	env.Must(err)
	ret, err := env.StaticCall(p.cfg.NonceTracker, input)
	env.Must(err)

	var nonce *big.Int
	env.Must(getNextNonceMethod.DecodeOutput(ret, &nonce))
	return nonce
}

func (p *Proxy) useNonce(env *vm.Env) *big.Int {
	input, err := useNonceMethod.EncodeInput()
	env.Must(err)
	ret, err := env.Call(p.cfg.NonceTracker, nil, input)
	env.Must(err)

	var nonce *big.Int
	env.Must(useNonceMethod.DecodeOutput(ret, &nonce))
	return nonce
}

func (p *Proxy) verifyAndUseNonce(env *vm.Env, nonce *big.Int) bool {
	input, err := verifyAndUseMethod.EncodeInput(nonce)
	env.Must(err)
	ret, err := env.Call(p.cfg.NonceTracker, nil, input)
	env.Must(err)

	var ok bool
	env.Must(verifyAndUseMethod.DecodeOutput(ret, &ok))
	return ok
}
