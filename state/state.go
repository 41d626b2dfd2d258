// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/eoaproxy/kv"
	"github.com/vechain/eoaproxy/log"
	"github.com/vechain/eoaproxy/stackedmap"
	"github.com/vechain/eoaproxy/thor"
)

const (
	accountBucket kv.Bucket = "a"
	codeBucket    kv.Bucket = "c"
	storageBucket kv.Bucket = "s"
)

var logger = log.WithContext("pkg", "state")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Cause returns the underlying error.
func (e *Error) Cause() error {
	return e.cause
}

// State manages the world state.
type State struct {
	store    kv.Store
	accounts kv.Getter
	codes    kv.Getter
	storages kv.Getter
	cache    *storageCache
	sm       *stackedmap.StackedMap // keeps revisions of accounts state
}

// New creates a state over the given store.
// cacheSizeMB sizes the committed storage cache.
func New(store kv.Store, cacheSizeMB int) *State {
	s := &State{
		store:    store,
		accounts: accountBucket.NewGetter(store),
		codes:    codeBucket.NewGetter(store),
		storages: storageBucket.NewGetter(store),
		cache:    newStorageCache(cacheSizeMB),
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.cacheGetter)
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case thor.Address: // get account
		a, err := loadAccount(s.accounts, k)
		if err != nil {
			return nil, false, err
		}
		return a, true, nil
	case codeKey: // get code
		a, err := s.getAccount(thor.Address(k))
		if err != nil {
			return nil, false, err
		}
		code, err := s.loadCode(a.CodeHash)
		if err != nil {
			return nil, false, err
		}
		return code, true, nil
	case storageKey: // get storage
		raw, err := s.loadStorage(k.addr, k.key)
		if err != nil {
			return nil, false, err
		}
		return raw, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) loadCode(codeHash []byte) ([]byte, error) {
	if len(codeHash) == 0 {
		return []byte(nil), nil
	}
	v, err := codeCache.GetOrLoad(string(codeHash), func(any) (any, error) {
		return s.codes.Get(codeHash)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *State) loadStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	if v, ok := s.cache.get(addr, key); ok {
		return v, nil
	}
	v, err := s.storages.Get(append(addr.Bytes(), key[:]...))
	if err != nil {
		if !s.storages.IsNotFound(err) {
			return nil, err
		}
		v = nil
	}
	s.cache.set(addr, key, v)
	return v, nil
}

// getAccount gets account by address. the returned account should not be modified.
func (s *State) getAccount(addr thor.Address) (*Account, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

// getAccountCopy get a copy of account by address.
func (s *State) getAccountCopy(addr thor.Address) (Account, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return Account{}, err
	}
	return *acc, nil
}

func (s *State) updateAccount(addr thor.Address, acc *Account) {
	s.sm.Put(addr, acc)
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr thor.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return acc.Balance, nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr thor.Address, balance *big.Int) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.Balance = balance
	s.updateAccount(addr, &cpy)
	return nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Keccak256(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// GetCode returns code for the given address.
func (s *State) GetCode(addr thor.Address) ([]byte, error) {
	v, _, err := s.sm.Get(codeKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return v.([]byte), nil
}

// GetCodeHash returns code hash for the given address.
func (s *State) GetCodeHash(addr thor.Address) (thor.Bytes32, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	return thor.BytesToBytes32(acc.CodeHash), nil
}

// SetCode set code for the given address.
func (s *State) SetCode(addr thor.Address, code []byte) error {
	var codeHash []byte
	if len(code) > 0 {
		s.sm.Put(codeKey(addr), code)
		h := thor.Keccak256(code)
		codeHash = h[:]
		codeCache.Add(string(codeHash), code)
	} else {
		s.sm.Put(codeKey(addr), []byte(nil))
	}
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.CodeHash = codeHash
	s.updateAccount(addr, &cpy)
	return nil
}

// Exists returns whether an account exists at the given address.
// See Account.IsEmpty()
func (s *State) Exists(addr thor.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, &Error{err}
	}
	return !acc.IsEmpty(), nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit writes all changes since the last commit into the store atomically.
// The journal is cleared afterwards, so earlier checkpoints are no longer valid.
func (s *State) Commit() error {
	var (
		accounts = make(map[thor.Address]*Account)
		codes    = make(map[thor.Bytes32][]byte)
		storages = make(map[storageKey]rlp.RawValue)
	)

	// traverse journal to collect final values
	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case thor.Address:
			accounts[key] = v.(*Account)
		case codeKey:
			if code := v.([]byte); len(code) > 0 {
				codes[thor.Keccak256(code)] = code
			}
		case storageKey:
			storages[key] = v.(rlp.RawValue)
		}
		return true
	})

	bulk := s.store.Bulk()
	var (
		accountPutter = accountBucket.NewPutter(bulk)
		codePutter    = codeBucket.NewPutter(bulk)
		storagePutter = storageBucket.NewPutter(bulk)
	)
	for addr, a := range accounts {
		if err := saveAccount(accountPutter, addr, a); err != nil {
			return &Error{errors.Wrap(err, "save account")}
		}
	}
	for hash, code := range codes {
		if err := codePutter.Put(hash[:], code); err != nil {
			return &Error{errors.Wrap(err, "save code")}
		}
	}
	for key, raw := range storages {
		k := append(key.addr.Bytes(), key.key[:]...)
		var err error
		if len(raw) == 0 {
			err = storagePutter.Delete(k)
		} else {
			err = storagePutter.Put(k, raw)
		}
		if err != nil {
			return &Error{errors.Wrap(err, "save storage")}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{errors.Wrap(err, "commit")}
	}

	for key, raw := range storages {
		s.cache.set(key.addr, key.key, raw)
	}
	s.reset()

	metricCommitCount().Add(1)
	metricCommitEntries().AddWithLabel(int64(len(accounts)), map[string]string{"type": "account"})
	metricCommitEntries().AddWithLabel(int64(len(codes)), map[string]string{"type": "code"})
	metricCommitEntries().AddWithLabel(int64(len(storages)), map[string]string{"type": "storage"})
	logger.Debug("state committed", "accounts", len(accounts), "codes", len(codes), "storages", len(storages))
	return nil
}

type (
	storageKey struct {
		addr thor.Address
		key  thor.Bytes32
	}
	codeKey thor.Address
)
