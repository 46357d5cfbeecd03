package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/gconf"
	"github.com/iov-one/pantheon/ledger/bank"
	"github.com/iov-one/pantheon/ledger/rewards"
	"github.com/iov-one/pantheon/ledger/wasm"
	"github.com/iov-one/pantheon/store"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

const statePkg = "ledger"

// Options configure a new ledger. Only Config is required.
type Options struct {
	Config Config
	// Store holds the state. An in-memory store is used when not set.
	Store pantheon.CacheableKVStore
	// Contracts maps implementation names to contract implementations.
	Contracts map[string]pantheon.Contract
	// Clock provides the block time. A real clock is used when not set.
	Clock  clockwork.Clock
	Logger log.Logger
	// Registerer receives the ledger metrics. Metrics are not registered
	// when not set.
	Registerer prometheus.Registerer
}

// Ledger executes contracts on top of a key value store. It is safe for
// concurrent use, requests are processed one at a time.
type Ledger struct {
	mu sync.Mutex

	conf      Config
	db        pantheon.CacheableKVStore
	api       pantheon.API
	bank      *bank.Controller
	registry  *wasm.Registry
	rewards   *rewards.Tracker
	contracts map[string]pantheon.Contract
	clock     clockwork.Clock
	logger    log.Logger
	metrics   *Metrics
}

// New returns a ledger. The chain id of an existing state must match the
// configured one.
func New(opts Options) (*Ledger, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	if opts.Store == nil {
		opts.Store = store.MemStore()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	contracts := make(map[string]pantheon.Contract, len(opts.Contracts))
	for name, c := range opts.Contracts {
		if name == "" || c == nil {
			return nil, errors.Wrapf(errors.ErrInput, "invalid contract implementation %q", name)
		}
		contracts[name] = c
	}

	api := pantheon.NewBech32API(opts.Config.Bech32Prefix)
	b := bank.NewController()
	registry := wasm.NewRegistry(api)
	l := &Ledger{
		conf:      opts.Config,
		db:        opts.Store,
		api:       api,
		bank:      b,
		registry:  registry,
		rewards:   rewards.NewTracker(registry, b),
		contracts: contracts,
		clock:     opts.Clock,
		logger:    opts.Logger.With("module", "ledger"),
		metrics:   NewMetrics(opts.Registerer),
	}

	state, err := l.state(l.db)
	if err != nil {
		return nil, err
	}
	if state.GetChainID() != l.conf.ChainID {
		return nil, errors.Wrapf(errors.ErrState, "store belongs to chain %q, not %q", state.GetChainID(), l.conf.ChainID)
	}
	l.metrics.Height.Set(float64(state.GetHeight()))
	return l, nil
}

// API returns the address service used by the ledger.
func (l *Ledger) API() pantheon.API {
	return l.api
}

// Validate ensures the state references a valid chain.
func (m *ChainState) Validate() error {
	var errs error
	if !pantheon.IsValidChainID(m.GetChainID()) {
		errs = errors.AppendField(errs, "ChainID", errors.ErrInput)
	}
	if m.GetHeight() < 0 {
		errs = errors.AppendField(errs, "Height", errors.ErrInput)
	}
	return errs
}

// state returns the chain state, or the initial state of the configured
// chain if nothing was processed yet.
func (l *Ledger) state(db pantheon.ReadOnlyKVStore) (*ChainState, error) {
	var s ChainState
	switch err := gconf.Load(db, statePkg, &s); {
	case errors.ErrNotFound.Is(err):
		return &ChainState{ChainID: l.conf.ChainID}, nil
	case err != nil:
		return nil, errors.Wrap(err, "chain state")
	}
	return &s, nil
}

// Height returns the height of the last processed request.
func (l *Ledger) Height() (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.state(l.db)
	if err != nil {
		return 0, err
	}
	return s.GetHeight(), nil
}

// request processes fn at the next height. Changes done by fn are written
// only if it succeeds.
func (l *Ledger) request(ctx context.Context, kind string, fn func(ctx pantheon.Context, db pantheon.CacheableKVStore) error) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	defer func() {
		l.metrics.Requests.WithLabelValues(kind, status(err)).Inc()
		l.metrics.RequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	state, err := l.state(l.db)
	if err != nil {
		return err
	}
	state.Height++
	now := l.clock.Now().UTC()
	state.BlockTime = now.UnixNano()

	requestID := uuid.New().String()
	logger := l.logger.With("request", requestID, "height", state.Height)
	ctx = pantheon.WithHeight(ctx, state.Height)
	ctx = pantheon.WithChainID(ctx, state.ChainID)
	ctx = pantheon.WithBlockTime(ctx, now)
	ctx = pantheon.WithRequestID(ctx, requestID)
	ctx = pantheon.WithLogger(ctx, logger)

	cache := l.db.CacheWrap()
	if err := l.run(ctx, cache, fn); err != nil {
		cache.Discard()
		code, _ := errors.Info(err, false)
		logger.Error("request failed", "kind", kind, "code", code, "err", err)
		return err
	}
	if err := gconf.Save(cache, statePkg, state); err != nil {
		cache.Discard()
		return errors.Wrap(err, "save chain state")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if c, ok := l.db.(committer); ok {
		if err := c.Commit(); err != nil {
			return errors.Wrap(err, "commit")
		}
	}
	l.metrics.Height.Set(float64(state.Height))
	logger.Debug("request processed", "kind", kind)
	return nil
}

type committer interface {
	Commit() error
}

// run calls fn, turning a panic into ErrPanic.
func (l *Ledger) run(ctx pantheon.Context, db pantheon.CacheableKVStore, fn func(pantheon.Context, pantheon.CacheableKVStore) error) (err error) {
	defer errors.Recover(&err)
	return fn(ctx, db)
}

// view processes fn on a copy of the current state at the current height.
// All changes are dropped.
func (l *Ledger) view(ctx context.Context, fn func(ctx pantheon.Context, db pantheon.CacheableKVStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.state(l.db)
	if err != nil {
		return err
	}
	ctx = pantheon.WithHeight(ctx, state.Height)
	ctx = pantheon.WithChainID(ctx, state.ChainID)
	ctx = pantheon.WithBlockTime(ctx, time.Unix(0, state.BlockTime).UTC())
	ctx = pantheon.WithLogger(ctx, l.logger)

	cache := l.db.CacheWrap()
	defer cache.Discard()
	return l.run(ctx, cache, fn)
}

// InitGenesis seeds an empty ledger with the initial balances and code.
func (l *Ledger) InitGenesis(ctx context.Context, g Genesis) error {
	return l.request(ctx, "genesis", func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		if h, _ := pantheon.GetHeight(ctx); h != 1 {
			return errors.Wrapf(errors.ErrState, "genesis at height %d", h)
		}
		for i, b := range g.Balances {
			addr, err := l.api.AddrValidate(b.Address)
			if err != nil {
				return errors.Wrapf(err, "balance %d", i)
			}
			if err := b.Coins.Validate(); err != nil {
				return errors.Wrapf(err, "balance %d", i)
			}
			for _, c := range b.Coins {
				if err := l.bank.IssueCoins(db, addr, c); err != nil {
					return errors.Wrapf(err, "balance %d", i)
				}
			}
		}
		for i, c := range g.Codes {
			creator, err := l.api.AddrValidate(c.Creator)
			if err != nil {
				return errors.Wrapf(err, "code %d", i)
			}
			if _, err := l.storeCode(db, creator, c.Name); err != nil {
				return errors.Wrapf(err, "code %d", i)
			}
		}
		return nil
	})
}

// StoreCode registers code of the named contract implementation.
func (l *Ledger) StoreCode(ctx context.Context, creator pantheon.Addr, name string) (*wasm.CodeInfo, error) {
	var code *wasm.CodeInfo
	err := l.request(ctx, "store_code", func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		c, err := l.storeCode(db, creator, name)
		code = c
		return err
	})
	return code, err
}

func (l *Ledger) storeCode(db pantheon.KVStore, creator pantheon.Addr, name string) (*wasm.CodeInfo, error) {
	if _, ok := l.contracts[name]; !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "contract implementation %q", name)
	}
	return l.registry.StoreCode(db, creator, name)
}

// InstantiateRequest describes the creation of a contract by an account.
type InstantiateRequest struct {
	Sender pantheon.Addr
	CodeID uint64
	Msg    []byte
	Funds  pantheon.Coins
	Admin  pantheon.Addr
	Label  string
	// Salt selects the deterministic address derivation when set.
	Salt []byte
}

// Instantiate creates a contract and returns its address together with
// the outcome of the instantiation.
func (l *Ledger) Instantiate(ctx context.Context, req InstantiateRequest) (pantheon.Addr, *Result, error) {
	var (
		addr pantheon.Addr
		res  *Result
	)
	err := l.request(ctx, "instantiate", func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		var err error
		addr, res, err = l.instantiate(ctx, db, 0, req)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return addr, res, nil
}

// Execute calls a contract on behalf of the sender.
func (l *Ledger) Execute(ctx context.Context, sender, contract pantheon.Addr, msg []byte, funds ...pantheon.Coin) (*Result, error) {
	var res *Result
	err := l.request(ctx, "execute", func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		var err error
		res, err = l.execute(ctx, db, 0, sender, contract, msg, funds)
		return err
	})
	return res, err
}

// Query calls the read only entry point of a contract.
func (l *Ledger) Query(ctx context.Context, contract pantheon.Addr, msg []byte) ([]byte, error) {
	var res []byte
	err := l.view(ctx, func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		impl, _, err := l.implementation(db, contract)
		if err != nil {
			return err
		}
		res, err = impl.Query(ctx, l.deps(db, contract), l.env(ctx, contract), msg)
		if err != nil {
			return errors.Wrapf(err, "query %s", contract)
		}
		return nil
	})
	return res, err
}

// Send transfers coins between accounts.
func (l *Ledger) Send(ctx context.Context, from, to pantheon.Addr, coins ...pantheon.Coin) error {
	return l.request(ctx, "send", func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		_, err := l.send(db, from, to.String(), coins)
		return err
	})
}

// Accrue credits rewards earned by a contract to its rewards address.
func (l *Ledger) Accrue(ctx context.Context, contract pantheon.Addr, coins ...pantheon.Coin) (*rewards.Record, error) {
	var rec *rewards.Record
	err := l.request(ctx, "accrue", func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		h, _ := pantheon.GetHeight(ctx)
		var err error
		rec, err = l.rewards.Accrue(db, contract, coins, h)
		return err
	})
	return rec, err
}

// Balance returns all coins held by the address.
func (l *Ledger) Balance(ctx context.Context, addr pantheon.Addr) (pantheon.Coins, error) {
	var coins pantheon.Coins
	err := l.view(ctx, func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		var err error
		coins, err = l.bank.Balance(db, addr)
		return err
	})
	return coins, err
}

// Contract returns the details of a contract instance.
func (l *Ledger) Contract(ctx context.Context, addr pantheon.Addr) (*wasm.ContractInfo, error) {
	var info *wasm.ContractInfo
	err := l.view(ctx, func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		var err error
		info, err = l.registry.Contract(db, addr)
		return err
	})
	return info, err
}

// Metadata returns the rewards metadata of a contract.
func (l *Ledger) Metadata(ctx context.Context, addr pantheon.Addr) (*wasm.Metadata, error) {
	var md *wasm.Metadata
	err := l.view(ctx, func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		var err error
		md, err = l.registry.Metadata(db, addr)
		return err
	})
	return md, err
}

// Rewards returns the reward records that the address can withdraw.
func (l *Ledger) Rewards(ctx context.Context, addr pantheon.Addr) ([]rewards.Record, error) {
	var recs []rewards.Record
	err := l.view(ctx, func(ctx pantheon.Context, db pantheon.CacheableKVStore) error {
		var err error
		recs, err = l.rewards.Records(db, addr)
		return err
	})
	return recs, err
}

func (l *Ledger) implementation(db pantheon.ReadOnlyKVStore, contract pantheon.Addr) (pantheon.Contract, *wasm.ContractInfo, error) {
	info, err := l.registry.Contract(db, contract)
	if err != nil {
		return nil, nil, err
	}
	code, err := l.registry.Code(db, info.GetCodeID())
	if err != nil {
		return nil, nil, err
	}
	impl, ok := l.contracts[code.GetName()]
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "contract implementation %q", code.GetName())
	}
	return impl, info, nil
}

// contractPrefix returns the prefix of all keys of the contract storage.
func contractPrefix(contract pantheon.Addr) []byte {
	return []byte("_w:" + contract.String() + "/")
}

func (l *Ledger) deps(db pantheon.KVStore, contract pantheon.Addr) pantheon.Deps {
	return pantheon.Deps{
		Storage: store.NewPrefixStore(db, contractPrefix(contract)),
		API:     l.api,
		Querier: &querier{l: l, db: db},
	}
}

func (l *Ledger) env(ctx pantheon.Context, contract pantheon.Addr) pantheon.Env {
	height, _ := pantheon.GetHeight(ctx)
	t, _ := pantheon.GetBlockTime(ctx)
	return pantheon.Env{
		Block: pantheon.BlockInfo{
			Height:  height,
			Time:    t,
			ChainID: pantheon.GetChainID(ctx),
		},
		Contract: pantheon.ContractInfo{Address: contract},
	}
}
