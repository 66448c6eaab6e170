package app

import (
	"context"
	"sync"
	"time"

	"github.com/tendermint/tendermint/libs/log"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Processor executes transactions against a committed store. Every
// delivered transaction runs on a scratch-pad that is written and
// committed only on success, so a failing transaction leaves no
// trace in the state.
type Processor struct {
	mu      sync.Mutex
	store   custody.CommitKVStore
	handler custody.Handler
	chainID string
	logger  log.Logger
	nowFn   func() time.Time
}

// NewProcessor loads the latest persisted state and returns a
// processor ready to accept transactions.
func NewProcessor(store custody.CommitKVStore, handler custody.Handler, chainID string, logger log.Logger) (*Processor, error) {
	if chainID == "" {
		return nil, errors.Wrap(errors.ErrInput, "empty chain ID")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "cannot load latest version")
	}
	return &Processor{
		store:   store,
		handler: handler,
		chainID: chainID,
		logger:  logger,
		nowFn:   time.Now,
	}, nil
}

// WithNow replaces the block time source. Tests use it to run with a
// fixed clock.
func (p *Processor) WithNow(now func() time.Time) *Processor {
	p.nowFn = now
	return p
}

// ChainID returns the chain this processor is bound to.
func (p *Processor) ChainID() string {
	return p.chainID
}

// LatestVersion returns info on the last committed state.
func (p *Processor) LatestVersion() custody.CommitID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.LatestVersion()
}

// Check validates the transaction without changing any state.
func (p *Processor) Check(tx custody.Tx) (*custody.CheckResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cache := p.store.CacheWrap()
	defer cache.Discard()
	return p.handler.Check(p.context(), cache, tx)
}

// Deliver executes the transaction and commits its changes. On error
// all changes are discarded and the previous state remains committed.
func (p *Processor) Deliver(tx custody.Tx) (*custody.DeliverResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cache := p.store.CacheWrap()
	res, err := p.handler.Deliver(p.context(), cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "cannot write cache")
	}
	if _, err := p.store.Commit(); err != nil {
		return nil, errors.Wrap(err, "cannot commit")
	}
	return res, nil
}

// InitGenesis initializes the state from the genesis options and
// commits it. It must be called once, on an empty store.
func (p *Processor) InitGenesis(opts custody.Options, inits ...custody.Initializer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v := p.store.LatestVersion(); v.Version != 0 {
		return errors.Wrapf(errors.ErrState, "state already initialized at version %d", v.Version)
	}
	cache := p.store.CacheWrap()
	for _, init := range inits {
		if err := init.FromGenesis(opts, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "cannot initialize")
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "cannot write cache")
	}
	if _, err := p.store.Commit(); err != nil {
		return errors.Wrap(err, "cannot commit")
	}
	return nil
}

func (p *Processor) context() custody.Context {
	ctx := custody.WithChainID(context.Background(), p.chainID)
	ctx = custody.WithBlockTime(ctx, p.nowFn())
	return custody.WithLogger(ctx, p.logger)
}
