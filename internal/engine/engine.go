package engine

import (
	"fmt"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/inscription-c/ccoin/blockchain"
	"github.com/inscription-c/ccoin/colordata"
	"github.com/inscription-c/ccoin/colordata/dao"
	"github.com/inscription-c/ccoin/colordata/tables"
	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/config"
	"github.com/inscription-c/ccoin/log"
	"github.com/inscription-c/ccoin/txspec"
)

// Engine wires the node client, the color data store and the builder
// manager of one command run.
type Engine struct {
	Config  *config.Config
	Client  *rpcclient.Client
	Chain   *blockchain.RPCState
	Store   colordata.Store
	Manager *colordata.ColorDataBuilderManager

	db *dao.DB
}

type Options struct {
	store  colordata.Store
	client *rpcclient.Client
}

type Option func(*Options)

// WithStore uses store instead of opening the configured database.
func WithStore(store colordata.Store) Option {
	return func(o *Options) {
		o.store = store
	}
}

// WithClient uses client instead of dialing the configured node.
func WithClient(client *rpcclient.Client) Option {
	return func(o *Options) {
		o.client = client
	}
}

func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	e := &Engine{Config: cfg}

	e.Client = options.client
	if e.Client == nil {
		client, err := blockchain.NewClient(cfg.Chain.RpcConnect, cfg.Chain.Username, cfg.Chain.Password, cfg.Params())
		if err != nil {
			return nil, err
		}
		e.Client = client
	}
	chain, err := blockchain.NewRPCState(
		blockchain.WithChainClient(e.Client),
		blockchain.WithParams(cfg.Params()),
	)
	if err != nil {
		return nil, err
	}
	e.Chain = chain

	e.Store = options.store
	switch {
	case e.Store != nil:
	case cfg.Mysql.DryRun:
		log.Log.Info("dry run, color data is kept in memory")
		e.Store = colordata.NewMemStore()
	default:
		db, err := dao.NewDB(
			dao.WithAddr(cfg.Mysql.Addr),
			dao.WithUser(cfg.Mysql.User),
			dao.WithPassword(cfg.Mysql.Password),
			dao.WithDBName(cfg.Mysql.DB),
			dao.WithAutoMigrateTables(tables.All()...),
		)
		if err != nil {
			return nil, fmt.Errorf("open color data store: %w", err)
		}
		e.db = db
		e.Store = dao.NewStore(db)
	}

	managerOpts := []colordata.ManagerOption{
		colordata.WithStore(e.Store),
		colordata.WithBlockchainState(e.Chain),
		colordata.WithStrategy(cfg.Strategy),
		colordata.WithFlushBlocks(cfg.FlushBlocks),
	}
	if cfg.Explorer != "" {
		managerOpts = append(managerOpts, colordata.WithExplorer(blockchain.NewExplorer(cfg.Explorer)))
	}
	if e.Manager, err = colordata.NewColorDataBuilderManager(managerOpts...); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// ColorMap returns the color map over the store.
func (e *Engine) ColorMap() *coloring.ColorMap {
	return e.Manager.ColorMap()
}

// ColorSet resolves descs, falling back to the configured colors.
func (e *Engine) ColorSet(descs []string) (*coloring.ColorSet, error) {
	if len(descs) == 0 {
		descs = e.Config.Colors
	}
	if len(descs) == 0 {
		return nil, fmt.Errorf("%w: no color given", coloring.ErrInvalidColor)
	}
	return coloring.NewColorSet(e.ColorMap(), descs)
}

// Reader returns the thin reader when configured, the thick one otherwise.
func (e *Engine) Reader() txspec.ColorReader {
	if e.Config.Thin {
		return colordata.NewThinColorData(e.Manager)
	}
	return colordata.NewThickColorData(e.Manager)
}

// Close releases the store and the node client.
func (e *Engine) Close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			log.Log.Errorf("close color data store: %v", err)
		}
	}
	if e.Client != nil {
		e.Client.Shutdown()
	}
}
