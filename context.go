package mongodata

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/atomic"
)

const closeTimeout = 10 * time.Second

type EndMode int

const (
	Commit EndMode = iota
	Rollback
)

func (m EndMode) String() string {
	if m == Rollback {
		return "rollback"
	}
	return "commit"
}

// DataContext owns a lazily opened database handle and at most one transaction session.
//
// A DataContext has a single owner and is not safe for concurrent use.
type DataContext struct {
	settings  Settings
	connector Connector
	log       zerolog.Logger

	db      *Database
	session Session
	inTxn   bool
	closed  atomic.Bool
}

// NewDataContext snapshots SettingOptions and applies opts on top. Nothing is
// connected until the handle is first needed.
func NewDataContext(opts ...Option) *DataContext {
	dc := &DataContext{
		settings:  SettingOptions,
		connector: DriverConnector{},
		log:       zerolog.Nop(),
	}
	for _, v := range opts {
		v(dc)
	}
	return dc
}

// Database returns the handle, opening the client and database on the first call.
func (dc *DataContext) Database(ctx context.Context) (*Database, error) {
	if dc.closed.Load() {
		return nil, ErrClosed
	}
	if dc.db != nil {
		return dc.db, nil
	}

	db, err := openDatabase(ctx, dc.connector, dc.settings)
	if err != nil {
		return nil, err
	}
	dc.db = db
	dc.log.Debug().Str("database", db.Name()).Msg("database handle built")
	return db, nil
}

func (dc *DataContext) InTransaction() bool {
	return dc.session != nil && dc.inTxn
}

// SessionContext binds the active session, if any, to ctx.
func (dc *DataContext) SessionContext(ctx context.Context) context.Context {
	if dc.session == nil {
		return ctx
	}
	return dc.session.WithContext(ctx)
}

// BeginTransaction starts a session and a transaction on it. It does nothing when a
// session is already active: transactions do not nest.
func (dc *DataContext) BeginTransaction(ctx context.Context, sessionOpts *options.SessionOptions, txnOpts *options.TransactionOptions) error {
	if dc.closed.Load() {
		return ErrClosed
	}
	if dc.session != nil {
		dc.log.Debug().Msg("transaction already active, begin ignored")
		return nil
	}

	db, err := dc.Database(ctx)
	if err != nil {
		return err
	}

	session, err := db.client.StartSession(sessionOpts)
	if err != nil {
		return err
	}
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return err
	}

	dc.session = session
	dc.inTxn = true
	dc.log.Debug().Msg("transaction started")
	return nil
}

// EndTransaction commits or aborts the active transaction and releases its session.
// Without an active session it does nothing. The session is released even when the
// commit or abort fails.
func (dc *DataContext) EndTransaction(ctx context.Context, mode EndMode) error {
	session := dc.session
	if session == nil {
		return nil
	}
	inTxn := dc.inTxn

	defer func() {
		session.EndSession(ctx)
		dc.session = nil
		dc.inTxn = false
	}()

	if !inTxn {
		return nil
	}

	var err error
	if mode == Rollback {
		err = session.AbortTransaction(ctx)
	} else {
		err = session.CommitTransaction(ctx)
	}
	dc.log.Debug().Stringer("mode", mode).Err(err).Msg("transaction ended")
	return err
}

// BeginTransactionAsync runs BeginTransaction on its own goroutine. The channel
// receives exactly one value.
func (dc *DataContext) BeginTransactionAsync(ctx context.Context, sessionOpts *options.SessionOptions, txnOpts *options.TransactionOptions) <-chan error {
	errc := make(chan error, 1)
	go func() {
		errc <- dc.BeginTransaction(ctx, sessionOpts, txnOpts)
	}()
	return errc
}

func (dc *DataContext) EndTransactionAsync(ctx context.Context, mode EndMode) <-chan error {
	errc := make(chan error, 1)
	go func() {
		errc <- dc.EndTransaction(ctx, mode)
	}()
	return errc
}

// Txn runs fn against the handle. With multiDoc set, fn runs inside a transaction
// that is committed when fn returns nil and rolled back otherwise. When a transaction
// is already active fn joins it and its owner decides how it ends.
func (dc *DataContext) Txn(ctx context.Context, fn func(txn *Txn) error, multiDoc ...bool) error {
	db, err := dc.Database(ctx)
	if err != nil {
		return err
	}

	if len(multiDoc) == 0 || !multiDoc[0] || dc.session != nil {
		return fn(&Txn{ctx: ctx, dc: dc, db: db})
	}

	if err := dc.BeginTransaction(ctx, nil, nil); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = dc.EndTransaction(ctx, Rollback)
			panic(r)
		}
	}()

	if err := fn(&Txn{ctx: ctx, dc: dc, db: db}); err != nil {
		if rbErr := dc.EndTransaction(ctx, Rollback); rbErr != nil {
			dc.log.Warn().Err(rbErr).Msg("rollback failed")
		}
		return err
	}
	return dc.EndTransaction(ctx, Commit)
}

// Close releases the active session without committing it and forgets the handle.
// The client stays connected unless DisconnectOnClose is set. Calling Close again
// does nothing.
func (dc *DataContext) Close() {
	if !dc.closed.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if dc.session != nil {
		dc.session.EndSession(ctx)
		dc.session = nil
		dc.inTxn = false
	}

	if dc.db != nil {
		if dc.settings.DisconnectOnClose {
			if err := dc.db.disconnect(ctx); err != nil {
				dc.log.Warn().Err(err).Msg("disconnect failed")
			}
		}
		dc.db = nil
	}
	dc.log.Debug().Msg("data context closed")
}
