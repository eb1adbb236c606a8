package mongodata

import (
	"context"
)

// Txn scopes collection operations to the context fn was handed by DataContext.Txn.
type Txn struct {
	ctx context.Context
	dc  *DataContext
	db  *Database
}

// Context returns the txn context with the active session, if any, bound to it.
func (txn *Txn) Context() context.Context {
	return txn.dc.SessionContext(txn.ctx)
}

// Model returns the collection for model. It panics when no collection name can be
// derived from model.
func (txn *Txn) Model(model any) *Model {
	m, err := newModel(txn.ctx, txn.dc, txn.db, model)
	if err != nil {
		panic(err)
	}
	return m
}
