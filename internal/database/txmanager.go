package database

import (
	"context"
	"database/sql"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// txKey is the context key under which the active *sql.Tx is stored.
type txKey struct{}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager runs a function inside a transaction. Repositories pick the transaction up from the
// context they are given, so use cases never handle transaction objects directly.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type sqlTxManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager for a SQL database.
func NewTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db}
}

// WithTx begins a transaction, runs fn with it in context and commits. The transaction is rolled
// back if fn returns an error.
func (m *sqlTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return rbErr
		}
		return err
	}

	return tx.Commit()
}

// GetTx returns the transaction stored in ctx, or db when there is none.
func GetTx(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type mongoTxManager struct {
	client *mongo.Client
}

// NewMongoTxManager creates a TxManager backed by MongoDB sessions. Multi-document transactions
// need a replica set or sharded cluster.
func NewMongoTxManager(client *mongo.Client) TxManager {
	return &mongoTxManager{client: client}
}

// WithTx runs fn inside a session transaction. The context handed to fn carries the session, so
// collection calls made with it join the transaction.
func (m *mongoTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

type directTxManager struct{}

// NewDirectTxManager returns a TxManager that calls fn without a transaction. It is used on
// standalone MongoDB servers, where every write touches a single document.
func NewDirectTxManager() TxManager {
	return directTxManager{}
}

func (directTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
