package database

import (
	"context"

	trmgorm "github.com/avito-tech/go-transaction-manager/drivers/gorm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"gorm.io/gorm"
)

// TransactionManagerInterface runs fn inside a transaction carried by the context.
// Nested calls join the outer transaction.
type TransactionManagerInterface interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type TransactionManager struct {
	manager *manager.Manager
}

func NewTransactionManager(db *gorm.DB) (*TransactionManager, error) {
	trManager, err := manager.New(trmgorm.NewDefaultFactory(db))
	if err != nil {
		return nil, err
	}

	return &TransactionManager{manager: trManager}, nil
}

func (tm *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.manager.Do(ctx, fn)
}

// Conn returns the transaction stored in ctx, or db when there is none
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	return trmgorm.DefaultCtxGetter.DefaultTrOrDB(ctx, db).WithContext(ctx)
}
