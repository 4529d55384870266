package persistence

import (
	"context"
	"errors"

	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

var ErrNoActiveTransaction = errors.New("no active transaction")

// UnitOfWork 工作单元接口
// 事务通过 context 传播，仓储实现从 context 中取出事务句柄加入同一事务。
type UnitOfWork interface {
	// WithinTx 在单个事务中执行 fn，fn 返回错误则回滚。
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Begin 显式开启事务，返回携带事务的 context。
	Begin(ctx context.Context) (context.Context, error)
	// Commit 提交 Begin 开启的事务。
	Commit(ctx context.Context) error
	// Rollback 回滚 Begin 开启的事务。
	Rollback(ctx context.Context) error
	// InTransaction 当前 context 是否处于事务中。
	InTransaction(ctx context.Context) bool
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork 创建基于 gorm 的工作单元。
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

func (u *gormUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return ctx, tx.Error
	}
	return contextx.WithTx(ctx, tx), nil
}

func (u *gormUnitOfWork) Commit(ctx context.Context) error {
	tx, ok := contextx.GetTx(ctx).(*gorm.DB)
	if !ok || tx == nil {
		return ErrNoActiveTransaction
	}
	return tx.Commit().Error
}

func (u *gormUnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := contextx.GetTx(ctx).(*gorm.DB)
	if !ok || tx == nil {
		return ErrNoActiveTransaction
	}
	return tx.Rollback().Error
}

func (u *gormUnitOfWork) InTransaction(ctx context.Context) bool {
	tx, ok := contextx.GetTx(ctx).(*gorm.DB)
	return ok && tx != nil
}

// TxFrom 返回 context 中的事务，没有则返回兜底连接。
// 仓储实现统一通过本函数取得执行句柄。
func TxFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback
}
