// pkg/database/transaction.go
//
// Transaction boundary'leri builder'ın sorumluluğunda değildir; bu dosya
// uygulamanın aynı bağlantı üzerinde birden fazla Statement çalıştırmasını
// sağlayan ince bir sarmalayıcıdır. SELECT ... FOR UPDATE ve
// LOCK IN SHARE MODE ifadeleri ancak bir transaction içinde anlamlıdır.
//
// Örnek kullanım:
//
//   tx, _ := database.BeginTransaction(ctx, db, logger)
//   exec := tx.Executor()
//   stmt, _ := qb.Where("id", "=", 1).SelectForUpdate(true).Get("accounts")
//   rows, err := exec.Query(ctx, stmt)
//   ...
//   tx.Commit()
//
// Eğer işlem sırasında hata olursa:
//   tx.Rollback()

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Transaction
//
// Veritabanı transaction yapısını temsil eder.
// sql.Tx nesnesini saklar ve commit/rollback operasyonlarını
// daha okunabilir bir API ile gerçekleştirir.
type Transaction struct {
	Tx     *sql.Tx
	logger Logger
}

// BeginTransaction
//
// Yeni bir veritabanı transaction'ı başlatır.
//
// Dönen Transaction yapısı mutlaka `Commit()` veya `Rollback()`
// ile sonlandırılmalıdır.
func BeginTransaction(ctx context.Context, db *sql.DB, logger Logger) (*Transaction, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	logger.Printf("🔄 Transaction başladı.")
	return &Transaction{Tx: tx, logger: logger}, nil
}

// Executor, transaction'a bağlı yeni bir Executor oluşturur.
func (t *Transaction) Executor(opts ...ExecutorOption) *Executor {
	return NewExecutor(t.Tx, append([]ExecutorOption{WithLogger(t.logger)}, opts...)...)
}

// Commit, transaction'ı başarılı şekilde sonlandırır.
func (t *Transaction) Commit() error {
	err := t.Tx.Commit()
	if err == nil {
		t.logger.Printf("✅ Transaction commit edildi.")
	}
	return err
}

// Rollback, yapılmış tüm değişiklikleri geri alır.
func (t *Transaction) Rollback() error {
	err := t.Tx.Rollback()
	if err == nil {
		t.logger.Printf("❌ Transaction geri alındı.")
	}
	return err
}

// WithTransaction, fn'i tek bir transaction içinde çalıştırır. fn hata
// döndürürse ya da panic olursa transaction geri alınır, aksi halde commit
// edilir. Panic geri alındıktan sonra yeniden fırlatılır.
func WithTransaction(ctx context.Context, db *sql.DB, logger Logger, fn func(tx *Transaction) error) (err error) {
	tx, err := BeginTransaction(ctx, db, logger)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
