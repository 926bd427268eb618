package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/biyonik/query-assembler/pkg/journal"
)

/*
*
// QueryExecutor, Go'nun 'database/sql' paketindeki
// hem *sql.DB (havuz) hem de *sql.Tx (transaction) tarafından
// örtük olarak uygulanan metodları tanımlayan bir arayüzdür.
//
// Executor *sql.DB'ye kilitlenmek yerine bu arayüze kilitlenir.
// Bu, aynı Statement'ın hem normal bağlantıda hem de
// transaction içinde çalışabilmesini sağlar.
*/
type QueryExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Logger, executor'ın kullandığı minimal log arayüzüdür (*log.Logger uyumlu).
type Logger interface {
	Printf(format string, v ...any)
}

// Result, yazma ifadelerinin sonucudur.
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Executor, builder'ın ürettiği Statement'ları çalıştıran collaborator'dır.
// Builder executor'ı asla kendisi çağırmaz; uygulama Statement'ı buraya verir.
type Executor struct {
	db      QueryExecutor
	logger  Logger
	journal journal.Journal
	limiter *rate.Limiter
	verbose bool
}

// ExecutorOption, Executor için fonksiyonel seçenektir.
type ExecutorOption func(*Executor)

// WithLogger, log çıktısının yazılacağı logger'ı belirler.
func WithLogger(logger Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithJournal, çalıştırılan her ifadenin kaydedileceği journal'ı belirler.
func WithJournal(j journal.Journal) ExecutorOption {
	return func(e *Executor) {
		if j != nil {
			e.journal = j
		}
	}
}

// WithRateLimit, saniyede en fazla perSecond ifade (burst kadar ani artış) çalıştırır.
func WithRateLimit(perSecond float64, burst int) ExecutorOption {
	return func(e *Executor) {
		if perSecond > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithVerbose, her ifadenin debug gösterimini loglar.
func WithVerbose(verbose bool) ExecutorOption {
	return func(e *Executor) {
		e.verbose = verbose
	}
}

// NewExecutor, yeni bir Executor oluşturur.
//
// Örnek:
//
//	exec := database.NewExecutor(db, database.WithJournal(journal.NewMemoryJournal(50)))
//	stmt, _ := qb.Where("id", "=", 1).Get("users")
//	rows, err := exec.Query(ctx, stmt)
func NewExecutor(db QueryExecutor, opts ...ExecutorOption) *Executor {
	e := &Executor{
		db:      db,
		logger:  log.Default(),
		journal: journal.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Query, okuma ifadesini çalıştırır ve satırları kolon → değer map'lerine çevirir.
func (e *Executor) Query(ctx context.Context, stmt *Statement) ([]map[string]any, error) {
	var result []map[string]any
	err := e.run(ctx, stmt, func() error {
		rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		result, err = rowsToMaps(rows)
		return err
	})
	return result, err
}

// Exec, yazma ifadesini (INSERT, UPDATE, DELETE, LOCK TABLES...) çalıştırır.
func (e *Executor) Exec(ctx context.Context, stmt *Statement) (Result, error) {
	var result Result
	err := e.run(ctx, stmt, func() error {
		res, err := e.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return err
		}
		// Bazı driver'lar bu değerleri desteklemez; hata sonucu geçersiz kılmaz.
		result.RowsAffected, _ = res.RowsAffected()
		result.LastInsertID, _ = res.LastInsertId()
		return nil
	})
	return result, err
}

// run, rate limit + zamanlama + log + journal adımlarını sarar.
func (e *Executor) run(ctx context.Context, stmt *Statement, fn func() error) error {
	if stmt == nil || stmt.SQL == "" {
		return ErrEmptyStatement
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	if err != nil {
		e.logger.Printf("❌ SQL hatası [%s] %s: %v", stmt.Types, stmt.Debug(), err)
	} else if e.verbose {
		e.logger.Printf("🔎 SQL [%s] %s (%s)", stmt.Types, stmt.Debug(), elapsed)
	}

	entry := journal.Entry{
		SQL:        stmt.SQL,
		Types:      stmt.Types,
		ArgCount:   len(stmt.Args),
		Debug:      stmt.Debug(),
		Options:    stmt.Options,
		Duration:   elapsed,
		ExecutedAt: start,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if jerr := e.journal.Record(ctx, entry); jerr != nil {
		e.logger.Printf("⚠️  Journal kaydı yazılamadı: %v", jerr)
	}

	return err
}
