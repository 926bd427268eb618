// -----------------------------------------------------------------------------
// Database Connection
// -----------------------------------------------------------------------------
// Bu dosya, Executor'ın kullanacağı MySQL bağlantı havuzunu açan Connect
// fonksiyonunu içerir. DSN go-sql-driver/mysql ile parse edilir, gerekli
// varsayılanlar eklenir ve connector üzerinden *sql.DB oluşturulur.
//
// Bağlantı açmak builder'ın işi değildir; builder sadece metin üretir.
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ConnectionConfig, bağlantı havuzu ayarlarıdır.
type ConnectionConfig struct {
	DSN             string        // user:pass@tcp(host:3306)/dbname
	MaxOpenConns    int           // Maksimum açık bağlantı sayısı
	MaxIdleConns    int           // Maksimum idle bağlantı sayısı
	ConnMaxLifetime time.Duration // Bağlantı ömrü
}

// parseDSN, DSN'i parse eder ve zaman kolonlarının time.Time olarak
// okunması için ParseTime'ı açar.
func parseDSN(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg, nil
}

// Connect, verilen yapılandırma ile MySQL'e bağlanır ve *sql.DB döndürür.
// Bağlantı sırasında şu adımlar gerçekleştirilir:
//  1. DSN parse edilir ve connector oluşturulur.
//  2. Bağlantı havuzu için max open ve idle connection değerleri belirlenir.
//  3. db.PingContext ile veritabanının ulaşılabilirliği kontrol edilir.
//  4. Hata varsa connection kapatılır ve error döner.
func Connect(cfg ConnectionConfig, logger Logger) (*sql.DB, error) {
	mcfg, err := parseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 25
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.Printf("Veritabanına bağlanılıyor: %s@%s/%s", mcfg.User, mcfg.Addr, mcfg.DBName)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping failed: %w", err)
	}

	logger.Printf("✅ Veritabanı bağlantısı başarılı!")
	return db, nil
}
