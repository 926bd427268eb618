// -----------------------------------------------------------------------------
// Redis Journal
// -----------------------------------------------------------------------------
// Kayıtlar JSON olarak bir Redis listesine yazılır (LPUSH), liste her yazımda
// kapasiteye kırpılır (LTRIM). Böylece birden fazla process aynı journal'ı
// paylaşabilir.
//
// Özellikler:
// - Connection pooling (go-redis)
// - Context timeout
// - Bounded list
// -----------------------------------------------------------------------------

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKey, journal listesinin varsayılan Redis anahtarıdır.
const DefaultKey = "sqlassemble:journal"

// RedisConfig, Redis bağlantı yapılandırması.
type RedisConfig struct {
	Host         string        // Redis sunucu adresi
	Port         int           // Redis port
	Password     string        // Redis şifresi (opsiyonel)
	DB           int           // Database numarası (0-15)
	PoolSize     int           // Connection pool boyutu
	MinIdleConns int           // Minimum idle connection sayısı
	DialTimeout  time.Duration // Bağlantı timeout süresi
	ReadTimeout  time.Duration // Okuma timeout süresi
	WriteTimeout time.Duration // Yazma timeout süresi
}

// DefaultRedisConfig, varsayılan Redis yapılandırması.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:         "127.0.0.1",
		Port:         6379,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewRedisClient, yeni bir Redis client oluşturur ve bağlantıyı test eder.
//
// Örnek:
//
//	client, err := journal.NewRedisClient(journal.DefaultRedisConfig(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
func NewRedisClient(config *RedisConfig, logger *log.Logger) (*redis.Client, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout+time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Printf("❌ Redis bağlantı hatası: %v", err)
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Printf("✅ Redis bağlantısı başarılı: %s:%d (DB: %d)", config.Host, config.Port, config.DB)
	return client, nil
}

// RedisJournal, Redis listesi üzerinde çalışan journal driver'ıdır.
type RedisJournal struct {
	client redis.Cmdable
	logger *log.Logger
	key    string
	size   int64
}

// NewRedisJournal, yeni bir Redis journal oluşturur.
//
// Parametreler:
//   - client: redis.Client, redis.ClusterClient veya pipeline
//   - logger: Log instance
//   - key: Liste anahtarı (boşsa DefaultKey)
//   - size: Tutulacak maksimum kayıt (<= 0 ise DefaultSize)
func NewRedisJournal(client redis.Cmdable, logger *log.Logger, key string, size int) *RedisJournal {
	if key == "" {
		key = DefaultKey
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &RedisJournal{
		client: client,
		logger: logger,
		key:    key,
		size:   int64(size),
	}
}

// Record, kaydı listenin başına ekler ve listeyi kapasiteye kırpar.
func (r *RedisJournal) Record(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("json encode failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, r.key, data)
		pipe.LTrim(ctx, r.key, 0, r.size-1)
		return nil
	})
	if err != nil {
		r.logger.Printf("❌ Redis journal yazma hatası [%s]: %v", r.key, err)
		return fmt.Errorf("redis journal record failed: %w", err)
	}
	return nil
}

// Recent, en yeni kayıttan başlayarak en fazla n kayıt döndürür.
func (r *RedisJournal) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 || int64(n) > r.size {
		n = int(r.size)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	raw, err := r.client.LRange(ctx, r.key, 0, int64(n-1)).Result()
	if err != nil {
		r.logger.Printf("❌ Redis journal okuma hatası [%s]: %v", r.key, err)
		return nil, fmt.Errorf("redis journal read failed: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("json decode failed: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
