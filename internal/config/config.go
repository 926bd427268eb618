// -----------------------------------------------------------------------------
// Config Package
// -----------------------------------------------------------------------------
// Bu dosya, sqlassemble aracının merkezi konfigürasyon yönetimini sağlar.
// Ortam değişkenleri (varsa önce .env dosyası yüklenerek) okunur ve
// veritabanı, tablo öneki, statement journal ve rate limit ayarları tip
// güvenli bir yapıda taşınır.
//
// Eksik ortam değişkenleri olduğunda log üzerinden uyarı verilir ve default
// değerler kullanılır.
// -----------------------------------------------------------------------------

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config, sqlassemble'ın çalışma zamanı ayarlarını gruplar.
//
//   - App: ad ve ortam
//   - DB: bağlantı havuzu ve builder'a verilen tablo öneki
//   - Journal: çalıştırılan ifadelerin kayıt ayarları
//   - Redis: journal driver'ı redis ise kullanılan bağlantı
//   - RateLimit: executor throttle ayarları
type Config struct {
	App struct {
		Name string
		Env  string // development, production, test
	}

	DB struct {
		DSN             string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
		TablePrefix     string // builder instance'ına verilir, global değildir
	}

	Journal struct {
		Driver string // memory, redis, none
		Size   int    // tutulacak maksimum kayıt
		Key    string // redis liste anahtarı
	}

	Redis struct {
		Host     string
		Port     int
		Password string
		DB       int
	}

	RateLimit struct {
		Enabled   bool
		PerSecond float64 // saniyedeki ifade sayısı
		Burst     int
	}
}

// envReader, ortam değişkenlerini tipli olarak okur. Tanımsız anahtarlar
// missing listesinde toplanır, hatalı değerler tek tek loglanır.
type envReader struct {
	missing []string
}

// lookup, key değerini parse ile çevirir; değer yoksa ya da çevrilemezse
// fallback döner.
func lookup[T any](r *envReader, key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		r.missing = append(r.missing, key)
		return fallback
	}

	v, err := parse(raw)
	if err != nil {
		log.Printf("⚠️  %s=%q okunamadı (%v), %v kullanılıyor.", key, raw, err, fallback)
		return fallback
	}
	return v
}

func (r *envReader) getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	r.missing = append(r.missing, key)
	return fallback
}

func (r *envReader) getInt(key string, fallback int) int {
	return lookup(r, key, fallback, strconv.Atoi)
}

func (r *envReader) getFloat(key string, fallback float64) float64 {
	return lookup(r, key, fallback, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func (r *envReader) getBool(key string, fallback bool) bool {
	return lookup(r, key, fallback, strconv.ParseBool)
}

// getSeconds, saniye cinsinden verilen değeri time.Duration'a çevirir.
func (r *envReader) getSeconds(key string, fallback int) time.Duration {
	return time.Duration(r.getInt(key, fallback)) * time.Second
}

// Load, (varsa) .env dosyasını yükler ve ortamdan Config üretir. files
// verilmezse çalışma dizinindeki .env denenir. Tanımlı ortam değişkenleri
// .env tarafından ezilmez.
//
//	cfg := config.Load()
//	qb := database.NewBuilder(database.Config{Prefix: cfg.DB.TablePrefix})
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil {
		log.Printf("ℹ️  .env dosyası yüklenemedi (%v), sistem ortam değişkenleri kullanılıyor.", err)
	}

	env := &envReader{}
	cfg := &Config{}

	cfg.App.Name = env.getString("APP_NAME", "sqlassemble")
	cfg.App.Env = env.getString("APP_ENV", "development")

	cfg.DB.DSN = env.getString("DB_DSN", "root:password@tcp(127.0.0.1:3306)/app")
	cfg.DB.MaxOpenConns = env.getInt("DB_MAX_OPEN_CONNS", 25)
	cfg.DB.MaxIdleConns = env.getInt("DB_MAX_IDLE_CONNS", 25)
	cfg.DB.ConnMaxLifetime = env.getSeconds("DB_CONN_MAX_LIFETIME", 300)
	cfg.DB.TablePrefix = env.getString("DB_TABLE_PREFIX", "")

	cfg.Journal.Driver = env.getString("JOURNAL_DRIVER", "memory")
	cfg.Journal.Size = env.getInt("JOURNAL_SIZE", 100)
	cfg.Journal.Key = env.getString("JOURNAL_KEY", "sqlassemble:journal")

	cfg.Redis.Host = env.getString("REDIS_HOST", "127.0.0.1")
	cfg.Redis.Port = env.getInt("REDIS_PORT", 6379)
	cfg.Redis.Password = env.getString("REDIS_PASSWORD", "")
	cfg.Redis.DB = env.getInt("REDIS_DB", 0)

	cfg.RateLimit.Enabled = env.getBool("RATE_LIMIT_ENABLED", false)
	cfg.RateLimit.PerSecond = env.getFloat("RATE_LIMIT_PER_SECOND", 50)
	cfg.RateLimit.Burst = env.getInt("RATE_LIMIT_BURST", 10)

	if len(env.missing) > 0 {
		log.Printf("⚠️  Tanımsız ortam değişkenleri varsayılanla dolduruldu: %s", strings.Join(env.missing, ", "))
	}

	if err := cfg.Validate(); err != nil {
		log.Printf("❌ Config geçersiz: %v", err)
	}

	return cfg
}

// Validate, birbirine bağlı ayarları kontrol eder. Production'da memory
// journal kullanımı hata değil, uyarıdır.
func (c *Config) Validate() error {
	switch c.Journal.Driver {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("geçersiz JOURNAL_DRIVER: %s (memory, redis veya none olmalı)", c.Journal.Driver)
	}

	if c.RateLimit.Enabled && (c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND ve RATE_LIMIT_BURST pozitif olmalı")
	}

	if c.IsProduction() && c.Journal.Driver == "memory" {
		log.Println("⚠️  UYARI: Memory journal production ortamı için önerilmez!")
	}

	return nil
}

// IsProduction, APP_ENV=production ise true döner.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsDevelopment, APP_ENV=development ise true döner.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
