// -----------------------------------------------------------------------------
// Statement Journal Interface
// -----------------------------------------------------------------------------
// Executor tarafından çalıştırılan her SQL ifadesinin kaydını tutar. Kayıtlar
// debugging ve audit içindir; sorgu sonuçları burada SAKLANMAZ.
//
// Driver'lar: Memory (ring buffer), Redis (LPUSH + LTRIM listesi)
// -----------------------------------------------------------------------------

package journal

import (
	"context"
	"time"
)

// Entry, çalıştırılmış tek bir ifadenin kaydıdır.
type Entry struct {
	SQL        string        `json:"sql"`             // Placeholder'lı metin
	Types      string        `json:"types"`           // Bind tip imzası
	ArgCount   int           `json:"arg_count"`       // Bind değeri sayısı
	Debug      string        `json:"debug"`           // Değerleri gömülmüş gösterim (sadece log)
	Options    []string      `json:"options,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	ExecutedAt time.Time     `json:"executed_at"`
}

// Journal, tüm journal driver'larının implement ettiği interface.
type Journal interface {
	// Record, bir kaydı ekler. Kapasite doluysa en eski kayıt düşer.
	Record(ctx context.Context, entry Entry) error

	// Recent, en yeni kayıttan başlayarak en fazla n kayıt döndürür.
	Recent(ctx context.Context, n int) ([]Entry, error)
}

// Nop, hiçbir şey kaydetmeyen journal'dır (JOURNAL_DRIVER=none).
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }
func (Nop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
