package journal

import (
	"context"
	"sync"
)

// -----------------------------------------------------------------------------
// Memory Journal
// -----------------------------------------------------------------------------
// Sabit kapasiteli ring buffer. Process restart'ında kayıtlar kaybolur;
// development ve test ortamları için uygundur.
// -----------------------------------------------------------------------------

// DefaultSize, kapasite verilmediğinde kullanılan kayıt sayısıdır.
const DefaultSize = 100

// MemoryJournal, thread-safe bir in-memory journal'dır.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewMemoryJournal, verilen kapasite ile yeni bir journal oluşturur.
func NewMemoryJournal(size int) *MemoryJournal {
	if size <= 0 {
		size = DefaultSize
	}
	return &MemoryJournal{entries: make([]Entry, size)}
}

// Record, kaydı ring buffer'a yazar.
func (m *MemoryJournal) Record(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[m.next] = entry
	m.next = (m.next + 1) % len(m.entries)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Recent, en yeniden eskiye doğru en fazla n kayıt döndürür.
func (m *MemoryJournal) Recent(_ context.Context, n int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := m.next
	if m.full {
		count = len(m.entries)
	}
	if n <= 0 || n > count {
		n = count
	}

	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (m.next - i + len(m.entries)) % len(m.entries)
		out = append(out, m.entries[idx])
	}
	return out, nil
}
