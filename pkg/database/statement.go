// -----------------------------------------------------------------------------
// Compiled Statement & Debug Renderer
// -----------------------------------------------------------------------------
// Her terminal çağrı (Get, Insert, Update, Delete, LockTable...) değişmez bir
// Statement üretir: placeholder'lı SQL metni, sıralı bind değerleri, tip imzası
// ve kullanılan sorgu seçenekleri.
//
// Debug() çıktısı sadece loglama içindir. Değerler metne gömülür ve escape
// garantisi yoktur; bu çıktı ASLA executor'a verilmemelidir.
// -----------------------------------------------------------------------------

package database

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Statement, derlenmiş ve çalıştırılmaya hazır bir SQL ifadesidir.
type Statement struct {
	SQL      string   // Placeholder'lı SQL metni
	Args     []any    // Placeholder sırasıyla bind değerleri
	Types    string   // Args ile 1:1 tip imzası (s, i, b, d)
	Options  []string // Kullanılan sorgu seçenekleri (DISTINCT, IGNORE, ...)
	NestJoin bool     // NESTJOIN işareti verildi mi
}

// Debug, bind değerlerini placeholder'ların yerine yazarak okunabilir bir SQL döndürür.
func (s *Statement) Debug() string {
	if s == nil {
		return ""
	}
	return Interpolate(s.SQL, s.Args)
}

// String, Debug() ile aynıdır; log.Printf("%s", stmt) kullanımı içindir.
func (s *Statement) String() string {
	return s.Debug()
}

// Interpolate, SQL metnini soldan sağa tarar ve her '?' karakterini sıradaki
// değerle değiştirir. Tırnak içindeki '?' karakterlerine dokunmaz.
// Değer sayısı placeholder'lardan azsa kalan '?' karakterleri olduğu gibi kalır.
//
// Örnek:
//
//	Interpolate("SELECT * FROM users WHERE id = ? AND name = ?", []any{5, "ada"})
//	→ SELECT * FROM users WHERE id = 5 AND name = 'ada'
func Interpolate(query string, args []any) string {
	if len(args) == 0 {
		return query
	}

	var (
		out   strings.Builder
		quote byte
		next  int
	)
	out.Grow(len(query) + len(args)*8)

	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?' && next < len(args):
			out.WriteString(debugLiteral(args[next]))
			next++
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}

// debugLiteral, tek bir bind değerinin log gösterimini üretir.
func debugLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(t, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(t), "'", "''") + "'"
	case bool:
		if t {
			return "1"
		}
		return "0"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return "'" + t.Format("2006-01-02 15:04:05") + "'"
	case fmt.Stringer:
		return "'" + strings.ReplaceAll(t.String(), "'", "''") + "'"
	}

	// İsimli skaler tipler
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return debugLiteral(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.String:
		return debugLiteral(rv.String())
	}
	return "[object]"
}
