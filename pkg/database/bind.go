package database

import (
	"reflect"
	"strings"
)

// -----------------------------------------------------------------------------
// BIND REGISTER
// -----------------------------------------------------------------------------
// Bindings, placeholder (?) ↔ değer eşlemesinin tek doğruluk kaynağıdır.
// Her değer eklenirken yanına bir tip karakteri yazılır:
//
//	s → string / nil
//	i → bool / tamsayı
//	b → binary ([]byte)
//	d → ondalıklı sayı
//
// Değerler SQL metnine asla gömülmez, sadece placeholder'lar yazılır.
// Bu yüzden burada SQL injection kontrolü yapılmaz.
// -----------------------------------------------------------------------------

// Bindings, sıralı bind değerlerini ve paralel tip imzasını tutar.
type Bindings struct {
	types  strings.Builder
	values []any
}

// Append, tek bir değeri ve çıkarılan tip karakterini ekler.
func (b *Bindings) Append(value any) {
	b.types.WriteByte(TypeOf(value))
	b.values = append(b.values, value)
}

// AppendAll, değerleri sırasıyla Append eder.
func (b *Bindings) AppendAll(values []any) {
	for _, v := range values {
		b.Append(v)
	}
}

// Len, kayıtlı değer sayısını döndürür.
func (b *Bindings) Len() int {
	return len(b.values)
}

// Types, tip imzasını döndürür (örn: "sid").
func (b *Bindings) Types() string {
	return b.types.String()
}

// Values, kayıtlı değerlerin bir kopyasını döndürür.
func (b *Bindings) Values() []any {
	out := make([]any, len(b.values))
	copy(out, b.values)
	return out
}

// SnapshotAndClear, kayıtlı diziyi döndürür ve register'ı boşaltır.
func (b *Bindings) SnapshotAndClear() (string, []any) {
	types, values := b.types.String(), b.values
	if values == nil {
		values = []any{}
	}
	b.types.Reset()
	b.values = nil
	return types, values
}

// TypeOf, bir değerin bind tip karakterini döndürür.
// İsimli tipler (type userID int64 gibi) alttaki kind'a göre sınıflanır.
// Tanınmayan tipler (time.Time vb.) driver tarafından string'e çevrileceği için 's' alır.
func TypeOf(value any) byte {
	switch value.(type) {
	case nil, string:
		return 's'
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return 'i'
	case []byte:
		return 'b'
	case float32, float64:
		return 'd'
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return 'i'
	case reflect.Float32, reflect.Float64:
		return 'd'
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return 'b'
		}
	}
	return 's'
}
