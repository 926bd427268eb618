// -----------------------------------------------------------------------------
// Database Types - SQL Builder İçin Yardımcı Tipler
// -----------------------------------------------------------------------------
// Bu dosya, QueryBuilder'ın kullandığı internal struct tiplerini içerir.
// WhereClause, JoinClause, OrderClause ve bind edilecek değerlerin kapalı
// (sealed) Value ailesi burada tanımlanır.
//
// Value ailesi bir sum type gibi davranır: Grammar katmanı değerin şeklini
// runtime'da tahmin etmek yerine type switch ile her varyantı açıkça ele alır.
// -----------------------------------------------------------------------------

package database

import (
	"reflect"
)

// Value, builder'a verilen her değerin kapalı varyant ailesidir.
//
// Varyantlar:
//   - ScalarValue: Tek bir değer, placeholder (?) olarak bağlanır
//   - NullValue: SQL NULL
//   - AbsentValue: "Değer yok"; koşul sadece ifade olarak yazılır
//   - ListValue: Değer listesi (IN, BETWEEN, raw fragment bind'leri)
//   - Increment: kolon+delta / kolon-delta
//   - RawFunc: Ham SQL ifadesi (NOW(), kendi bind parametreleri ile)
//   - Negate: !kolon
//   - SubQueryValue: Alt sorgu olarak işaretlenmiş başka bir builder
type Value interface {
	isValue()
}

// ScalarValue, tek bir bind değeridir.
type ScalarValue struct {
	V any
}

// NullValue, SQL NULL karşılaştırmasını temsil eder.
type NullValue struct{}

// AbsentValue, koşul için hiç değer verilmediğini belirtir.
type AbsentValue struct{}

// ListValue, sıralı bir değer listesidir.
type ListValue struct {
	Items []any
}

// Increment, kolonun kendi değeri üzerinden artırılmasını/azaltılmasını temsil eder.
// Delta işaretiyle birlikte tutulur ("+2", "-1").
type Increment struct {
	Delta string
}

// RawFunc, olduğu gibi yazılacak bir SQL ifadesidir.
type RawFunc struct {
	Expr   string
	Params []any
}

// Negate, "!kolon" ifadesidir. Column boşsa atandığı kolon kullanılır.
type Negate struct {
	Column string
}

// SubQueryValue, alt sorgu builder'ına geçici bir referanstır.
// Render sırasında alt sorgunun metni ve bind'leri kopyalanır.
type SubQueryValue struct {
	Builder *QueryBuilder
}

func (ScalarValue) isValue()   {}
func (NullValue) isValue()     {}
func (AbsentValue) isValue()   {}
func (ListValue) isValue()     {}
func (Increment) isValue()     {}
func (RawFunc) isValue()       {}
func (Negate) isValue()        {}
func (SubQueryValue) isValue() {}

// Null ve NoValue, sık kullanılan varyantlar için kısayollardır.
var (
	Null    Value = NullValue{}
	NoValue Value = AbsentValue{}
)

// List, verilen değerlerden bir ListValue oluşturur.
func List(items ...any) Value {
	return ListValue{Items: items}
}

// valueOf, dışarıdan gelen any değeri kapalı Value ailesine dönüştürür.
//
// Dönüşüm kuralları:
//   - nil → NullValue
//   - Value → olduğu gibi
//   - *QueryBuilder → SubQueryValue
//   - []byte (ve isimli byte slice'lar) → ScalarValue (binary)
//   - slice/array → ListValue
//   - diğerleri → ScalarValue
func valueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return NullValue{}
	case Value:
		return t
	case *QueryBuilder:
		return SubQueryValue{Builder: t}
	case []byte:
		return ScalarValue{V: t}
	case []any:
		return ListValue{Items: t}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return ScalarValue{V: v}
	}
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return ListValue{Items: items}
	}
	return ScalarValue{V: v}
}

// OrderDirection, ORDER BY için izin verilen yönleri temsil eder.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// OrderClause, bir ORDER BY ifadesini temsil eder.
//
// Alanlar:
//   - Field: Temizlenmiş (sanitize edilmiş) sıralama ifadesi; FIELD(...) veya
//     REGEXP eklentisi varsa onları da içerir
//   - Direction: Sıralama yönü (sadece ASC veya DESC olabilir)
type OrderClause struct {
	Field     string
	Direction OrderDirection
}

// WhereClause, WHERE/HAVING/JOIN koşul listesindeki tek bir kaydı temsil eder.
//
// Alanlar:
//   - Boolean: Önceki koşulla bağlantı ("", "AND", "OR"); listenin ilk kaydı boştur
//   - Column: Kolon adı veya ham ifade (örn: "u.id", "DATE(created_at)", "id = ?")
//   - Operator: Karşılaştırma operatörü (=, IN, BETWEEN, EXISTS, ...)
//   - Value: Bağlanacak değer
type WhereClause struct {
	Boolean  string
	Column   string
	Operator string
	Value    Value
}

// JoinType, JOIN tiplerini temsil eder. Boş değer düz "JOIN" demektir.
type JoinType string

const (
	PlainJoin      JoinType = ""
	LeftJoin       JoinType = "LEFT"
	RightJoin      JoinType = "RIGHT"
	OuterJoin      JoinType = "OUTER"
	InnerJoin      JoinType = "INNER"
	LeftOuterJoin  JoinType = "LEFT OUTER"
	RightOuterJoin JoinType = "RIGHT OUTER"
	NaturalJoin    JoinType = "NATURAL"
)

var allowedJoinTypes = map[JoinType]bool{
	PlainJoin:      true,
	LeftJoin:       true,
	RightJoin:      true,
	OuterJoin:      true,
	InnerJoin:      true,
	LeftOuterJoin:  true,
	RightOuterJoin: true,
	NaturalJoin:    true,
}

// JoinClause, bir JOIN ifadesini temsil eder.
//
// Alanlar:
//   - Type: JOIN tipi
//   - Table: Prefix uygulanmış tablo ifadesi (örn: "orders o"); SubQuery doluysa boştur
//   - SubQuery: Alt sorgu hedefi
//   - Condition: ON koşulu veya "USING (...)" ifadesi
//
// Örnek Kullanım:
//
//	JoinClause{Type: LeftJoin, Table: "orders o", Condition: "o.user_id = u.id"}
//	→ SQL: LEFT JOIN orders o ON o.user_id = u.id
type JoinClause struct {
	Type      JoinType
	Table     string
	SubQuery  *QueryBuilder
	Condition string

	// Name, Join'e verilen öneksiz tablo ifadesidir.
	Name string
}

// key, JoinWhere koşullarının eşleştirildiği anahtarı döndürür.
// Tablo hedeflerinde öneksiz tablo ifadesi, alt sorgu hedeflerinde alias kullanılır.
func (j JoinClause) key() string {
	if j.SubQuery != nil {
		return j.SubQuery.alias
	}
	return j.Name
}

// LockMode, LOCK TABLES için kilit tipidir.
type LockMode string

const (
	LockRead  LockMode = "READ"
	LockWrite LockMode = "WRITE"
)

// Sorgu seçenekleri (SELECT/INSERT modifier'ları).
const (
	OptionAll             = "ALL"
	OptionDistinct        = "DISTINCT"
	OptionDistinctRow     = "DISTINCTROW"
	OptionHighPriority    = "HIGH_PRIORITY"
	OptionStraightJoin    = "STRAIGHT_JOIN"
	OptionSmallResult     = "SQL_SMALL_RESULT"
	OptionBigResult       = "SQL_BIG_RESULT"
	OptionBufferResult    = "SQL_BUFFER_RESULT"
	OptionCache           = "SQL_CACHE"
	OptionNoCache         = "SQL_NO_CACHE"
	OptionCalcFoundRows   = "SQL_CALC_FOUND_ROWS"
	OptionLowPriority     = "LOW_PRIORITY"
	OptionIgnore          = "IGNORE"
	OptionQuick           = "QUICK"
	OptionNestJoin        = "NESTJOIN"
	OptionForUpdate       = "FOR UPDATE"
	OptionLockInShareMode = "LOCK IN SHARE MODE"
)

// optionAliases, seçeneklerin kabul edilen alternatif yazımlarıdır.
var optionAliases = map[string]string{
	"MYSQLI_NESTJOIN": OptionNestJoin,
}

var allowedOptions = map[string]bool{
	OptionAll:             true,
	OptionDistinct:        true,
	OptionDistinctRow:     true,
	OptionHighPriority:    true,
	OptionStraightJoin:    true,
	OptionSmallResult:     true,
	OptionBigResult:       true,
	OptionBufferResult:    true,
	OptionCache:           true,
	OptionNoCache:         true,
	OptionCalcFoundRows:   true,
	OptionLowPriority:     true,
	OptionIgnore:          true,
	OptionQuick:           true,
	OptionNestJoin:        true,
	OptionForUpdate:       true,
	OptionLockInShareMode: true,
}

// Pair, INSERT/UPDATE verisindeki tek bir kolon → değer eşlemesidir.
type Pair struct {
	Column string
	Value  any
}

// Data, sıralı kolon → değer listesidir. Kolon sırası SQL'e aynen yansır.
//
// Örnek:
//
//	database.Data{{"name", "Ada"}, {"visits", qb.Inc(1)}}
type Data []Pair

// Get, verilen kolonun değerini döndürür.
func (d Data) Get(column string) (any, bool) {
	for _, p := range d {
		if p.Column == column {
			return p.Value, true
		}
	}
	return nil, false
}

// Columns, kolon adlarını sırasıyla döndürür.
func (d Data) Columns() []string {
	cols := make([]string, len(d))
	for i, p := range d {
		cols[i] = p.Column
	}
	return cols
}

// insertedValue, ON DUPLICATE KEY UPDATE'te INSERT değerinin tekrar
// kullanılacağını belirten işarettir.
type insertedValue struct{}

// Inserted, OnDuplicate içinde "INSERT'te verilen değeri kullan" anlamına gelir.
//
// Örnek:
//
//	qb.OnDuplicate(database.Data{{"name", database.Inserted}, {"hits", qb.Inc(1)}})
var Inserted = insertedValue{}
