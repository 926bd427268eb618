package database

import (
	"fmt"
	"regexp"
	"strings"
)

// -----------------------------------------------------------------------------
// QUERY BUILDER: TEMEL
// -----------------------------------------------------------------------------
// Bu dosya, QueryBuilder'ın ana gövdesini içerir. Builder; join'ler, where'lar,
// having'ler, group/order, limit ve sorgu seçenekleri gibi state bilgilerini
// biriktirir. Terminal çağrılar (Get, Insert, Replace, Update, Delete,
// LockTable, UnlockTable) state'i Grammar katmanına verip değişmez bir
// Statement üretir, ardından builder'ı sıfırlar.
//
// Yaşam döngüsü:
//
//	Idle → (Where/Join/OrderBy...) → Accumulating → (Get/Insert...) → Built → Reset → Idle
//
// Builder thread-safe DEĞİLDİR. Bir instance, terminal çağrıya kadar tek bir
// goroutine tarafından kullanılmalıdır.
//
// Hata Yönetimi:
// Zincirleme metodlar hata döndüremez; ilk doğrulama hatası builder üzerinde
// saklanır ve terminal çağrı bu hatayı döndürür (yarım statement üretilmez).
// -----------------------------------------------------------------------------

// Config, builder'ın instance seviyesindeki ayarlarıdır.
//
// Alanlar:
//   - Prefix: Tablo adlarının başına eklenecek önek (örn: "app_")
//   - Grammar: SQL lehçesi; nil ise MySQLGrammar kullanılır
type Config struct {
	Prefix  string
	Grammar Grammar
}

// QueryBuilder, tek bir SQL ifadesinin biriktirme state'ini tutar.
type QueryBuilder struct {
	grammar Grammar
	prefix  string

	isSubQuery bool
	alias      string

	joins         []JoinClause
	joinWheres    map[string][]WhereClause
	wheres        []WhereClause
	havings       []WhereClause
	groups        []string
	orders        []OrderClause
	options       []string
	limit         int
	offset        int
	hasLimit      bool
	updateColumns Data

	nestJoin        bool
	forUpdate       bool
	lockInShareMode bool
	lockMode        LockMode

	err  error
	last *Statement
}

// NewBuilder, verilen yapılandırma ile yeni bir QueryBuilder üretir.
//
// Örnek:
//
//	qb := database.NewBuilder(database.Config{Prefix: "app_"})
//	stmt, err := qb.Where("id", "=", 1).Get("users")
func NewBuilder(cfg Config) *QueryBuilder {
	grammar := cfg.Grammar
	if grammar == nil {
		grammar = NewMySQLGrammar()
	}
	return &QueryBuilder{
		grammar:  grammar,
		prefix:   cfg.Prefix,
		lockMode: LockRead,
	}
}

// SetPrefix, bu instance'ın tablo önekini değiştirir.
// Önek process-wide değildir; diğer builder'ları etkilemez.
func (qb *QueryBuilder) SetPrefix(prefix string) *QueryBuilder {
	qb.prefix = prefix
	return qb
}

// Prefix, instance'ın tablo önekini döndürür.
func (qb *QueryBuilder) Prefix() string {
	return qb.prefix
}

// Err, biriktirme sırasında kaydedilen ilk hatayı döndürür.
func (qb *QueryBuilder) Err() error {
	return qb.err
}

func (qb *QueryBuilder) setErr(err error) {
	if qb.err == nil {
		qb.err = err
	}
}

// -----------------------------------------------------------------------------
// SORGU SEÇENEKLERİ
// -----------------------------------------------------------------------------

// SetQueryOption, SELECT/INSERT modifier'larını ekler (case-insensitive).
//
// FOR UPDATE, LOCK IN SHARE MODE ve NESTJOIN literal token olarak tutulmaz,
// ayrı bayraklara çevrilir.
//
// Örnek:
//
//	qb.SetQueryOption("distinct", "SQL_NO_CACHE")
func (qb *QueryBuilder) SetQueryOption(options ...string) *QueryBuilder {
	for _, option := range options {
		opt := strings.ToUpper(strings.TrimSpace(option))
		if alias, ok := optionAliases[opt]; ok {
			opt = alias
		}
		if !allowedOptions[opt] {
			qb.setErr(fmt.Errorf("%w: %q", ErrInvalidQueryOption, option))
			return qb
		}

		switch opt {
		case OptionNestJoin:
			qb.nestJoin = true
		case OptionForUpdate:
			qb.forUpdate = true
		case OptionLockInShareMode:
			qb.lockInShareMode = true
		default:
			if !containsString(qb.options, opt) {
				qb.options = append(qb.options, opt)
			}
		}
	}
	return qb
}

// WithTotalCount, SQL_CALC_FOUND_ROWS seçeneğini ekler.
func (qb *QueryBuilder) WithTotalCount() *QueryBuilder {
	return qb.SetQueryOption(OptionCalcFoundRows)
}

// LockInShareMode, SELECT sonuna LOCK IN SHARE MODE ekler veya kaldırır (InnoDB).
func (qb *QueryBuilder) LockInShareMode(lock bool) *QueryBuilder {
	qb.lockInShareMode = lock
	return qb
}

// SelectForUpdate, SELECT sonuna FOR UPDATE ekler veya kaldırır (InnoDB).
func (qb *QueryBuilder) SelectForUpdate(lock bool) *QueryBuilder {
	qb.forUpdate = lock
	return qb
}

// SetLockTableMode, LockTable için kilit tipini belirler (READ veya WRITE).
// Mod, Reset sonrasında da korunur.
func (qb *QueryBuilder) SetLockTableMode(mode string) *QueryBuilder {
	m := LockMode(strings.ToUpper(strings.TrimSpace(mode)))
	if m != LockRead && m != LockWrite {
		qb.setErr(fmt.Errorf("%w: %q (must be READ or WRITE)", ErrInvalidLockMode, mode))
		return qb
	}
	qb.lockMode = m
	return qb
}

// -----------------------------------------------------------------------------
// ORDER BY / GROUP BY / LIMIT
// -----------------------------------------------------------------------------

var (
	orderFieldPattern    = regexp.MustCompile("(?i)[^ a-z0-9.(),_`*'\"-]+")
	customFieldPattern   = regexp.MustCompile("[^\\p{L}a-zA-Z0-9.(),_` -]+")
	prefixedFieldPattern = regexp.MustCompile("(`)([`a-zA-Z0-9_]*\\.)")
	groupFieldPattern    = regexp.MustCompile(`(?i)[^a-z0-9.(),_* <>=!-]+`)
)

// OrderBy, sonuçları belirtilen alana göre sıralar.
//
// Alan adı güvenli karakter setine indirgenir; temizlendikten sonra boş
// kalan alan ErrInvalidOrderField kaydeder. Yön sadece ASC veya DESC
// olabilir, aksi halde ErrInvalidOrderDirection kaydedilir.
//
// Örnek:
//
//	qb.OrderBy("name", "asc")   → ORDER BY name ASC
//	qb.OrderBy("rand()", "ASC") → ORDER BY rand()
func (qb *QueryBuilder) OrderBy(field, direction string) *QueryBuilder {
	return qb.orderBy(field, direction, nil)
}

// OrderByField, alanı verilen değer sırasına göre sıralar.
//
// Örnek:
//
//	qb.OrderByField("status", "ASC", "active", "pending")
//	→ ORDER BY FIELD(status, "active","pending") ASC
func (qb *QueryBuilder) OrderByField(field, direction string, values ...string) *QueryBuilder {
	return qb.orderBy(field, direction, func(f string) string {
		cleaned := make([]string, len(values))
		for i, v := range values {
			cleaned[i] = customFieldPattern.ReplaceAllString(v, "")
		}
		return fmt.Sprintf(`FIELD(%s, "%s")`, f, strings.Join(cleaned, `","`))
	})
}

// OrderByRegexp, alanı bir regular expression eşleşmesine göre sıralar.
//
// Örnek:
//
//	qb.OrderByRegexp("name", "DESC", "^A")
//	→ ORDER BY name REGEXP '^A' DESC
func (qb *QueryBuilder) OrderByRegexp(field, direction, pattern string) *QueryBuilder {
	return qb.orderBy(field, direction, func(f string) string {
		return f + " REGEXP '" + strings.ReplaceAll(pattern, "'", "''") + "'"
	})
}

func (qb *QueryBuilder) orderBy(field, direction string, decorate func(string) string) *QueryBuilder {
	raw := field
	dir := OrderDirection(strings.ToUpper(strings.TrimSpace(direction)))
	if dir != OrderAsc && dir != OrderDesc {
		qb.setErr(fmt.Errorf("%w: %q", ErrInvalidOrderDirection, direction))
		return qb
	}

	field = strings.TrimSpace(orderFieldPattern.ReplaceAllString(field, ""))
	if field == "" {
		qb.setErr(fmt.Errorf("%w: %q", ErrInvalidOrderField, raw))
		return qb
	}
	// Sadece backtick içindeki tablo adlarına önek eklenir; alias'lar ayırt edilemez.
	if qb.prefix != "" {
		repl := "${1}" + strings.ReplaceAll(qb.prefix, "$", "$$") + "${2}"
		field = prefixedFieldPattern.ReplaceAllString(field, repl)
	}
	if decorate != nil {
		field = decorate(field)
	}

	for i := range qb.orders {
		if qb.orders[i].Field == field {
			qb.orders[i].Direction = dir
			return qb
		}
	}
	qb.orders = append(qb.orders, OrderClause{Field: field, Direction: dir})
	return qb
}

// GroupBy, GROUP BY listesine bir alan ekler.
// Güvenli karakter seti dışındaki karakterler silinir.
func (qb *QueryBuilder) GroupBy(field string) *QueryBuilder {
	cleaned := strings.TrimSpace(groupFieldPattern.ReplaceAllString(field, ""))
	if cleaned == "" {
		qb.setErr(fmt.Errorf("%w: %q", ErrInvalidGroupField, field))
		return qb
	}
	qb.groups = append(qb.groups, cleaned)
	return qb
}

// Limit, döndürülecek/etkilenecek maksimum satır sayısını belirler.
func (qb *QueryBuilder) Limit(count int) *QueryBuilder {
	qb.limit = count
	qb.hasLimit = true
	return qb
}

// Offset, atlanacak satır sayısını belirler. Sadece Limit ile birlikte yazılır.
//
// Örnek:
//
//	qb.Limit(10).Offset(20) → LIMIT 20, 10
func (qb *QueryBuilder) Offset(offset int) *QueryBuilder {
	qb.offset = offset
	return qb
}

// -----------------------------------------------------------------------------
// TERMİNAL ÇAĞRILAR
// -----------------------------------------------------------------------------

// Get, SELECT ifadesi üretir. Kolon verilmezse "*" kullanılır.
// Tablo adı nokta içermiyorsa (db.table değilse) önek eklenir.
//
// Örnek:
//
//	stmt, err := qb.Where("status", "=", "active").Limit(10).Get("users", "id", "name")
//	// stmt.SQL:  SELECT id, name FROM users WHERE status = ? LIMIT 10
//	// stmt.Args: ["active"]
func (qb *QueryBuilder) Get(table string, columns ...string) (*Statement, error) {
	if !strings.Contains(table, ".") {
		table = qb.prefix + table
	}
	return qb.build(func(b *Bindings) (string, error) {
		return qb.grammar.CompileSelect(qb, table, columns, b)
	})
}

// GetOne, LIMIT 1 ile Get çağırır.
func (qb *QueryBuilder) GetOne(table string, columns ...string) (*Statement, error) {
	qb.Limit(1)
	return qb.Get(table, columns...)
}

// Insert, INSERT ifadesi üretir. OnDuplicate ile birlikte upsert olur.
// Kolonlar Data sırasıyla yazılır ve backtick içine alınır.
//
// Parametreler:
//   - table: Hedef tablo (önek eklenir)
//   - data: Sıralı kolon → değer listesi. Değer skaler, nil, alt sorgu
//     builder'ı ya da Inc/Dec/Func/Not/Now ifadesi olabilir.
//
// Döndürür:
//   - *Statement: Derlenmiş ifade
//   - error: İlk doğrulama hatası ya da ErrUnknownMutationExpression
//
// Alt sorgu builder'ında no-op'tur: (nil, nil) döner ve biriken state temizlenir.
//
// Örnek:
//
//	stmt, err := qb.Insert("t", database.Data{{"a", 1}, {"b", qb.Inc(2)}})
//	// stmt.SQL:  INSERT INTO t (`a`, `b`) VALUES (?, b+2)
//	// stmt.Args: [1]
func (qb *QueryBuilder) Insert(table string, data Data) (*Statement, error) {
	return qb.insert("INSERT", table, data)
}

// Replace, REPLACE ifadesi üretir.
func (qb *QueryBuilder) Replace(table string, data Data) (*Statement, error) {
	return qb.insert("REPLACE", table, data)
}

func (qb *QueryBuilder) insert(verb, table string, data Data) (*Statement, error) {
	if qb.isSubQuery {
		return qb.skipWrite()
	}
	table = qb.prefix + table
	return qb.build(func(b *Bindings) (string, error) {
		return qb.grammar.CompileInsert(qb, verb, table, data, b)
	})
}

// OnDuplicate, INSERT için ON DUPLICATE KEY UPDATE kolonlarını belirler.
// Değeri Inserted olan kolonlar INSERT'te verilen değeri tekrar kullanır.
//
// Örnek:
//
//	qb.OnDuplicate(database.Data{{"name", database.Inserted}, {"hits", qb.Inc(1)}})
func (qb *QueryBuilder) OnDuplicate(columns Data) *QueryBuilder {
	qb.updateColumns = columns
	return qb
}

// OnDuplicateColumns, sadece INSERT değerini tekrar kullanan kolonlar için kısayoldur.
func (qb *QueryBuilder) OnDuplicateColumns(columns ...string) *QueryBuilder {
	data := make(Data, len(columns))
	for i, c := range columns {
		data[i] = Pair{Column: c, Value: Inserted}
	}
	return qb.OnDuplicate(data)
}

// Update, UPDATE ... SET ifadesi üretir. Sıra: join'ler, SET, WHERE,
// ORDER BY, LIMIT.
//
// Parametreler:
//   - table: Hedef tablo (önek eklenir)
//   - data: Sıralı kolon → değer listesi. "t.col" biçimindeki kolonlar
//     t.`col` olarak yazılır.
//
// Döndürür:
//   - *Statement: Derlenmiş ifade
//   - error: İlk doğrulama hatası ya da ErrUnknownMutationExpression
//
// Alt sorgu builder'ında no-op'tur: (nil, nil) döner ve biriken state temizlenir.
//
// Örnek:
//
//	stmt, err := qb.Where("id", "=", 7).Update("users", database.Data{
//	    {"visits", qb.Inc(1)},
//	    {"active", qb.Not()},
//	})
//	// stmt.SQL: UPDATE users SET `visits` = visits+1, `active` = !active WHERE id = ?
//
// GÜVENLİK UYARISI:
// WHERE olmadan UPDATE tüm tabloyu etkiler; builder bunu engellemez.
func (qb *QueryBuilder) Update(table string, data Data) (*Statement, error) {
	if qb.isSubQuery {
		return qb.skipWrite()
	}
	table = qb.prefix + table
	return qb.build(func(b *Bindings) (string, error) {
		return qb.grammar.CompileUpdate(qb, table, data, b)
	})
}

// Delete, DELETE ifadesi üretir. Aktif join varsa hedef, tablo ifadesinin
// alias kısmına çevrilir: DELETE u FROM users u JOIN ...
func (qb *QueryBuilder) Delete(table string) (*Statement, error) {
	if qb.isSubQuery {
		return qb.skipWrite()
	}
	table = qb.prefix + table
	return qb.build(func(b *Bindings) (string, error) {
		return qb.grammar.CompileDelete(qb, table, b)
	})
}

// LockTable, verilen tablolar için LOCK TABLES ifadesi üretir.
//
// Örnek:
//
//	qb.SetLockTableMode("WRITE").LockTable("users", "orders")
//	→ LOCK TABLES users WRITE, orders WRITE
func (qb *QueryBuilder) LockTable(tables ...string) (*Statement, error) {
	prefixed := make([]string, len(tables))
	for i, t := range tables {
		prefixed[i] = qb.prefix + t
	}
	return qb.build(func(*Bindings) (string, error) {
		return qb.grammar.CompileLockTables(prefixed, qb.lockMode), nil
	})
}

// UnlockTable, UNLOCK TABLES ifadesi üretir.
func (qb *QueryBuilder) UnlockTable() (*Statement, error) {
	return qb.build(func(*Bindings) (string, error) {
		return qb.grammar.CompileUnlockTables(), nil
	})
}

// skipWrite, alt sorgu builder'ında yazma fiillerinin sonucudur. Biriken
// state temizlenir, snapshot'a dokunulmaz.
func (qb *QueryBuilder) skipWrite() (*Statement, error) {
	qb.Reset()
	return nil, nil
}

// build, derleme + snapshot + reset adımlarını tek yerde toplar.
// Hata durumunda snapshot değişmez, builder yine de sıfırlanır.
func (qb *QueryBuilder) build(compile func(b *Bindings) (string, error)) (*Statement, error) {
	defer qb.Reset()

	if qb.err != nil {
		return nil, qb.err
	}

	var binds Bindings
	query, err := compile(&binds)
	if err != nil {
		return nil, err
	}

	types, args := binds.SnapshotAndClear()
	stmt := &Statement{
		SQL:      query,
		Args:     args,
		Types:    types,
		Options:  append([]string{}, qb.options...),
		NestJoin: qb.nestJoin,
	}
	qb.last = stmt
	return stmt, nil
}

// Reset, biriktirme state'ini temizler. Son snapshot, önek, kilit modu ve
// alt sorgu bilgisi korunur.
func (qb *QueryBuilder) Reset() *QueryBuilder {
	qb.joins = nil
	qb.joinWheres = nil
	qb.wheres = nil
	qb.havings = nil
	qb.groups = nil
	qb.orders = nil
	qb.options = nil
	qb.limit = 0
	qb.offset = 0
	qb.hasLimit = false
	qb.updateColumns = nil
	qb.nestJoin = false
	qb.forUpdate = false
	qb.lockInShareMode = false
	qb.err = nil
	return qb
}

// -----------------------------------------------------------------------------
// SNAPSHOT GETTER'LARI
// -----------------------------------------------------------------------------

// LastStatement, son başarılı terminal çağrının Statement'ını döndürür.
func (qb *QueryBuilder) LastStatement() *Statement {
	return qb.last
}

// LastPrepareQuery, son placeholder'lı SQL metnini döndürür.
func (qb *QueryBuilder) LastPrepareQuery() string {
	if qb.last == nil {
		return ""
	}
	return qb.last.SQL
}

// LastBindParams, son bind değerlerini döndürür.
func (qb *QueryBuilder) LastBindParams() []any {
	if qb.last == nil {
		return nil
	}
	return qb.last.Args
}

// LastBindTypes, son tip imzasını döndürür.
func (qb *QueryBuilder) LastBindTypes() string {
	if qb.last == nil {
		return ""
	}
	return qb.last.Types
}

// LastQueryOptions, son ifadede kullanılan sorgu seçeneklerini döndürür.
func (qb *QueryBuilder) LastQueryOptions() []string {
	if qb.last == nil {
		return nil
	}
	return qb.last.Options
}

// LastQuery, son ifadenin değerleri gömülmüş debug gösterimini döndürür.
// Sadece loglama içindir.
func (qb *QueryBuilder) LastQuery() string {
	return qb.last.Debug()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
