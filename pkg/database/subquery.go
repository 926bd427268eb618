package database

// -----------------------------------------------------------------------------
// SUBQUERY
// -----------------------------------------------------------------------------
// Alt sorgu olarak işaretlenen builder doğrudan çalıştırılmaz:
//   - Insert/Replace/Update/Delete no-op'tur
//   - Get ile oluşturulan ifade, parent builder tarafından GetSubQuery ile
//     alınır ve parent'ın metnine "(SQL) alias" olarak gömülür
//
// Parent, alt sorguya sadece kendi render çağrısı boyunca referans tutar.
// Gömme işlemi metni ve bind'leri kopyalar, alt sorguyu sıfırlar.
// -----------------------------------------------------------------------------

// SubQuery, GetSubQuery çıktısıdır.
type SubQuery struct {
	SQL    string
	Params []any
	Types  string
	Alias  string
}

// NewSubQuery, alias ile yeni bir alt sorgu builder'ı oluşturur.
//
// Örnek:
//
//	sub := database.NewSubQuery("active_users", cfg)
//	sub.Where("status", "=", "active").Get("users", "id")
//	qb.WhereIn("user_id", sub).Get("orders")
//	→ SELECT * FROM orders WHERE user_id IN (SELECT id FROM users WHERE status = ?) active_users
func NewSubQuery(alias string, cfg Config) *QueryBuilder {
	qb := NewBuilder(cfg)
	qb.isSubQuery = true
	qb.alias = alias
	return qb
}

// SubQuery, bu builder ile aynı önek ve grammar'ı kullanan bir alt sorgu oluşturur.
//
// Parametreler:
//   - alias: Gömülen metnin arkasına yazılacak ad ("(SQL) alias")
func (qb *QueryBuilder) SubQuery(alias string) *QueryBuilder {
	return NewSubQuery(alias, Config{Prefix: qb.prefix, Grammar: qb.grammar})
}

// IsSubQuery, builder'ın alt sorgu olarak oluşturulup oluşturulmadığını döndürür.
func (qb *QueryBuilder) IsSubQuery() bool {
	return qb.isSubQuery
}

// Alias, alt sorgu alias'ını döndürür.
func (qb *QueryBuilder) Alias() string {
	return qb.alias
}

// GetSubQuery, son snapshot'ı alt sorgu olarak döndürür ve builder'ı yeniden
// kullanım için sıfırlar.
//
// Döndürür:
//   - *SubQuery: SQL metni, bind değerleri, tip imzası ve alias. Henüz Get
//     çağrılmadıysa SQL boştur, Params boş (nil olmayan) bir dizidir.
//   - nil: Builder alt sorgu olarak oluşturulmadıysa
//
// Çağrıdan sonra biriken state ve snapshot temizlenir; IsSubQuery ve alias
// korunur, böylece aynı builder başka bir gömme için tekrar kullanılabilir.
//
// Örnek:
//
//	sub := qb.SubQuery("sub")
//	sub.Get("t")
//	sq := sub.GetSubQuery()
//	// sq.SQL: "SELECT * FROM t", sq.Params: [], sq.Alias: "sub"
func (qb *QueryBuilder) GetSubQuery() *SubQuery {
	if !qb.isSubQuery {
		return nil
	}

	sub := &SubQuery{Alias: qb.alias, Params: []any{}}
	if qb.last != nil {
		sub.SQL = qb.last.SQL
		sub.Params = qb.last.Args
		sub.Types = qb.last.Types
	}

	qb.last = nil
	qb.Reset()
	return sub
}
