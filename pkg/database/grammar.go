package database

// -----------------------------------------------------------------------------
// Grammar Interface
// -----------------------------------------------------------------------------
// Grammar, builder state'ini tek bir SQL metnine çeviren katmandır. Tüm compile
// metotları bind değerlerini verilen Bindings register'ına placeholder
// sırasıyla yazar ve hata durumunda yarım metin döndürmez.
// -----------------------------------------------------------------------------

// Grammar, SQL lehçesine özgü sorgu üretimini tanımlar.
//
// Farklı veritabanları için farklı implementasyonlar:
// - MySQLGrammar: MySQL/MariaDB için
type Grammar interface {
	// WrapColumn, SET listesindeki kolon adını lehçeye göre sarmalar.
	// MySQL: `column`, table.`column`
	WrapColumn(column string) string

	// CompileSelect, SELECT sorgusu üretir.
	CompileSelect(qb *QueryBuilder, table string, columns []string, b *Bindings) (string, error)

	// CompileInsert, INSERT veya REPLACE sorgusu üretir (verb: "INSERT" | "REPLACE").
	CompileInsert(qb *QueryBuilder, verb, table string, data Data, b *Bindings) (string, error)

	// CompileUpdate, UPDATE sorgusu üretir.
	CompileUpdate(qb *QueryBuilder, table string, data Data, b *Bindings) (string, error)

	// CompileDelete, DELETE sorgusu üretir.
	CompileDelete(qb *QueryBuilder, table string, b *Bindings) (string, error)

	// CompileLockTables, LOCK TABLES ifadesi üretir.
	CompileLockTables(tables []string, mode LockMode) string

	// CompileUnlockTables, UNLOCK TABLES ifadesi üretir.
	CompileUnlockTables() string
}
