package database

import "strings"

// -----------------------------------------------------------------------------
// WHERE / HAVING OPERATIONS
// -----------------------------------------------------------------------------
// Bu dosya, QueryBuilder için koşul biriktiren metotları içerir. Tüm koşullar
// aynı WhereClause kaydına iner; farklılık sadece operatör ve Value
// varyantındadır. Render işlemi Grammar katmanında yapılır.
//
// Column alanı doğrulanmaz: "u.id", "DATE(created_at)" veya "id = ?" gibi
// ham ifadeler kabul edilir. Değerler her zaman placeholder ile bağlanır.
// -----------------------------------------------------------------------------

func appendClause(list []WhereClause, boolean, column, operator string, value Value) []WhereClause {
	if len(list) == 0 {
		boolean = ""
	}
	return append(list, WhereClause{
		Boolean:  boolean,
		Column:   column,
		Operator: strings.TrimSpace(operator),
		Value:    value,
	})
}

func defaultOperator(operator string) string {
	if strings.TrimSpace(operator) == "" {
		return "="
	}
	return operator
}

// Where, sorguya AND ile bağlanan bir WHERE koşulu ekler.
//
// Parametreler:
//   - column: Kolon adı veya ifade
//   - operator: Karşılaştırma operatörü (boşsa "=")
//   - value: Değer; slice → liste, nil → NULL, *QueryBuilder → alt sorgu
//
// Döndürür:
//   - *QueryBuilder: Zincirleme için kendi instance'ını döner
//
// Örnek:
//
//	qb.Where("a", "=", 1).Where("b", "=", 2)   → WHERE a = ? AND b = ?
//	qb.Where("a", "IN", []int{1, 2, 3})       → WHERE a IN (?, ?, ?)
//	qb.Where("id", "IN", sub)                 → WHERE id IN (SELECT ...) alias
func (qb *QueryBuilder) Where(column, operator string, value any) *QueryBuilder {
	qb.wheres = appendClause(qb.wheres, "AND", column, defaultOperator(operator), valueOf(value))
	return qb
}

// OrWhere, sorguya OR ile bağlanan bir WHERE koşulu ekler.
// İlk koşul olarak çağrılırsa bağlaç yazılmaz.
//
// Parametreler:
//   - column: Kolon adı veya ifade
//   - operator: Karşılaştırma operatörü (boşsa "=")
//   - value: Karşılaştırılacak değer
//
// Döndürür:
//   - *QueryBuilder: Zincirleme için kendi instance'ını döner
//
// Örnek:
//
//	qb.Where("role", "=", "admin").OrWhere("role", "=", "moderator")
//	→ WHERE role = ? OR role = ?
func (qb *QueryBuilder) OrWhere(column, operator string, value any) *QueryBuilder {
	qb.wheres = appendClause(qb.wheres, "OR", column, defaultOperator(operator), valueOf(value))
	return qb
}

// WhereRaw, ham bir ifade ekler. bindings verilirse ifadedeki '?'
// karakterlerine sırasıyla bağlanır.
//
// Örnek:
//
//	qb.WhereRaw("(id = ? OR parent_id = ?)", 5, 5)
//	qb.WhereRaw("deleted_at IS NULL")
func (qb *QueryBuilder) WhereRaw(expr string, bindings ...any) *QueryBuilder {
	qb.wheres = appendClause(qb.wheres, "AND", expr, "", rawBindings(bindings))
	return qb
}

// OrWhereRaw, WhereRaw'ın OR versiyonudur.
func (qb *QueryBuilder) OrWhereRaw(expr string, bindings ...any) *QueryBuilder {
	qb.wheres = appendClause(qb.wheres, "OR", expr, "", rawBindings(bindings))
	return qb
}

func rawBindings(bindings []any) Value {
	if len(bindings) == 0 {
		return NoValue
	}
	return ListValue{Items: bindings}
}

// WhereIn, kolonun bir liste veya alt sorgu içinde olmasını şart koşar.
//
// Parametreler:
//   - column: Kolon adı
//   - values: Slice (her eleman ayrı placeholder) veya alt sorgu builder'ı
//
// Örnek:
//
//	qb.WhereIn("id", []int{1, 2, 3}) → WHERE id IN (?, ?, ?)
//	qb.WhereIn("user_id", sub)       → WHERE user_id IN (SELECT ...) alias
func (qb *QueryBuilder) WhereIn(column string, values any) *QueryBuilder {
	return qb.Where(column, "IN", values)
}

// WhereNotIn, kolonun bir liste veya alt sorgu içinde olmamasını şart koşar.
func (qb *QueryBuilder) WhereNotIn(column string, values any) *QueryBuilder {
	return qb.Where(column, "NOT IN", values)
}

// WhereBetween, kolonun iki değer arasında olmasını şart koşar.
//
// Parametreler:
//   - column: Kolon adı
//   - min, max: Aralığın alt ve üst sınırı (iki ayrı placeholder)
//
// Örnek:
//
//	qb.WhereBetween("age", 18, 65) → WHERE age BETWEEN ? AND ?
func (qb *QueryBuilder) WhereBetween(column string, min, max any) *QueryBuilder {
	return qb.Where(column, "BETWEEN", List(min, max))
}

// WhereNotBetween, kolonun iki değer arasında olmamasını şart koşar.
func (qb *QueryBuilder) WhereNotBetween(column string, min, max any) *QueryBuilder {
	return qb.Where(column, "NOT BETWEEN", List(min, max))
}

// WhereNull → column IS NULL
func (qb *QueryBuilder) WhereNull(column string) *QueryBuilder {
	return qb.Where(column, "IS", Null)
}

// WhereNotNull → column IS NOT NULL
func (qb *QueryBuilder) WhereNotNull(column string) *QueryBuilder {
	return qb.Where(column, "IS NOT", Null)
}

// WhereExists, alt sorgunun en az bir satır döndürmesini şart koşar.
func (qb *QueryBuilder) WhereExists(sub *QueryBuilder) *QueryBuilder {
	return qb.Where("", "EXISTS", sub)
}

// WhereNotExists, alt sorgunun hiç satır döndürmemesini şart koşar.
func (qb *QueryBuilder) WhereNotExists(sub *QueryBuilder) *QueryBuilder {
	return qb.Where("", "NOT EXISTS", sub)
}

// WhereDate → DATE(column) = ?
func (qb *QueryBuilder) WhereDate(column string, date string) *QueryBuilder {
	return qb.Where("DATE("+column+")", "=", date)
}

// WhereYear → YEAR(column) = ?
func (qb *QueryBuilder) WhereYear(column string, year int) *QueryBuilder {
	return qb.Where("YEAR("+column+")", "=", year)
}

// WhereMonth → MONTH(column) = ?
func (qb *QueryBuilder) WhereMonth(column string, month int) *QueryBuilder {
	return qb.Where("MONTH("+column+")", "=", month)
}

// WhereDay → DAY(column) = ?
func (qb *QueryBuilder) WhereDay(column string, day int) *QueryBuilder {
	return qb.Where("DAY("+column+")", "=", day)
}

// Having, GROUP BY sonrasında uygulanacak AND koşulu ekler.
//
// Parametreler:
//   - column: Kolon adı veya aggregate ifadesi
//   - operator: Karşılaştırma operatörü (boşsa "=")
//   - value: Karşılaştırılacak değer
//
// Döndürür:
//   - *QueryBuilder: Zincirleme için kendi instance'ını döner
//
// Örnek:
//
//	qb.GroupBy("user_id").Having("COUNT(*)", ">", 5)
//	→ GROUP BY user_id HAVING COUNT(*) > ?
func (qb *QueryBuilder) Having(column, operator string, value any) *QueryBuilder {
	qb.havings = appendClause(qb.havings, "AND", column, defaultOperator(operator), valueOf(value))
	return qb
}

// OrHaving, Having'in OR versiyonudur.
func (qb *QueryBuilder) OrHaving(column, operator string, value any) *QueryBuilder {
	qb.havings = appendClause(qb.havings, "OR", column, defaultOperator(operator), valueOf(value))
	return qb
}

// HavingRaw, ham bir HAVING ifadesi ekler.
func (qb *QueryBuilder) HavingRaw(expr string, bindings ...any) *QueryBuilder {
	qb.havings = appendClause(qb.havings, "AND", expr, "", rawBindings(bindings))
	return qb
}
