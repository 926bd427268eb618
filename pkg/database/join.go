package database

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// JOIN OPERATIONS
// -----------------------------------------------------------------------------
// Join hedefi bir tablo ifadesi ("orders o") veya bir alt sorgu olabilir.
// JoinWhere ile eklenen koşullar WHERE'e ertelenmez; ilgili join'in ON
// koşulunun hemen arkasına yazılır.
//
//	qb.Join("orders o", "o.user_id = u.id", "LEFT").
//	   JoinWhere("orders o", "o.status", "=", "paid")
//	→ LEFT JOIN orders o ON o.user_id = u.id AND o.status = ?
// -----------------------------------------------------------------------------

func (qb *QueryBuilder) joinType(joinType string) (JoinType, bool) {
	jt := JoinType(strings.ToUpper(strings.TrimSpace(joinType)))
	if !allowedJoinTypes[jt] {
		qb.setErr(fmt.Errorf("%w: %q", ErrInvalidJoinType, joinType))
		return "", false
	}
	return jt, true
}

// Join, tablo ifadesine bir JOIN ekler. Tabloya instance öneki uygulanır.
//
// Parametreler:
//   - table: Tablo ifadesi (alias içerebilir, örn: "orders o")
//   - condition: ON koşulu; "USING (...)" içeriyorsa ON yazılmaz
//   - joinType: "", LEFT, RIGHT, OUTER, INNER, LEFT OUTER, RIGHT OUTER, NATURAL
//     (büyük/küçük harf duyarsız)
//
// Döndürür:
//   - *QueryBuilder: Zincirleme için kendi instance'ını döner
//
// Geçersiz join tipi ErrInvalidJoinType kaydeder; hata terminal çağrıda döner.
//
// Örnek:
//
//	qb.Join("orders o", "o.user_id = u.id", "LEFT")
//	→ LEFT JOIN orders o ON o.user_id = u.id
//	qb.Join("profiles", "USING (user_id)", "INNER")
//	→ INNER JOIN profiles USING (user_id)
func (qb *QueryBuilder) Join(table, condition, joinType string) *QueryBuilder {
	jt, ok := qb.joinType(joinType)
	if !ok {
		return qb
	}
	qb.joins = append(qb.joins, JoinClause{
		Type:      jt,
		Table:     qb.prefix + table,
		Condition: condition,
		Name:      strings.TrimSpace(table),
	})
	return qb
}

// LeftJoin, Join(table, condition, "LEFT") kısayoludur.
func (qb *QueryBuilder) LeftJoin(table, condition string) *QueryBuilder {
	return qb.Join(table, condition, string(LeftJoin))
}

// InnerJoin, Join(table, condition, "INNER") kısayoludur.
func (qb *QueryBuilder) InnerJoin(table, condition string) *QueryBuilder {
	return qb.Join(table, condition, string(InnerJoin))
}

// JoinSub, bir alt sorguya JOIN ekler. Hedef "(SQL) alias" olarak yazılır ve
// alt sorgunun bind değerleri join'in yerinde register'a eklenir.
//
// Parametreler:
//   - sub: SubQuery ile oluşturulmuş ve Get ile derlenmiş builder
//   - condition: ON koşulu
//   - joinType: Join ile aynı
//
// JoinWhere ile bu join'e koşul eklemek için alt sorgunun alias'ı kullanılır.
//
// Örnek:
//
//	sub := qb.SubQuery("o")
//	sub.Where("paid", "=", 1).Get("orders", "user_id")
//	qb.JoinSub(sub, "o.user_id = u.id", "LEFT").Get("users u")
//	→ SELECT * FROM users u LEFT JOIN (SELECT user_id FROM orders WHERE paid = ?) o ON o.user_id = u.id
func (qb *QueryBuilder) JoinSub(sub *QueryBuilder, condition, joinType string) *QueryBuilder {
	jt, ok := qb.joinType(joinType)
	if !ok {
		return qb
	}
	qb.joins = append(qb.joins, JoinClause{
		Type:      jt,
		SubQuery:  sub,
		Condition: condition,
	})
	return qb
}

// JoinWhere, belirtilen join'e AND ile bağlanan ek koşul ekler. Koşul WHERE'e
// değil, join'in ON koşulunun hemen arkasına yazılır.
//
// Parametreler:
//   - join: Join'e verilen tablo ifadesi (öneksiz, örn: "orders o") ya da
//     alt sorgu join'lerinde alias
//   - column, operator, value: Where ile aynı anlamdadır
//
// Join, JoinWhere'den önce ya da sonra eklenebilir; eşleştirme derleme
// sırasında yapılır. Hiçbir join ile eşleşmeyen anahtar terminal çağrıda
// ErrUnknownJoin döndürür.
//
// Örnek:
//
//	qb.Join("orders o", "o.user_id = u.id", "LEFT").
//	   JoinWhere("orders o", "o.status", "=", "paid")
func (qb *QueryBuilder) JoinWhere(join, column, operator string, value any) *QueryBuilder {
	return qb.joinWhere("AND", join, column, operator, value)
}

// JoinOrWhere, belirtilen join'e OR ile bağlanan ek koşul ekler.
func (qb *QueryBuilder) JoinOrWhere(join, column, operator string, value any) *QueryBuilder {
	return qb.joinWhere("OR", join, column, operator, value)
}

func (qb *QueryBuilder) joinWhere(boolean, join, column, operator string, value any) *QueryBuilder {
	if qb.joinWheres == nil {
		qb.joinWheres = make(map[string][]WhereClause)
	}
	key := strings.TrimSpace(join)
	qb.joinWheres[key] = append(qb.joinWheres[key], WhereClause{
		Boolean:  boolean,
		Column:   column,
		Operator: strings.TrimSpace(defaultOperator(operator)),
		Value:    valueOf(value),
	})
	return qb
}
