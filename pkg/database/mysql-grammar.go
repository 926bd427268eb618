package database

import (
	"fmt"
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// MySQL Grammar
// -----------------------------------------------------------------------------
// Statement Assembler'ın MySQL implementasyonu. Parçalar her zaman aynı
// sırayla birleştirilir; girdisi boş olan adım atlanır:
//
//	JOIN → VALUES/SET → WHERE → GROUP BY → HAVING → ORDER BY → LIMIT
//	→ ON DUPLICATE KEY UPDATE → FOR UPDATE → LOCK IN SHARE MODE
//
// Bind değerleri aynı sırayla (join → veri → where → having) Bindings'e
// yazılır; böylece placeholder'lar ve değerler soldan sağa birebir eşleşir.
// -----------------------------------------------------------------------------

type MySQLGrammar struct{}

func NewMySQLGrammar() *MySQLGrammar {
	return &MySQLGrammar{}
}

type mutationMode int

const (
	noMutation mutationMode = iota
	insertMutation
	setMutation
)

// WrapColumn, SET kolonunu backtick ile sarmalar: name → `name`, u.name → u.`name`
func (g *MySQLGrammar) WrapColumn(column string) string {
	if i := strings.LastIndex(column, "."); i >= 0 {
		return column[:i+1] + "`" + column[i+1:] + "`"
	}
	return "`" + column + "`"
}

// CompileSelect, QueryBuilder'dan SELECT sorgusu üretir.
func (g *MySQLGrammar) CompileSelect(qb *QueryBuilder, table string, columns []string, b *Bindings) (string, error) {
	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ", ")
	}
	head := joinWords("SELECT", strings.Join(qb.options, " "), cols, "FROM", table)
	return g.assemble(qb, head, nil, noMutation, false, b)
}

// CompileInsert, INSERT/REPLACE sorgusu üretir. ON DUPLICATE KEY UPDATE
// sadece INSERT için yazılır.
func (g *MySQLGrammar) CompileInsert(qb *QueryBuilder, verb, table string, data Data, b *Bindings) (string, error) {
	head := joinWords(verb, strings.Join(qb.options, " "), "INTO", table)
	return g.assemble(qb, head, data, insertMutation, verb == "INSERT", b)
}

// CompileUpdate, UPDATE sorgusu üretir.
func (g *MySQLGrammar) CompileUpdate(qb *QueryBuilder, table string, data Data, b *Bindings) (string, error) {
	return g.assemble(qb, "UPDATE "+table, data, setMutation, false, b)
}

// CompileDelete, DELETE sorgusu üretir. Join varken silinecek tablo alias ile
// belirtilir, aksi halde join'lenen tablolardaki satırlar da hedef olurdu.
func (g *MySQLGrammar) CompileDelete(qb *QueryBuilder, table string, b *Bindings) (string, error) {
	head := "DELETE FROM " + table
	if len(qb.joins) > 0 {
		head = "DELETE " + lastWord(table) + " FROM " + table
	}
	return g.assemble(qb, head, nil, noMutation, false, b)
}

// CompileLockTables, LOCK TABLES ifadesi üretir.
func (g *MySQLGrammar) CompileLockTables(tables []string, mode LockMode) string {
	locks := make([]string, len(tables))
	for i, t := range tables {
		locks[i] = t + " " + string(mode)
	}
	return joinWords("LOCK TABLES", strings.Join(locks, ", "))
}

// CompileUnlockTables, UNLOCK TABLES ifadesi üretir.
func (g *MySQLGrammar) CompileUnlockTables() string {
	return "UNLOCK TABLES"
}

// assemble, sabit sıralı birleştirmeyi yapar.
func (g *MySQLGrammar) assemble(qb *QueryBuilder, head string, data Data, mode mutationMode, upsert bool, b *Bindings) (string, error) {
	parts := []string{head}
	add := func(fragment string, err error) error {
		if err != nil {
			return err
		}
		if fragment != "" {
			parts = append(parts, fragment)
		}
		return nil
	}

	if err := add(g.compileJoins(qb, b)); err != nil {
		return "", fmt.Errorf("join compilation failed: %w", err)
	}
	if mode != noMutation {
		if err := add(g.compileData(qb, data, mode == insertMutation, b)); err != nil {
			return "", fmt.Errorf("data compilation failed: %w", err)
		}
	}
	if err := add(g.compileConditions(qb, "WHERE", qb.wheres, b)); err != nil {
		return "", fmt.Errorf("where compilation failed: %w", err)
	}
	_ = add(g.compileGroupBy(qb), nil)
	if err := add(g.compileConditions(qb, "HAVING", qb.havings, b)); err != nil {
		return "", fmt.Errorf("having compilation failed: %w", err)
	}
	_ = add(g.compileOrderBy(qb), nil)
	_ = add(g.compileLimit(qb), nil)
	if upsert {
		if err := add(g.compileOnDuplicate(qb, data, b)); err != nil {
			return "", fmt.Errorf("on duplicate compilation failed: %w", err)
		}
	}
	if qb.forUpdate {
		parts = append(parts, OptionForUpdate)
	}
	if qb.lockInShareMode {
		parts = append(parts, OptionLockInShareMode)
	}

	return strings.Join(parts, " "), nil
}

// -----------------------------------------------------------------------------
// JOIN
// -----------------------------------------------------------------------------

func (g *MySQLGrammar) compileJoins(qb *QueryBuilder, b *Bindings) (string, error) {
	if err := checkJoinWhereKeys(qb); err != nil {
		return "", err
	}
	if len(qb.joins) == 0 {
		return "", nil
	}

	fragments := make([]string, 0, len(qb.joins))
	for _, j := range qb.joins {
		target := j.Table
		if j.SubQuery != nil {
			embedded, err := g.embed(qb, SubQueryValue{Builder: j.SubQuery}, b)
			if err != nil {
				return "", err
			}
			target = embedded
		}

		frag := joinWords(string(j.Type), "JOIN", target)
		if j.Condition != "" {
			if strings.Contains(strings.ToLower(j.Condition), "using") {
				frag += " " + j.Condition
			} else {
				frag += " ON " + j.Condition
			}
		}

		for _, c := range qb.joinWheres[j.key()] {
			clause, err := g.compileClause(qb, c, b)
			if err != nil {
				return "", err
			}
			frag = joinWords(frag, clause)
		}
		fragments = append(fragments, frag)
	}
	return strings.Join(fragments, " "), nil
}

// checkJoinWhereKeys, her JoinWhere anahtarının bir join ile eşleştiğini doğrular.
func checkJoinWhereKeys(qb *QueryBuilder) error {
	if len(qb.joinWheres) == 0 {
		return nil
	}

	known := make(map[string]bool, len(qb.joins))
	for _, j := range qb.joins {
		known[j.key()] = true
	}

	var unknown []string
	for key := range qb.joinWheres {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: %q", ErrUnknownJoin, strings.Join(unknown, ", "))
}

// -----------------------------------------------------------------------------
// WHERE / HAVING
// -----------------------------------------------------------------------------

func (g *MySQLGrammar) compileConditions(qb *QueryBuilder, keyword string, clauses []WhereClause, b *Bindings) (string, error) {
	if len(clauses) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(clauses)+1)
	parts = append(parts, keyword)
	for _, c := range clauses {
		clause, err := g.compileClause(qb, c, b)
		if err != nil {
			return "", err
		}
		parts = append(parts, clause)
	}
	return joinWords(parts...), nil
}

func (g *MySQLGrammar) compileClause(qb *QueryBuilder, c WhereClause, b *Bindings) (string, error) {
	comparison, err := g.compileComparison(qb, c.Operator, c.Value, b)
	if err != nil {
		return "", fmt.Errorf("condition %q: %w", c.Column, err)
	}
	return joinWords(c.Boolean, c.Column, comparison), nil
}

// compileComparison, operatör + değer kısmını üretir.
func (g *MySQLGrammar) compileComparison(qb *QueryBuilder, operator string, value Value, b *Bindings) (string, error) {
	op := strings.ToUpper(strings.TrimSpace(operator))

	switch op {
	case "IN", "NOT IN":
		switch v := value.(type) {
		case SubQueryValue:
			embedded, err := g.embed(qb, v, b)
			if err != nil {
				return "", err
			}
			return op + " " + embedded, nil
		case ListValue:
			b.AppendAll(v.Items)
			return op + " (" + placeholders(len(v.Items)) + ")", nil
		case ScalarValue:
			b.Append(v.V)
			return op + " (?)", nil
		}
		return "", fmt.Errorf("%w: %s with %T", ErrUnsupportedConditionValue, op, value)

	case "BETWEEN", "NOT BETWEEN":
		v, ok := value.(ListValue)
		if !ok || len(v.Items) != 2 {
			return "", ErrInvalidBetweenRange
		}
		b.AppendAll(v.Items)
		return op + " ? AND ?", nil

	case "EXISTS", "NOT EXISTS":
		v, ok := value.(SubQueryValue)
		if !ok {
			return "", fmt.Errorf("%w: %s requires a subquery", ErrUnsupportedConditionValue, op)
		}
		embedded, err := g.embed(qb, v, b)
		if err != nil {
			return "", err
		}
		return op + " " + embedded, nil
	}

	switch v := value.(type) {
	case ListValue:
		// Ham ifade: değerler ifadenin kendi placeholder'larına bağlanır.
		b.AppendAll(v.Items)
		return "", nil
	case NullValue:
		return op + " NULL", nil
	case AbsentValue:
		return "", nil
	case ScalarValue:
		b.Append(v.V)
		return op + " ?", nil
	case SubQueryValue:
		embedded, err := g.embed(qb, v, b)
		if err != nil {
			return "", err
		}
		return op + " " + embedded, nil
	case RawFunc:
		b.AppendAll(v.Params)
		return op + " " + v.Expr, nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedConditionValue, value)
}

// -----------------------------------------------------------------------------
// INSERT VALUES / UPDATE SET / ON DUPLICATE KEY UPDATE
// -----------------------------------------------------------------------------

func (g *MySQLGrammar) compileData(qb *QueryBuilder, data Data, insert bool, b *Bindings) (string, error) {
	if !insert {
		pairs, err := g.compilePairs(qb, data, true, b)
		if err != nil {
			return "", err
		}
		return "SET " + pairs, nil
	}

	columns := ""
	if len(data) > 0 {
		quoted := make([]string, len(data))
		for i, p := range data {
			quoted[i] = "`" + p.Column + "`"
		}
		columns = "(" + strings.Join(quoted, ", ") + ") "
	}

	values, err := g.compilePairs(qb, data, false, b)
	if err != nil {
		return "", err
	}
	return columns + "VALUES (" + values + ")", nil
}

func (g *MySQLGrammar) compileOnDuplicate(qb *QueryBuilder, data Data, b *Bindings) (string, error) {
	if len(qb.updateColumns) == 0 {
		return "", nil
	}

	resolved := make(Data, len(qb.updateColumns))
	for i, p := range qb.updateColumns {
		v := p.Value
		if _, reuse := v.(insertedValue); reuse {
			v, _ = data.Get(p.Column)
		}
		resolved[i] = Pair{Column: p.Column, Value: v}
	}

	pairs, err := g.compilePairs(qb, resolved, true, b)
	if err != nil {
		return "", err
	}
	return "ON DUPLICATE KEY UPDATE " + pairs, nil
}

func (g *MySQLGrammar) compilePairs(qb *QueryBuilder, data Data, set bool, b *Bindings) (string, error) {
	items := make([]string, 0, len(data))
	for _, p := range data {
		value, err := g.compileDataValue(qb, p.Column, valueOf(p.Value), b)
		if err != nil {
			return "", fmt.Errorf("column %q: %w", p.Column, err)
		}
		if set {
			value = g.WrapColumn(p.Column) + " = " + value
		}
		items = append(items, value)
	}
	return strings.Join(items, ", "), nil
}

func (g *MySQLGrammar) compileDataValue(qb *QueryBuilder, column string, value Value, b *Bindings) (string, error) {
	switch v := value.(type) {
	case SubQueryValue:
		return g.embed(qb, v, b)
	case ScalarValue:
		b.Append(v.V)
		return "?", nil
	case NullValue:
		b.Append(nil)
		return "?", nil
	case Increment:
		return column + v.Delta, nil
	case RawFunc:
		b.AppendAll(v.Params)
		return v.Expr, nil
	case Negate:
		if v.Column == "" {
			return "!" + column, nil
		}
		return "!" + v.Column, nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnknownMutationExpression, value)
}

// -----------------------------------------------------------------------------
// GROUP BY / ORDER BY / LIMIT
// -----------------------------------------------------------------------------

func (g *MySQLGrammar) compileGroupBy(qb *QueryBuilder) string {
	if len(qb.groups) == 0 {
		return ""
	}
	return "GROUP BY " + strings.Join(qb.groups, ", ")
}

func (g *MySQLGrammar) compileOrderBy(qb *QueryBuilder) string {
	if len(qb.orders) == 0 {
		return ""
	}

	items := make([]string, len(qb.orders))
	for i, o := range qb.orders {
		if strings.ToLower(strings.ReplaceAll(o.Field, " ", "")) == "rand()" {
			items[i] = "rand()"
			continue
		}
		items[i] = o.Field + " " + string(o.Direction)
	}
	return "ORDER BY " + strings.Join(items, ", ")
}

func (g *MySQLGrammar) compileLimit(qb *QueryBuilder) string {
	if !qb.hasLimit {
		return ""
	}
	if qb.offset > 0 {
		return fmt.Sprintf("LIMIT %d, %d", qb.offset, qb.limit)
	}
	return fmt.Sprintf("LIMIT %d", qb.limit)
}

// -----------------------------------------------------------------------------
// SUBQUERY EMBEDDING
// -----------------------------------------------------------------------------

// embed, alt sorgunun metnini "(SQL) alias" olarak döndürür ve bind
// değerlerini parent'ın register'ına kopyalar. Alt sorgu sıfırlanır.
func (g *MySQLGrammar) embed(parent *QueryBuilder, v SubQueryValue, b *Bindings) (string, error) {
	if v.Builder == nil {
		return "", ErrNotSubQuery
	}
	if v.Builder == parent {
		return "", fmt.Errorf("%w: builder cannot embed itself", ErrNotSubQuery)
	}

	sub := v.Builder.GetSubQuery()
	if sub == nil {
		return "", ErrNotSubQuery
	}
	if sub.SQL == "" {
		return "", fmt.Errorf("%w (alias %q)", ErrSubQueryNotBuilt, sub.Alias)
	}

	b.AppendAll(sub.Params)
	return joinWords("("+sub.SQL+")", sub.Alias), nil
}

// -----------------------------------------------------------------------------
// ADDITIONAL HELPER METHODS
// -----------------------------------------------------------------------------

// joinWords, boş olmayan parçaları tek boşlukla birleştirir.
func joinWords(words ...string) string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// lastWord, "users u" → "u"; boşluk yoksa ifadenin kendisi.
func lastWord(expr string) string {
	expr = strings.TrimSpace(expr)
	if i := strings.LastIndex(expr, " "); i >= 0 {
		return expr[i+1:]
	}
	return expr
}
