// -----------------------------------------------------------------------------
// Statement Recipes
// -----------------------------------------------------------------------------
// Recipe, bir SQL ifadesinin YAML ile tanımlanmış halidir. CLI, recipe'yi
// okuyup QueryBuilder çağrılarına çevirir; böylece builder kod yazmadan
// denenebilir ve üretilen metin + bind değerleri incelenebilir.
//
// Örnek recipe:
//
//	verb: select
//	table: users u
//	columns: [u.id, u.name]
//	joins:
//	  - table: orders o
//	    type: LEFT
//	    on: o.user_id = u.id
//	    where:
//	      - {column: o.status, op: "=", value: paid}
//	where:
//	  - {column: u.status, op: IN, value: [active, pending]}
//	  - {raw: "(u.age > ? OR u.vip = ?)", bindings: [18, 1]}
//	order_by:
//	  - {field: u.name, dir: ASC}
//	limit: 10
// -----------------------------------------------------------------------------

package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/biyonik/query-assembler/pkg/database"
)

// ErrUnknownVerb, desteklenmeyen bir verb verildiğinde döner.
var ErrUnknownVerb = errors.New("unknown recipe verb")

// Recipe, tek bir ifadenin tanımıdır.
type Recipe struct {
	Verb    string   `yaml:"verb"`
	Table   string   `yaml:"table,omitempty"`
	Tables  []string `yaml:"tables,omitempty"`
	Columns []string `yaml:"columns,omitempty"`
	Options []string `yaml:"options,omitempty"`

	Joins   []Join      `yaml:"joins,omitempty"`
	Where   []Condition `yaml:"where,omitempty"`
	GroupBy []string    `yaml:"group_by,omitempty"`
	Having  []Condition `yaml:"having,omitempty"`
	OrderBy []Order     `yaml:"order_by,omitempty"`
	Limit   *int        `yaml:"limit,omitempty"`
	Offset  int         `yaml:"offset,omitempty"`

	ForUpdate       bool   `yaml:"for_update,omitempty"`
	LockInShareMode bool   `yaml:"lock_in_share_mode,omitempty"`
	LockMode        string `yaml:"lock_mode,omitempty"`

	Data        []Assignment `yaml:"data,omitempty"`
	OnDuplicate []Assignment `yaml:"on_duplicate,omitempty"`
}

// Join, bir JOIN tanımıdır. Sub verilirse hedef alt sorgudur.
type Join struct {
	Table string      `yaml:"table,omitempty"`
	Sub   *SubQuery   `yaml:"sub,omitempty"`
	Type  string      `yaml:"type,omitempty"`
	On    string      `yaml:"on,omitempty"`
	Where []Condition `yaml:"where,omitempty"`
}

// SubQuery, alias'lı bir SELECT recipe'sidir.
type SubQuery struct {
	Alias  string `yaml:"alias"`
	Recipe `yaml:",inline"`
}

// Condition, WHERE/HAVING/JOIN koşuludur.
//
// Raw verilirse ham ifade olarak eklenir (Bindings ile); Sub verilirse değer
// alt sorgudur; aksi halde Column + Op + Value kullanılır. Value null ise
// NULL karşılaştırması yazılır.
type Condition struct {
	Or       bool      `yaml:"or,omitempty"`
	Column   string    `yaml:"column,omitempty"`
	Op       string    `yaml:"op,omitempty"`
	Value    any       `yaml:"value,omitempty"`
	Now      *string   `yaml:"now,omitempty"`
	Raw      string    `yaml:"raw,omitempty"`
	Bindings []any     `yaml:"bindings,omitempty"`
	Sub      *SubQuery `yaml:"sub,omitempty"`
}

// Order, ORDER BY girdisidir. Values → FIELD(), Regexp → REGEXP sıralaması.
type Order struct {
	Field  string   `yaml:"field"`
	Dir    string   `yaml:"dir,omitempty"`
	Values []string `yaml:"values,omitempty"`
	Regexp string   `yaml:"regexp,omitempty"`
}

// Assignment, INSERT/UPDATE verisindeki tek kolondur. Value dışındaki
// alanlardan en fazla biri verilmelidir.
type Assignment struct {
	Column   string    `yaml:"column"`
	Value    any       `yaml:"value,omitempty"`
	Inc      any       `yaml:"inc,omitempty"`
	Dec      any       `yaml:"dec,omitempty"`
	Not      any       `yaml:"not,omitempty"`
	Func     string    `yaml:"func,omitempty"`
	Params   []any     `yaml:"params,omitempty"`
	Now      *string   `yaml:"now,omitempty"`
	Inserted bool      `yaml:"inserted,omitempty"`
	Sub      *SubQuery `yaml:"sub,omitempty"`
}

// Parse, YAML içeriğinden recipe okur. Bilinmeyen alanlar hata verir.
func Parse(data []byte) (*Recipe, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var r Recipe
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("recipe decode failed: %w", err)
	}
	return &r, nil
}

// Load, dosyadan recipe okur.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recipe read failed: %w", err)
	}
	return Parse(data)
}

// Build, recipe'yi verilen builder üzerinde uygular ve terminal çağrıyı yapar.
func (r *Recipe) Build(qb *database.QueryBuilder) (*database.Statement, error) {
	if err := r.apply(qb); err != nil {
		qb.Reset()
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(r.Verb)) {
	case "", "select", "get":
		return qb.Get(r.Table, r.Columns...)
	case "getone":
		return qb.GetOne(r.Table, r.Columns...)
	case "insert":
		data, err := r.data(qb, r.Data)
		if err != nil {
			qb.Reset()
			return nil, err
		}
		return qb.Insert(r.Table, data)
	case "replace":
		data, err := r.data(qb, r.Data)
		if err != nil {
			qb.Reset()
			return nil, err
		}
		return qb.Replace(r.Table, data)
	case "update":
		data, err := r.data(qb, r.Data)
		if err != nil {
			qb.Reset()
			return nil, err
		}
		return qb.Update(r.Table, data)
	case "delete":
		return qb.Delete(r.Table)
	case "lock":
		tables := r.Tables
		if len(tables) == 0 && r.Table != "" {
			tables = []string{r.Table}
		}
		return qb.LockTable(tables...)
	case "unlock":
		return qb.UnlockTable()
	}

	qb.Reset()
	return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, r.Verb)
}

// apply, terminal çağrı dışındaki tüm biriktirme adımlarını uygular.
func (r *Recipe) apply(qb *database.QueryBuilder) error {
	if len(r.Options) > 0 {
		qb.SetQueryOption(r.Options...)
	}
	if r.LockMode != "" {
		qb.SetLockTableMode(r.LockMode)
	}

	for _, j := range r.Joins {
		if j.Sub != nil {
			sub, err := j.Sub.build(qb)
			if err != nil {
				return fmt.Errorf("join subquery %q: %w", j.Sub.Alias, err)
			}
			qb.JoinSub(sub, j.On, j.Type)
		} else {
			qb.Join(j.Table, j.On, j.Type)
		}

		key := j.Table
		if j.Sub != nil {
			key = j.Sub.Alias
		}
		for _, c := range j.Where {
			value, err := c.value(qb)
			if err != nil {
				return err
			}
			if c.Or {
				qb.JoinOrWhere(key, c.Column, c.Op, value)
			} else {
				qb.JoinWhere(key, c.Column, c.Op, value)
			}
		}
	}

	for _, c := range r.Where {
		if err := c.applyWhere(qb); err != nil {
			return err
		}
	}
	for _, g := range r.GroupBy {
		qb.GroupBy(g)
	}
	for _, c := range r.Having {
		if err := c.applyHaving(qb); err != nil {
			return err
		}
	}

	for _, o := range r.OrderBy {
		dir := o.Dir
		if dir == "" {
			dir = string(database.OrderAsc)
		}
		switch {
		case len(o.Values) > 0:
			qb.OrderByField(o.Field, dir, o.Values...)
		case o.Regexp != "":
			qb.OrderByRegexp(o.Field, dir, o.Regexp)
		default:
			qb.OrderBy(o.Field, dir)
		}
	}

	if r.Limit != nil {
		qb.Limit(*r.Limit)
		qb.Offset(r.Offset)
	}
	if r.ForUpdate {
		qb.SelectForUpdate(true)
	}
	if r.LockInShareMode {
		qb.LockInShareMode(true)
	}

	if len(r.OnDuplicate) > 0 {
		data, err := r.data(qb, r.OnDuplicate)
		if err != nil {
			return err
		}
		qb.OnDuplicate(data)
	}
	return nil
}

func (c Condition) value(qb *database.QueryBuilder) (any, error) {
	if c.Sub != nil {
		sub, err := c.Sub.build(qb)
		if err != nil {
			return nil, fmt.Errorf("condition subquery %q: %w", c.Sub.Alias, err)
		}
		return sub, nil
	}
	if c.Now != nil {
		return qb.Now(*c.Now), nil
	}
	return c.Value, nil
}

func (c Condition) applyWhere(qb *database.QueryBuilder) error {
	if c.Raw != "" {
		if c.Or {
			qb.OrWhereRaw(c.Raw, c.Bindings...)
		} else {
			qb.WhereRaw(c.Raw, c.Bindings...)
		}
		return nil
	}

	value, err := c.value(qb)
	if err != nil {
		return err
	}
	if c.Or {
		qb.OrWhere(c.Column, c.Op, value)
	} else {
		qb.Where(c.Column, c.Op, value)
	}
	return nil
}

func (c Condition) applyHaving(qb *database.QueryBuilder) error {
	if c.Raw != "" {
		qb.HavingRaw(c.Raw, c.Bindings...)
		return nil
	}

	value, err := c.value(qb)
	if err != nil {
		return err
	}
	if c.Or {
		qb.OrHaving(c.Column, c.Op, value)
	} else {
		qb.Having(c.Column, c.Op, value)
	}
	return nil
}

// build, alt sorgu builder'ını oluşturur ve SELECT ifadesini hazırlar.
func (s *SubQuery) build(parent *database.QueryBuilder) (*database.QueryBuilder, error) {
	sub := parent.SubQuery(s.Alias)
	if _, err := s.Recipe.Build(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// data, atamaları builder verisine çevirir.
func (r *Recipe) data(qb *database.QueryBuilder, assignments []Assignment) (database.Data, error) {
	data := make(database.Data, 0, len(assignments))
	for _, a := range assignments {
		value, err := a.value(qb)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", a.Column, err)
		}
		data = append(data, database.Pair{Column: a.Column, Value: value})
	}
	return data, nil
}

func (a Assignment) value(qb *database.QueryBuilder) (any, error) {
	switch {
	case a.Inserted:
		return database.Inserted, nil
	case a.Inc != nil:
		return qb.Inc(a.Inc), nil
	case a.Dec != nil:
		return qb.Dec(a.Dec), nil
	case a.Not != nil && a.Not != false:
		switch n := a.Not.(type) {
		case bool:
			return qb.Not(), nil
		case string:
			return qb.Not(n), nil
		}
		return nil, fmt.Errorf("%w: not must be a boolean or column name", database.ErrUnknownMutationExpression)
	case a.Func != "":
		return qb.Func(a.Func, a.Params...), nil
	case a.Now != nil:
		return qb.Now(*a.Now), nil
	case a.Sub != nil:
		sub, err := a.Sub.build(qb)
		if err != nil {
			return nil, err
		}
		return sub, nil
	}
	return a.Value, nil
}
