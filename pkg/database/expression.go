package database

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// -----------------------------------------------------------------------------
// EXPRESSION MARKERS
// -----------------------------------------------------------------------------
// INSERT/UPDATE verisinde ham değer yerine kullanılabilecek ifadeler:
//
//	qb.Inc(2)                 → visits+2
//	qb.Dec(1)                 → stock-1
//	qb.Not()                  → !active
//	qb.Func("SHA1(?)", "pw")  → SHA1(?)  (bind: "pw")
//	qb.Now("-1d")             → NOW() - INTERVAL 1 DAY
//
// Doğrulama hataları builder üzerinde saklanır ve terminal çağrıda döner.
// -----------------------------------------------------------------------------

var numericPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

var intervalPattern = regexp.MustCompile(`([+-]?) ?([0-9]+) ?([a-zA-Z]?)`)

var intervalUnits = map[string]string{
	"s": "SECOND",
	"m": "MINUTE",
	"h": "HOUR",
	"d": "DAY",
	"M": "MONTH",
	"Y": "YEAR",
}

// Interval, bir fonksiyon ifadesine zaman aralığı ekler.
//
// diff formatı: [+-]<sayı><birim>, birim: s, m, h, d, M, Y (varsayılan d).
// fn boşsa NOW() kullanılır.
//
// Örnek:
//
//	qb.Interval("+1Y", "")         → NOW() + INTERVAL 1 YEAR
//	qb.Interval("-10m", "CURDATE()") → CURDATE() - INTERVAL 10 MINUTE
func (qb *QueryBuilder) Interval(diff, fn string) string {
	if fn == "" {
		fn = "NOW()"
	}
	if diff == "" {
		return fn
	}

	m := intervalPattern.FindStringSubmatch(diff)
	if m == nil {
		return fn
	}

	sign, unit := "+", "d"
	if m[1] != "" {
		sign = m[1]
	}
	if m[3] != "" {
		unit = m[3]
	}

	name, ok := intervalUnits[unit]
	if !ok {
		qb.setErr(fmt.Errorf("%w: %q", ErrInvalidIntervalSpecifier, diff))
		return fn
	}
	return fmt.Sprintf("%s %s INTERVAL %s %s", fn, sign, m[2], name)
}

// Now, NOW() (opsiyonel aralık ile) ham fonksiyon değeri döndürür.
func (qb *QueryBuilder) Now(diff ...string) Value {
	d := ""
	if len(diff) > 0 {
		d = diff[0]
	}
	return RawFunc{Expr: qb.Interval(d, "NOW()")}
}

// Inc, kolonu delta kadar artıran ifadeyi döndürür. Negatif delta azaltır.
func (qb *QueryBuilder) Inc(delta any) Value {
	n, ok := numericLiteral(delta)
	if !ok {
		qb.setErr(fmt.Errorf("%w: inc(%v)", ErrInvalidNumericArgument, delta))
		return Increment{Delta: "+0"}
	}
	if strings.HasPrefix(n, "-") {
		return Increment{Delta: n}
	}
	return Increment{Delta: "+" + n}
}

// Dec, kolonu delta kadar azaltan ifadeyi döndürür.
func (qb *QueryBuilder) Dec(delta any) Value {
	n, ok := numericLiteral(delta)
	if !ok {
		qb.setErr(fmt.Errorf("%w: dec(%v)", ErrInvalidNumericArgument, delta))
		return Increment{Delta: "-0"}
	}
	if strings.HasPrefix(n, "-") {
		return Increment{Delta: "+" + n[1:]}
	}
	return Increment{Delta: "-" + n}
}

// Not, "!kolon" ifadesini döndürür. column verilmezse atandığı kolon kullanılır.
func (qb *QueryBuilder) Not(column ...string) Value {
	if len(column) > 0 {
		return Negate{Column: column[0]}
	}
	return Negate{}
}

// Func, ham bir SQL ifadesi döndürür; params ifadedeki '?' karakterlerine bağlanır.
func (qb *QueryBuilder) Func(expr string, params ...any) Value {
	return RawFunc{Expr: expr, Params: params}
}

// numericLiteral, sayısal bir değerin SQL literal gösterimini döndürür.
// Başındaki '+' işareti atılır.
func numericLiteral(v any) (string, bool) {
	switch t := v.(type) {
	case int:
		return strconv.FormatInt(int64(t), 10), true
	case int8:
		return strconv.FormatInt(int64(t), 10), true
	case int16:
		return strconv.FormatInt(int64(t), 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint8:
		return strconv.FormatUint(uint64(t), 10), true
	case uint16:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return "", false
		}
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(t), "+")
		if !numericPattern.MatchString(s) {
			return "", false
		}
		return s, true
	}
	return "", false
}
