package database

import (
	"database/sql"
)

// -----------------------------------------------------------------------------
// RESULT HELPERS
// -----------------------------------------------------------------------------
// Bu dosya, SQL'den dönen satırları []map[string]any şeklinde döndürme
// yardımcılarını içerir. MySQL driver'ı metin kolonlarını []byte olarak
// verdiği için bu değerler string'e çevrilir.
// -----------------------------------------------------------------------------

// rowsToMaps: sql.Rows'ı []map[string]any biçimine dönüştürür.
func rowsToMaps(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := make([]map[string]any, 0)

	for rows.Next() {
		columns := make([]any, len(cols))
		columnPointers := make([]any, len(cols))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		m := make(map[string]any, len(cols))
		for i, colName := range cols {
			if b, ok := columns[i].([]byte); ok {
				m[colName] = string(b)
				continue
			}
			m[colName] = columns[i]
		}

		res = append(res, m)
	}

	return res, rows.Err()
}
