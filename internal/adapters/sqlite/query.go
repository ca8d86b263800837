package sqlite

import (
	"estatemap/internal/adapters/sqlquery"
	"estatemap/internal/core/domain"
)

func compile(c domain.Criteria) (string, []interface{}) {
	return sqlquery.Compile(dialect, c)
}
