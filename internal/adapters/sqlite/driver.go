package sqlite

import (
	"database/sql"
	"fmt"
	"sync"

	"estatemap/internal/adapters/sqlquery"
	"estatemap/internal/core/domain"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const (
	driverName = "sqlite3_estatemap"
	foldFunc   = "estatemap_fold"
)

var registerOnce sync.Once

// registerDriver регистрирует драйвер go-sqlite3 с функцией свертки регистра.
// Встроенный LOWER в SQLite понимает только ASCII, а фильтр в памяти
// сравнивает строки через domain.FoldText.
func registerDriver() {
	registerOnce.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc(foldFunc, foldText, true)
			},
		})
		sqlx.BindDriver(driverName, sqlx.QUESTION)
	})
}

func foldText(s string) string {
	return domain.FoldText(s)
}

// dialect - SQLite с плейсхолдерами "?" и поиском через estatemap_fold.
var dialect = sqlquery.Dialect{
	Name:        "sqlite",
	Placeholder: sqlquery.SQLite.Placeholder,
	Contains: func(column, placeholder string) string {
		return fmt.Sprintf(`%s(%s) LIKE %s(%s) ESCAPE '\'`, foldFunc, column, foldFunc, placeholder)
	},
}
