package sqlquery

import (
	"fmt"
	"strings"

	"estatemap/internal/core/domain"
)

// Dialect описывает отличия SQL-диалектов, важные для фильтра.
type Dialect struct {
	Name string
	// Placeholder возвращает плейсхолдер для аргумента с номером n (с 1).
	Placeholder func(n int) string
	// Contains - регистронезависимое "column содержит аргумент".
	// Аргумент уже экранирован и обернут в '%'.
	Contains func(column, placeholder string) string
}

var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	Contains: func(column, placeholder string) string {
		return fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, column, placeholder)
	},
}

// SQLite: LIKE в SQLite регистронезависим только для ASCII, поэтому
// сравниваем LOWER от обеих сторон.
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
	Contains: func(column, placeholder string) string {
		return fmt.Sprintf(`LOWER(%s) LIKE LOWER(%s) ESCAPE '\'`, column, placeholder)
	},
}

// SearchColumns - поля, по которым идет текстовый поиск (через OR).
var SearchColumns = []string{"title", "city", "locality"}

type queryBuilder struct {
	dialect    Dialect
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder(d Dialect) *queryBuilder {
	return &queryBuilder{
		dialect: d,
		argId:   1,
		args:    make([]interface{}, 0),
	}
}

func (qb *queryBuilder) next(arg interface{}) string {
	ph := qb.dialect.Placeholder(qb.argId)
	qb.args = append(qb.args, arg)
	qb.argId++
	return ph
}

// addCondition: format содержит два %s - имя поля и плейсхолдер.
func (qb *queryBuilder) addCondition(format string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(format, fieldName, qb.next(arg)))
}

func (qb *queryBuilder) addRange(fieldName string, min *int64, max *int64) {
	if min != nil {
		qb.addCondition("%s >= %s", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= %s", fieldName, *max)
	}
}

func (qb *queryBuilder) addSearch(term string) {
	pattern := "%" + EscapeLike(strings.ToValidUTF8(term, "\uFFFD")) + "%"
	parts := make([]string, 0, len(SearchColumns))
	for _, col := range SearchColumns {
		parts = append(parts, qb.dialect.Contains(col, qb.next(pattern)))
	}
	qb.conditions = append(qb.conditions, "("+strings.Join(parts, " OR ")+")")
}

func (qb *queryBuilder) build() (string, []interface{}) {
	if len(qb.conditions) == 0 {
		return "", qb.args
	}
	return "WHERE " + strings.Join(qb.conditions, " AND "), qb.args
}

// Compile переводит критерии в WHERE-условие и аргументы. Семантика совпадает
// с domain.Criteria.Matches. Пустые критерии дают пустую строку.
func Compile(d Dialect, c domain.Criteria) (string, []interface{}) {
	qb := newQueryBuilder(d)

	if c.HasType() {
		qb.addCondition("%s = %s", "type", c.Type)
	}
	if c.HasSaleMode() {
		qb.addCondition("%s = %s", "sale_mode", c.SaleMode)
	}
	if c.HasUsage() {
		qb.addCondition("%s = %s", "usage", c.Usage)
	}
	qb.addRange("price", c.MinPrice, c.MaxPrice)
	if c.HasSearch() {
		qb.addSearch(c.Search)
	}

	return qb.build()
}

// EscapeLike экранирует метасимволы LIKE, чтобы строка искалась буквально.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
