package domain

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Criteria - набор фильтров дашборда. Пустая строка или AllSentinel в
// перечислимых полях и nil в ценах означают отсутствие ограничения.
type Criteria struct {
	Type     string
	SaleMode string
	Usage    string
	MinPrice *int64
	MaxPrice *int64
	Search   string
}

// ParseCriteria разбирает query-параметры. Нечисловые minPrice/maxPrice
// считаются отсутствующими, а не ошибкой.
func ParseCriteria(values url.Values) Criteria {
	return Criteria{
		Type:     values.Get("type"),
		SaleMode: values.Get("saleMode"),
		Usage:    values.Get("usage"),
		MinPrice: parsePrice(values.Get("minPrice")),
		MaxPrice: parsePrice(values.Get("maxPrice")),
		Search:   strings.ToValidUTF8(values.Get("search"), replacementChar),
	}
}

const replacementChar = "\uFFFD"

// FoldText приводит строку к виду для поиска без учета регистра.
// Невалидные UTF-8 байты заменяются на U+FFFD до свертки, иначе хранилище
// и фильтр в памяти сравнивали бы их по-разному.
func FoldText(s string) string {
	// Caser хранит состояние, поэтому создаем новый на каждый вызов.
	return cases.Fold().String(strings.ToValidUTF8(s, replacementChar))
}

func parsePrice(raw string) *int64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Values - обратная операция к ParseCriteria (для ссылок и логов).
func (c Criteria) Values() url.Values {
	v := url.Values{}
	if c.HasType() {
		v.Set("type", c.Type)
	}
	if c.HasSaleMode() {
		v.Set("saleMode", c.SaleMode)
	}
	if c.HasUsage() {
		v.Set("usage", c.Usage)
	}
	if c.MinPrice != nil {
		v.Set("minPrice", strconv.FormatInt(*c.MinPrice, 10))
	}
	if c.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatInt(*c.MaxPrice, 10))
	}
	if c.HasSearch() {
		v.Set("search", c.Search)
	}
	return v
}

func (c Criteria) HasType() bool     { return isConstrained(c.Type) }
func (c Criteria) HasSaleMode() bool { return isConstrained(c.SaleMode) }
func (c Criteria) HasUsage() bool    { return isConstrained(c.Usage) }
func (c Criteria) HasSearch() bool   { return c.Search != "" }

// IsEmpty - true, если ни одно измерение не ограничено.
func (c Criteria) IsEmpty() bool {
	return !c.HasType() && !c.HasSaleMode() && !c.HasUsage() &&
		c.MinPrice == nil && c.MaxPrice == nil && !c.HasSearch()
}

func isConstrained(v string) bool {
	return v != "" && v != AllSentinel
}

// Matches - предикат фильтра. Та же конъюнкция, что строит sqlquery.Compile:
// точные совпадения перечислений, включительные границы цены и
// регистронезависимая подстрока в title OR city OR locality.
func (c Criteria) Matches(l Listing) bool {
	if c.HasType() && l.Type != c.Type {
		return false
	}
	if c.HasSaleMode() && l.SaleMode != c.SaleMode {
		return false
	}
	if c.HasUsage() && l.Usage != c.Usage {
		return false
	}
	if c.MinPrice != nil && l.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && l.Price > *c.MaxPrice {
		return false
	}
	if c.HasSearch() {
		needle := FoldText(c.Search)
		if !strings.Contains(FoldText(l.Title), needle) &&
			!strings.Contains(FoldText(l.City), needle) &&
			!strings.Contains(FoldText(l.Locality), needle) {
			return false
		}
	}
	return true
}

// FilterListings возвращает подходящие объекты в исходном порядке.
// Входной срез не изменяется.
func FilterListings(listings []Listing, c Criteria) []Listing {
	out := make([]Listing, 0, len(listings))
	if c.IsEmpty() {
		return append(out, listings...)
	}
	for _, l := range listings {
		if c.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
