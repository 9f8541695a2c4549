package sqlite

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"edusync/internal/model"
)

// timeLayout фиксированной ширины: строки сравниваются и сортируются как время
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// julianday считает в долях дня и округляет до миллисекунд, поэтому SQL
// отбирает кандидатов с запасом, а точные границы проверяются после выборки.
const julianSlack = time.Second

type query struct {
	cond  string
	args  []any
	times []timeRange
}

// timeRange границы [from, to] включительно для поля записи
type timeRange struct {
	field    string
	from, to time.Time
}

// compile собирает условие для выборки из коллекции.
// Поле фильтра уже проверено регуляркой, поэтому подставляется в JSON path напрямую.
func compile(collection string, filters []model.Filter) (query, error) {
	var b strings.Builder
	b.WriteString("collection = ?")
	q := query{args: []any{collection}}

	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return query{}, err
		}
		path := fmt.Sprintf("json_extract(data, '$.%s')", f.Field)

		switch f.Op {
		case model.OpEq:
			if ts, ok := f.Value.(time.Time); ok {
				q.addTime(&b, path, f.Field, ts, ts)
				continue
			}
			if f.Value == nil {
				b.WriteString(" AND " + path + " IS NULL")
				continue
			}
			b.WriteString(" AND " + path + " = ?")
			q.args = append(q.args, sqlValue(f.Value))
		case model.OpBetween:
			q.addTime(&b, path, f.Field, f.Value.(time.Time), f.Upper.(time.Time))
		}
	}

	q.cond = b.String()
	return q, nil
}

func (q *query) addTime(b *strings.Builder, path, field string, from, to time.Time) {
	b.WriteString(" AND julianday(" + path + ") BETWEEN julianday(?) AND julianday(?)")
	q.args = append(q.args, formatTime(from.Add(-julianSlack)), formatTime(to.Add(julianSlack)))
	q.times = append(q.times, timeRange{field: field, from: from, to: to})
}

// exact true, если границ по времени нет и SQL уже дал точный ответ
func (q query) exact() bool {
	return len(q.times) == 0
}

// match проверяет временные границы по JSON записи
func (q query) match(data string) bool {
	if q.exact() {
		return true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return false
	}
	for _, r := range q.times {
		raw, ok := fields[r.field]
		if !ok {
			return false
		}
		var ts time.Time
		if err := json.Unmarshal(raw, &ts); err != nil {
			return false
		}
		if ts.Before(r.from) || ts.After(r.to) {
			return false
		}
	}
	return true
}

// sqlValue приводит значение к тому виду, в котором его вернет json_extract
func sqlValue(v any) any {
	switch x := v.(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case string, int, int64, float64:
		return x
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return fmt.Sprint(v)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
