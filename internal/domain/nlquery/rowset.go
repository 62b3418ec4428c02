package nlquery

import (
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// RowSet is the fully materialized result of one statement. Row order is the
// order the store returned.
type RowSet struct {
	Columns []string
	Rows    [][]any
}

func (r RowSet) Len() int {
	return len(r.Rows)
}

func (r RowSet) IsEmpty() bool {
	return len(r.Rows) == 0
}

// Truncate keeps at most n rows. It reports whether rows were dropped.
// n <= 0 means no limit.
func (r RowSet) Truncate(n int) (RowSet, bool) {
	if n <= 0 || len(r.Rows) <= n {
		return r, false
	}
	return RowSet{Columns: r.Columns, Rows: r.Rows[:n]}, true
}

// String renders the rows as a JSON array of objects, keys in column order.
// An empty set renders as "[]".
func (r RowSet) String() string {
	keys := r.keys()
	encodedKeys := make([][]byte, len(keys))
	for i, key := range keys {
		encodedKeys[i] = encodeValue(key)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('[')
	for i, row := range r.Rows {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_ = buf.WriteByte('{')
		for j, key := range encodedKeys {
			if j > 0 {
				_ = buf.WriteByte(',')
			}
			_, _ = buf.Write(key)
			_ = buf.WriteByte(':')
			var value any
			if j < len(row) {
				value = row[j]
			}
			_, _ = buf.Write(encodeValue(value))
		}
		_ = buf.WriteByte('}')
	}
	_ = buf.WriteByte(']')

	return buf.String()
}

// keys disambiguates repeated column names, which joins over player_id produce.
func (r RowSet) keys() []string {
	out := make([]string, len(r.Columns))
	seen := make(map[string]int, len(r.Columns))
	for i, name := range r.Columns {
		seen[name]++
		if n := seen[name]; n > 1 {
			out[i] = name + "_" + strconv.Itoa(n)
			continue
		}
		out[i] = name
	}
	return out
}

func encodeValue(v any) []byte {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		raw, _ = sonic.Marshal(fmt.Sprint(v))
	}
	return raw
}
