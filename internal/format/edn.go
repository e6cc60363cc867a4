package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes the EDN subset our payloads need: maps with keyword keys,
// vectors, strings, numbers, booleans and nil. Structs go through their JSON
// form first so json tags name the keys.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := jsonValue(v)
	if err != nil {
		return err
	}
	e := ednWriter{pretty: pretty}
	e.value(x, 0)
	e.buf.WriteByte('\n')
	_, err = w.Write(e.buf.Bytes())
	return err
}

type ednWriter struct {
	buf    bytes.Buffer
	pretty bool
}

const ednIndent = "  "

func (e *ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case float64:
		// encoding/json decodes every number as float64.
		if t == float64(int64(t)) {
			e.buf.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			e.buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		e.seq('[', ']', len(t), depth, func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq('{', '}', len(keys), depth, func(i int) {
			e.buf.WriteString(ednKeyword(keys[i]))
			e.buf.WriteByte(' ')
			e.value(t[keys[i]], depth+1)
		})
	default:
		e.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

// seq writes n elements between open and close, one per line when pretty.
func (e *ednWriter) seq(open, close byte, n, depth int, elem func(i int)) {
	e.buf.WriteByte(open)
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.buf.WriteByte('\n')
			e.buf.WriteString(strings.Repeat(ednIndent, depth+1))
		case i > 0:
			e.buf.WriteByte(' ')
		}
		elem(i)
	}
	if e.pretty && n > 0 {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat(ednIndent, depth))
	}
	e.buf.WriteByte(close)
}

// ednKeyword turns a JSON key into a keyword. Underscores become dashes
// (day_status -> :day-status), as EDN keywords conventionally use.
func ednKeyword(k string) string {
	k = strings.TrimSpace(k)
	k = strings.TrimLeft(k, "_")
	k = strings.NewReplacer(" ", "-", "_", "-").Replace(k)
	if k == "" {
		k = "_"
	}
	return ":" + k
}
