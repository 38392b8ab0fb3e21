// Package csvexport renders uniform records as CSV.
package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is one row: field name to scalar value, in column order.
type Record = *orderedmap.OrderedMap[string, interface{}]

// NewRecord returns an empty record.
func NewRecord() Record {
	return orderedmap.New[string, interface{}]()
}

// Encode writes a header taken from the first record's keys, then one line
// per record in input order. No records produce no output at all.
func Encode(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if len(records) == 0 {
		return buf.Bytes(), nil
	}

	header := make([]string, 0, records[0].Len())
	for pair := records[0].Oldest(); pair != nil; pair = pair.Next() {
		header = append(header, pair.Key)
	}

	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, len(header))
	for i, rec := range records {
		for j, field := range header {
			v, _ := rec.Get(field)
			row[j] = formatValue(v)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
