package ml

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// Table is the canonical row-oriented form every input format is normalized
// into before validation. Column order is significant.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// ParseCSV parses delimited text whose first row holds the column headers.
func ParseCSV(text string) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, validationf("csv input is empty")
		}
		return nil, validationf("parse csv header: %v", err)
	}

	tbl := &Table{Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, validationf("parse csv row %d: %v", len(tbl.Rows)+2, err)
		}
		row := make([]float64, len(record))
		for i, field := range record {
			val, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, validationf("csv row %d: value %q in column %q is not numeric",
					len(tbl.Rows)+2, field, header[i])
			}
			row[i] = val
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	if len(tbl.Rows) == 0 {
		return nil, validationf("csv input has no data rows")
	}
	return tbl, nil
}

// ParseRecords parses a JSON object or array of objects into a Table.
// Key order inside each record is preserved by walking the token stream,
// since column order matters for validation. All records must share the
// same keys in the same order.
func ParseRecords(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, validationf("parse json input: %v", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, validationf("json input must be an object or an array of objects")
	}

	tbl := &Table{}
	switch delim {
	case '{':
		if err := appendRecord(dec, tbl); err != nil {
			return nil, err
		}
	case '[':
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, validationf("parse json input: %v", err)
			}
			if d, ok := tok.(json.Delim); !ok || d != '{' {
				return nil, validationf("json array elements must be objects")
			}
			if err := appendRecord(dec, tbl); err != nil {
				return nil, err
			}
		}
		if len(tbl.Rows) == 0 {
			return nil, validationf("json input has no records")
		}
	default:
		return nil, validationf("json input must be an object or an array of objects")
	}
	return tbl, nil
}

// appendRecord consumes one object whose opening brace has already been read
// and appends its values as a row.
func appendRecord(dec *json.Decoder, tbl *Table) error {
	var cols []string
	var row []float64

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return validationf("parse json record: %v", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return validationf("parse json record: unexpected key token")
		}

		valTok, err := dec.Token()
		if err != nil {
			return validationf("parse json record: %v", err)
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return validationf("feature %q must be numeric", key)
		}
		val, err := num.Float64()
		if err != nil {
			return validationf("feature %q must be numeric", key)
		}

		cols = append(cols, key)
		row = append(row, val)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return validationf("parse json record: %v", err)
	}

	if tbl.Columns == nil {
		tbl.Columns = cols
	} else if !stringSlicesEqual(tbl.Columns, cols) {
		return validationf("records have inconsistent columns: %v vs %v", tbl.Columns, cols)
	}
	tbl.Rows = append(tbl.Rows, row)
	return nil
}

// unwrapString returns the inner text if data is a JSON-encoded string,
// used for inputs that arrive double-encoded.
func unwrapString(data []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
