package normalize

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// table is a parsed CSV with columns addressed by canonical name.
type table struct {
	colIndex map[string]int
	rows     [][]string
}

func (t *table) hasColumn(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

func (t *table) cell(row []string, name string) string {
	idx, ok := t.colIndex[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (t *table) intCell(row []string, name string) int {
	v, err := strconv.ParseFloat(t.cell(row, name), 64)
	if err != nil {
		return 0
	}
	return int(v)
}

func (t *table) floatCell(row []string, name string) float64 {
	v, err := strconv.ParseFloat(t.cell(row, name), 64)
	if err != nil {
		return 0
	}
	return v
}

// decode converts raw bytes to a string using one named encoding. The
// x/text decoders substitute U+FFFD for bytes they cannot map, so a
// replacement rune in the output means the guess was wrong and the
// caller should try the next encoding in its list.
func decode(enc string, raw []byte) (string, error) {
	switch enc {
	case "cp932":
		out, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("cp932 decode: %w", err)
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			return "", fmt.Errorf("cp932 decode: unmappable byte sequence")
		}
		return string(out), nil
	case "utf-8":
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("invalid utf-8 byte sequence")
		}
		return string(raw), nil
	case "utf-8-sig":
		if !bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
			return "", fmt.Errorf("missing utf-8 byte order mark")
		}
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("utf-8-sig decode: %w", err)
		}
		if !utf8.Valid(out) {
			return "", fmt.Errorf("invalid utf-8 byte sequence")
		}
		return string(out), nil
	}
	return "", fmt.Errorf("unknown encoding %q", enc)
}

// parseTable reads CSV text whose first line is the header and renames
// known source headers to canonical names via colMap. Unknown headers
// keep their source name.
func parseTable(text string, colMap map[string]string) (*table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty table")
	}

	header := records[0]
	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if canonical, ok := colMap[name]; ok {
			name = canonical
		}
		if _, dup := colIndex[name]; !dup {
			colIndex[name] = i
		}
	}

	return &table{colIndex: colIndex, rows: records[1:]}, nil
}
