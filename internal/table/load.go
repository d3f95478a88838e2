package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Load reads a tabular data file into a Table. The first row is treated as a
// header and skipped, the first column supplies row labels, and the remaining
// column positions become x-values (1-based, matching the source column
// number). Supported extensions: .csv, .xlsx, .xls.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx", ".xls":
		return loadExcel(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
	}
}

// csvEncodings lists the fallback decoding order for CSV files. GBK precedes
// latin1 because latin1 accepts any byte sequence and would mask it.
var csvEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"gbk", simplifiedchinese.GBK},
	{"latin1", charmap.ISO8859_1},
}

func loadCSV(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := raw
	if !utf8.Valid(raw) {
		decoded := false
		for _, e := range csvEncodings {
			out, derr := e.enc.NewDecoder().Bytes(raw)
			if derr != nil || bytes.ContainsRune(out, utf8.RuneError) {
				continue
			}
			log.Printf("Decoded %s as %s", filepath.Base(path), e.name)
			text = out
			decoded = true
			break
		}
		if !decoded {
			return nil, fmt.Errorf("read %s: undecodable byte sequence", path)
		}
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var labels []string
	var rows [][]float64
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if first {
			// Header row: column positions are used as x-values instead.
			first = false
			continue
		}
		if len(rec) == 0 {
			continue
		}
		labels = append(labels, strings.TrimSpace(rec[0]))
		rows = append(rows, parseCells(rec[1:]))
	}

	return assemble(path, labels, rows)
}

func loadExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrEmpty, path)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var labels []string
	var rows [][]float64
	for i, rec := range records {
		if i == 0 || len(rec) == 0 {
			continue
		}
		labels = append(labels, strings.TrimSpace(rec[0]))
		rows = append(rows, parseCells(rec[1:]))
	}

	return assemble(path, labels, rows)
}

// parseCells coerces raw cells to numbers. Anything unparseable becomes a
// NaN marker so the cell position is preserved.
func parseCells(cells []string) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// assemble widens ragged rows, drops all-NaN rows and columns, and builds
// the final table with 1-based column positions as x-values.
func assemble(path string, labels []string, rows [][]float64) (*Table, error) {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width == 0 || len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	// Pad ragged rows before the column scan.
	for i, r := range rows {
		for len(r) < width {
			r = append(r, math.NaN())
		}
		rows[i] = r
	}

	keepCol := make([]bool, width)
	for j := 0; j < width; j++ {
		for _, r := range rows {
			if !math.IsNaN(r[j]) {
				keepCol[j] = true
				break
			}
		}
	}

	var x []float64
	for j := 0; j < width; j++ {
		if keepCol[j] {
			x = append(x, float64(j+1))
		}
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	var outLabels []string
	var outRows [][]float64
	for i, r := range rows {
		allNaN := true
		compact := make([]float64, 0, len(x))
		for j := 0; j < width; j++ {
			if !keepCol[j] {
				continue
			}
			compact = append(compact, r[j])
			if !math.IsNaN(r[j]) {
				allNaN = false
			}
		}
		if allNaN {
			continue
		}
		outLabels = append(outLabels, labels[i])
		outRows = append(outRows, compact)
	}
	if len(outRows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	log.Printf("Loaded %s: %d rows x %d columns", filepath.Base(path), len(outRows), len(x))
	return New(path, outLabels, x, outRows), nil
}
