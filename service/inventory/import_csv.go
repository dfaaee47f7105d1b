package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var csvColumns = map[string]bool{
	"sku": true, "stock_quantity": true, "price": true,
}

// ImportCSV reads correction rows from CSV data and applies them through the
// processor. The file needs a header with a sku column; stock_quantity and
// price are optional. Rows that fail to parse are reported alongside rows the
// processor rejected, in the same error list.
func ImportCSV(p *Processor, r io.Reader) (*ReconcileResult, error) {
	reader := csv.NewReader(r)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		colIndex[h] = i
	}
	if _, ok := colIndex["sku"]; !ok {
		return nil, fmt.Errorf("CSV must contain a 'sku' column")
	}

	var headerWarnings []string
	for _, h := range headers {
		if !csvColumns[h] {
			headerWarnings = append(headerWarnings, fmt.Sprintf("column %q: unknown, skipping", h))
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV rows: %w", err)
	}

	rows := make([]CorrectionRow, 0, len(records))
	var parseErrors []string
	for ri, rec := range records {
		row, err := parseCSVRow(rec, colIndex)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: %v", ri+2, err))
			continue
		}
		rows = append(rows, row)
	}

	result, err := p.ApplyCorrections(rows)
	if err != nil {
		return nil, err
	}
	result.TotalRows += len(parseErrors)
	result.Warnings = append(headerWarnings, result.Warnings...)
	result.Errors = append(parseErrors, result.Errors...)
	return result, nil
}

func parseCSVRow(rec []string, colIndex map[string]int) (CorrectionRow, error) {
	cell := func(col string) string {
		idx, ok := colIndex[col]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	row := CorrectionRow{SKU: cell("sku")}
	if row.SKU == "" {
		return row, fmt.Errorf("missing sku")
	}

	if v := cell("stock_quantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return row, fmt.Errorf("stock_quantity %q: not an integer", v)
		}
		row.StockQuantity = &n
	}
	if v := cell("price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return row, fmt.Errorf("price %q: not a number", v)
		}
		row.Price = &f
	}
	return row, nil
}
