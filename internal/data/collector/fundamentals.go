package collector

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

// LoadFundamentals reads a fundamentals CSV keyed by symbol and returns it as
// a table suitable for Merge into a collected snapshot. The header must start
// with "symbol"; every other column must be a known numeric metric column,
// and empty cells stay missing. This is how statement-derived metrics the
// quote feed lacks (margins, returns on equity, leverage, cash flows) enter
// the pipeline.
func LoadFundamentals(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fundamentals %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse fundamentals %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("fundamentals %s has no data rows", path)
	}

	header := records[0]
	if len(header) == 0 || strings.TrimSpace(header[0]) != domain.ColSymbol {
		return nil, fmt.Errorf("fundamentals %s: first column must be %q", path, domain.ColSymbol)
	}
	for _, col := range header[1:] {
		if !domain.IsNumericColumn(col) {
			return nil, fmt.Errorf("fundamentals %s: unknown column %q", path, col)
		}
	}

	rows := make([]domain.Company, 0, len(records)-1)
	for lineNo, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("fundamentals %s line %d: %d cells, expected %d", path, lineNo+2, len(record), len(header))
		}
		symbol := strings.ToUpper(strings.TrimSpace(record[0]))
		if symbol == "" {
			continue
		}
		c := domain.NewCompany(symbol)
		for j, col := range header[1:] {
			cell := strings.TrimSpace(record[j+1])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("fundamentals %s line %d column %s: %w", path, lineNo+2, col, err)
			}
			domain.SetColumnValue(&c, col, v)
		}
		rows = append(rows, c)
	}

	log.Info().Str("path", path).Int("rows", len(rows)).Int("columns", len(header)-1).Msg("fundamentals loaded")
	return domain.NewTable(rows, header[1:]...), nil
}

// MergeFundamentals overlays the fundamentals columns onto matching rows of a
// collected table. Only the columns fundamentals declares are written, and
// only where fundamentals has a value, so collected quote data survives.
// Fundamentals symbols absent from the table are ignored.
func MergeFundamentals(t, fundamentals *domain.Table) *domain.Table {
	out := t.Clone()
	for i := range out.Rows {
		row, ok := fundamentals.Lookup(out.Rows[i].Symbol)
		if !ok {
			continue
		}
		for _, col := range fundamentals.Columns() {
			if !domain.IsNumericColumn(col) {
				continue
			}
			if v, has := domain.ColumnValue(&row, col); has && !domain.IsMissing(v) {
				domain.SetColumnValue(&out.Rows[i], col, v)
			}
		}
	}
	for _, col := range fundamentals.Columns() {
		if domain.IsNumericColumn(col) {
			out.AddColumns(col)
		}
	}
	return out
}
