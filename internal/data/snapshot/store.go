// Package snapshot reads and writes company tables as CSV files. Snapshots
// are the interchange format between the collector, the scoring pipeline, and
// external tooling: one header row naming the populated columns, one row per
// company, empty cells for missing values.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

// identity and categorical columns handled outside the numeric registry.
var stringColumns = map[string]struct {
	get func(*domain.Company) string
	set func(*domain.Company, string)
}{
	domain.ColSymbol: {
		func(c *domain.Company) string { return c.Symbol },
		func(c *domain.Company, v string) { c.Symbol = strings.ToUpper(v) },
	},
	domain.ColCompanyName: {
		func(c *domain.Company) string { return c.CompanyName },
		func(c *domain.Company, v string) { c.CompanyName = v },
	},
	domain.ColSectorCategory: {
		func(c *domain.Company) string { return c.SectorCategory },
		func(c *domain.Company, v string) { c.SectorCategory = v },
	},
	domain.ColFinancialHealth: {
		func(c *domain.Company) string { return c.FinancialHealth },
		func(c *domain.Company, v string) { c.FinancialHealth = v },
	},
	domain.ColProfitabilityStatus: {
		func(c *domain.Company) string { return c.ProfitabilityStatus },
		func(c *domain.Company, v string) { c.ProfitabilityStatus = v },
	},
	domain.ColRiskCategory: {
		func(c *domain.Company) string { return c.RiskCategory },
		func(c *domain.Company, v string) { c.RiskCategory = v },
	},
	domain.ColIsProfitable: {
		func(c *domain.Company) string { return strconv.FormatBool(c.IsProfitable) },
		func(c *domain.Company, v string) { c.IsProfitable = v == "true" || v == "True" },
	},
	domain.ColRank: {
		func(c *domain.Company) string {
			if c.Rank == 0 {
				return ""
			}
			return strconv.Itoa(c.Rank)
		},
		func(c *domain.Company, v string) {
			if n, err := strconv.Atoi(v); err == nil {
				c.Rank = n
			}
		},
	},
}

// Write saves a table to path, creating parent directories as needed.
func Write(t *domain.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := t.Columns()
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	record := make([]string, len(header))
	for i := range t.Rows {
		c := &t.Rows[i]
		for j, col := range header {
			record[j] = cellValue(c, col)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write snapshot row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	log.Info().Str("path", path).Int("rows", t.Len()).Msg("snapshot written")
	return nil
}

// Read loads a table from path. The header declares the populated column set.
func Read(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("snapshot %s is empty", path)
	}

	header := records[0]
	rows := make([]domain.Company, 0, len(records)-1)
	for lineNo, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("snapshot %s line %d: %d cells, expected %d", path, lineNo+2, len(record), len(header))
		}
		c := domain.NewCompany("")
		for j, col := range header {
			setCell(&c, col, record[j])
		}
		rows = append(rows, c)
	}

	columns := make([]string, 0, len(header))
	for _, col := range header {
		columns = append(columns, col)
	}
	t := domain.NewTable(rows, columns...)

	log.Info().Str("path", path).Int("rows", t.Len()).Msg("snapshot loaded")
	return t, nil
}

func cellValue(c *domain.Company, col string) string {
	if sc, ok := stringColumns[col]; ok {
		return sc.get(c)
	}
	if v, ok := domain.ColumnValue(c, col); ok {
		if domain.IsMissing(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return ""
}

func setCell(c *domain.Company, col, cell string) {
	if sc, ok := stringColumns[col]; ok {
		sc.set(c, cell)
		return
	}
	if !domain.IsNumericColumn(col) {
		return
	}
	if cell == "" {
		domain.SetColumnValue(c, col, domain.Missing())
		return
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		domain.SetColumnValue(c, col, domain.Missing())
		return
	}
	domain.SetColumnValue(c, col, v)
}
