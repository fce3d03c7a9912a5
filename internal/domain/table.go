package domain

import (
	"sort"
	"strings"
)

// Table holds company rows plus the set of populated columns. The column set
// is the contract a data source declares: a column absent from the set was
// never supplied, which is different from a column full of missing values.
//
// Tables are copy-on-write. Every component that enriches or filters a table
// returns a new one; callers' tables are never mutated.
type Table struct {
	Rows    []Company
	columns map[string]struct{}
}

// NewTable builds a table over rows declaring the given populated columns.
// Identity columns are always considered present.
func NewTable(rows []Company, columns ...string) *Table {
	t := &Table{
		Rows:    rows,
		columns: make(map[string]struct{}, len(columns)+3),
	}
	t.AddColumns(ColSymbol, ColCompanyName, ColSectorCategory)
	t.AddColumns(columns...)
	return t
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy. Rows contain no reference fields, so copying the
// slice is a full copy.
func (t *Table) Clone() *Table {
	rows := make([]Company, len(t.Rows))
	copy(rows, t.Rows)
	cols := make(map[string]struct{}, len(t.columns))
	for c := range t.columns {
		cols[c] = struct{}{}
	}
	return &Table{Rows: rows, columns: cols}
}

// AddColumns marks columns as populated.
func (t *Table) AddColumns(names ...string) {
	for _, n := range names {
		if n == "" {
			continue
		}
		t.columns[n] = struct{}{}
	}
}

// HasColumn reports whether a column has been populated.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Columns returns the populated column names, sorted.
func (t *Table) Columns() []string {
	out := make([]string, 0, len(t.columns))
	for c := range t.columns {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// MissingColumns returns the subset of required columns not populated.
func (t *Table) MissingColumns(required ...string) []string {
	var missing []string
	for _, r := range required {
		if !t.HasColumn(r) {
			missing = append(missing, r)
		}
	}
	return missing
}

// Column extracts a numeric column as a slice aligned with Rows.
func (t *Table) Column(name string) ([]float64, bool) {
	if !IsNumericColumn(name) {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i := range t.Rows {
		out[i], _ = ColumnValue(&t.Rows[i], name)
	}
	return out, true
}

// SetColumn writes a numeric column from a slice aligned with Rows and marks
// it populated.
func (t *Table) SetColumn(name string, values []float64) bool {
	if !IsNumericColumn(name) || len(values) != len(t.Rows) {
		return false
	}
	for i := range t.Rows {
		SetColumnValue(&t.Rows[i], name, values[i])
	}
	t.AddColumns(name)
	return true
}

// Lookup finds the row for a symbol, case-insensitively. The second return is
// false on a miss.
func (t *Table) Lookup(symbol string) (Company, bool) {
	want := strings.ToUpper(strings.TrimSpace(symbol))
	for i := range t.Rows {
		if strings.ToUpper(t.Rows[i].Symbol) == want {
			return t.Rows[i], true
		}
	}
	return Company{}, false
}

// Symbols returns row symbols in table order.
func (t *Table) Symbols() []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Rows[i].Symbol
	}
	return out
}

// Filter returns a new table with the rows passing keep. The column set is
// carried over.
func (t *Table) Filter(keep func(*Company) bool) *Table {
	out := t.cloneEmpty()
	for i := range t.Rows {
		if keep(&t.Rows[i]) {
			out.Rows = append(out.Rows, t.Rows[i])
		}
	}
	return out
}

// Merge combines two tables by symbol, resolving duplicates last-wins: a row
// in other replaces the row with the same symbol in t, and new symbols are
// appended in other's order. Column sets are unioned.
func (t *Table) Merge(other *Table) *Table {
	out := t.Clone()
	if other == nil {
		return out
	}
	index := make(map[string]int, len(out.Rows))
	for i := range out.Rows {
		index[strings.ToUpper(out.Rows[i].Symbol)] = i
	}
	for i := range other.Rows {
		key := strings.ToUpper(other.Rows[i].Symbol)
		if j, ok := index[key]; ok {
			out.Rows[j] = other.Rows[i]
		} else {
			index[key] = len(out.Rows)
			out.Rows = append(out.Rows, other.Rows[i])
		}
	}
	for _, c := range other.Columns() {
		out.AddColumns(c)
	}
	return out
}

func (t *Table) cloneEmpty() *Table {
	cols := make(map[string]struct{}, len(t.columns))
	for c := range t.columns {
		cols[c] = struct{}{}
	}
	return &Table{Rows: make([]Company, 0, len(t.Rows)), columns: cols}
}

// NewCompany returns a company with every numeric metric initialized to
// missing. Collectors overwrite what they can supply.
func NewCompany(symbol string) Company {
	c := Company{Symbol: strings.ToUpper(strings.TrimSpace(symbol))}
	for _, acc := range numericColumns {
		*acc(&c) = Missing()
	}
	return c
}
