package universe

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Universe holds the static symbol membership configuration: sector lists and
// the flagship allowlist. It is injected configuration, not derived data.
type Universe struct {
	Flagship []string            `yaml:"flagship"`
	Sectors  map[string][]string `yaml:"sectors"`
}

// LoadFromFile reads a universe definition from YAML.
func LoadFromFile(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read universe file %s: %w", path, err)
	}

	var u Universe
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to parse universe YAML: %w", err)
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("universe validation failed: %w", err)
	}
	u.normalize()
	return &u, nil
}

// Default returns the built-in US large-cap universe.
func Default() *Universe {
	u := &Universe{
		Flagship: []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META"},
		Sectors: map[string][]string{
			"tech": {
				"AAPL", "MSFT", "GOOGL", "NVDA", "META", "TSLA", "ORCL", "CSCO", "ADBE",
				"CRM", "INTC", "AMD", "QCOM", "TXN", "AVGO", "NOW", "INTU",
				"AMAT", "MU", "LRCX", "KLAC", "SNPS", "CDNS", "MCHP", "NXPI",
				"PANW", "FTNT", "CRWD", "ZS", "DDOG", "NET",
			},
			"healthcare": {
				"UNH", "JNJ", "LLY", "ABBV", "MRK", "PFE", "TMO", "ABT",
				"DHR", "AMGN", "GILD", "CVS", "MDT", "REGN", "ISRG", "VRTX",
				"CI", "HUM", "BSX", "ELV",
			},
			"finance": {
				"JPM", "BAC", "WFC", "GS", "MS", "BLK", "V", "MA",
				"C", "SCHW", "AXP", "USB", "PNC", "TFC", "COF", "BK",
				"AIG", "MET", "PRU", "ALL",
			},
			"consumer": {
				"WMT", "AMZN", "HD", "MCD", "NKE", "COST", "SBUX", "TGT",
				"LOW", "TJX", "DG", "ROST", "YUM", "CMG", "ORLY", "KMX",
			},
			"consumer_staples": {
				"PG", "KO", "PEP", "PM", "COST", "MDLZ", "MO", "CL",
				"KMB", "GIS", "HSY", "K", "SYY", "TSN",
			},
			"energy": {
				"XOM", "CVX", "COP", "SLB", "EOG", "PXD", "MPC", "PSX",
				"VLO", "OXY", "HAL", "BKR", "WMB", "KMI",
			},
			"industrials": {
				"BA", "CAT", "GE", "HON", "UPS", "RTX", "LMT", "DE",
				"MMM", "UNP", "ETN", "ADP", "EMR", "ITW", "CSX", "NSC",
			},
			"materials": {
				"LIN", "APD", "SHW", "FCX", "NEM", "ECL", "DD", "DOW",
				"NUE", "VMC", "MLM",
			},
			"real_estate": {
				"AMT", "PLD", "CCI", "EQIX", "PSA", "WELL", "DLR", "O",
				"SBAC", "AVB",
			},
			"utilities": {
				"NEE", "DUK", "SO", "D", "AEP", "EXC", "SRE", "XEL",
				"PCG", "ED",
			},
			"telecom": {
				"T", "VZ", "TMUS", "CHTR",
			},
		},
	}
	u.normalize()
	return u
}

// Validate checks the structural minimum: a flagship list and at least one
// sector.
func (u *Universe) Validate() error {
	if len(u.Flagship) == 0 {
		return fmt.Errorf("flagship allowlist is empty")
	}
	if len(u.Sectors) == 0 {
		return fmt.Errorf("no sectors defined")
	}
	for sector, symbols := range u.Sectors {
		if len(symbols) == 0 {
			return fmt.Errorf("sector %s has no symbols", sector)
		}
	}
	return nil
}

func (u *Universe) normalize() {
	for i, s := range u.Flagship {
		u.Flagship[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	for sector, symbols := range u.Sectors {
		for i, s := range symbols {
			symbols[i] = strings.ToUpper(strings.TrimSpace(s))
		}
		u.Sectors[sector] = symbols
	}
}

// AllSymbols returns the unique symbols across all sectors, sorted.
func (u *Universe) AllSymbols() []string {
	seen := make(map[string]struct{})
	for _, symbols := range u.Sectors {
		for _, s := range symbols {
			seen[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SectorFor returns the sector category for a symbol, or "unknown". Sectors
// are scanned in sorted order so overlapping membership resolves
// deterministically.
func (u *Universe) SectorFor(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	sectors := make([]string, 0, len(u.Sectors))
	for sector := range u.Sectors {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)
	for _, sector := range sectors {
		for _, s := range u.Sectors[sector] {
			if s == symbol {
				return sector
			}
		}
	}
	return "unknown"
}

// IsFlagship reports membership in the flagship allowlist.
func (u *Universe) IsFlagship(symbol string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, s := range u.Flagship {
		if s == symbol {
			return true
		}
	}
	return false
}
