package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/data/snapshot"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/rank"
)

// Artifact file names inside the output directory.
const (
	RecommendationsFile = "PORTFOLIO_RECOMMENDATIONS.txt"
	WorkbookFile        = "portfolio_recommendations.xlsx"
)

// WriteArtifacts materializes a completed ranking run into an output
// directory: one CSV per tier, the combined text report, and the Excel
// workbook.
func WriteArtifacts(dir string, universeSize int, results map[domain.Tier]*rank.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}

	for _, tier := range tierOrder() {
		r, ok := results[tier]
		if !ok {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("category_%s.csv", tier))
		if err := snapshot.Write(r.Rankings, path); err != nil {
			return fmt.Errorf("failed to write %s rankings: %w", tier, err)
		}
	}

	var b strings.Builder
	b.WriteString(PortfolioSummary(universeSize, results))
	for _, tier := range tierOrder() {
		r, ok := results[tier]
		if !ok {
			continue
		}
		b.WriteString(FormatCategoryReport(r))
		b.WriteString(InvestmentThesis(r))
	}

	textPath := filepath.Join(dir, RecommendationsFile)
	if err := os.WriteFile(textPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", textPath, err)
	}

	workbookPath := filepath.Join(dir, WorkbookFile)
	if err := WriteWorkbook(workbookPath, universeSize, results); err != nil {
		return err
	}

	log.Info().Str("dir", dir).Int("tiers", len(results)).Msg("report artifacts written")
	return nil
}
