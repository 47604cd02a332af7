package parser

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
	"github.com/FACorreiaa/statement-extractor/internal/domain/statement/sniffer"
)

// Geometric thresholds for table recovery. Word gaps inside a cell stay
// under colGap points; column boundaries are wider.
const (
	rowTolerance = 3.0
	colGap       = 12.0
)

// textTable is a recovered tabular region: rows of cell text, header first.
type textTable [][]string

// PassStats counts the candidate rows one extraction pass considered and how
// many it dropped. Tables skipped whole (no date or amount column) do not
// contribute candidates.
type PassStats struct {
	Rows    int
	Skipped int
}

// ExtractTables recovers tabular regions from every page and converts rows
// of tables with recognizable date and amount columns into transactions.
//
// Recovery is best-effort throughout: a row that fails to parse is skipped
// and counted, a table without the required columns is skipped whole, and a
// page that cannot be read is skipped. The returned error reports the first
// page-level failure alongside whatever was extracted; the caller decides
// whether the partial result is enough.
func ExtractTables(doc Document) ([]statement.ExtractedTransaction, PassStats, error) {
	pages := doc.PageCount()
	if pages == 0 {
		return nil, PassStats{}, ErrNoPages
	}

	var txs []statement.ExtractedTransaction
	var stats PassStats
	var firstErr error
	for page := 1; page <= pages; page++ {
		words, err := doc.PageWords(page)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("page %d: %w", page, err)
			}
			continue
		}
		for _, table := range detectTables(words) {
			rows, tableStats := extractFromTable(table)
			txs = append(txs, rows...)
			stats.Rows += tableStats.Rows
			stats.Skipped += tableStats.Skipped
		}
	}
	return txs, stats, firstErr
}

// detectTables finds tabular regions on a page: maximal runs of consecutive
// text rows with at least two cells, sharing a column structure inferred
// from aligned word start positions.
func detectTables(words []Word) []textTable {
	rows := clusterRows(words)

	var tables []textTable
	var region [][]Word
	flush := func() {
		if len(region) >= 2 {
			if table := buildGrid(region); table != nil {
				tables = append(tables, table)
			}
		}
		region = nil
	}

	for _, row := range rows {
		if len(row) >= 2 {
			region = append(region, row)
		} else {
			flush()
		}
	}
	flush()

	return tables
}

// clusterRows groups words into visual rows by baseline, top to bottom.
func clusterRows(words []Word) [][]Word {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]Word
	rowY := math.Inf(1)
	for _, w := range sorted {
		if len(rows) == 0 || math.Abs(w.Y-rowY) > rowTolerance {
			rows = append(rows, []Word{w})
			rowY = w.Y
			continue
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], w)
	}
	return rows
}

// buildGrid infers column anchors from word start positions across the
// region and assigns every word to a cell. Regions without at least two
// aligned columns are not tables.
func buildGrid(region [][]Word) textTable {
	var xs []float64
	for _, row := range region {
		for _, w := range row {
			xs = append(xs, w.X)
		}
	}
	sort.Float64s(xs)

	var anchors []float64
	for _, x := range xs {
		if len(anchors) == 0 || x-anchors[len(anchors)-1] > colGap {
			anchors = append(anchors, x)
			continue
		}
		// same column cluster, keep the leftmost start
	}
	if len(anchors) < 2 {
		return nil
	}

	grid := make(textTable, len(region))
	for i, row := range region {
		cells := make([]string, len(anchors))
		for _, w := range row {
			c := columnFor(anchors, w.X)
			if cells[c] == "" {
				cells[c] = w.Text
			} else {
				cells[c] += " " + w.Text
			}
		}
		grid[i] = cells
	}
	return grid
}

// columnFor returns the index of the rightmost anchor at or left of x.
func columnFor(anchors []float64, x float64) int {
	col := 0
	for i, a := range anchors {
		if a <= x {
			col = i
		}
	}
	return col
}

// extractFromTable reads transactions out of one recovered table. The first
// row is the header; a table contributes rows only when both a date and an
// amount column were identified.
func extractFromTable(table textTable) ([]statement.ExtractedTransaction, PassStats) {
	if len(table) < 2 {
		return nil, PassStats{}
	}

	headers := make([]string, len(table[0]))
	for i, h := range table[0] {
		headers[i] = strings.TrimSpace(h)
	}
	roles := sniffer.SuggestRoles(headers)
	if roles.DateCol < 0 || roles.AmountCol < 0 {
		return nil, PassStats{}
	}

	var txs []statement.ExtractedTransaction
	stats := PassStats{Rows: len(table) - 1}
	for _, row := range table[1:] {
		cell := func(i int) string {
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		dateStr := cell(roles.DateCol)
		amountStr := cell(roles.AmountCol)
		if dateStr == "" || amountStr == "" {
			stats.Skipped++
			continue
		}

		date, ok := ParseFlexibleDate(dateStr)
		if !ok {
			stats.Skipped++
			continue
		}
		amount, err := ParseAmount(amountStr)
		if err != nil {
			stats.Skipped++
			continue
		}

		desc := cell(roles.DescCol)
		if desc == "" {
			desc = statement.PlaceholderDescription
		}

		txs = append(txs, statement.ExtractedTransaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
		})
	}
	return txs, stats
}
