package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement"
	"github.com/FACorreiaa/statement-extractor/internal/domain/statement/profile"
)

// ExtractText is the fallback pass: it flattens the document to plain text
// and applies the institution's transaction-line pattern (or the generic one)
// to every non-overlapping match. Matches that fail date or amount parsing
// are skipped and counted; a page that cannot be read is skipped and reported
// alongside the partial result.
func ExtractText(doc Document, prof profile.BankProfile) ([]statement.ExtractedTransaction, PassStats, error) {
	pages := doc.PageCount()
	if pages == 0 {
		return nil, PassStats{}, ErrNoPages
	}

	var sb strings.Builder
	var firstErr error
	readPages := 0
	for page := 1; page <= pages; page++ {
		text, err := doc.PageText(page)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("page %d: %w", page, err)
			}
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
		readPages++
	}
	if readPages == 0 {
		return nil, PassStats{}, firstErr
	}

	var txs []statement.ExtractedTransaction
	var stats PassStats
	for _, m := range prof.TransactionPattern.FindAllStringSubmatch(sb.String(), -1) {
		if len(m) < 4 {
			continue
		}
		stats.Rows++
		date, err := time.Parse(prof.DateFormat, m[1])
		if err != nil {
			stats.Skipped++
			continue
		}
		amount, err := ParseSignedAmount(m[3])
		if err != nil {
			stats.Skipped++
			continue
		}
		txs = append(txs, statement.ExtractedTransaction{
			Date:        date,
			Description: strings.TrimSpace(m[2]),
			Amount:      amount,
		})
	}
	return txs, stats, firstErr
}
