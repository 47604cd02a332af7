package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement/profile"
)

func chaseProfile(t *testing.T) profile.BankProfile {
	t.Helper()
	p, ok := profile.Default().Lookup("Chase")
	require.True(t, ok)
	return p
}

func TestExtractText(t *testing.T) {
	t.Run("extracts transaction lines with a bank pattern", func(t *testing.T) {
		doc := &fakeDoc{pages: []fakePage{{text: `CHASE BANK STATEMENT
Account ending in 1234

01/15/2024  COFFEE SHOP PURCHASE  -$4.50
01/16/2024  PAYROLL DEPOSIT  $2,000.00
01/17/2024  ONLINE TRANSFER  +$150.00
`}}}

		txs, stats, err := ExtractText(doc, chaseProfile(t))
		require.NoError(t, err)
		require.Len(t, txs, 3)
		assert.Equal(t, PassStats{Rows: 3, Skipped: 0}, stats)

		assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), txs[0].Date)
		assert.Equal(t, "COFFEE SHOP PURCHASE", txs[0].Description)
		assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("-4.50")))

		assert.Equal(t, "PAYROLL DEPOSIT", txs[1].Description)
		assert.True(t, txs[1].Amount.Equal(decimal.RequireFromString("2000.00")))

		assert.True(t, txs[2].Amount.Equal(decimal.RequireFromString("150.00")))
	})

	t.Run("skips matches whose date does not parse", func(t *testing.T) {
		// 13/45 matches the date token pattern but is no calendar date; the
		// two-digit year matches the pattern but not the parse layout.
		doc := &fakeDoc{pages: []fakePage{{text: `13/45/2024  BAD DATE  5.00
01/15/24  SHORT YEAR  5.00
01/16/2024  GOOD ROW  5.00
`}}}

		txs, stats, err := ExtractText(doc, chaseProfile(t))
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "GOOD ROW", txs[0].Description)
		assert.Equal(t, PassStats{Rows: 3, Skipped: 2}, stats)
	})

	t.Run("generic profile handles single-digit dates", func(t *testing.T) {
		doc := &fakeDoc{pages: []fakePage{{text: "1/5/2024  CORNER STORE  -12.99\n"}}}

		txs, _, err := ExtractText(doc, profile.Generic())
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), txs[0].Date)
	})

	t.Run("concatenates text across pages", func(t *testing.T) {
		doc := &fakeDoc{pages: []fakePage{
			{text: "01/15/2024  PAGE ONE ROW  -1.00\n"},
			{text: "01/16/2024  PAGE TWO ROW  -2.00\n"},
		}}

		txs, _, err := ExtractText(doc, chaseProfile(t))
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})

	t.Run("partial results survive a bad page", func(t *testing.T) {
		doc := &fakeDoc{pages: []fakePage{
			{text: "01/15/2024  GOOD PAGE  -1.00\n"},
			{err: errors.New("malformed pdf content")},
		}}

		txs, _, err := ExtractText(doc, chaseProfile(t))
		assert.Error(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "GOOD PAGE", txs[0].Description)
	})

	t.Run("no pages", func(t *testing.T) {
		_, _, err := ExtractText(&fakeDoc{}, profile.Generic())
		assert.ErrorIs(t, err, ErrNoPages)
	})
}
