package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-extractor/internal/domain/statement/profile"
)

func TestDetectInstitution(t *testing.T) {
	reg := profile.Default()

	t.Run("matches bank name case-insensitively", func(t *testing.T) {
		name, ok := DetectInstitution(reg, "Statement of account - CHASE BANK N.A.", "")
		require.True(t, ok)
		assert.Equal(t, "Chase", name)
	})

	t.Run("first registry match wins on collision", func(t *testing.T) {
		reg := profile.NewRegistry(
			profile.BankProfile{Name: "Bank of America"},
			profile.BankProfile{Name: "America First"},
		)
		name, ok := DetectInstitution(reg, "bank of america and america first both appear", "")
		require.True(t, ok)
		assert.Equal(t, "Bank of America", name)
	})

	t.Run("falls back to hint verbatim without validating it", func(t *testing.T) {
		name, ok := DetectInstitution(reg, "no bank names in this text", "Chase")
		require.True(t, ok)
		assert.Equal(t, "Chase", name)

		name, ok = DetectInstitution(reg, "no bank names in this text", "Acme Credit Union")
		require.True(t, ok)
		assert.Equal(t, "Acme Credit Union", name)
	})

	t.Run("text match beats hint", func(t *testing.T) {
		name, ok := DetectInstitution(reg, "Wells Fargo Everyday Checking", "Chase")
		require.True(t, ok)
		assert.Equal(t, "Wells Fargo", name)
	})

	t.Run("no match and no hint", func(t *testing.T) {
		name, ok := DetectInstitution(reg, "no bank names here", "")
		assert.False(t, ok)
		assert.Empty(t, name)
	})
}

func TestSuggestRoles(t *testing.T) {
	t.Run("classifies standard headers", func(t *testing.T) {
		roles := SuggestRoles([]string{"Date", "Description", "Amount"})
		assert.Equal(t, Roles{DateCol: 0, DescCol: 1, AmountCol: 2}, roles)
	})

	t.Run("matches keyword variants", func(t *testing.T) {
		roles := SuggestRoles([]string{"Posting Time", "Transaction Activity", "Total Payment"})
		assert.Equal(t, 0, roles.DateCol)
		assert.Equal(t, 1, roles.DescCol)
		assert.Equal(t, 2, roles.AmountCol)
	})

	t.Run("first matching column wins per role", func(t *testing.T) {
		roles := SuggestRoles([]string{"Date", "Value Date", "Amount", "Deposit Amount"})
		assert.Equal(t, 0, roles.DateCol)
		assert.Equal(t, 2, roles.AmountCol)
	})

	t.Run("column after date stands in for missing description", func(t *testing.T) {
		roles := SuggestRoles([]string{"Date", "Memo", "Amount"})
		assert.Equal(t, 0, roles.DateCol)
		assert.Equal(t, 1, roles.DescCol)
		assert.Equal(t, 2, roles.AmountCol)
	})

	t.Run("no description fallback for two-column tables", func(t *testing.T) {
		roles := SuggestRoles([]string{"Date", "Amount"})
		assert.Equal(t, 0, roles.DateCol)
		assert.Equal(t, -1, roles.DescCol)
		assert.Equal(t, 1, roles.AmountCol)
	})

	t.Run("unrecognized headers yield nothing", func(t *testing.T) {
		roles := SuggestRoles([]string{"Foo", "Bar"})
		assert.Equal(t, Roles{DateCol: -1, DescCol: -1, AmountCol: -1}, roles)
	})
}
