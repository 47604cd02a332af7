// Package profile holds per-institution parsing patterns for statement text.
// Profiles are immutable after construction and looked up by institution name.
package profile

import "regexp"

// BankProfile bundles the patterns used to recover transactions from one
// institution's statement text. TransactionPattern must capture exactly
// three groups: date, description, amount.
type BankProfile struct {
	Name               string
	DatePattern        *regexp.Regexp
	TransactionPattern *regexp.Regexp
	DateFormat         string // Go reference layout
}

// Registry is an immutable set of bank profiles. Iteration order for the
// institution detector is insertion order, so collisions between bank names
// in statement text resolve deterministically.
type Registry struct {
	names    []string
	profiles map[string]BankProfile
}

// NewRegistry builds a registry from the given profiles, preserving order.
// A duplicate name keeps the first profile registered under it.
func NewRegistry(profiles ...BankProfile) *Registry {
	r := &Registry{profiles: make(map[string]BankProfile, len(profiles))}
	for _, p := range profiles {
		if _, ok := r.profiles[p.Name]; ok {
			continue
		}
		r.names = append(r.names, p.Name)
		r.profiles[p.Name] = p
	}
	return r
}

// Lookup returns the profile registered under name.
func (r *Registry) Lookup(name string) (BankProfile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// Names returns the registered institution names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(r.names)
}

var (
	mdyDate   = regexp.MustCompile(`(\d{2}/\d{2}/\d{2,4})`)
	looseDate = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})`)

	// date, description, signed currency amount
	mdyLine   = regexp.MustCompile(`(\d{2}/\d{2}/\d{2,4})\s+([\w\s'&/.-]+?)\s+([-+]?\$?[\d,]+\.\d{2})`)
	looseLine = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})\s+([\w\s'&/.-]+?)\s+([-+]?\$?[\d,]+\.\d{2})`)
)

// Default returns the built-in registry of supported institutions.
func Default() *Registry {
	return NewRegistry(
		BankProfile{
			Name:               "Chase",
			DatePattern:        mdyDate,
			TransactionPattern: mdyLine,
			DateFormat:         "1/2/2006",
		},
		BankProfile{
			Name:               "Bank of America",
			DatePattern:        mdyDate,
			TransactionPattern: mdyLine,
			DateFormat:         "1/2/2006",
		},
		BankProfile{
			Name:               "Wells Fargo",
			DatePattern:        looseDate,
			TransactionPattern: looseLine,
			DateFormat:         "1/2/2006",
		},
	)
}

// Generic returns the profile applied when no institution-specific one exists.
func Generic() BankProfile {
	return BankProfile{
		Name:               "",
		DatePattern:        looseDate,
		TransactionPattern: looseLine,
		DateFormat:         "1/2/2006",
	}
}
