// Package parser recovers transaction data from statement documents using a
// structured (table layout) pass and an unstructured (regex over text) pass.
package parser

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/ledongthuc/pdf"
)

// ErrNoPages indicates the document contains no readable pages.
var ErrNoPages = errors.New("document has no pages")

// Document is page-oriented access to statement content. Pages are 1-based.
type Document interface {
	PageCount() int
	PageText(page int) (string, error)
	PageWords(page int) ([]Word, error)
}

// Word is a positioned run of text on a page. Coordinates follow PDF
// conventions: origin bottom-left, Y increasing upward.
type Word struct {
	Text string
	X    float64
	Y    float64
}

// File is a PDF-backed Document. Always Close it; the orchestrator defers
// Close on every exit path so handles never dangle across failed attempts.
type File struct {
	f *os.File
	r *pdf.Reader
}

// Open opens the statement PDF at path.
func Open(path string) (*File, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statement pdf: %w", err)
	}
	return &File{f: f, r: r}, nil
}

// Close releases the underlying file handle.
func (d *File) Close() error {
	return d.f.Close()
}

// PageCount returns the number of pages in the document.
func (d *File) PageCount() int {
	return d.r.NumPage()
}

// PageText returns the plain text of one page.
func (d *File) PageText(page int) (text string, err error) {
	defer recoverParse(&err)

	p := d.r.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

// PageWords returns positioned words for one page, merging adjacent glyph
// runs on the same baseline.
func (d *File) PageWords(page int) (words []Word, err error) {
	defer recoverParse(&err)

	p := d.r.Page(page)
	if p.V.IsNull() {
		return nil, nil
	}
	return mergeGlyphs(p.Content().Text), nil
}

// mergeGlyphs joins per-glyph text runs into words. Runs on the same
// baseline separated by less than a fraction of the font size belong to the
// same word; anything wider is a word (or column) boundary.
func mergeGlyphs(texts []pdf.Text) []Word {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	const baselineTolerance = 2.0

	var words []Word
	var end float64
	for _, t := range sorted {
		if t.S == "" || t.S == " " {
			continue
		}
		gap := 2.5
		if t.FontSize > 0 {
			gap = t.FontSize * 0.3
		}
		if len(words) > 0 {
			last := &words[len(words)-1]
			if math.Abs(t.Y-last.Y) <= baselineTolerance && t.X-end <= gap {
				last.Text += t.S
				end = t.X + t.W
				continue
			}
		}
		words = append(words, Word{Text: t.S, X: t.X, Y: t.Y})
		end = t.X + t.W
	}
	return words
}

// recoverParse converts panics from the pdf library (it panics on malformed
// content streams) into ordinary errors.
func recoverParse(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("malformed pdf content: %v", r)
	}
}
