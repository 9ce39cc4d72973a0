package listview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/psycho-70/Eservice-frontend/internal/models"
)

// Filter keeps the records whose reference number contains q, ignoring case.
// A blank query returns records unchanged.
func Filter(records []models.VerificationRecord, q string) []models.VerificationRecord {
	q = strings.TrimSpace(q)
	if q == "" {
		return records
	}

	needle := strings.ToLower(q)
	out := make([]models.VerificationRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.ReferenceNumber), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a copy of records ordered by field. The sort is stable, so
// equal keys keep their input order in either direction.
func Sort(records []models.VerificationRecord, field string, dir Direction) []models.VerificationRecord {
	out := make([]models.VerificationRecord, len(records))
	copy(out, records)

	keys := make([]string, len(out))
	for i := range out {
		keys[i], _ = out[i].Value(field)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if dir == Desc {
			return ka > kb
		}
		return ka < kb
	})

	sorted := make([]models.VerificationRecord, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// Page is one window of a record list
type Page struct {
	Rows       []models.VerificationRecord
	Number     int
	TotalPages int
	// From and To are the 1-based positions of the first and last row, 0 when empty
	From int
	To   int
}

// Paginate cuts page number page of the given size out of records. Pages past
// the end clamp to the last page.
func Paginate(records []models.VerificationRecord, size, page int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	n := len(records)
	total := (n + size - 1) / size

	if page < 1 {
		page = 1
	}
	if total > 0 && page > total {
		page = total
	}
	if total == 0 {
		return Page{Rows: []models.VerificationRecord{}, Number: 1}
	}

	start := (page - 1) * size
	end := start + size
	if end > n {
		end = n
	}
	return Page{
		Rows:       records[start:end],
		Number:     page,
		TotalPages: total,
		From:       start + 1,
		To:         end,
	}
}

// Result is the outcome of running the list pipeline for one request
type Result struct {
	State State
	Page
	// Total counts the records after filtering
	Total int
	// Unfiltered counts every record fetched
	Unfiltered int
	Filtered   bool
}

// Apply runs filter, sort and paginate in that order
func Apply(records []models.VerificationRecord, s State) Result {
	filtered := Filter(records, s.Query)
	sorted := Sort(filtered, s.SortField, s.SortDir)
	page := Paginate(sorted, s.PageSize, s.Page)

	s.Page = page.Number
	return Result{
		State:      s,
		Page:       page,
		Total:      len(filtered),
		Unfiltered: len(records),
		Filtered:   s.Searching(),
	}
}

// Summary renders the range line shown under the table
func (r Result) Summary() string {
	msg := fmt.Sprintf("Showing %d to %d of %d entries", r.From, r.To, r.Total)
	if r.Filtered {
		msg += fmt.Sprintf(" (filtered from %d total entries)", r.Unfiltered)
	}
	return msg
}

// HasPrev reports whether a previous page exists
func (r Result) HasPrev() bool {
	return r.Number > 1
}

// HasNext reports whether a next page exists
func (r Result) HasNext() bool {
	return r.Number < r.TotalPages
}

// Prev is the page before the current one, never below 1
func (r Result) Prev() int {
	if r.Number > 1 {
		return r.Number - 1
	}
	return 1
}

// Next is the page after the current one, never beyond the last
func (r Result) Next() int {
	if r.Number < r.TotalPages {
		return r.Number + 1
	}
	return r.Number
}

// PageNumbers lists every page number for the pager
func (r Result) PageNumbers() []int {
	nums := make([]int, r.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// Column is one admin table column
type Column struct {
	Key      string
	Label    string
	Extended bool
}

var baseColumns = []Column{
	{Key: models.FieldReferenceNumber, Label: "Reference Number"},
	{Key: models.FieldPassportNumber, Label: "Passport Number"},
	{Key: models.FieldFacility700, Label: "Facility 700"},
}

// Columns returns the table columns in display order. Extended columns are
// included only when showAll is set.
func Columns(showAll bool) []Column {
	cols := make([]Column, 0, len(baseColumns)+11)
	cols = append(cols, baseColumns...)
	if showAll {
		for _, f := range (&models.VerificationRecord{}).ExtendedFields() {
			cols = append(cols, Column{Key: f.Key, Label: f.Label, Extended: true})
		}
	}
	return append(cols, Column{Key: models.FieldCreatedAt, Label: "Created At"})
}
