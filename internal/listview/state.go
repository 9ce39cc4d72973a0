// Package listview turns a full record set plus the request's list state
// into the rows of one admin table page.
package listview

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/psycho-70/Eservice-frontend/internal/models"
)

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultPageSize is used when no valid size is requested
const DefaultPageSize = 10

// PageSizes are the page sizes the table offers
var PageSizes = []int{10, 25, 50}

// Query string keys carrying list state
const (
	ParamQuery    = "q"
	ParamSort     = "sort"
	ParamDir      = "dir"
	ParamPageSize = "size"
	ParamPage     = "page"
	ParamShow     = "show"
)

// State is the list state of one admin table request. It travels in the URL
// so every link on the page can reproduce it.
type State struct {
	Query     string
	SortField string
	SortDir   Direction
	PageSize  int
	Page      int
	ShowAll   bool
}

// DefaultState is newest first, ten per page
func DefaultState() State {
	return State{
		SortField: models.FieldCreatedAt,
		SortDir:   Desc,
		PageSize:  DefaultPageSize,
		Page:      1,
	}
}

// ParseState reads list state from query values. Invalid values fall back to
// the defaults rather than failing the request.
func ParseState(v url.Values) State {
	s := DefaultState()
	s.Query = v.Get(ParamQuery)

	if f := v.Get(ParamSort); f != "" && IsSortable(f) {
		s.SortField = f
		s.SortDir = Asc
		if Direction(v.Get(ParamDir)) == Desc {
			s.SortDir = Desc
		}
	}

	if n, err := strconv.Atoi(v.Get(ParamPageSize)); err == nil && ValidPageSize(n) {
		s.PageSize = n
	}

	if p, err := strconv.Atoi(v.Get(ParamPage)); err == nil && p > 1 {
		s.Page = p
	}

	s.ShowAll = v.Get(ParamShow) == "all"
	return s
}

// ValidPageSize reports whether n is one of PageSizes
func ValidPageSize(n int) bool {
	for _, size := range PageSizes {
		if size == n {
			return true
		}
	}
	return false
}

// IsSortable reports whether field names a declared record field
func IsSortable(field string) bool {
	var rec models.VerificationRecord
	_, ok := rec.Value(field)
	return ok
}

// WithQuery sets the search query and returns to the first page
func (s State) WithQuery(q string) State {
	s.Query = q
	s.Page = 1
	return s
}

// WithPageSize sets the page size and returns to the first page. Sizes not
// offered by the table are ignored.
func (s State) WithPageSize(n int) State {
	if !ValidPageSize(n) {
		return s
	}
	s.PageSize = n
	s.Page = 1
	return s
}

// WithPage moves to page p, never below 1
func (s State) WithPage(p int) State {
	if p < 1 {
		p = 1
	}
	s.Page = p
	return s
}

// WithShowAll toggles the extended columns
func (s State) WithShowAll(on bool) State {
	s.ShowAll = on
	return s
}

// ToggleSort flips the direction when field is already the sort field,
// otherwise sorts by field ascending.
func (s State) ToggleSort(field string) State {
	if s.SortField == field {
		if s.SortDir == Asc {
			s.SortDir = Desc
		} else {
			s.SortDir = Asc
		}
		return s
	}
	s.SortField = field
	s.SortDir = Asc
	return s
}

// Searching reports whether a non-blank query is active
func (s State) Searching() bool {
	return strings.TrimSpace(s.Query) != ""
}

// Values encodes the state as query values, omitting defaults
func (s State) Values() url.Values {
	v := url.Values{}
	def := DefaultState()
	if s.Query != "" {
		v.Set(ParamQuery, s.Query)
	}
	if s.SortField != def.SortField || s.SortDir != def.SortDir {
		v.Set(ParamSort, s.SortField)
		v.Set(ParamDir, string(s.SortDir))
	}
	if s.PageSize != def.PageSize {
		v.Set(ParamPageSize, strconv.Itoa(s.PageSize))
	}
	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if s.ShowAll {
		v.Set(ParamShow, "all")
	}
	return v
}

// Encode renders the state as a query string without the leading "?"
func (s State) Encode() string {
	return s.Values().Encode()
}
