// Package web holds the portal's HTML templates and the helpers they call.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/psycho-70/Eservice-frontend/internal/listview"
	"github.com/psycho-70/Eservice-frontend/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page template. Pages are addressed by file name,
// e.g. "signin.html".
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// MustTemplates is Templates for program start-up
func MustTemplates() *template.Template {
	t, err := Templates()
	if err != nil {
		panic(err)
	}
	return t
}

// FuncMap returns the helpers available to every template
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"listURL":    ListURL,
		"sortURL":    SortURL,
		"pageURL":    PageURL,
		"sizeURL":    SizeURL,
		"showAllURL": ShowAllURL,
		"selectURL":  SelectURL,
		"sortMark":   SortMark,
		"display":    Display,
		"verified":   Verified,
		"formatTime": FormatTime,
		"fieldLabel": FieldLabel,
		"pageSizes":  func() []int { return listview.PageSizes },
	}
}

// ListURL links base with the list state s
func ListURL(base string, s listview.State) string {
	if q := s.Encode(); q != "" {
		return base + "?" + q
	}
	return base
}

// SortURL links the column header for field
func SortURL(base string, s listview.State, field string) string {
	return ListURL(base, s.ToggleSort(field).WithPage(1))
}

// PageURL links page n
func PageURL(base string, s listview.State, n int) string {
	return ListURL(base, s.WithPage(n))
}

// SizeURL links the page size selector entry for n
func SizeURL(base string, s listview.State, n int) string {
	return ListURL(base, s.WithPageSize(n))
}

// ShowAllURL links the extended columns toggle
func ShowAllURL(base string, s listview.State, on bool) string {
	return ListURL(base, s.WithShowAll(on))
}

// SelectURL links the select-all checkbox. on selects the visible page, off
// clears the selection.
func SelectURL(base string, s listview.State, on bool) string {
	v := s.Values()
	if on {
		v.Set("select", "all")
	} else {
		v.Set("select", "none")
	}
	return base + "?" + v.Encode()
}

// SortMark is the arrow shown next to the active sort column
func SortMark(s listview.State, field string) string {
	if s.SortField != field {
		return ""
	}
	if s.SortDir == listview.Asc {
		return "▲"
	}
	return "▼"
}

// Display renders one record field, or placeholder when it is absent
func Display(rec models.VerificationRecord, key, placeholder string) string {
	if key == models.FieldCreatedAt {
		if rec.CreatedAt.IsZero() {
			return placeholder
		}
		return FormatTime(rec.CreatedAt)
	}
	return rec.Display(key, placeholder)
}

// Verified reports whether rec reached the verification stage
func Verified(rec models.VerificationRecord) bool {
	return rec.Stage() == models.StageVerified
}

// FormatTime renders a timestamp for the admin table
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

// FieldLabel returns the English label of a field, or the Arabic one when
// arabic is set.
func FieldLabel(key string, arabic bool) string {
	label, labelAR := models.FieldLabels(key)
	if arabic {
		return labelAR
	}
	return label
}
