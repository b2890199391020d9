package content

import (
	"sort"

	"github.com/itsuki/garden/pkg/gallery"
)

// Title returns the entry's display title in lang.
func (e Entry) Title(lang string) string {
	switch d := e.Data.(type) {
	case *BlogPost:
		return d.Title
	case *Photo:
		return d.Title.Get(lang)
	case *Video:
		return d.Title
	case *NowItem:
		return d.Title
	case *ArchiveItem:
		return d.Title
	case *AboutSection:
		return d.Title
	case *StudyLog:
		return d.Title
	case *ToolPage:
		return d.Title
	}
	return e.Slug
}

// Date returns the entry's date string, or "" for undated collections.
func (e Entry) Date() string {
	switch d := e.Data.(type) {
	case *BlogPost:
		return d.Date
	case *Photo:
		return d.Date
	case *Video:
		return d.Date
	case *ArchiveItem:
		return d.Date
	case *StudyLog:
		return d.Date
	case *ToolPage:
		return d.Date
	}
	return ""
}

// Lang returns the entry's language. Archive items have none and return "".
func (e Entry) Lang() string {
	switch d := e.Data.(type) {
	case *BlogPost:
		return d.Lang
	case *Photo:
		return d.Lang
	case *Video:
		return d.Lang
	case *NowItem:
		return d.Lang
	case *AboutSection:
		return d.Lang
	case *StudyLog:
		return d.Lang
	case *ToolPage:
		return d.Lang
	}
	return ""
}

// Featured reports whether the entry is marked for the home page.
func (e Entry) Featured() bool {
	switch d := e.Data.(type) {
	case *BlogPost:
		return d.Featured
	case *Photo:
		return d.Featured
	case *Video:
		return d.Featured
	case *ToolPage:
		return d.Featured
	}
	return false
}

// Filter returns the entries for which keep is true.
func Filter(entries []Entry, keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// ByLang keeps entries in lang. Entries without a language always match.
func ByLang(lang string) func(Entry) bool {
	return func(e Entry) bool {
		l := e.Lang()
		return l == "" || l == lang
	}
}

// IsFeatured keeps featured entries.
func IsFeatured(e Entry) bool { return e.Featured() }

// SortByDate orders entries newest first; ties keep slug order. About
// sections sort by their order field instead.
func SortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, aok := entries[i].Data.(*AboutSection)
		b, bok := entries[j].Data.(*AboutSection)
		if aok && bok {
			return a.Order < b.Order
		}
		return entries[i].Date() > entries[j].Date()
	})
}

// Page is one page of a paginated listing. Number is 1-based.
type Page struct {
	Entries []Entry `json:"entries"`
	Number  int     `json:"page"`
	Total   int     `json:"pages"`
	Count   int     `json:"count"`
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.Total }

// Paginate returns page number n (1-based) of size entries. Out-of-range
// numbers are clamped; a non-positive size puts everything on one page.
func Paginate(entries []Entry, n, size int) Page {
	if size <= 0 {
		size = max(len(entries), 1)
	}
	total := max((len(entries)+size-1)/size, 1)
	n = min(max(n, 1), total)

	start := min((n-1)*size, len(entries))
	end := min(start+size, len(entries))
	return Page{
		Entries: entries[start:end],
		Number:  n,
		Total:   total,
		Count:   len(entries),
	}
}

// Find returns the entry with the given slug.
func Find(entries []Entry, slug string) (Entry, bool) {
	for _, e := range entries {
		if e.Slug == slug {
			return e, true
		}
	}
	return Entry{}, false
}

// PhotoRecords converts photo entries into gallery records in display
// order, titled in lang. Other entries are ignored.
func PhotoRecords(entries []Entry, lang string) []gallery.ImageRecord {
	var records []gallery.ImageRecord
	for _, e := range entries {
		p, ok := e.Data.(*Photo)
		if !ok {
			continue
		}
		records = append(records, gallery.ImageRecord{
			URL:    p.Image,
			Width:  p.Width,
			Height: p.Height,
			Title:  p.Title.Get(lang),
		})
	}
	return gallery.Normalize(records)
}
