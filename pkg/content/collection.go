// Package content loads and validates the site's content collections.
//
// Each collection is a directory of Markdown, YAML or JSON files under the
// content root. Markdown files carry YAML front matter between "---" lines;
// YAML and JSON files are the whole document. Files whose name starts with
// "_" are drafts and skipped.
//
//	entries, err := content.LoadCollection(ctx, "content", content.Photos)
//	records := content.PhotoRecords(entries, "en")
//
// Every schema problem in a file is reported together as one INVALID_SCHEMA
// error naming the file; problems in different files are joined, and valid
// files still load.
package content

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/itsuki/garden/pkg/errors"
)

// Collection names a content directory.
type Collection string

const (
	Blog    Collection = "blog"
	Photos  Collection = "photos"
	Videos  Collection = "videos"
	Now     Collection = "now"
	Archive Collection = "archive"
	About   Collection = "about"
	Study   Collection = "study"
	Tools   Collection = "tools"
)

// Collections lists every collection in display order.
var Collections = []Collection{Blog, Photos, Videos, Now, Archive, About, Study, Tools}

var extensions = map[Collection][]string{
	Blog:    {".md", ".mdx"},
	Photos:  {".md", ".mdx"},
	Videos:  {".md", ".mdx", ".json", ".yaml", ".yml"},
	Now:     {".md", ".yaml", ".yml"},
	Archive: {".md", ".yaml", ".yml"},
	About:   {".md", ".mdx"},
	Study:   {".md", ".yaml", ".yml"},
	Tools:   {".md", ".mdx"},
}

// ParseCollection resolves a collection name.
func ParseCollection(name string) (Collection, error) {
	c := Collection(strings.ToLower(name))
	if slices.Contains(Collections, c) {
		return c, nil
	}
	return "", errors.New(errors.ErrCodeNotFound, "unknown collection %q", name)
}

// Extensions returns the file extensions the collection accepts.
func (c Collection) Extensions() []string {
	return slices.Clone(extensions[c])
}

// Matches reports whether a file belongs to the collection: an accepted
// extension and a base name not starting with "_".
func (c Collection) Matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "_") {
		return false
	}
	return slices.Contains(extensions[c], strings.ToLower(filepath.Ext(base)))
}

// newSchema returns an empty document of the collection's type.
func (c Collection) newSchema() Schema {
	switch c {
	case Blog:
		return &BlogPost{}
	case Photos:
		return &Photo{}
	case Videos:
		return &Video{}
	case Now:
		return &NowItem{}
	case Archive:
		return &ArchiveItem{}
	case About:
		return &AboutSection{}
	case Study:
		return &StudyLog{}
	case Tools:
		return &ToolPage{}
	default:
		return nil
	}
}
