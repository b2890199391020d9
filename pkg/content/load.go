package content

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/itsuki/garden/pkg/errors"
)

// maxParallel bounds concurrent file reads within one collection.
const maxParallel = 8

// Entry is one validated content file.
type Entry struct {
	Collection Collection `json:"collection"`
	Slug       string     `json:"slug"`
	Path       string     `json:"path"`
	Data       Schema     `json:"data"`
	Body       string     `json:"body,omitempty"`
}

// Library holds the loaded entries of every collection.
type Library map[Collection][]Entry

// Parse validates one document of collection c. path is relative to the
// collection directory and names the slug; Markdown is recognised by
// extension. All schema issues are returned in one INVALID_SCHEMA error.
func Parse(c Collection, path string, data []byte) (Entry, error) {
	issues := &errors.Issues{Source: string(c) + "/" + filepath.ToSlash(path)}
	schema := c.newSchema()
	if schema == nil {
		return Entry{}, errors.New(errors.ErrCodeNotFound, "unknown collection %q", c)
	}

	front, body := data, ""
	if isMarkdown(path) {
		fm, b, ok := SplitFrontMatter(data)
		if !ok {
			issues.Add("missing front matter")
			return Entry{}, issues.Err()
		}
		front, body = fm, b
	}

	var raw map[string]any
	if err := yaml.Unmarshal(front, &raw); err != nil {
		issues.Add("front matter: %v", err)
		return Entry{}, issues.Err()
	}
	if err := yaml.Unmarshal(front, schema); err != nil {
		var te *yaml.TypeError
		if errors.As(err, &te) {
			for _, msg := range te.Errors {
				issues.Add("%s", msg)
			}
		} else {
			issues.Add("%v", err)
		}
	}

	f := fields{raw: raw}
	schema.check(&f)
	for _, msg := range f.issues {
		issues.Add("%s", msg)
	}
	if err := issues.Err(); err != nil {
		return Entry{}, err
	}

	return Entry{
		Collection: c,
		Slug:       Slug(path),
		Path:       path,
		Data:       schema,
		Body:       body,
	}, nil
}

// Slug derives an entry id from its path relative to the collection: the
// extension is dropped, separators become "/" and the rest is lowercased
// with spaces turned into dashes.
func Slug(rel string) string {
	rel = filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	rel = strings.ToLower(rel)
	return strings.Join(strings.Fields(rel), "-")
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

// LoadCollection reads and validates every file of c under root. A missing
// collection directory yields no entries. Invalid files are skipped and
// reported together in the returned error; entries are sorted by slug.
func LoadCollection(ctx context.Context, root string, c Collection) ([]Entry, error) {
	dir := filepath.Join(root, string(c))
	paths, err := collectionFiles(dir, c)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, rel := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(dir, rel))
			if err != nil {
				errs[i] = errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s/%s", c, rel)
				return nil
			}
			e, err := Parse(c, rel, data)
			if err != nil {
				errs[i] = err
				return nil
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	seen := make(map[string]string, len(entries))
	for i, e := range entries {
		if errs[i] != nil {
			continue
		}
		if prev, dup := seen[e.Slug]; dup {
			errs[i] = errors.New(errors.ErrCodeInvalidSchema, "%s/%s: slug %q already used by %s", c, e.Path, e.Slug, prev)
			continue
		}
		seen[e.Slug] = e.Path
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, errors.Join(errs...)
}

func collectionFiles(dir string, c Collection) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !c.Matches(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadAll loads every collection under root concurrently. Errors from all
// collections are joined; the library still holds every valid entry.
func LoadAll(ctx context.Context, root string) (Library, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeFileNotFound, "content directory %s not found", root)
	}

	results := make([][]Entry, len(Collections))
	errs := make([]error, len(Collections))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range Collections {
		g.Go(func() error {
			results[i], errs[i] = LoadCollection(ctx, root, c)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib := make(Library, len(Collections))
	for i, c := range Collections {
		lib[c] = results[i]
	}
	return lib, errors.Join(errs...)
}

// Count returns the total number of entries.
func (l Library) Count() int {
	n := 0
	for _, entries := range l {
		n += len(entries)
	}
	return n
}
