package server

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/itsuki/garden/pkg/content"
	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/httputil"
)

// loadCollection reads one collection for a request, filtered to lang and
// newest first. Invalid files are logged and skipped.
func (s *Server) loadCollection(r *http.Request, lang string) ([]content.Entry, error) {
	c, err := content.ParseCollection(chi.URLParam(r, "collection"))
	if err != nil {
		return nil, err
	}
	entries, err := content.LoadCollection(r.Context(), s.cfg.Server.Content, c)
	if err != nil {
		if entries == nil {
			return nil, err
		}
		s.logger.Warn("skipping invalid entries", "collection", c, "error", err)
	}
	entries = content.Filter(entries, content.ByLang(lang))
	content.SortByDate(entries)
	return entries, nil
}

// handleContentList returns one page of a collection as JSON. Query
// parameters: lang, page (1-based), featured.
func (s *Server) handleContentList(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.saveSession(r, sess)
	entries, err := s.loadCollection(r, sess.Lang)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if r.URL.Query().Has("featured") {
		entries = content.Filter(entries, content.IsFeatured)
	}

	page := 1
	if q := r.URL.Query().Get("page"); q != "" {
		if page, err = strconv.Atoi(q); err != nil {
			httputil.WriteError(w, r, errors.New(errors.ErrCodeInvalidInput, "page %q is not a number", q))
			return
		}
	}
	p := content.Paginate(entries, page, s.site.Blog.PageSize)
	for i := range p.Entries {
		p.Entries[i].Body = ""
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// handleContentEntry renders one entry's Markdown body inside the site page.
func (s *Server) handleContentEntry(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.saveSession(r, sess)
	entries, err := s.loadCollection(r, sess.Lang)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	slug := chi.URLParam(r, "*")
	if err := errors.ValidateSlug(slug); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	entry, ok := content.Find(entries, slug)
	if !ok {
		httputil.WriteError(w, r, errors.New(errors.ErrCodeNotFound, "no %s entry %q", chi.URLParam(r, "collection"), slug))
		return
	}

	rendered, err := s.renderer.Render(r.Context(), entry)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	title := entry.Title(sess.Lang)
	var body bytes.Buffer
	body.WriteString("<article>\n")
	fmt.Fprintf(&body, "<h1>%s</h1>\n", html.EscapeString(title))
	if d := entry.Date(); d != "" {
		fmt.Fprintf(&body, "<time>%s</time>\n", html.EscapeString(d))
	}
	body.Write(rendered)
	body.WriteString("</article>\n")
	s.writePage(w, title, sess.Lang, body.Bytes())
}
