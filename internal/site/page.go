// Package site reads and mutates the rendered static site: locating marked
// tables, launch-button blocks and history controls, and writing modified
// pages back to disk.
package site

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Page is one rendered HTML page held as a parsed document.
type Page struct {
	// Path is the absolute location on disk.
	Path string
	// Rel is the site-relative path, slash-separated.
	Rel string
	Doc *html.Node
}

// LoadPage parses one page from disk.
func LoadPage(path, rel string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}
	return &Page{Path: path, Rel: rel, Doc: doc}, nil
}

// ParsePage parses page markup held in memory. Used by the preview server
// and by tests.
func ParsePage(rel, markup string) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}
	return &Page{Rel: rel, Doc: doc}, nil
}

// Render serializes the document back to markup.
func (p *Page) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, p.Doc); err != nil {
		return nil, fmt.Errorf("render %s: %w", p.Rel, err)
	}
	return buf.Bytes(), nil
}

// Save writes the (possibly mutated) document back to its on-disk location.
func (p *Page) Save() error {
	data, err := p.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.Path, data, 0o644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

// Site is the set of rendered pages under one directory.
type Site struct {
	Dir   string
	Pages []*Page
}

// Load parses every .html file under dir, sorted by relative path.
func Load(dir string) (*Site, error) {
	s := &Site{Dir: dir}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		page, err := LoadPage(path, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		s.Pages = append(s.Pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load site %s: %w", dir, err)
	}
	sort.Slice(s.Pages, func(i, j int) bool { return s.Pages[i].Rel < s.Pages[j].Rel })
	return s, nil
}

// Save writes every page back to disk.
func (s *Site) Save() error {
	for _, page := range s.Pages {
		if err := page.Save(); err != nil {
			return err
		}
	}
	return nil
}

// PageByRel returns the page with the given site-relative path, or nil.
func (s *Site) PageByRel(rel string) *Page {
	for _, page := range s.Pages {
		if page.Rel == rel {
			return page
		}
	}
	return nil
}
