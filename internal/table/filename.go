package table

import (
	"fmt"
	"path"
	"strings"
)

// ExportBaseName derives the export file stem from a page path: the last
// path segment, stripped of an .html suffix and reduced to a restricted
// character set. Anything outside [A-Za-z0-9._-] becomes an underscore so the
// name is safe on every filesystem a download lands on.
func ExportBaseName(pagePath string) string {
	base := path.Base(strings.TrimSuffix(strings.ReplaceAll(pagePath, "\\", "/"), "/"))
	base = strings.TrimSuffix(base, ".html")
	if base == "" || base == "." {
		base = "table"
	}
	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// FileName builds the full export name for one table, disambiguating
// multiple tables per page with the 1-based index.
func (s *Snapshot) FileName(ext string) string {
	return fmt.Sprintf("%s-%d%s", ExportBaseName(s.Page), s.Index, ext)
}
