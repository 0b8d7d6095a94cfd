package store

import (
	"strings"

	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/item"
)

// Search runs a full-text match over item content plus equality filters on
// category, source app, and content kind, and an inclusive captured_at
// range. Sensitive items are never returned; results are ordered strictly
// by recency.
func (s *Store) Search(query string, filters item.SearchFilters, limit int) ([]item.Item, error) {
	match := sanitizeMatchQuery(query)
	if match == "" {
		return nil, errors.NewInvalidInput("query is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT ci.id, ci.content, ci.content_kind, ci.image_path, ci.category,
			ci.source_app, ci.is_favorite, ci.is_sensitive, ci.digest,
			ci.preview, ci.captured_at
		FROM clipboard_items ci
		JOIN clipboard_fts fts ON ci.id = fts.rowid
		WHERE clipboard_fts MATCH ? AND ci.is_sensitive = 0`)
	args := []any{match}

	if filters.Category != nil {
		sb.WriteString(" AND ci.category = ?")
		args = append(args, *filters.Category)
	}
	if filters.SourceApp != nil {
		sb.WriteString(" AND ci.source_app = ?")
		args = append(args, *filters.SourceApp)
	}
	if filters.ContentKind != nil {
		sb.WriteString(" AND ci.content_kind = ?")
		args = append(args, *filters.ContentKind)
	}
	if filters.DateFrom != nil {
		sb.WriteString(" AND ci.captured_at >= ?")
		args = append(args, *filters.DateFrom)
	}
	if filters.DateTo != nil {
		sb.WriteString(" AND ci.captured_at <= ?")
		args = append(args, *filters.DateTo)
	}

	sb.WriteString(" ORDER BY ci.captured_at DESC LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.Query(sb.String(), args...)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// sanitizeMatchQuery turns free-form user input into an FTS5 MATCH
// expression that cannot trip the query parser: each whitespace token is
// double-quoted (implicit AND between tokens), embedded quotes doubled.
func sanitizeMatchQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}
