package store

import (
	"database/sql"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/item"
)

// itemColumns is the select list shared by every item query.
const itemColumns = `id, content, content_kind, image_path, category,
	source_app, is_favorite, is_sensitive, digest, preview, captured_at`

// Insert stores a capture event as a new item, deduplicating on digest:
// if a row with the same digest already exists, its id is returned and
// nothing else is mutated. A fresh insert triggers the count-based
// eviction check in the same critical section.
func (s *Store) Insert(ev item.CaptureEvent) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	imagePath := toNullString(ev.ImagePath)
	res, err := s.db.Exec(`
		INSERT INTO clipboard_items
			(content, content_kind, image_path, category, source_app,
			 is_sensitive, digest, preview, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Content, ev.ContentKind, imagePath, ev.Category, ev.SourceApp,
		boolToInt(ev.IsSensitive), ev.Digest, ev.Preview, ev.CapturedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			// Someone already holds this digest: resolve to their row.
			var id int64
			qerr := s.db.QueryRow(
				`SELECT id FROM clipboard_items WHERE digest = ?`, ev.Digest,
			).Scan(&id)
			if qerr != nil {
				return 0, errors.NewStorageFailure(qerr)
			}
			log.Debugf("duplicate clipboard item (digest exists): id=%d", id)
			return id, nil
		}
		return 0, errors.NewStorageFailure(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.NewStorageFailure(err)
	}
	log.Debugf("inserted clipboard item: id=%d category=%s", id, ev.Category)

	if err := s.cleanupExcessLocked(); err != nil {
		return id, err
	}
	return id, nil
}

// History returns non-sensitive items with favorites sorted before
// non-favorites, each group newest first.
func (s *Store) History(limit, offset int) ([]item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT `+itemColumns+`
		FROM clipboard_items
		WHERE is_sensitive = 0
		ORDER BY is_favorite DESC, captured_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Get returns a single item by id.
func (s *Store) Get(id int64) (*item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *Store) getLocked(id int64) (*item.Item, error) {
	row := s.db.QueryRow(`
		SELECT `+itemColumns+`
		FROM clipboard_items WHERE id = ?`, id)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	return it, nil
}

// GetContent returns an item's full content by id.
func (s *Store) GetContent(id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var content string
	err := s.db.QueryRow(
		`SELECT content FROM clipboard_items WHERE id = ?`, id,
	).Scan(&content)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFound(id)
	}
	if err != nil {
		return "", errors.NewStorageFailure(err)
	}
	return content, nil
}

// SetFavorite updates the favorite flag.
func (s *Store) SetFavorite(id int64, favorite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`UPDATE clipboard_items SET is_favorite = ? WHERE id = ?`,
		boolToInt(favorite), id,
	)
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	if n == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// Delete removes an item. For image items the stored file is removed
// best-effort: a file-system failure is logged, the row deletion stands.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.getLocked(id)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`DELETE FROM clipboard_items WHERE id = ?`, id)
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	if n == 0 {
		return errors.NewNotFound(id)
	}

	if it.ContentKind == item.KindImage && it.ImagePath != "" {
		removeImageFile(it.ImagePath)
	}
	return nil
}

// CleanupExpired deletes all non-favorite items older than the retention
// window and removes their image files. Returns the number of deleted
// rows. Favorites are never touched.
func (s *Store) CleanupExpired(retentionDays int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if retentionDays > item.MaxRetentionDays {
		retentionDays = item.MaxRetentionDays
	}
	threshold := time.Now().Unix() - int64(retentionDays)*86400

	paths, err := s.collectImagePaths(`
		SELECT image_path FROM clipboard_items
		WHERE captured_at < ? AND is_favorite = 0
		  AND content_kind = ? AND image_path IS NOT NULL`,
		threshold, item.KindImage)
	if err != nil {
		return 0, err
	}

	res, err := s.db.Exec(
		`DELETE FROM clipboard_items WHERE captured_at < ? AND is_favorite = 0`,
		threshold,
	)
	if err != nil {
		return 0, errors.NewStorageFailure(err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewStorageFailure(err)
	}

	for _, p := range paths {
		removeImageFile(p)
	}

	if deleted > 0 {
		log.Infof("cleaned up %d expired clipboard items", deleted)
	}
	return deleted, nil
}

// cleanupExcessLocked enforces the max_items budget after an insert,
// deleting the oldest non-favorite items until the count fits. If only
// favorites remain the store stays over budget; that is accepted.
func (s *Store) cleanupExcessLocked() error {
	settings, err := s.settingsLocked()
	if err != nil {
		return err
	}
	maxItems := int64(settings.MaxItems)

	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM clipboard_items`).Scan(&count); err != nil {
		return errors.NewStorageFailure(err)
	}
	if count <= maxItems {
		return nil
	}
	toDelete := count - maxItems

	paths, err := s.collectImagePaths(`
		SELECT image_path FROM clipboard_items
		WHERE id IN (
			SELECT id FROM clipboard_items
			WHERE is_favorite = 0
			ORDER BY captured_at ASC
			LIMIT ?
		) AND image_path IS NOT NULL`, toDelete)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`
		DELETE FROM clipboard_items WHERE id IN (
			SELECT id FROM clipboard_items
			WHERE is_favorite = 0
			ORDER BY captured_at ASC
			LIMIT ?
		)`, toDelete)
	if err != nil {
		return errors.NewStorageFailure(err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return errors.NewStorageFailure(err)
	}

	for _, p := range paths {
		removeImageFile(p)
	}

	if deleted == 0 {
		log.Warn("max_items exceeded but no non-favorite items were eligible for deletion")
	} else {
		log.Infof("deleted %d oldest items to hold the max_items limit", deleted)
	}
	return nil
}

// ImagePathKnown reports whether the exact path is recorded on some item.
func (s *Store) ImagePathKnown(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM clipboard_items WHERE image_path = ? LIMIT 1)`,
		path,
	).Scan(&exists)
	if err != nil {
		return false, errors.NewStorageFailure(err)
	}
	return exists != 0, nil
}

// collectImagePaths runs a single-column query returning image paths.
func (s *Store) collectImagePaths(query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p sql.NullString
		if err := rows.Scan(&p); err != nil {
			return nil, errors.NewStorageFailure(err)
		}
		if p.Valid && p.String != "" {
			paths = append(paths, p.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	return paths, nil
}

// removeImageFile removes an orphaned image file. Failure is logged, not
// propagated: the row mutation is the operation's success criterion, not
// disk hygiene.
func removeImageFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to delete image file %s: %v", path, err)
	}
}

// scanItem scans a single row into an Item.
func scanItem(row *sql.Row) (*item.Item, error) {
	var (
		it          item.Item
		imagePath   sql.NullString
		isFavorite  int
		isSensitive int
	)
	err := row.Scan(
		&it.ID, &it.Content, &it.ContentKind, &imagePath, &it.Category,
		&it.SourceApp, &isFavorite, &isSensitive, &it.Digest, &it.Preview,
		&it.CapturedAt,
	)
	if err != nil {
		return nil, err
	}
	it.ImagePath = imagePath.String
	it.IsFavorite = isFavorite != 0
	it.IsSensitive = isSensitive != 0
	return &it, nil
}

// scanItems drains a multi-row result.
func scanItems(rows *sql.Rows) ([]item.Item, error) {
	items := make([]item.Item, 0)
	for rows.Next() {
		var (
			it          item.Item
			imagePath   sql.NullString
			isFavorite  int
			isSensitive int
		)
		err := rows.Scan(
			&it.ID, &it.Content, &it.ContentKind, &imagePath, &it.Category,
			&it.SourceApp, &isFavorite, &isSensitive, &it.Digest, &it.Preview,
			&it.CapturedAt,
		)
		if err != nil {
			return nil, errors.NewStorageFailure(err)
		}
		it.ImagePath = imagePath.String
		it.IsFavorite = isFavorite != 0
		it.IsSensitive = isSensitive != 0
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	return items, nil
}

// isUniqueConstraintError checks for a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
