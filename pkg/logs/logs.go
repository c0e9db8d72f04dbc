package logs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

var (
	ErrLogNotFound       = errors.New("log not found")
	ErrEmptyTitle        = errors.New("log title cannot be empty")
	ErrInvalidMood       = errors.New("invalid mood")
	ErrNegativeTimeSpent = errors.New("time spent cannot be negative")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidPagination = errors.New("invalid pagination")
)

// IsValidation reports whether err was caused by malformed input rather than the store.
func IsValidation(err error) bool {
	for _, target := range []error{ErrEmptyTitle, ErrInvalidMood, ErrNegativeTimeSpent, ErrInvalidDate, ErrInvalidPagination} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

const (
	logsTable    = "logs"
	tagsTable    = "tags"
	logTagsTable = "log_tags"
)

var logColumns = []string{"id", "title", "content", "date", "mood", "time_spent", "created_at"}

// CreateLog validates and stores a new log with its tags. Missing tags are created.
// The log and all of its tag associations become visible atomically.
func (s *Store) CreateLog(ctx context.Context, params CreateLogParams) (Log, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return Log{}, ErrEmptyTitle
	}

	mood, err := ParseMood(string(params.Mood))
	if err != nil {
		return Log{}, err
	}

	if params.TimeSpent != nil && *params.TimeSpent < 0 {
		return Log{}, ErrNegativeTimeSpent
	}

	now := s.now()
	date := now
	if params.Date != nil && !params.Date.IsZero() {
		date = *params.Date
	}

	tags := NormalizeTags(params.Tags)

	var logID int64
	err = s.transaction(ctx, func(tx *sqlx.Tx) error {
		query := sq.Insert(logsTable).
			Columns("title", "content", "date", "mood", "time_spent", "created_at").
			Values(title, params.Content, FormatDate(date), sql.NullString{String: string(mood), Valid: mood != ""}, params.TimeSpent, FormatDate(now))

		queryString, args, err := query.ToSql()
		if err != nil {
			return errorSqlBuild(err)
		}

		res, err := tx.ExecContext(ctx, queryString, args...)
		if err != nil {
			return fmt.Errorf("failed to insert log: %w", err)
		}

		if logID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read new log id: %w", err)
		}

		for _, name := range tags {
			tagID, err := upsertTag(ctx, tx, name)
			if err != nil {
				return err
			}

			queryString, args, err := sq.Insert(logTagsTable).Columns("log_id", "tag_id").Values(logID, tagID).ToSql()
			if err != nil {
				return errorSqlBuild(err)
			}
			if _, err = tx.ExecContext(ctx, queryString, args...); err != nil {
				return fmt.Errorf("failed to attach tag '%s' to log %d: %w", name, logID, err)
			}
		}
		return nil
	})
	if err != nil {
		return Log{}, err
	}

	slog.Debug("log created", slog.Int64("id", logID), slog.Int("tags", len(tags)))
	return s.GetLog(ctx, logID)
}

// upsertTag returns the id of the named tag, creating the tag row on first use.
func upsertTag(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	queryString, args, err := sq.Insert(tagsTable).Columns("name").Values(name).
		Suffix("ON CONFLICT(name) DO NOTHING").ToSql()
	if err != nil {
		return 0, errorSqlBuild(err)
	}
	if _, err = tx.ExecContext(ctx, queryString, args...); err != nil {
		return 0, fmt.Errorf("failed to create tag '%s': %w", name, err)
	}

	queryString, args, err = sq.Select("id").From(tagsTable).Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return 0, errorSqlBuild(err)
	}

	var id int64
	if err = tx.GetContext(ctx, &id, queryString, args...); err != nil {
		return 0, fmt.Errorf("failed to look up tag '%s': %w", name, err)
	}
	return id, nil
}

// GetLog retrieves a log with its tags.
func (s *Store) GetLog(ctx context.Context, id int64) (Log, error) {
	queryString, args, err := sq.Select(logColumns...).From(logsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Log{}, errorSqlBuild(err)
	}

	var row logRow
	if err = s.db.GetContext(ctx, &row, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Log{}, ErrLogNotFound
		}
		return Log{}, fmt.Errorf("failed to get log %d: %w", id, err)
	}

	logs, err := s.withTags(ctx, []logRow{row})
	if err != nil {
		return Log{}, err
	}
	return logs[0], nil
}

// ListLogs returns a page of logs, newest date first.
func (s *Store) ListLogs(ctx context.Context, skip, limit int) ([]Log, error) {
	if skip < 0 || limit < 1 {
		return nil, fmt.Errorf("%w: skip=%d limit=%d", ErrInvalidPagination, skip, limit)
	}

	queryString, args, err := sq.Select(logColumns...).From(logsTable).
		OrderBy("date DESC", "id DESC").
		Limit(uint64(limit)).Offset(uint64(skip)).
		ToSql()
	if err != nil {
		return nil, errorSqlBuild(err)
	}

	var rows []logRow
	if err = s.db.SelectContext(ctx, &rows, queryString, args...); err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	return s.withTags(ctx, rows)
}

// DeleteLog removes a log's tag associations and then the log itself.
func (s *Store) DeleteLog(ctx context.Context, id int64) error {
	return s.transaction(ctx, func(tx *sqlx.Tx) error {
		queryString, args, err := sq.Delete(logTagsTable).Where(sq.Eq{"log_id": id}).ToSql()
		if err != nil {
			return errorSqlBuild(err)
		}
		if _, err = tx.ExecContext(ctx, queryString, args...); err != nil {
			return fmt.Errorf("failed to delete tags of log %d: %w", id, err)
		}

		queryString, args, err = sq.Delete(logsTable).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return errorSqlBuild(err)
		}
		res, err := tx.ExecContext(ctx, queryString, args...)
		if err != nil {
			return fmt.Errorf("failed to delete log %d: %w", id, err)
		}

		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrLogNotFound
		}
		return nil
	})
}

// withTags converts rows to logs and attaches their tag names.
func (s *Store) withTags(ctx context.Context, rows []logRow) ([]Log, error) {
	if len(rows) == 0 {
		return []Log{}, nil
	}

	ids := lo.Map(rows, func(r logRow, _ int) int64 { return r.ID })
	queryString, args, err := sq.Select("lt.log_id", "t.name").
		From(logTagsTable + " lt").
		Join(tagsTable + " t ON t.id = lt.tag_id").
		Where(sq.Eq{"lt.log_id": ids}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, errorSqlBuild(err)
	}

	var pairs []logTagRow
	if err = s.db.SelectContext(ctx, &pairs, queryString, args...); err != nil {
		return nil, fmt.Errorf("failed to load log tags: %w", err)
	}
	byLog := lo.GroupBy(pairs, func(p logTagRow) int64 { return p.LogID })

	return lo.Map(rows, func(r logRow, _ int) Log {
		l := r.toLog()
		l.Tags = lo.Map(byLog[r.ID], func(p logTagRow, _ int) string { return p.Name })
		return l
	}), nil
}

// toLog converts a stored row. A row whose date does not parse keeps a zero Date so that
// aggregations skip it instead of failing the whole request.
func (r logRow) toLog() Log {
	l := Log{
		ID:      r.ID,
		Title:   r.Title,
		Content: r.Content,
		Mood:    Mood(r.Mood.String),
		Tags:    []string{},
	}
	if r.TimeSpent.Valid {
		minutes := int(r.TimeSpent.Int64)
		l.TimeSpent = &minutes
	}

	var err error
	if l.Date, err = ParseDate(r.Date); err != nil {
		slog.Warn("log has malformed date", slog.Int64("id", r.ID), slog.String("error", err.Error()))
	}
	if l.CreatedAt, err = ParseDate(r.CreatedAt); err != nil {
		slog.Warn("log has malformed created_at", slog.Int64("id", r.ID), slog.String("error", err.Error()))
	}
	return l
}

// NormalizeTags trims names and drops empty and duplicate entries, preserving order.
func NormalizeTags(tags []string) []string {
	trimmed := lo.Map(tags, func(t string, _ int) string { return strings.TrimSpace(t) })
	return lo.Uniq(lo.Compact(trimmed))
}
