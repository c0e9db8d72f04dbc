package logs

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// ListTags retrieves all tags ever attached to a log.
func (s *Store) ListTags(ctx context.Context) ([]Tag, error) {
	queryString, args, err := sq.Select("id", "name").From(tagsTable).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, errorSqlBuild(err)
	}

	tags := []Tag{}
	if err = s.db.SelectContext(ctx, &tags, queryString, args...); err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	return tags, nil
}
