package logs

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

// TopTagsLimit is how many of the most used tags GetStats reports.
const TopTagsLimit = 3

type totalsRow struct {
	TotalLogs     int64   `db:"total_logs"`
	TotalTime     int64   `db:"total_time"`
	AvgTimePerLog float64 `db:"avg_time_per_log"`
}

type tagUsageRow struct {
	Name     string `db:"name"`
	TagCount int64  `db:"tag_count"`
}

// GetStats returns journal-wide totals and the most used tags.
// The average only counts logs that recorded a time.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	queryString, args, err := sq.Select(
		"COUNT(*) AS total_logs",
		"COALESCE(SUM(time_spent), 0) AS total_time",
		"COALESCE(AVG(time_spent), 0.0) AS avg_time_per_log",
	).From(logsTable).ToSql()
	if err != nil {
		return Stats{}, errorSqlBuild(err)
	}

	var totals totalsRow
	if err = s.db.GetContext(ctx, &totals, queryString, args...); err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate logs: %w", err)
	}

	queryString, args, err = sq.Select("t.name AS name", "COUNT(*) AS tag_count").
		From(tagsTable + " t").
		Join(logTagsTable + " lt ON t.id = lt.tag_id").
		GroupBy("t.name").
		OrderBy("tag_count DESC", "t.name ASC").
		Limit(TopTagsLimit).
		ToSql()
	if err != nil {
		return Stats{}, errorSqlBuild(err)
	}

	var usage []tagUsageRow
	if err = s.db.SelectContext(ctx, &usage, queryString, args...); err != nil {
		return Stats{}, fmt.Errorf("failed to rank tags: %w", err)
	}

	return Stats{
		TotalLogs:     totals.TotalLogs,
		TotalTime:     totals.TotalTime,
		AvgTimePerLog: totals.AvgTimePerLog,
		TopTags:       lo.Map(usage, func(u tagUsageRow, _ int) string { return u.Name }),
	}, nil
}
