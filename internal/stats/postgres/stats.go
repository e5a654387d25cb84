package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/support-desk/internal/stats"
	"github.com/jmoiron/sqlx"
)

// StatsRepository runs the dashboard aggregates through sqlx. Every time
// window is bound as a parameter so the SQL stays portable across drivers.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) stats.Repository {
	return &StatsRepository{db: db}
}

const ticketCountsQuery = `
SELECT
	COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN status IN ('open', 'in_progress') THEN 1 ELSE 0 END), 0) AS pending,
	COALESCE(SUM(CASE WHEN status IN ('resolved', 'closed') THEN 1 ELSE 0 END), 0) AS resolved,
	COALESCE(SUM(CASE WHEN status = 'open' THEN 1 ELSE 0 END), 0) AS open,
	COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0) AS in_progress,
	COALESCE(SUM(CASE WHEN priority = 'urgent' THEN 1 ELSE 0 END), 0) AS urgent,
	COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0) AS high,
	COALESCE(SUM(CASE WHEN priority = 'medium' THEN 1 ELSE 0 END), 0) AS medium,
	COALESCE(SUM(CASE WHEN priority = 'low' THEN 1 ELSE 0 END), 0) AS low
FROM support_tickets`

type ticketRow struct {
	Total      int64 `db:"total"`
	Pending    int64 `db:"pending"`
	Resolved   int64 `db:"resolved"`
	Open       int64 `db:"open"`
	InProgress int64 `db:"in_progress"`
	Urgent     int64 `db:"urgent"`
	High       int64 `db:"high"`
	Medium     int64 `db:"medium"`
	Low        int64 `db:"low"`
}

func (r *StatsRepository) TicketCounts(ctx context.Context) (stats.TicketCounts, error) {
	var row ticketRow
	if err := r.db.GetContext(ctx, &row, ticketCountsQuery); err != nil {
		return stats.TicketCounts{}, err
	}
	return stats.TicketCounts{
		Total:      row.Total,
		Pending:    row.Pending,
		Resolved:   row.Resolved,
		Open:       row.Open,
		InProgress: row.InProgress,
		ByPriority: stats.ByPriority{
			Urgent: row.Urgent,
			High:   row.High,
			Medium: row.Medium,
			Low:    row.Low,
		},
	}, nil
}

const userCountsQuery = `
SELECT
	COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active,
	COALESCE(SUM(CASE WHEN status = 'inactive' THEN 1 ELSE 0 END), 0) AS inactive,
	COALESCE(SUM(CASE WHEN email_verified = ? THEN 1 ELSE 0 END), 0) AS verified,
	COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS new_30_days
FROM users`

type userRow struct {
	Total     int64 `db:"total"`
	Active    int64 `db:"active"`
	Inactive  int64 `db:"inactive"`
	Verified  int64 `db:"verified"`
	New30Days int64 `db:"new_30_days"`
}

func (r *StatsRepository) UserCounts(ctx context.Context, w stats.Windows) (stats.UserCounts, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(userCountsQuery), true, w.NewUsers); err != nil {
		return stats.UserCounts{}, err
	}
	return stats.UserCounts(row), nil
}

const activityCountsQuery = `
SELECT
	COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS last_24h,
	COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS last_7d
FROM activity_logs`

type activityRow struct {
	Total   int64 `db:"total"`
	Last24h int64 `db:"last_24h"`
	Last7d  int64 `db:"last_7d"`
}

func (r *StatsRepository) ActivityCounts(ctx context.Context, w stats.Windows) (stats.ActivityCounts, error) {
	var row activityRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(activityCountsQuery), w.Day, w.Week); err != nil {
		return stats.ActivityCounts{}, err
	}
	return stats.ActivityCounts(row), nil
}

// TicketTimestamps returns creation times since the given instant; the day
// buckets are built in Go because DATE() differs between drivers.
func (r *StatsRepository) TicketTimestamps(ctx context.Context, since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.db.SelectContext(ctx, &stamps,
		r.db.Rebind(`SELECT created_at FROM support_tickets WHERE created_at >= ? ORDER BY created_at`), since)
	if err != nil {
		return nil, err
	}
	return stamps, nil
}
