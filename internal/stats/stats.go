package stats

import (
	"sort"
	"time"
)

const (
	TrendDays   = 7
	NewUserDays = 30
)

type ByPriority struct {
	Urgent int64 `json:"urgent"`
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

type TicketCounts struct {
	Total      int64      `json:"total"`
	Pending    int64      `json:"pending"`
	Resolved   int64      `json:"resolved"`
	Open       int64      `json:"open"`
	InProgress int64      `json:"in_progress"`
	ByPriority ByPriority `json:"by_priority"`
}

type UserCounts struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Verified  int64 `json:"verified"`
	New30Days int64 `json:"new_30_days"`
}

type ActivityCounts struct {
	Total   int64 `json:"total"`
	Last24h int64 `json:"last_24h"`
	Last7d  int64 `json:"last_7d"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type Trends struct {
	Tickets7d []DayCount `json:"tickets_7d"`
}

// Windows are the cut-off instants the aggregate queries bind.
type Windows struct {
	Day      time.Time
	Week     time.Time
	NewUsers time.Time
	// TrendStart is local midnight TrendDays-1 days ago.
	TrendStart time.Time
}

func WindowsAt(now time.Time) Windows {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Windows{
		Day:        now.Add(-24 * time.Hour),
		Week:       now.AddDate(0, 0, -7),
		NewUsers:   now.AddDate(0, 0, -NewUserDays),
		TrendStart: midnight.AddDate(0, 0, -(TrendDays - 1)),
	}
}

// Dashboard is the admin statistics payload. The flat camelCase fields are
// kept for older dashboard clients.
type Dashboard struct {
	Tickets         TicketCounts   `json:"tickets"`
	Users           UserCounts     `json:"users"`
	Activity        ActivityCounts `json:"activity"`
	Trends          Trends         `json:"trends"`
	TotalTickets    int64          `json:"totalTickets"`
	PendingTickets  int64          `json:"pendingTickets"`
	ResolvedTickets int64          `json:"resolvedTickets"`
	TotalUsers      int64          `json:"totalUsers"`
}

func NewDashboard(t TicketCounts, u UserCounts, a ActivityCounts, trend []DayCount) Dashboard {
	if trend == nil {
		trend = []DayCount{}
	}
	return Dashboard{
		Tickets:         t,
		Users:           u,
		Activity:        a,
		Trends:          Trends{Tickets7d: trend},
		TotalTickets:    t.Total,
		PendingTickets:  t.Pending,
		ResolvedTickets: t.Resolved,
		TotalUsers:      u.Total,
	}
}

// BucketByDay counts timestamps per local calendar day, ascending. Days
// without tickets are omitted.
func BucketByDay(stamps []time.Time, loc *time.Location) []DayCount {
	counts := make(map[string]int64)
	order := make([]string, 0)
	for _, ts := range stamps {
		day := ts.In(loc).Format("2006-01-02")
		if _, seen := counts[day]; !seen {
			order = append(order, day)
		}
		counts[day]++
	}

	sort.Strings(order)
	out := make([]DayCount, 0, len(order))
	for _, d := range order {
		out = append(out, DayCount{Date: d, Count: counts[d]})
	}
	return out
}
