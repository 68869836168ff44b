// Package batch ingests a file of expense messages, grouping them by user so
// that each user's messages run in order against the same suggestion engine.
package batch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ivanvallejoss/smartexpense/internal/common"
	"github.com/ivanvallejoss/smartexpense/internal/dateutils"
	"github.com/ivanvallejoss/smartexpense/internal/ingest"
	"github.com/ivanvallejoss/smartexpense/internal/logging"
	"github.com/ivanvallejoss/smartexpense/internal/models"
)

// Result statuses.
const (
	StatusAutoCategorized = "auto_categorized"
	StatusPending         = "pending_confirmation"
	StatusUncategorized   = "uncategorized"
	StatusFailed          = "failed"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dateutils.ToISODate(dr.Start), dateutils.ToISODate(dr.End))
}

// Include widens the range to contain t. Zero times are ignored.
func (dr DateRange) Include(t time.Time) DateRange {
	return dr.Merge(DateRange{Start: t, End: t})
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// Entry is an input row with its 1-based position in the file.
type Entry struct {
	Line int
	Row  common.MessageRow
}

// UserGroup holds the messages of one user in file order.
type UserGroup struct {
	UserID    int64
	Entries   []Entry
	DateRange DateRange
}

// Processor runs message rows through an ingest.Service.
type Processor struct {
	service  *ingest.Service
	location *time.Location
	logger   logging.Logger
}

// NewProcessor creates a Processor. Dates in the input are read in location;
// nil means UTC.
func NewProcessor(service *ingest.Service, location *time.Location, logger logging.Logger) *Processor {
	if location == nil {
		location = time.UTC
	}
	return &Processor{
		service:  service,
		location: location,
		logger:   logging.OrDiscard(logger),
	}
}

// GroupRowsByUser groups rows by user ID, ordered by user ID. Dates that do
// not parse are left out of the group's range.
func (p *Processor) GroupRowsByUser(rows []common.MessageRow) []UserGroup {
	groups := make(map[int64]*UserGroup)
	for i, row := range rows {
		group, exists := groups[row.UserID]
		if !exists {
			group = &UserGroup{UserID: row.UserID}
			groups[row.UserID] = group
		}
		group.Entries = append(group.Entries, Entry{Line: i + 1, Row: row})
		if date, ok, err := p.parseDate(row.Date); ok && err == nil {
			group.DateRange = group.DateRange.Include(date)
		}
	}

	out := make([]UserGroup, 0, len(groups))
	for _, group := range groups {
		out = append(out, *group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	p.logger.Info("Grouped messages by user",
		logging.F("total_messages", len(rows)),
		logging.F("user_groups", len(out)))
	return out
}

// parseDate reports ok=false for an empty value.
func (p *Processor) parseDate(value string) (time.Time, bool, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, false, nil
	}
	date, _, err := dateutils.ParseDay(value, p.location)
	if err != nil {
		return time.Time{}, true, err
	}
	return date, true, nil
}

// Process ingests every row and returns one result row per input row, in
// input order, plus the aggregate outcome. It stops early when ctx is
// cancelled; unprocessed rows are reported as failed.
func (p *Processor) Process(ctx context.Context, rows []common.MessageRow) ([]common.ResultRow, models.CategorizationStats) {
	results := make([]common.ResultRow, len(rows))
	stats := models.CategorizationStats{Total: len(rows)}

	for _, group := range p.GroupRowsByUser(rows) {
		p.logger.Debug("Processing messages for user",
			logging.F(logging.FieldUserID, group.UserID),
			logging.F(logging.FieldCount, len(group.Entries)),
			logging.F("date_range", group.DateRange.String()))

		for _, entry := range group.Entries {
			res := p.processEntry(ctx, entry)
			switch res.Status {
			case StatusAutoCategorized:
				stats.AutoCategorized++
			case StatusFailed:
				stats.Failed++
			default:
				stats.Pending++
			}
			results[entry.Line-1] = res
		}
	}
	return results, stats
}

func (p *Processor) processEntry(ctx context.Context, entry Entry) common.ResultRow {
	row := common.ResultRow{
		Line:    entry.Line,
		UserID:  entry.Row.UserID,
		Message: entry.Row.Message,
	}
	fail := func(err error) common.ResultRow {
		row.Status = StatusFailed
		row.Error = err.Error()
		return row
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if entry.Row.UserID <= 0 {
		return fail(fmt.Errorf("invalid user_id %d", entry.Row.UserID))
	}

	var (
		result ingest.Result
		err    error
	)
	date, hasDate, dateErr := p.parseDate(entry.Row.Date)
	switch {
	case dateErr != nil:
		return fail(dateErr)
	case hasDate:
		result, err = p.service.IngestAt(ctx, entry.Row.UserID, entry.Row.Message, date)
	default:
		result, err = p.service.Ingest(ctx, entry.Row.UserID, entry.Row.Message)
	}
	row.Warning = result.Parsed.Warning
	if err != nil {
		p.logger.WithError(err).Debug("Message failed",
			logging.F("line", entry.Line),
			logging.F(logging.FieldUserID, entry.Row.UserID))
		return fail(err)
	}

	row.ExpenseID = result.Expense.ID
	row.Amount = result.Expense.Amount.String()
	row.Description = result.Expense.Description
	row.Reason = string(result.Suggestion.Reason)
	row.Confidence = fmt.Sprintf("%.2f", result.Suggestion.Confidence)
	if result.Suggestion.HasCategory() {
		row.Category = result.Suggestion.Category.Name
	}

	switch {
	case result.AutoCategorized:
		row.Status = StatusAutoCategorized
	case result.NeedsConfirmation:
		row.Status = StatusPending
	default:
		row.Status = StatusUncategorized
	}
	return row
}
