package reconcile

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/returns"
	"github.com/storeops/backend/internal/domain/shared"
)

// topReasonLimit caps the reason leaderboard in the summary.
const topReasonLimit = 5

// StatsService aggregates the returns ledger for display.
type StatsService struct {
	returnRepo returns.ReturnRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(returnRepo returns.ReturnRepository) *StatsService {
	return &StatsService{returnRepo: returnRepo}
}

// Summarize recomputes the ledger summary from scratch: entry count, total
// and average value, the most frequent reasons and a status breakdown.
// An empty ledger yields zero values, never a division error.
func (s *StatsService) Summarize(ctx context.Context, session shared.Session) (*StatsResponse, error) {
	records, err := s.returnRepo.FindAllByStore(ctx, session.StoreID)
	if err != nil {
		return nil, err
	}

	stats := &StatsResponse{
		TotalValue:      decimal.Zero,
		AverageValue:    decimal.Zero,
		StatusBreakdown: make(map[returns.ReturnStatus]int),
	}

	type reasonGroup struct {
		display string
		count   int
		order   int
	}
	reasonGroups := make(map[string]*reasonGroup)

	for i := range records {
		record := &records[i]
		stats.TotalCount++
		stats.TotalValue = stats.TotalValue.Add(record.Amount)
		stats.StatusBreakdown[record.Status]++

		// Reasons group by the full remark, case-insensitively; the first
		// spelling seen becomes the display form.
		remark := strings.TrimSpace(record.ReasonRemark)
		if remark == "" {
			continue
		}
		key := strings.ToLower(remark)
		group, ok := reasonGroups[key]
		if !ok {
			group = &reasonGroup{display: remark, order: len(reasonGroups)}
			reasonGroups[key] = group
		}
		group.count++
	}

	if stats.TotalCount > 0 {
		stats.AverageValue = stats.TotalValue.Div(decimal.NewFromInt(int64(stats.TotalCount)))
	}

	groups := make([]*reasonGroup, 0, len(reasonGroups))
	for _, group := range reasonGroups {
		groups = append(groups, group)
	}
	// Descending by count; ties keep first-seen order.
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].order < groups[j].order
	})
	if len(groups) > topReasonLimit {
		groups = groups[:topReasonLimit]
	}
	for _, group := range groups {
		stats.TopReasons = append(stats.TopReasons, ReasonCount{Reason: group.display, Count: group.count})
	}

	return stats, nil
}
