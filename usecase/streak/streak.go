package streak

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/repository"
)

// DefaultDays is the lookback window used when the caller does not ask for one.
const DefaultDays = 14

type UseCase struct {
	users       repository.UserRepository
	tasks       repository.TaskRepository
	loc         *time.Location
	collation   language.Tag
	adminEmails map[string]struct{}
	logger      *zap.Logger
}

// New builds the streak use case. loc is the reference zone every timestamp is
// bucketed in; adminEmails is an optional allow-list granting leaderboard
// access next to the admin role.
func New(users repository.UserRepository, tasks repository.TaskRepository, loc *time.Location, adminEmails []string, logger *zap.Logger) *UseCase {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	allow := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allow[email] = struct{}{}
		}
	}

	return &UseCase{
		users:       users,
		tasks:       tasks,
		loc:         loc,
		collation:   language.Korean,
		adminEmails: allow,
		logger:      logger,
	}
}

// History is the caller's own per-day aggregate series plus the streak derived
// from it.
type History struct {
	Days       int                     `json:"days"`
	Start      time.Time               `json:"start"`
	End        time.Time               `json:"end"`
	Aggregates []domain.DailyAggregate `json:"aggregates"`
	Streak     int                     `json:"streak"`
}

// Leaderboard is the admin view: one row per known user, best streak first.
type Leaderboard struct {
	Days  int                `json:"days"`
	Start time.Time          `json:"start"`
	End   time.Time          `json:"end"`
	Rows  []domain.StreakRow `json:"rows"`
}

// History computes the caller's aggregate series and streak over the trailing
// window ending at now.
func (uc *UseCase) History(ctx context.Context, userID string, days int, now time.Time) (*History, error) {
	window, err := domain.BuildDayWindow(now, days, uc.loc)
	if err != nil {
		return nil, err
	}
	start, end := domain.WindowRange(now, days, uc.loc)

	tasks, err := uc.tasks.ListCreatedBetween(ctx, userID, start, end)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "task scan failed", err)
	}

	aggs, err := domain.AggregateByDay(tasks, window, uc.loc)
	if err != nil {
		return nil, err
	}

	return &History{
		Days:       days,
		Start:      start,
		End:        end,
		Aggregates: aggs,
		Streak:     domain.Streak(aggs),
	}, nil
}

// Leaderboard ranks every known user by streak over the trailing window.
// Only admins may call it; callerID is the verified identity of the requester.
func (uc *UseCase) Leaderboard(ctx context.Context, callerID string, days int, now time.Time) (*Leaderboard, error) {
	caller, err := uc.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !uc.isAdmin(caller) {
		return nil, domain.ErrForbidden
	}

	window, err := domain.BuildDayWindow(now, days, uc.loc)
	if err != nil {
		return nil, err
	}
	start, end := domain.WindowRange(now, days, uc.loc)

	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "user listing failed", err)
	}

	// One scan across all owners, then a per-user grouping in memory.
	tasks, err := uc.tasks.ListCreatedBetween(ctx, "", start, end)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "task scan failed", err)
	}

	byUser := make(map[string][]domain.Task, len(users))
	for _, t := range tasks {
		byUser[t.UserID] = append(byUser[t.UserID], t)
	}

	rows := make([]domain.StreakRow, 0, len(users))
	for _, u := range users {
		aggs, err := domain.AggregateByDay(byUser[u.ID], window, uc.loc)
		if err != nil {
			return nil, err
		}

		var email *string
		if u.Email != "" {
			e := u.Email
			email = &e
		}
		rows = append(rows, domain.StreakRow{
			UserID: u.ID,
			Name:   u.DisplayName(),
			Email:  email,
			Streak: domain.Streak(aggs),
		})
	}

	sortRows(rows, uc.collation)

	return &Leaderboard{
		Days:  days,
		Start: start,
		End:   end,
		Rows:  rows,
	}, nil
}

func (uc *UseCase) isAdmin(user *domain.User) bool {
	if user.IsAdmin() {
		return true
	}
	_, ok := uc.adminEmails[strings.ToLower(user.Email)]
	return ok
}

// sortRows orders by streak descending, then display name under the product
// locale's collation, then user id, so equal streaks always render in the
// same order.
func sortRows(rows []domain.StreakRow, tag language.Tag) {
	c := collate.New(tag)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Streak != rows[j].Streak {
			return rows[i].Streak > rows[j].Streak
		}
		if cmp := c.CompareString(rows[i].Name, rows[j].Name); cmp != 0 {
			return cmp < 0
		}
		return rows[i].UserID < rows[j].UserID
	})
}
