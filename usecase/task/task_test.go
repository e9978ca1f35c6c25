package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/repository"
)

type memTaskRepo struct {
	created  []domain.Task
	patches  []repository.TaskPatch
	shared   []domain.Task
	listErr  error
	shareHit int
}

func (m *memTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	task.ID = "task-1"
	m.created = append(m.created, *task)
	return task, nil
}

func (m *memTaskRepo) Patch(_ context.Context, _, taskID string, patch repository.TaskPatch, _ time.Time) (*domain.Task, error) {
	m.patches = append(m.patches, patch)
	return &domain.Task{ID: taskID}, nil
}

func (m *memTaskRepo) Delete(_ context.Context, _, _ string) error { return nil }

func (m *memTaskRepo) ListRange(_ context.Context, _ string, _, _ time.Time) ([]domain.Task, error) {
	return nil, m.listErr
}

func (m *memTaskRepo) ListCreatedBetween(_ context.Context, _ string, _, _ time.Time) ([]domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (m *memTaskRepo) ListShared(_ context.Context, _, _ time.Time) ([]domain.Task, error) {
	return m.shared, nil
}

func (m *memTaskRepo) ShareRange(_ context.Context, _ string, _, _, _ time.Time) (int, error) {
	m.shareHit++
	return 2, nil
}

func (m *memTaskRepo) UpsertLegacy(_ context.Context, _ []domain.Task) (map[string]string, error) {
	return nil, errors.New("not implemented")
}

type memLikeRepo struct {
	existing map[string]bool
	added    []string
	removed  []string
	counts   map[string]int
	likedBy  map[string]bool
}

func (m *memLikeRepo) Exists(_ context.Context, taskID, _ string) (bool, error) {
	return m.existing[taskID], nil
}

func (m *memLikeRepo) Add(_ context.Context, taskID, _ string) error {
	m.added = append(m.added, taskID)
	return nil
}

func (m *memLikeRepo) Remove(_ context.Context, taskID, _ string) error {
	m.removed = append(m.removed, taskID)
	return nil
}

func (m *memLikeRepo) Counts(_ context.Context, taskIDs []string) (map[string]int, error) {
	out := map[string]int{}
	for _, id := range taskIDs {
		out[id] = m.counts[id]
	}
	return out, nil
}

func (m *memLikeRepo) LikedBy(_ context.Context, _ string, _ []string) (map[string]bool, error) {
	return m.likedBy, nil
}

func (m *memLikeRepo) UpsertMany(_ context.Context, _ []domain.TaskLike) error {
	return errors.New("not implemented")
}

func TestCreateTaskValidation(t *testing.T) {
	repo := &memTaskRepo{}
	uc := New(repo, &memLikeRepo{}, nil)
	ctx := context.Background()

	cases := []struct {
		name     string
		content  string
		userName string
		category domain.TaskCategory
		wantErr  bool
	}{
		{"valid", "명상 10분", "민수", domain.CategoryMeditation, false},
		{"trims whitespace", "  독서  ", "민수", domain.CategoryReading, false},
		{"empty content", "   ", "민수", domain.CategoryOther, true},
		{"content too long", strings.Repeat("a", 501), "민수", domain.CategoryOther, true},
		{"empty name", "독서", "", domain.CategoryOther, true},
		{"unknown category", "독서", "민수", "gaming", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateTask(ctx, "u1", tc.userName, tc.content, tc.category)
			if tc.wantErr && err == nil {
				t.Error("want error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	if len(repo.created) != 2 {
		t.Fatalf("created %d tasks, want 2", len(repo.created))
	}
	if repo.created[1].Content != "독서" {
		t.Errorf("content not trimmed before store: %q", repo.created[1].Content)
	}
}

func TestPatchTaskValidation(t *testing.T) {
	repo := &memTaskRepo{}
	uc := New(repo, &memLikeRepo{}, nil)
	ctx := context.Background()

	if _, err := uc.PatchTask(ctx, "u1", "t1", repository.TaskPatch{}); err == nil {
		t.Error("empty patch accepted")
	}
	if _, err := uc.PatchTask(ctx, "u1", "", repository.TaskPatch{Completed: boolPtr(true)}); err == nil {
		t.Error("missing task id accepted")
	}

	blank := "   "
	if _, err := uc.PatchTask(ctx, "u1", "t1", repository.TaskPatch{Content: &blank}); err == nil {
		t.Error("blank content accepted")
	}

	content := "  아침 운동  "
	if _, err := uc.PatchTask(ctx, "u1", "t1", repository.TaskPatch{Content: &content}); err != nil {
		t.Fatalf("PatchTask: %v", err)
	}
	if got := *repo.patches[0].Content; got != "아침 운동" {
		t.Errorf("content not trimmed: %q", got)
	}
}

func TestListRangeCaps(t *testing.T) {
	uc := New(&memTaskRepo{}, &memLikeRepo{}, nil)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if _, err := uc.ListRange(ctx, "u1", start, start.AddDate(0, 0, MaxRangeDays+1)); err == nil {
		t.Error("over-cap range accepted")
	}
	if _, err := uc.ListRange(ctx, "u1", start.AddDate(0, 0, 1), start); err == nil {
		t.Error("inverted range accepted")
	}
	tasks, err := uc.ListRange(ctx, "u1", start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListRange: %v", err)
	}
	if tasks == nil {
		t.Error("want empty non-nil slice")
	}
}

func TestShareRangeCap(t *testing.T) {
	repo := &memTaskRepo{}
	uc := New(repo, &memLikeRepo{}, nil)
	ctx := context.Background()
	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	// Today plus yesterday is the widest allowed share window.
	if _, err := uc.ShareRange(ctx, "u1", start, start.AddDate(0, 0, MaxShareDays+1)); err == nil {
		t.Error("share range beyond two days accepted")
	}
	n, err := uc.ShareRange(ctx, "u1", start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ShareRange: %v", err)
	}
	if n != 2 || repo.shareHit != 1 {
		t.Errorf("n=%d hits=%d", n, repo.shareHit)
	}
}

func TestSharedDashboardDecoratesLikes(t *testing.T) {
	repo := &memTaskRepo{shared: []domain.Task{
		{ID: "t1", UserID: "u1", IsShared: true},
		{ID: "t2", UserID: "u2", IsShared: true},
	}}
	likes := &memLikeRepo{
		counts:  map[string]int{"t1": 3},
		likedBy: map[string]bool{"t1": true},
	}
	uc := New(repo, likes, nil)

	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	out, err := uc.SharedDashboard(context.Background(), "viewer", start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("SharedDashboard: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d rows, want 2", len(out))
	}
	if out[0].LikesCount != 3 || !out[0].LikedByMe {
		t.Errorf("t1 decoration = %+v", out[0])
	}
	if out[1].LikesCount != 0 || out[1].LikedByMe {
		t.Errorf("t2 decoration = %+v", out[1])
	}
}

func TestToggleLike(t *testing.T) {
	likes := &memLikeRepo{
		existing: map[string]bool{"liked": true},
		counts:   map[string]int{"liked": 4, "fresh": 1},
	}
	uc := New(&memTaskRepo{}, likes, nil)
	ctx := context.Background()

	nowLiked, count, err := uc.ToggleLike(ctx, "viewer", "fresh")
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !nowLiked || count != 1 || len(likes.added) != 1 {
		t.Errorf("fresh toggle = liked %v count %d added %v", nowLiked, count, likes.added)
	}

	nowLiked, _, err = uc.ToggleLike(ctx, "viewer", "liked")
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if nowLiked || len(likes.removed) != 1 {
		t.Errorf("existing like not removed: liked=%v removed=%v", nowLiked, likes.removed)
	}

	if _, _, err := uc.ToggleLike(ctx, "viewer", ""); err == nil {
		t.Error("missing task id accepted")
	}
}

func boolPtr(b bool) *bool { return &b }
