package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/repository"
)

type recordingTaskRepo struct {
	rowsByLegacy map[string]string
	upsertCalls  int
	lastBatch    []domain.Task
}

func newRecordingTaskRepo() *recordingTaskRepo {
	return &recordingTaskRepo{rowsByLegacy: map[string]string{}}
}

func (r *recordingTaskRepo) Create(_ context.Context, _ *domain.Task) (*domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingTaskRepo) Patch(_ context.Context, _, _ string, _ repository.TaskPatch, _ time.Time) (*domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingTaskRepo) Delete(_ context.Context, _, _ string) error {
	return errors.New("not implemented")
}

func (r *recordingTaskRepo) ListRange(_ context.Context, _ string, _, _ time.Time) ([]domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingTaskRepo) ListCreatedBetween(_ context.Context, _ string, _, _ time.Time) ([]domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingTaskRepo) ListShared(_ context.Context, _, _ time.Time) ([]domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingTaskRepo) ShareRange(_ context.Context, _ string, _, _, _ time.Time) (int, error) {
	return 0, errors.New("not implemented")
}

func (r *recordingTaskRepo) UpsertLegacy(_ context.Context, tasks []domain.Task) (map[string]string, error) {
	r.upsertCalls++
	r.lastBatch = tasks
	out := make(map[string]string, len(tasks))
	for _, task := range tasks {
		if task.LegacyID == nil {
			return nil, errors.New("legacy id missing")
		}
		legacy := *task.LegacyID
		id, ok := r.rowsByLegacy[legacy]
		if !ok {
			id = fmt.Sprintf("row-%d", len(r.rowsByLegacy)+1)
			r.rowsByLegacy[legacy] = id
		}
		out[legacy] = id
	}
	return out, nil
}

type recordingLikeRepo struct {
	likes map[domain.TaskLike]struct{}
}

func newRecordingLikeRepo() *recordingLikeRepo {
	return &recordingLikeRepo{likes: map[domain.TaskLike]struct{}{}}
}

func (r *recordingLikeRepo) Exists(_ context.Context, _, _ string) (bool, error) {
	return false, errors.New("not implemented")
}

func (r *recordingLikeRepo) Add(_ context.Context, _, _ string) error {
	return errors.New("not implemented")
}

func (r *recordingLikeRepo) Remove(_ context.Context, _, _ string) error {
	return errors.New("not implemented")
}

func (r *recordingLikeRepo) Counts(_ context.Context, _ []string) (map[string]int, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingLikeRepo) LikedBy(_ context.Context, _ string, _ []string) (map[string]bool, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingLikeRepo) UpsertMany(_ context.Context, likes []domain.TaskLike) error {
	for _, l := range likes {
		r.likes[l] = struct{}{}
	}
	return nil
}

type recordingFeedbackRepo struct {
	rowsByLegacy    map[string]string
	commentLegacy   map[string]domain.FeedbackComment
	lastCommentRows []domain.FeedbackComment
}

func newRecordingFeedbackRepo() *recordingFeedbackRepo {
	return &recordingFeedbackRepo{
		rowsByLegacy:  map[string]string{},
		commentLegacy: map[string]domain.FeedbackComment{},
	}
}

func (r *recordingFeedbackRepo) Create(_ context.Context, _ *domain.Feedback) (*domain.Feedback, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingFeedbackRepo) ListForUsers(_ context.Context, _ []string, _, _ time.Time) ([]domain.Feedback, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingFeedbackRepo) ListComments(_ context.Context, _ []string) ([]domain.FeedbackComment, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingFeedbackRepo) AddComment(_ context.Context, _ *domain.FeedbackComment) error {
	return errors.New("not implemented")
}

func (r *recordingFeedbackRepo) UpsertLegacy(_ context.Context, feedbacks []domain.Feedback) (map[string]string, error) {
	out := make(map[string]string, len(feedbacks))
	for _, fb := range feedbacks {
		if fb.LegacyID == nil {
			return nil, errors.New("legacy id missing")
		}
		legacy := *fb.LegacyID
		id, ok := r.rowsByLegacy[legacy]
		if !ok {
			id = fmt.Sprintf("fb-%d", len(r.rowsByLegacy)+1)
			r.rowsByLegacy[legacy] = id
		}
		out[legacy] = id
	}
	return out, nil
}

func (r *recordingFeedbackRepo) UpsertLegacyComments(_ context.Context, comments []domain.FeedbackComment) (int, error) {
	r.lastCommentRows = comments
	for _, c := range comments {
		if c.LegacyID == nil {
			return 0, errors.New("legacy id missing")
		}
		r.commentLegacy[*c.LegacyID] = c
	}
	return len(comments), nil
}

type memJournal struct {
	receipts []domain.ImportReceipt
}

func (j *memJournal) Append(_ context.Context, receipt domain.ImportReceipt) error {
	j.receipts = append(j.receipts, receipt)
	return nil
}

func (j *memJournal) ListByUser(_ context.Context, userID string) ([]domain.ImportReceipt, error) {
	var out []domain.ImportReceipt
	for i := len(j.receipts) - 1; i >= 0; i-- {
		if j.receipts[i].UserID == userID {
			out = append(out, j.receipts[i])
		}
	}
	return out, nil
}

func legacyTask(id, userID string, likes ...string) LegacyTask {
	return LegacyTask{
		ID:        id,
		UserID:    userID,
		UserName:  "민수",
		Content:   "스트레칭",
		Category:  domain.CategoryWorkout,
		Completed: true,
		CreatedAt: "2026-03-09T06:30:00+09:00",
		Likes:     likes,
	}
}

func TestRunFiltersForeignAndInvalidTasks(t *testing.T) {
	tasks := newRecordingTaskRepo()
	likes := newRecordingLikeRepo()
	feedbacks := newRecordingFeedbackRepo()
	uc := New(tasks, likes, feedbacks, nil, nil)

	badTime := legacyTask("t-bad-time", "me")
	badTime.CreatedAt = "yesterday morning"
	noContent := legacyTask("t-no-content", "me")
	noContent.Content = "   "
	badCategory := legacyTask("t-bad-cat", "me")
	badCategory.Category = "gaming"

	batch := Batch{Tasks: []LegacyTask{
		legacyTask("t-mine", "me"),
		legacyTask("t-theirs", "someone-else"),
		badTime,
		noContent,
		badCategory,
		{UserID: "me", UserName: "민수", Content: "x", Category: domain.CategoryOther, CreatedAt: "2026-03-09T06:30:00+09:00"}, // no id
	}}

	summary, err := uc.Run(context.Background(), "me", batch)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Tasks.Requested != 6 {
		t.Errorf("requested = %d, want 6", summary.Tasks.Requested)
	}
	if summary.Tasks.Migrated != 1 {
		t.Errorf("migrated = %d, want only the caller's valid task", summary.Tasks.Migrated)
	}
	if !summary.OK {
		t.Error("partial skips must not flip the ok flag")
	}
	if len(tasks.lastBatch) != 1 || *tasks.lastBatch[0].LegacyID != "t-mine" {
		t.Errorf("upserted batch = %+v", tasks.lastBatch)
	}
	if tasks.lastBatch[0].UserID != "me" {
		t.Error("ownership must come from the verified caller")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	tasks := newRecordingTaskRepo()
	likes := newRecordingLikeRepo()
	feedbacks := newRecordingFeedbackRepo()
	uc := New(tasks, likes, feedbacks, nil, nil)

	batch := Batch{
		Tasks: []LegacyTask{legacyTask("t-1", "me", "me", "friend")},
		Feedbacks: []LegacyFeedback{{
			ID:           "f-1",
			ToUserID:     "friend",
			FromUserID:   "me",
			FromUserName: "민수",
			Content:      "화이팅",
			CreatedAt:    "2026-03-09T07:00:00+09:00",
			Comments: []LegacyComment{{
				ID:           "c-1",
				FeedbackID:   "f-1",
				FromUserID:   "me",
				FromUserName: "민수",
				Content:      "고마워요",
				CreatedAt:    "2026-03-09T08:00:00+09:00",
			}},
		}},
	}

	first, err := uc.Run(context.Background(), "me", batch)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := uc.Run(context.Background(), "me", batch)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if *first != *second {
		t.Errorf("summaries differ between identical runs: %+v vs %+v", first, second)
	}
	if len(tasks.rowsByLegacy) != 1 {
		t.Errorf("re-running the batch created %d task rows, want 1", len(tasks.rowsByLegacy))
	}
	if len(feedbacks.rowsByLegacy) != 1 || len(feedbacks.commentLegacy) != 1 {
		t.Errorf("re-running the batch duplicated feedback rows: %d feedbacks, %d comments",
			len(feedbacks.rowsByLegacy), len(feedbacks.commentLegacy))
	}
	if len(likes.likes) != 1 {
		t.Errorf("re-running the batch duplicated likes: %d", len(likes.likes))
	}
}

func TestRunMigratesOnlyCallersLikes(t *testing.T) {
	tasks := newRecordingTaskRepo()
	likes := newRecordingLikeRepo()
	uc := New(tasks, likes, newRecordingFeedbackRepo(), nil, nil)

	batch := Batch{Tasks: []LegacyTask{
		legacyTask("t-liked", "me", "friend", "me"),
		legacyTask("t-foreign-likes", "me", "friend", "other"),
	}}

	summary, err := uc.Run(context.Background(), "me", batch)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Likes.Migrated != 1 {
		t.Errorf("likes migrated = %d, want 1 (caller's own like only)", summary.Likes.Migrated)
	}
	rowID := tasks.rowsByLegacy["t-liked"]
	if _, ok := likes.likes[domain.TaskLike{TaskID: rowID, UserID: "me"}]; !ok {
		t.Errorf("caller's like not recorded against the migrated row, got %v", likes.likes)
	}
}

func TestRunCommentsNeedMigratedParent(t *testing.T) {
	feedbacks := newRecordingFeedbackRepo()
	uc := New(newRecordingTaskRepo(), newRecordingLikeRepo(), feedbacks, nil, nil)

	comment := func(id, parent string) LegacyComment {
		return LegacyComment{
			ID:           id,
			FeedbackID:   parent,
			FromUserID:   "me",
			FromUserName: "민수",
			Content:      "답글",
			CreatedAt:    "2026-03-09T08:00:00+09:00",
		}
	}

	batch := Batch{Feedbacks: []LegacyFeedback{
		{
			ID:           "f-mine",
			ToUserID:     "friend",
			FromUserID:   "me",
			FromUserName: "민수",
			Content:      "굿모닝",
			CreatedAt:    "2026-03-09T07:00:00+09:00",
			Comments: []LegacyComment{
				comment("c-ok", "f-mine"),
				comment("c-orphan", "f-unknown"),
			},
		},
		{
			// foreign feedback is dropped, so its comments never qualify
			ID:           "f-theirs",
			ToUserID:     "me",
			FromUserID:   "someone-else",
			FromUserName: "그들",
			Content:      "hi",
			CreatedAt:    "2026-03-09T07:00:00+09:00",
			Comments:     []LegacyComment{comment("c-under-foreign", "f-theirs")},
		},
	}}

	summary, err := uc.Run(context.Background(), "me", batch)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Feedbacks.Migrated != 1 {
		t.Errorf("feedbacks migrated = %d, want 1", summary.Feedbacks.Migrated)
	}
	if summary.Comments.Migrated != 1 {
		t.Errorf("comments migrated = %d, want 1", summary.Comments.Migrated)
	}
	if _, ok := feedbacks.commentLegacy["c-ok"]; !ok {
		t.Error("comment under the caller's migrated feedback was dropped")
	}
	if _, ok := feedbacks.commentLegacy["c-orphan"]; ok {
		t.Error("comment pointing at an unmigrated feedback was written")
	}
	if got := feedbacks.commentLegacy["c-ok"].FeedbackID; got != feedbacks.rowsByLegacy["f-mine"] {
		t.Errorf("comment parent rewritten to %q, want new row id %q", got, feedbacks.rowsByLegacy["f-mine"])
	}
}

func TestRunJournalsReceiptAndHistoryReadsIt(t *testing.T) {
	journal := &memJournal{}
	uc := New(newRecordingTaskRepo(), newRecordingLikeRepo(), newRecordingFeedbackRepo(), journal, nil)

	if _, err := uc.Run(context.Background(), "me", Batch{Tasks: []LegacyTask{legacyTask("t-1", "me")}}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := uc.Run(context.Background(), "someone-else", Batch{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	receipts, err := uc.History(context.Background(), "me")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("got %d receipts, want 1 (only the caller's)", len(receipts))
	}
	if receipts[0].Summary.Tasks.Migrated != 1 {
		t.Errorf("journaled summary = %+v", receipts[0].Summary)
	}
}

func TestHistoryWithoutJournal(t *testing.T) {
	uc := New(newRecordingTaskRepo(), newRecordingLikeRepo(), newRecordingFeedbackRepo(), nil, nil)

	receipts, err := uc.History(context.Background(), "me")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if receipts == nil || len(receipts) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", receipts)
	}
}
