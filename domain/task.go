package domain

import "time"

// TaskCategory enumerates the activity categories a morning task can belong to.
type TaskCategory string

const (
	CategoryLearning   TaskCategory = "learning"
	CategoryMeditation TaskCategory = "meditation"
	CategoryReading    TaskCategory = "reading"
	CategoryAcademy    TaskCategory = "academy"
	CategoryWorkout    TaskCategory = "workout"
	CategoryOther      TaskCategory = "other"
)

// ValidCategory reports whether the given value is one of the known categories.
func ValidCategory(c TaskCategory) bool {
	switch c {
	case CategoryLearning, CategoryMeditation, CategoryReading, CategoryAcademy, CategoryWorkout, CategoryOther:
		return true
	}
	return false
}

// Task represents one morning task owned by a single user.
// CompletedAt is present iff Completed is true; SharedAt is stamped once when
// the task is first shared and is never cleared afterwards.
type Task struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	UserName    string       `json:"userName"`
	Content     string       `json:"content"`
	Category    TaskCategory `json:"category"`
	Completed   bool         `json:"completed"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	IsShared    bool         `json:"isShared"`
	SharedAt    *time.Time   `json:"sharedAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	LegacyID    *string      `json:"legacyId"`
}

// TaskLike records that a user liked a shared task. One like per (task, user).
type TaskLike struct {
	TaskID string `json:"taskId"`
	UserID string `json:"userId"`
}

// TaskWithLikes decorates a shared task with like information for the viewer.
type TaskWithLikes struct {
	Task
	LikesCount int  `json:"likesCount"`
	LikedByMe  bool `json:"likedByMe"`
}
