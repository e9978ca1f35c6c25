package transport

type TaskCreateRequest struct {
	Content  string `json:"content"`
	Category string `json:"category"`
	UserName string `json:"userName"`
}

type TaskPatchRequest struct {
	Content   *string `json:"content"`
	Category  *string `json:"category"`
	Completed *bool   `json:"completed"`
}

// RangeRequest carries a closed ISO8601 interval in a request body.
type RangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type FeedbackCreateRequest struct {
	ToUserID     string `json:"toUserId"`
	Content      string `json:"content"`
	FromUserName string `json:"fromUserName"`
}

type CommentCreateRequest struct {
	Content      string `json:"content"`
	FromUserName string `json:"fromUserName"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

type ProfileUpdateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
