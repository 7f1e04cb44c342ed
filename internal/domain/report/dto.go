package report

// CreateRequest is the payload for reporting a whisper. DisplayName is the
// reporter's name snapshot shown in the moderator queue.
type CreateRequest struct {
	WhisperID   string `json:"whisper_id" validate:"required,uuid"`
	Category    string `json:"category" validate:"required,report_category"`
	Reason      string `json:"reason" validate:"required,min=3,max=2000"`
	Evidence    string `json:"evidence" validate:"omitempty,max=5000"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

// CreateCommentRequest is the payload for reporting a comment
type CreateCommentRequest struct {
	WhisperID   string `json:"whisper_id" validate:"required,uuid"`
	CommentID   string `json:"comment_id" validate:"required,uuid"`
	Category    string `json:"category" validate:"required,report_category"`
	Reason      string `json:"reason" validate:"required,min=3,max=2000"`
	Evidence    string `json:"evidence" validate:"omitempty,max=5000"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

// ResolveRequest is the moderator decision payload
type ResolveRequest struct {
	Action string `json:"action" validate:"required,resolve_action"`
	Reason string `json:"reason" validate:"required,min=3,max=2000"`
}

// ListFilter narrows moderator queue queries
type ListFilter struct {
	Status   Status
	Priority Priority
	Limit    int
	Offset   int
}

// HasReportedResponse answers the pre-flight duplicate check
type HasReportedResponse struct {
	HasReported    bool    `json:"has_reported"`
	ExistingReport *Report `json:"existing_report,omitempty"`
}
