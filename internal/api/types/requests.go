package types

type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,maxbytes=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// ProfileRequest fields left out of the body are not changed.
type ProfileRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     *string `json:"name" validate:"omitnil,max=150"`
	Gender   *string `json:"gender" validate:"omitnil,max=32"`
	Location *string `json:"location" validate:"omitnil,max=150"`
	Website  *string `json:"website" validate:"omitempty,url,max=255"`
}

type IntentionCreateRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=150"`
	Description string `json:"description" validate:"max=1500"`
}

type IntentionUpdateRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=150"`
	Description *string `json:"description" validate:"omitnil,max=1500"`
}

type ProjectCreateRequest struct {
	IntentionID string `json:"intentionId" validate:"required"`
	Title       string `json:"title" validate:"required,notblank,max=150"`
	Subtitle    string `json:"subtitle" validate:"max=250"`
	Description string `json:"description" validate:"max=1500"`
	Key         string `json:"key" validate:"required,projectkey"`
}

type ProjectUpdateRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=150"`
	Subtitle    *string `json:"subtitle" validate:"omitnil,max=250"`
	Description *string `json:"description" validate:"omitnil,max=1500"`
	Key         *string `json:"key" validate:"omitnil,projectkey"`
}

type SubprojectCreateRequest struct {
	ProjectID   string `json:"projectId" validate:"required"`
	Title       string `json:"title" validate:"required,notblank,max=150"`
	Description string `json:"description" validate:"max=1500"`
}

type SubprojectUpdateRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=150"`
	Description *string `json:"description" validate:"omitnil,max=1500"`
}

type IssueCreateRequest struct {
	ProjectID      string  `json:"projectId" validate:"required"`
	Title          string  `json:"title" validate:"required,notblank,max=150"`
	Description    string  `json:"description" validate:"max=1500"`
	Type           string  `json:"type" validate:"omitempty,oneof=task feature improvement bug"`
	Status         string  `json:"status" validate:"omitempty,oneof=open reopened selected inprogress done canceled deleted"`
	Priority       int     `json:"priority" validate:"omitempty,min=1,max=5"`
	EstimationTime float64 `json:"estimationTime" validate:"gte=0"`
	RemainingTime  float64 `json:"remainingTime" validate:"gte=0"`
	Assignee       *string `json:"assignee" validate:"omitnil,uuid"`
}

type IssueUpdateRequest struct {
	Title          *string  `json:"title" validate:"omitnil,notblank,max=150"`
	Description    *string  `json:"description" validate:"omitnil,max=1500"`
	Type           *string  `json:"type" validate:"omitnil,oneof=task feature improvement bug"`
	Status         *string  `json:"status" validate:"omitnil,oneof=open reopened selected inprogress done canceled deleted"`
	Priority       *int     `json:"priority" validate:"omitnil,min=1,max=5"`
	EstimationTime *float64 `json:"estimationTime" validate:"omitnil,gte=0"`
	RemainingTime  *float64 `json:"remainingTime" validate:"omitnil,gte=0"`
	Assignee       *string  `json:"assignee" validate:"omitnil,uuid"`
}
