package dto

// PointQuery scopes point listing.
type PointQuery struct {
	UserID    string `form:"userId"`
	PointType string `form:"pointType"`
	Expired   *bool  `form:"expired"`
	Excused   *bool  `form:"excused"`
	From      string `form:"from"`
	To        string `form:"to"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// ExcusePointRequest waives a point with an audit trail.
type ExcusePointRequest struct {
	ExcusedBy string `json:"excusedBy" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

// RunExpirationRequest triggers an expiration sweep on demand.
type RunExpirationRequest struct {
	DryRun bool  `json:"dryRun"`
	Notify *bool `json:"notify"`
}

// ResetExpiredRequest recomputes expiry dates for already-expired points so a
// follow-up sweep can re-evaluate them under current policy.
type ResetExpiredRequest struct {
	UserID    string `json:"userId"`
	PointType string `json:"pointType" validate:"omitempty,oneof=whole_day_absence half_day_absence undertime_more_than_hour undertime tardy"`
	From      string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}
