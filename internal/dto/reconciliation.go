package dto

// RunReconciliationRequest asks the engine to rebuild attendance for a date
// range. With one employee the run is synchronous; with several it fans out
// over the worker pool.
type RunReconciliationRequest struct {
	EmployeeIDs []string `json:"employeeIds" validate:"required,min=1,dive,required"`
	From        string   `json:"from" validate:"required,datetime=2006-01-02"`
	To          string   `json:"to" validate:"required,datetime=2006-01-02"`
}

// AttendanceQuery scopes attendance listing.
type AttendanceQuery struct {
	EmployeeID string `form:"employeeId"`
	Status     string `form:"status"`
	From       string `form:"from"`
	To         string `form:"to"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder"`
}
