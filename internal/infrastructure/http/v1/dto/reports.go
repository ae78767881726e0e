package dto

// PeriodQuery binds report period query parameters.
type PeriodQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}
