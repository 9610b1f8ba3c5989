package dto

import "time"

// AsOfParams carries a single report date. A zero date means today.
type AsOfParams struct {
	AsOf time.Time `form:"asOf" time_format:"2006-01-02"`
}

// PeriodParams carries an inclusive reporting period.
type PeriodParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}
