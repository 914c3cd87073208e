package tracking

import (
	"context"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
)

// Backend is the network boundary of the engine. Implementations return
// *model.NetworkError or *model.ParsingError on failure and never retry.
type Backend interface {
	FetchActivities(ctx context.Context) ([]model.Activity, error)
	FetchCurrentMonth(ctx context.Context) (model.MonthlyCalendar, error)
	// SaveActivities posts the logs of a week. day is a representative day
	// of that week and selects the month/year the logs are filed under.
	SaveActivities(ctx context.Context, day timecalc.Date, req model.SaveRequest) error
	SubmitActivities(ctx context.Context, month, year, weekNumber int) error
}
