package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
)

// Backend is a mock for tracking.Backend.
type Backend struct {
	mock.Mock
}

func (m *Backend) FetchActivities(ctx context.Context) ([]model.Activity, error) {
	args := m.Called(ctx)
	if activities, ok := args.Get(0).([]model.Activity); ok {
		return activities, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) FetchCurrentMonth(ctx context.Context) (model.MonthlyCalendar, error) {
	args := m.Called(ctx)
	if payload, ok := args.Get(0).(model.MonthlyCalendar); ok {
		return payload, args.Error(1)
	}
	return model.MonthlyCalendar{}, args.Error(1)
}

func (m *Backend) SaveActivities(ctx context.Context, day timecalc.Date, req model.SaveRequest) error {
	args := m.Called(ctx, day, req)
	return args.Error(0)
}

func (m *Backend) SubmitActivities(ctx context.Context, month, year, weekNumber int) error {
	args := m.Called(ctx, month, year, weekNumber)
	return args.Error(0)
}
