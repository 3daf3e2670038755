package report

import (
	"context"
	"errors"
	"time"

	"github.com/billable/billable/internal/config"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidPeriod = errors.New("year or month out of range")

type Service interface {
	// MonthlyBreakdown reports the project's month. A nil includeIdle falls back to the configured default.
	MonthlyBreakdown(ctx context.Context, projectId int, year int, month int, includeIdle *bool) (MonthlyBreakdown, error)
	Lifetime(ctx context.Context, projectId int) (Lifetime, error)
}

type ServiceImpl struct {
	repo Repository
	cfg  config.Report
}

func NewService(repo Repository, cfg config.Report) *ServiceImpl {
	return &ServiceImpl{repo: repo, cfg: cfg}
}

func (s *ServiceImpl) MonthlyBreakdown(ctx context.Context, projectId int, year int, month int, includeIdle *bool) (MonthlyBreakdown, error) {
	if month < 1 || month > 12 || year < s.cfg.MinYear || year > s.cfg.MaxYear {
		log.Debugf("rejecting report period %d-%d", year, month)
		return MonthlyBreakdown{}, ErrInvalidPeriod
	}
	idle := s.cfg.IncludeIdleDepartments
	if includeIdle != nil {
		idle = *includeIdle
	}

	input, err := s.repo.ReadMonth(ctx, projectId, year, time.Month(month), idle)
	if err != nil {
		return MonthlyBreakdown{}, err
	}
	breakdown := Aggregate(input)
	if idle {
		return breakdown, nil
	}
	return breakdown.ActiveOnly(), nil
}

func (s *ServiceImpl) Lifetime(ctx context.Context, projectId int) (Lifetime, error) {
	input, err := s.repo.ReadLifetime(ctx, projectId)
	if err != nil {
		return Lifetime{}, err
	}
	hours := decimal.NewFromInt(input.TotalSeconds).Div(decimal.NewFromInt(3600))
	return NewLifetime(input.Project, input.TotalBudget, input.TotalSpend, hours), nil
}
