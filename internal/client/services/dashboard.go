package services

import (
	"context"

	"github.com/dmitrijs2005/embauco/internal/client/client"
	"github.com/dmitrijs2005/embauco/internal/client/models"
)

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	gw client.Caller
}

func NewDashboardService(gw client.Caller) DashboardService {
	return &dashboardService{gw: gw}
}

func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	st, err := client.Do[models.DashboardStats](ctx, s.gw, "/api/dashboard/stats", client.CallOptions{})
	if err != nil {
		return nil, err
	}
	return &st, nil
}
