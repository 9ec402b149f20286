package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/embauco/internal/client/client"
	"github.com/dmitrijs2005/embauco/internal/client/models"
	"github.com/dmitrijs2005/embauco/internal/filex"
)

// ChartService asks the backend to render a chart of spending over a period.
type ChartService interface {
	Generate(ctx context.Context, req models.ChartRequest) (*models.ChartResult, error)
	SaveImage(res *models.ChartResult, path string) error
}

type chartService struct {
	gw client.Caller
}

func NewChartService(gw client.Caller) ChartService {
	return &chartService{gw: gw}
}

func (s *chartService) Generate(ctx context.Context, req models.ChartRequest) (*models.ChartResult, error) {
	if req.GroupBy == "" {
		req.GroupBy = models.GroupByCategory
	}
	if err := client.CheckInput(req); err != nil {
		return nil, err
	}
	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return nil, client.ValidationError("date_from and date_to are required")
	}
	if req.DateTo.Before(req.DateFrom.Time) {
		return nil, client.ValidationError("date_to must not be before date_from")
	}

	res, err := client.Do[models.ChartResult](ctx, s.gw, "/api/charts/generate", client.CallOptions{
		Method: http.MethodPost,
		Body:   req,
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// SaveImage writes the decoded chart image to path, creating missing
// directories.
func (s *chartService) SaveImage(res *models.ChartResult, path string) error {
	if res == nil || res.ChartImage == "" {
		return client.ValidationError("chart has no image")
	}
	img, err := base64.StdEncoding.DecodeString(res.ChartImage)
	if err != nil {
		return fmt.Errorf("decode chart image: %w", err)
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return fmt.Errorf("write chart image: %w", err)
	}
	if err := os.WriteFile(path, img, 0o600); err != nil {
		return fmt.Errorf("write chart image: %w", err)
	}
	return nil
}
