// Package export renders analytics as downloadable spreadsheets.
package export

import (
	"context"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/jordanlanch/referralhub/pkg/metrics"
	"github.com/jordanlanch/referralhub/pkg/models"
)

const (
	// SheetName is the worksheet holding the campaign report
	SheetName = "Campaigns"
	// ContentType is the MIME type of the generated workbook
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{"Campaign ID", "Title", "Referrals", "Clicks", "Conversions", "Conversion Rate (%)"}

// BreakdownSource supplies per-campaign summaries
type BreakdownSource interface {
	CampaignBreakdown(ctx context.Context) ([]models.CampaignSummary, error)
}

// Service builds analytics exports
type Service struct {
	source  BreakdownSource
	metrics *metrics.Metrics
}

// NewService creates a new export service
func NewService(source BreakdownSource, m *metrics.Metrics) *Service {
	return &Service{source: source, metrics: m}
}

// CampaignReport returns an XLSX workbook with one row per campaign
func (s *Service) CampaignReport(ctx context.Context) ([]byte, error) {
	rows, err := s.source.CampaignBreakdown(ctx)
	if err != nil {
		return nil, err
	}

	data, err := renderCampaigns(rows)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordExportCreated()
	return data, nil
}

func renderCampaigns(rows []models.CampaignSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			r.CampaignID,
			r.Title,
			r.ReferralCount,
			r.TotalClicks,
			r.TotalConversions,
			math.Round(r.ConversionRate*100) / 100,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "F", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
