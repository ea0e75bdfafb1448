package adt

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

const censusSheet = "Census"

var censusHeader = []string{"Ward", "Type", "Total Beds", "Occupied", "Free", "Occupancy %"}

// ExportCensus renders the current census as an xlsx workbook.
func (s *Service) ExportCensus(ctx context.Context) ([]byte, error) {
	census, err := s.Census(ctx)
	if err != nil {
		return nil, err
	}
	data, err := CensusWorkbook(census)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return data, nil
}

// CensusWorkbook writes one row per ward followed by a totals row.
func CensusWorkbook(census []*model.WardCensus) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", censusSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(censusSheet, "A1", &censusHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(censusHeader))
	if err := f.SetCellStyle(censusSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(censusSheet, "A", "A", 28); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(censusSheet, "B", lastCol, 14); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	var total, occupied int
	for i, ward := range census {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		row := []interface{}{
			ward.WardName,
			string(ward.WardType),
			ward.TotalBeds,
			ward.OccupiedBeds,
			ward.FreeBeds,
			occupancyPercent(ward.OccupiedBeds, ward.TotalBeds),
		}
		if err := f.SetSheetRow(censusSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		total += ward.TotalBeds
		occupied += ward.OccupiedBeds
	}

	totalsCell, _ := excelize.CoordinatesToCellName(1, len(census)+2)
	totals := []interface{}{"Total", "", total, occupied, total - occupied, occupancyPercent(occupied, total)}
	if err := f.SetSheetRow(censusSheet, totalsCell, &totals); err != nil {
		return nil, fmt.Errorf("failed to write totals: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func occupancyPercent(occupied, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(occupied*1000/total) / 10
}
