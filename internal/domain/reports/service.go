package reports

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"levelup/internal/domain/roster"
)

// RosterSource is the slice of the roster service the exporter needs.
type RosterSource interface {
	Roster(ctx context.Context, q roster.RosterQuery) ([]roster.RosterRow, roster.RosterMeta, error)
}

type Service struct {
	roster RosterSource
}

func NewService(source RosterSource) *Service {
	return &Service{roster: source}
}

// WriteRosterPDF renders the eligibility roster for the year as a PDF and
// streams it to w.
func (s *Service) WriteRosterPDF(ctx context.Context, w io.Writer, q roster.RosterQuery) error {
	// The export always covers the whole roster, not one page.
	q.Limit = 0
	q.Offset = 0
	rows, meta, err := s.roster.Roster(ctx, q)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Level-Up Eligibility Roster %d", q.Year))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employees: %d   Point met: %d   Credit met: %d   Both met: %d",
		meta.Total, meta.PointMet, meta.CreditMet, meta.BothMet))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(28, 8, "Employee", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Department", "1", 0, "L", false, 0, "")
	pdf.CellFormat(16, 8, "Level", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 8, "Points", "1", 0, "R", false, 0, "")
	pdf.CellFormat(22, 8, "Credits", "1", 0, "R", false, 0, "")
	pdf.CellFormat(16, 8, "Met", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 8, "Grades", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		grades := make([]string, 0, len(row.Years))
		for _, y := range row.Years {
			label := y.Grade
			if label == "" {
				label = "-"
			}
			if y.AutoFilled {
				label += "*"
			}
			grades = append(grades, fmt.Sprintf("%d:%s", y.Year, label))
		}

		pdf.CellFormat(28, 7, row.Employee.ID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, row.Employee.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, row.Employee.Department, "1", 0, "L", false, 0, "")
		pdf.CellFormat(16, 7, fmt.Sprintf("%d", row.Employee.Level), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 7, fmt.Sprintf("%.1f", row.PointCumulative), "1", 0, "R", false, 0, "")
		pdf.CellFormat(22, 7, fmt.Sprintf("%.1f", row.CreditCumulative), "1", 0, "R", false, 0, "")
		pdf.CellFormat(16, 7, metLabel(row), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 7, strings.Join(grades, " "), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "* grade auto-filled for a pre-hire year; not counted toward totals")

	return pdf.Output(w)
}

func metLabel(row roster.RosterRow) string {
	switch {
	case row.PointMet && row.CreditMet:
		return "both"
	case row.PointMet:
		return "point"
	case row.CreditMet:
		return "credit"
	}
	return "-"
}
