package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"verification-dashboard/models"
)

var riskColors = map[models.RiskLevel][3]int{
	models.RiskLow:      {66, 190, 101},
	models.RiskMedium:   {241, 194, 27},
	models.RiskHigh:     {255, 131, 43},
	models.RiskCritical: {250, 77, 86},
}

var findingColors = map[models.FindingStatus][3]int{
	models.FindingPass:    {66, 190, 101},
	models.FindingWarning: {241, 194, 27},
	models.FindingFail:    {250, 77, 86},
}

var neutral = [3]int{120, 120, 120}

func GenerateJSON(company models.Company) ([]byte, error) {
	return json.MarshalIndent(company, "", "  ")
}

// GeneratePDF renders one company's verification report. screenshot is an
// optional PNG of the company website.
func GeneratePDF(company models.Company, screenshot []byte) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(79, 70, 229)
	pdf.Cell(0, 10, "Company Verification Report")
	pdf.Ln(12)

	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(10, 22, 190, 40, "F")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(12, 25)
	pdf.Cell(0, 10, tr(company.Name))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetXY(120, 25)
	pdf.Cell(0, 10, fmt.Sprintf("Review: %s", models.StatusBadge(company).Label))

	pdf.SetXY(12, 32)
	pdf.SetFont("Courier", "", 9)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Website: %s", company.Website)))
	if company.ReportData != nil && company.ReportData.GeneratedAt != "" {
		pdf.SetXY(120, 32)
		pdf.Cell(0, 10, fmt.Sprintf("Generated: %s", company.ReportData.GeneratedAt))
	}

	pdf.SetXY(12, 40)
	pdf.SetFont("Arial", "B", 12)
	color, ok := riskColors[company.RiskLevel]
	if !ok {
		color = neutral
	}
	pdf.SetTextColor(color[0], color[1], color[2])
	score := "n/a"
	if company.RiskScore != nil {
		score = fmt.Sprintf("%d/100", *company.RiskScore)
	}
	pdf.Cell(0, 10, fmt.Sprintf("Risk Score: %s (%s)", score, models.RiskBadge(company.RiskLevel).Label))

	pdf.Ln(25)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Verification Summary")
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 10)
	summary := "Analysis pending..."
	if company.ReportData != nil && company.ReportData.Summary != "" {
		summary = company.ReportData.Summary
	}
	pdf.MultiCell(0, 6, tr(summary), "", "", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Detailed Findings")
	pdf.Ln(9)

	pdf.SetFont("Courier", "", 10)
	var findings []models.Finding
	if company.ReportData != nil {
		findings = company.ReportData.Findings
	}
	for _, finding := range findings {
		c, ok := findingColors[finding.Status]
		if !ok {
			c = findingColors[models.FindingFail]
		}
		pdf.SetTextColor(c[0], c[1], c[2])
		pdf.CellFormat(22, 7, string(finding.Status), "0", 0, "", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		line := fmt.Sprintf("%s: %s", finding.Source, strings.TrimSpace(finding.Details))
		pdf.MultiCell(0, 7, tr(line), "", "", false)
	}
	if len(findings) == 0 {
		pdf.Cell(0, 7, "No findings recorded.")
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Contact Verification")
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 10)
	var match models.MatchDetails
	if company.ReportData != nil {
		match = company.ReportData.MatchDetails
	}
	pdf.Cell(0, 7, fmt.Sprintf("Email: %s", models.MatchBadge(match.EmailVerified).Label))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Phone: %s", models.MatchBadge(match.PhoneVerified).Label))
	pdf.Ln(10)

	if len(screenshot) > 0 {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, "Website Snapshot")
		pdf.Ln(10)

		rdr := bytes.NewReader(screenshot)
		pdf.RegisterImageOptionsReader("screenshot", fpdf.ImageOptions{ImageType: "PNG"}, rdr)
		pdf.Image("screenshot", 10, pdf.GetY(), 190, 0, false, "", 0, "")
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	return &buf, err
}
