package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"github.com/atharhive/CareLens-sub001/internal/assessment"
)

// Service renders assessment summary PDFs from read-only snapshots.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// RenderSummary produces the assessment summary PDF. It only reads the
// snapshot it is given; the session store is never touched.
func (s *Service) RenderSummary(ctx context.Context, a assessment.AssessmentSession, p assessment.Progress) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	// Try multiple common paths for the DejaVu font
	fontPaths := []string{
		"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF. Please ensure ttf-dejavu is installed. Last error: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}

	// Header
	pdf.Cell(nil, "Health Risk Assessment Summary")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Session ID: %s", a.SessionID))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Completed steps: %d of %d", len(p.CompletedSteps), p.TotalSteps))
	pdf.Br(25)

	sections := []struct {
		title string
		lines []string
	}{
		{"Demographics", demographicLines(a.DemographicData)},
		{"Vital Signs", vitalLines(a.VitalSigns)},
		{"Medical History", historyLines(a.MedicalHistory)},
		{"Symptoms", symptomLines(a.Symptoms)},
		{"Lab Results", labLines(a.LabResults)},
		{"Uploaded Documents", fileLines(a.UploadedFiles)},
	}

	for _, section := range sections {
		if err := pdf.SetFont("DejaVu", "", 14); err != nil {
			return nil, err
		}
		pdf.Cell(nil, section.title+":")
		pdf.Br(15)

		if err := pdf.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}
		if len(section.lines) == 0 {
			pdf.Cell(nil, "- Not provided.")
			pdf.Br(15)
		}
		for _, line := range section.lines {
			wrapped, _ := pdf.SplitText("- "+line, 500)
			for _, l := range wrapped {
				pdf.Cell(nil, l)
				pdf.Br(12)
			}
			pdf.Br(3)
		}
		pdf.Br(12)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func demographicLines(d assessment.DemographicData) []string {
	var lines []string
	if d.Age != nil {
		lines = append(lines, fmt.Sprintf("Age: %d", *d.Age))
	}
	if d.Gender != nil {
		lines = append(lines, "Gender: "+*d.Gender)
	}
	if d.Ethnicity != nil {
		lines = append(lines, "Ethnicity: "+*d.Ethnicity)
	}
	if d.Race != nil {
		lines = append(lines, "Race: "+*d.Race)
	}
	if d.Email != nil {
		lines = append(lines, "Email: "+*d.Email)
	}
	if d.Phone != nil {
		lines = append(lines, "Phone: "+*d.Phone)
	}
	return lines
}

func vitalLines(v assessment.VitalSigns) []string {
	var lines []string
	if v.HeightCM != nil {
		lines = append(lines, fmt.Sprintf("Height: %.1f cm", *v.HeightCM))
	}
	if v.WeightKG != nil {
		lines = append(lines, fmt.Sprintf("Weight: %.1f kg", *v.WeightKG))
	}
	if v.BloodPressureSystolic != nil && v.BloodPressureDiastolic != nil {
		lines = append(lines, fmt.Sprintf("Blood pressure: %d/%d mmHg", *v.BloodPressureSystolic, *v.BloodPressureDiastolic))
	}
	if v.HeartRate != nil {
		lines = append(lines, fmt.Sprintf("Heart rate: %d bpm", *v.HeartRate))
	}
	if v.TemperatureCelsius != nil {
		lines = append(lines, fmt.Sprintf("Temperature: %.1f C", *v.TemperatureCelsius))
	}
	return lines
}

func historyLines(m assessment.MedicalHistory) []string {
	var lines []string
	if len(m.Conditions) > 0 {
		lines = append(lines, "Conditions: "+strings.Join(m.Conditions, ", "))
	}
	if len(m.Medications) > 0 {
		lines = append(lines, "Medications: "+strings.Join(m.Medications, ", "))
	}
	if len(m.Allergies) > 0 {
		lines = append(lines, "Allergies: "+strings.Join(m.Allergies, ", "))
	}
	if len(m.Surgeries) > 0 {
		lines = append(lines, "Surgeries: "+strings.Join(m.Surgeries, ", "))
	}
	if len(m.FamilyHistory) > 0 {
		lines = append(lines, "Family history: "+strings.Join(m.FamilyHistory, ", "))
	}
	if m.SmokingStatus != nil {
		lines = append(lines, "Smoking: "+*m.SmokingStatus)
	}
	if m.AlcoholConsumption != nil {
		lines = append(lines, "Alcohol: "+*m.AlcoholConsumption)
	}
	return lines
}

func symptomLines(s assessment.Symptoms) []string {
	var lines []string
	if s.PrimaryComplaint != nil {
		lines = append(lines, "Primary complaint: "+*s.PrimaryComplaint)
	}
	if len(s.SymptomsList) > 0 {
		lines = append(lines, "Symptoms: "+strings.Join(s.SymptomsList, ", "))
	}
	if s.SymptomDuration != nil {
		lines = append(lines, "Duration: "+*s.SymptomDuration)
	}
	if s.PainLevel != nil {
		lines = append(lines, fmt.Sprintf("Pain level: %d/10", *s.PainLevel))
	}
	return lines
}

func labLines(l assessment.LabResults) []string {
	var lines []string
	for _, v := range l.Values {
		line := fmt.Sprintf("%s: %s %s", v.TestName, v.Value, v.Unit)
		if v.ReferenceRange != nil {
			line += fmt.Sprintf(" (reference: %s)", *v.ReferenceRange)
		}
		lines = append(lines, line)
	}
	if l.CollectedAt != nil {
		lines = append(lines, "Collected: "+*l.CollectedAt)
	}
	if l.Notes != nil {
		lines = append(lines, "Notes: "+*l.Notes)
	}
	return lines
}

func fileLines(files []string) []string {
	var lines []string
	for _, id := range files {
		lines = append(lines, "File: "+id)
	}
	return lines
}
