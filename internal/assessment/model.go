package assessment

import (
	"time"
)

// Step is one of the six named phases of the intake wizard.
type Step string

const (
	StepDemographics Step = "demographics"
	StepVitals       Step = "vitals"
	StepHistory      Step = "history"
	StepSymptoms     Step = "symptoms"
	StepLabs         Step = "labs"
	StepReview       Step = "review"
)

// StepOrder is the canonical wizard ordering. It fixes the total step count
// for progress reporting; it does not gate navigation (any step can be made
// current from any other step).
var StepOrder = []Step{
	StepDemographics,
	StepVitals,
	StepHistory,
	StepSymptoms,
	StepLabs,
	StepReview,
}

// ValidStep reports whether s is one of the six canonical steps.
func ValidStep(s Step) bool {
	for _, step := range StepOrder {
		if s == step {
			return true
		}
	}
	return false
}

// The five intake records are partial by design: every field may be absent
// independently (nil pointer / nil slice) while the user fills the form
// across visits. A non-nil zero value is an explicit clear, not an absence.

type DemographicData struct {
	Age       *int    `json:"age,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Ethnicity *string `json:"ethnicity,omitempty"`
	Race      *string `json:"race,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

type VitalSigns struct {
	HeightCM               *float64 `json:"height_cm,omitempty"`
	WeightKG               *float64 `json:"weight_kg,omitempty"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic,omitempty"`
	HeartRate              *int     `json:"heart_rate,omitempty"`
	TemperatureCelsius     *float64 `json:"temperature_celsius,omitempty"`
}

type MedicalHistory struct {
	Conditions         []string `json:"conditions,omitempty"`
	Medications        []string `json:"medications,omitempty"`
	Allergies          []string `json:"allergies,omitempty"`
	Surgeries          []string `json:"surgeries,omitempty"`
	FamilyHistory      []string `json:"family_history,omitempty"`
	SmokingStatus      *string  `json:"smoking_status,omitempty"` // never/former/current
	AlcoholConsumption *string  `json:"alcohol_consumption,omitempty"`
}

type Symptoms struct {
	PrimaryComplaint *string  `json:"primary_complaint,omitempty"`
	SymptomsList     []string `json:"symptoms_list,omitempty"`
	SymptomDuration  *string  `json:"symptom_duration,omitempty"`
	PainLevel        *int     `json:"pain_level,omitempty"` // 0-10
}

// LabValue is a single reported lab measurement.
type LabValue struct {
	TestName       string  `json:"test_name"`
	Value          string  `json:"value"`
	Unit           string  `json:"unit"`
	ReferenceRange *string `json:"reference_range,omitempty"`
}

type LabResults struct {
	Values      []LabValue `json:"values,omitempty"`
	CollectedAt *string    `json:"collected_at,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// AssessmentSession is the aggregate root: the full wizard state for one
// assessment attempt.
type AssessmentSession struct {
	SessionID       string          `json:"session_id,omitempty"`
	CurrentStep     Step            `json:"current_step"`
	CompletedSteps  []Step          `json:"completed_steps"`
	DemographicData DemographicData `json:"demographic_data"`
	VitalSigns      VitalSigns      `json:"vital_signs"`
	MedicalHistory  MedicalHistory  `json:"medical_history"`
	Symptoms        Symptoms        `json:"symptoms"`
	LabResults      LabResults      `json:"lab_results"`
	UploadedFiles   []string        `json:"uploaded_files"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress is the derived view consumed by navigation and badges.
type Progress struct {
	CurrentStep    Step   `json:"current_step"`
	CompletedSteps []Step `json:"completed_steps"`
	TotalSteps     int    `json:"total_steps"`
}

// NewSession returns the creation-time state: first step current, every
// record empty, no session id assigned yet.
func NewSession() *AssessmentSession {
	now := time.Now()
	return &AssessmentSession{
		CurrentStep:    StepDemographics,
		CompletedSteps: []Step{},
		UploadedFiles:  []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// valid reports whether a restored record has a well-formed shape. Used to
// fail closed when durable storage holds data from an incompatible version.
func (s *AssessmentSession) valid() bool {
	if !ValidStep(s.CurrentStep) {
		return false
	}
	for _, step := range s.CompletedSteps {
		if !ValidStep(step) {
			return false
		}
	}
	return true
}

// HasCompleted reports membership in the completed set.
func (s *AssessmentSession) HasCompleted(step Step) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Consumers get clones so that mutating a
// returned snapshot can never leak back into stored state.
func (s *AssessmentSession) Clone() *AssessmentSession {
	c := *s
	c.CompletedSteps = cloneSlice(s.CompletedSteps)
	c.UploadedFiles = cloneSlice(s.UploadedFiles)
	c.DemographicData = DemographicData{
		Age:       clonePtr(s.DemographicData.Age),
		Gender:    clonePtr(s.DemographicData.Gender),
		Ethnicity: clonePtr(s.DemographicData.Ethnicity),
		Race:      clonePtr(s.DemographicData.Race),
		Email:     clonePtr(s.DemographicData.Email),
		Phone:     clonePtr(s.DemographicData.Phone),
	}
	c.VitalSigns = VitalSigns{
		HeightCM:               clonePtr(s.VitalSigns.HeightCM),
		WeightKG:               clonePtr(s.VitalSigns.WeightKG),
		BloodPressureSystolic:  clonePtr(s.VitalSigns.BloodPressureSystolic),
		BloodPressureDiastolic: clonePtr(s.VitalSigns.BloodPressureDiastolic),
		HeartRate:              clonePtr(s.VitalSigns.HeartRate),
		TemperatureCelsius:     clonePtr(s.VitalSigns.TemperatureCelsius),
	}
	c.MedicalHistory = MedicalHistory{
		Conditions:         cloneSlice(s.MedicalHistory.Conditions),
		Medications:        cloneSlice(s.MedicalHistory.Medications),
		Allergies:          cloneSlice(s.MedicalHistory.Allergies),
		Surgeries:          cloneSlice(s.MedicalHistory.Surgeries),
		FamilyHistory:      cloneSlice(s.MedicalHistory.FamilyHistory),
		SmokingStatus:      clonePtr(s.MedicalHistory.SmokingStatus),
		AlcoholConsumption: clonePtr(s.MedicalHistory.AlcoholConsumption),
	}
	c.Symptoms = Symptoms{
		PrimaryComplaint: clonePtr(s.Symptoms.PrimaryComplaint),
		SymptomsList:     cloneSlice(s.Symptoms.SymptomsList),
		SymptomDuration:  clonePtr(s.Symptoms.SymptomDuration),
		PainLevel:        clonePtr(s.Symptoms.PainLevel),
	}
	c.LabResults = LabResults{
		Values:      cloneLabValues(s.LabResults.Values),
		CollectedAt: clonePtr(s.LabResults.CollectedAt),
		Notes:       clonePtr(s.LabResults.Notes),
	}
	return &c
}

func cloneLabValues(values []LabValue) []LabValue {
	if values == nil {
		return nil
	}
	out := make([]LabValue, len(values))
	for i, v := range values {
		v.ReferenceRange = clonePtr(v.ReferenceRange)
		out[i] = v
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneSlice preserves nil-vs-empty: an empty but present slice stays
// present, since absence and explicit emptiness mean different things in
// the partial records.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// merge applies field-level overwrite: fields present in the input replace
// the stored value, absent fields are left untouched.

func (d *DemographicData) merge(in DemographicData) {
	if in.Age != nil {
		d.Age = in.Age
	}
	if in.Gender != nil {
		d.Gender = in.Gender
	}
	if in.Ethnicity != nil {
		d.Ethnicity = in.Ethnicity
	}
	if in.Race != nil {
		d.Race = in.Race
	}
	if in.Email != nil {
		d.Email = in.Email
	}
	if in.Phone != nil {
		d.Phone = in.Phone
	}
}

func (v *VitalSigns) merge(in VitalSigns) {
	if in.HeightCM != nil {
		v.HeightCM = in.HeightCM
	}
	if in.WeightKG != nil {
		v.WeightKG = in.WeightKG
	}
	if in.BloodPressureSystolic != nil {
		v.BloodPressureSystolic = in.BloodPressureSystolic
	}
	if in.BloodPressureDiastolic != nil {
		v.BloodPressureDiastolic = in.BloodPressureDiastolic
	}
	if in.HeartRate != nil {
		v.HeartRate = in.HeartRate
	}
	if in.TemperatureCelsius != nil {
		v.TemperatureCelsius = in.TemperatureCelsius
	}
}

func (m *MedicalHistory) merge(in MedicalHistory) {
	if in.Conditions != nil {
		m.Conditions = cloneSlice(in.Conditions)
	}
	if in.Medications != nil {
		m.Medications = cloneSlice(in.Medications)
	}
	if in.Allergies != nil {
		m.Allergies = cloneSlice(in.Allergies)
	}
	if in.Surgeries != nil {
		m.Surgeries = cloneSlice(in.Surgeries)
	}
	if in.FamilyHistory != nil {
		m.FamilyHistory = cloneSlice(in.FamilyHistory)
	}
	if in.SmokingStatus != nil {
		m.SmokingStatus = in.SmokingStatus
	}
	if in.AlcoholConsumption != nil {
		m.AlcoholConsumption = in.AlcoholConsumption
	}
}

func (s *Symptoms) merge(in Symptoms) {
	if in.PrimaryComplaint != nil {
		s.PrimaryComplaint = in.PrimaryComplaint
	}
	if in.SymptomsList != nil {
		s.SymptomsList = cloneSlice(in.SymptomsList)
	}
	if in.SymptomDuration != nil {
		s.SymptomDuration = in.SymptomDuration
	}
	if in.PainLevel != nil {
		s.PainLevel = in.PainLevel
	}
}

func (l *LabResults) merge(in LabResults) {
	if in.Values != nil {
		l.Values = cloneLabValues(in.Values)
	}
	if in.CollectedAt != nil {
		l.CollectedAt = in.CollectedAt
	}
	if in.Notes != nil {
		l.Notes = in.Notes
	}
}
