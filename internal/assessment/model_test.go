package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStep(t *testing.T) {
	for _, step := range StepOrder {
		assert.True(t, ValidStep(step), "step %s should be valid", step)
	}

	for _, s := range []Step{"", "checkout", "Demographics", "labs "} {
		assert.False(t, ValidStep(s), "step %q should be invalid", s)
	}
}

func TestStepOrderIsCanonical(t *testing.T) {
	want := []Step{StepDemographics, StepVitals, StepHistory, StepSymptoms, StepLabs, StepReview}
	assert.Equal(t, want, StepOrder)
}

func TestMedicalHistoryMergeReplacesLists(t *testing.T) {
	m := MedicalHistory{
		Conditions:  []string{"asthma"},
		Medications: []string{"salbutamol"},
	}

	// A present list replaces wholesale; an absent list is left alone.
	m.merge(MedicalHistory{Conditions: []string{"asthma", "hypertension"}})
	assert.Equal(t, []string{"asthma", "hypertension"}, m.Conditions)
	assert.Equal(t, []string{"salbutamol"}, m.Medications)

	// A present empty list is an explicit clear.
	m.merge(MedicalHistory{Medications: []string{}})
	assert.NotNil(t, m.Medications)
	assert.Empty(t, m.Medications)
}

func TestSymptomsMergeKeepsAbsentFields(t *testing.T) {
	s := Symptoms{PrimaryComplaint: ptr("fatigue"), PainLevel: ptr(4)}

	s.merge(Symptoms{PainLevel: ptr(6)})
	require.NotNil(t, s.PrimaryComplaint)
	assert.Equal(t, "fatigue", *s.PrimaryComplaint)
	assert.Equal(t, 6, *s.PainLevel)
}

func TestLabResultsMerge(t *testing.T) {
	l := LabResults{Notes: ptr("fasting sample")}

	l.merge(LabResults{Values: []LabValue{{TestName: "glucose", Value: "92", Unit: "mg/dL"}}})
	assert.Len(t, l.Values, 1)
	require.NotNil(t, l.Notes)
	assert.Equal(t, "fasting sample", *l.Notes)
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession()

	assert.Empty(t, s.SessionID)
	assert.Equal(t, StepDemographics, s.CurrentStep)
	assert.NotNil(t, s.CompletedSteps)
	assert.Empty(t, s.CompletedSteps)
	assert.NotNil(t, s.UploadedFiles)
	assert.Empty(t, s.UploadedFiles)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSession()
	s.DemographicData.Age = ptr(40)
	s.MedicalHistory.Conditions = []string{"diabetes"}
	s.LabResults.Values = []LabValue{{TestName: "HbA1c", Value: "5.4", Unit: "%", ReferenceRange: ptr("4.0-5.6")}}
	s.CompletedSteps = []Step{StepDemographics}

	c := s.Clone()
	*c.DemographicData.Age = 99
	c.MedicalHistory.Conditions[0] = "mutated"
	c.LabResults.Values[0].Value = "9.9"
	c.CompletedSteps[0] = StepReview

	assert.Equal(t, 40, *s.DemographicData.Age)
	assert.Equal(t, "diabetes", s.MedicalHistory.Conditions[0])
	assert.Equal(t, "5.4", s.LabResults.Values[0].Value)
	assert.Equal(t, StepDemographics, s.CompletedSteps[0])
}

func TestClonePreservesEmptySlices(t *testing.T) {
	s := NewSession()

	c := s.Clone()
	require.NotNil(t, c.CompletedSteps)
	require.NotNil(t, c.UploadedFiles)
	assert.Empty(t, c.CompletedSteps)
	assert.Empty(t, c.UploadedFiles)

	// Explicitly cleared lists stay present through cloning too.
	s.MedicalHistory.Medications = []string{}
	c = s.Clone()
	require.NotNil(t, c.MedicalHistory.Medications)
	assert.Empty(t, c.MedicalHistory.Medications)

	// And absence stays absence.
	assert.Nil(t, c.MedicalHistory.Conditions)
	assert.Equal(t, s, c)
}

func TestMergeCopiesInputLists(t *testing.T) {
	m := MedicalHistory{}
	input := []string{"asthma"}
	m.merge(MedicalHistory{Conditions: input})

	input[0] = "mutated"
	assert.Equal(t, []string{"asthma"}, m.Conditions)

	l := LabResults{}
	values := []LabValue{{TestName: "glucose", Value: "92", Unit: "mg/dL"}}
	l.merge(LabResults{Values: values})

	values[0].Value = "999"
	assert.Equal(t, "92", l.Values[0].Value)
}

func TestHasCompleted(t *testing.T) {
	s := NewSession()
	assert.False(t, s.HasCompleted(StepVitals))

	s.CompletedSteps = append(s.CompletedSteps, StepVitals)
	assert.True(t, s.HasCompleted(StepVitals))
	assert.False(t, s.HasCompleted(StepLabs))
}
