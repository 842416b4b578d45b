package assessment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Uploader defines the interface for the out-of-band file upload service.
// We define it here to decouple from the specific storage implementation.
// The session only ever records the returned file id.
type Uploader interface {
	Store(ctx context.Context, filename string, data []byte) (string, error)
}

// ReportService defines the interface for rendering assessment summaries.
// It reads a snapshot and never mutates the session.
type ReportService interface {
	RenderSummary(ctx context.Context, s AssessmentSession, p Progress) ([]byte, error)
}

type Service interface {
	CreateAssessment(ctx context.Context) (*AssessmentSession, error)
	GetAssessment(ctx context.Context, id uuid.UUID) (*AssessmentSession, error)
	GetProgress(ctx context.Context, id uuid.UUID) (Progress, bool, error)
	SetCurrentStep(ctx context.Context, id uuid.UUID, step Step) error
	MarkStepCompleted(ctx context.Context, id uuid.UUID, step Step) error
	UpdateDemographics(ctx context.Context, id uuid.UUID, in DemographicData) error
	UpdateVitalSigns(ctx context.Context, id uuid.UUID, in VitalSigns) error
	UpdateMedicalHistory(ctx context.Context, id uuid.UUID, in MedicalHistory) error
	UpdateSymptoms(ctx context.Context, id uuid.UUID, in Symptoms) error
	UpdateLabResults(ctx context.Context, id uuid.UUID, in LabResults) error
	UploadFile(ctx context.Context, id uuid.UUID, filename string, data []byte) (string, error)
	RegisterUploadedFile(ctx context.Context, id uuid.UUID, fileID string) error
	ResetAssessment(ctx context.Context, id uuid.UUID) error
	GenerateReport(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type service struct {
	repo      Repository
	uploader  Uploader
	reportSvc ReportService

	mu     sync.Mutex
	stores map[uuid.UUID]*Store
}

func NewService(repo Repository, uploader Uploader, report ReportService) Service {
	return &service{
		repo:      repo,
		uploader:  uploader,
		reportSvc: report,
		stores:    make(map[uuid.UUID]*Store),
	}
}

// CreateAssessment opens a fresh session store and assigns it a server-side
// session id.
func (s *service) CreateAssessment(ctx context.Context) (*AssessmentSession, error) {
	id := uuid.New()

	store := OpenStore(ctx, s.repo, id.String())
	store.SetSessionID(ctx, id.String())
	if err := store.LastSaveErr(); err != nil {
		return nil, fmt.Errorf("failed to persist new assessment: %w", err)
	}

	s.mu.Lock()
	s.stores[id] = store
	s.mu.Unlock()

	return store.Snapshot(), nil
}

// store returns the open store for id, restoring it from the repository
// when this process has not touched the session yet. Unknown ids are an
// error; sessions are only created through CreateAssessment.
func (s *service) store(ctx context.Context, id uuid.UUID) (*Store, error) {
	s.mu.Lock()
	store, ok := s.stores[id]
	s.mu.Unlock()
	if ok {
		return store, nil
	}

	persisted, err := s.repo.Load(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if persisted == nil {
		return nil, ErrSessionNotFound
	}

	store = OpenStore(ctx, s.repo, id.String())

	s.mu.Lock()
	// Another request may have opened it concurrently; keep the first.
	if existing, ok := s.stores[id]; ok {
		store = existing
	} else {
		s.stores[id] = store
	}
	s.mu.Unlock()

	return store, nil
}

func (s *service) GetAssessment(ctx context.Context, id uuid.UUID) (*AssessmentSession, error) {
	store, err := s.store(ctx, id)
	if err != nil {
		return nil, err
	}
	return store.Snapshot(), nil
}

// GetProgress returns the derived progress view plus a degraded flag that is
// true when the latest flush to durable storage failed.
func (s *service) GetProgress(ctx context.Context, id uuid.UUID) (Progress, bool, error) {
	store, err := s.store(ctx, id)
	if err != nil {
		return Progress{}, false, err
	}
	return store.Progress(), store.LastSaveErr() != nil, nil
}

func (s *service) SetCurrentStep(ctx context.Context, id uuid.UUID, step Step) error {
	store, err := s.store(ctx, id)
	if err != nil {
		return err
	}
	return store.SetCurrentStep(ctx, step)
}

func (s *service) MarkStepCompleted(ctx context.Context, id uuid.UUID, step Step) error {
	store, err := s.store(ctx, id)
	if err != nil {
		return err
	}
	return store.MarkStepCompleted(ctx, step)
}

func (s *service) UpdateDemographics(ctx context.Context, id uuid.UUID, in DemographicData) error {
	store, err := s.store(ctx, id)
	if err != nil {
		return err
	}
	store.UpdateDemographics(ctx, in)
	return nil
}

func (s *service) UpdateVitalSigns(ctx context.Context, id uuid.UUID, in VitalSigns) error {
	store, err := s.store(ctx, id)
	if err != nil {
		return err
	}
	store.UpdateVitalSigns(ctx, in)
	return nil
}

func (s *service) UpdateMedicalHistory(ctx context.Context, id uuid.UUID, in MedicalHistory) error {
	store, err := s.store(ctx, id)
	if err != nil {
		return err
	}
	store.UpdateMedicalHistory(ctx, in)
	return nil
}

func (s *service) UpdateSymptoms(ctx context.Context, id uuid.UUID, in Symptoms) error {
	store, err := s.store(ctx, id)
	if err != nil {
		return err
	}
	store.UpdateSymptoms(ctx, in)
	return nil
}

func (s *service) UpdateLabResults(ctx context.Context, id uuid.UUID, in LabResults) error {
	store, err := s.store(ctx, id)
	if err != nil {
		return err
	}
	store.UpdateLabResults(ctx, in)
	return nil
}

// UploadFile hands the payload to the upload collaborator and records the
// returned file id in the session's append-only upload log.
func (s *service) UploadFile(ctx context.Context, id uuid.UUID, filename string, data []byte) (string, error) {
	store, err := s.store(ctx, id)
	if err != nil {
		return "", err
	}

	fileID, err := s.uploader.Store(ctx, filename, data)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	store.AddUploadedFile(ctx, fileID)
	return fileID, nil
}

// RegisterUploadedFile records a file id for an upload that completed out of
// band.
func (s *service) RegisterUploadedFile(ctx context.Context, id uuid.UUID, fileID string) error {
	store, err := s.store(ctx, id)
	if err != nil {
		return err
	}
	store.AddUploadedFile(ctx, fileID)
	return nil
}

func (s *service) ResetAssessment(ctx context.Context, id uuid.UUID) error {
	store, err := s.store(ctx, id)
	if err != nil {
		return err
	}
	store.Reset(ctx)
	return nil
}

// GenerateReport renders the summary PDF from a read-only snapshot.
func (s *service) GenerateReport(ctx context.Context, id uuid.UUID) ([]byte, error) {
	store, err := s.store(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.reportSvc.RenderSummary(ctx, *store.Snapshot(), store.Progress())
}
