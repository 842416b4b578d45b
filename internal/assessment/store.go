package assessment

import (
	"context"
	"log"
	"sync"
	"time"
)

// Observer receives a snapshot after every committed mutation. Notification
// is synchronous; observers must not call back into the store's mutators.
// Delivery happens outside the store's lock, so when mutators run
// concurrently two snapshots may arrive out of commit order; each snapshot
// is still internally consistent, and observers needing only the latest
// state should read Snapshot instead of relying on delivery order.
type Observer func(AssessmentSession)

// Store is the single source of truth for one assessment's wizard state.
//
// All mutations apply to the in-memory session immediately and
// unconditionally, then flush to the Repository. A failed flush never rolls
// the in-memory state back; it is logged and retained in LastSaveErr so the
// caller can warn that progress may not survive a restart.
type Store struct {
	mu          sync.RWMutex
	repo        Repository
	key         string
	session     *AssessmentSession
	lastSaveErr error
	observers   []Observer
}

// OpenStore restores the session identified by key from the repository, or
// initializes creation-time defaults when no usable record exists. A
// malformed persisted record is discarded rather than crashing the host
// (fail closed).
func OpenStore(ctx context.Context, repo Repository, key string) *Store {
	s := &Store{repo: repo, key: key}

	restored, err := repo.Load(ctx, key)
	switch {
	case err != nil:
		log.Printf("assessment: restore failed for session %s, starting fresh: %v", key, err)
		s.session = NewSession()
	case restored == nil:
		s.session = NewSession()
	case !restored.valid():
		log.Printf("assessment: discarding malformed persisted state for session %s", key)
		s.session = NewSession()
	default:
		s.session = restored
	}
	return s
}

// Subscribe registers an observer for committed mutations.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current session. Mutating the returned
// value does not affect stored state.
func (s *Store) Snapshot() *AssessmentSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

// Progress derives the navigation summary. TotalSteps is the fixed length of
// the canonical ordering regardless of how many steps are completed.
func (s *Store) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Progress{
		CurrentStep:    s.session.CurrentStep,
		CompletedSteps: cloneSlice(s.session.CompletedSteps),
		TotalSteps:     len(StepOrder),
	}
}

// LastSaveErr returns the error from the most recent flush, or nil if the
// last flush succeeded. Non-nil means the session works in memory but may
// not survive a restart.
func (s *Store) LastSaveErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaveErr
}

// SetSessionID replaces the session identifier. Uniqueness is the caller's
// responsibility.
func (s *Store) SetSessionID(ctx context.Context, id string) {
	s.mu.Lock()
	s.session.SessionID = id
	snap := s.commit(ctx)
	s.mu.Unlock()
	s.notify(snap)
}

// SetCurrentStep makes step the presented step. There is no adjacency guard:
// the wizard allows free navigation, so any step is reachable from any step.
func (s *Store) SetCurrentStep(ctx context.Context, step Step) error {
	if !ValidStep(step) {
		return ErrInvalidStep
	}
	s.mu.Lock()
	s.session.CurrentStep = step
	snap := s.commit(ctx)
	s.mu.Unlock()
	s.notify(snap)
	return nil
}

// MarkStepCompleted adds step to the completed set. Idempotent: marking an
// already completed step changes nothing and skips the flush.
func (s *Store) MarkStepCompleted(ctx context.Context, step Step) error {
	if !ValidStep(step) {
		return ErrInvalidStep
	}
	s.mu.Lock()
	if s.session.HasCompleted(step) {
		s.mu.Unlock()
		return nil
	}
	s.session.CompletedSteps = append(s.session.CompletedSteps, step)
	snap := s.commit(ctx)
	s.mu.Unlock()
	s.notify(snap)
	return nil
}

// The five update operations shallow-merge the given fields into the stored
// record. Each record is independent: updating one never perturbs another.

func (s *Store) UpdateDemographics(ctx context.Context, in DemographicData) {
	s.mu.Lock()
	s.session.DemographicData.merge(in)
	snap := s.commit(ctx)
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) UpdateVitalSigns(ctx context.Context, in VitalSigns) {
	s.mu.Lock()
	s.session.VitalSigns.merge(in)
	snap := s.commit(ctx)
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) UpdateMedicalHistory(ctx context.Context, in MedicalHistory) {
	s.mu.Lock()
	s.session.MedicalHistory.merge(in)
	snap := s.commit(ctx)
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) UpdateSymptoms(ctx context.Context, in Symptoms) {
	s.mu.Lock()
	s.session.Symptoms.merge(in)
	snap := s.commit(ctx)
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) UpdateLabResults(ctx context.Context, in LabResults) {
	s.mu.Lock()
	s.session.LabResults.merge(in)
	snap := s.commit(ctx)
	s.mu.Unlock()
	s.notify(snap)
}

// AddUploadedFile appends a file identifier to the upload log. The log is
// append-only and keeps duplicates; the upload itself happens out of band.
func (s *Store) AddUploadedFile(ctx context.Context, fileID string) {
	s.mu.Lock()
	s.session.UploadedFiles = append(s.session.UploadedFiles, fileID)
	snap := s.commit(ctx)
	s.mu.Unlock()
	s.notify(snap)
}

// Reset restores the creation-time state: no session id, first step current,
// every record empty.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.session = NewSession()
	snap := s.commit(ctx)
	s.mu.Unlock()
	s.notify(snap)
}

// commit stamps UpdatedAt and flushes to the repository. Called with the
// write lock held. Returns the snapshot that was committed.
func (s *Store) commit(ctx context.Context) *AssessmentSession {
	s.session.UpdatedAt = time.Now()
	snap := s.session.Clone()
	if err := s.repo.Save(ctx, s.key, snap); err != nil {
		s.lastSaveErr = err
		log.Printf("assessment: persist failed for session %s: %v", s.key, err)
	} else {
		s.lastSaveErr = nil
	}
	return snap
}

func (s *Store) notify(snap *AssessmentSession) {
	s.mu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()
	for _, fn := range observers {
		fn(*snap)
	}
}
