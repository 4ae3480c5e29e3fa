package cancellations

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/migratemate/cancelflow-backend/internal/subscriptions"
	"github.com/migratemate/cancelflow-backend/pkg/db/models"
	"github.com/migratemate/cancelflow-backend/pkg/enums"
	pkgerrors "github.com/migratemate/cancelflow-backend/pkg/errors"
	"github.com/migratemate/cancelflow-backend/pkg/logger"
	"github.com/migratemate/cancelflow-backend/pkg/metrics"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type memRepo struct {
	byID map[uuid.UUID]*models.Cancellation
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[uuid.UUID]*models.Cancellation{}}
}

func (m *memRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memRepo) Create(ctx context.Context, rec *models.Cancellation) (*models.Cancellation, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	clone := *rec
	m.byID[rec.ID] = &clone
	return rec, nil
}

func (m *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Cancellation, error) {
	if rec, ok := m.byID[id]; ok {
		clone := *rec
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cancellation, error) {
	var candidates []*models.Cancellation
	for _, rec := range m.byID {
		if rec.UserID == userID && rec.Status == enums.CancellationStatusInProgress {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	clone := *candidates[0]
	return &clone, nil
}

func (m *memRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Cancellation, error) {
	rec, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for column, value := range updates {
		applyColumn(rec, column, value)
	}
	clone := *rec
	return &clone, nil
}

func (m *memRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	rec, ok := m.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rec.Status = enums.CancellationStatusCompleted
	return nil
}

func applyColumn(rec *models.Cancellation, column string, value any) {
	switch column {
	case "found_job":
		rec.FoundJob = asBoolPtr(value)
	case "accepted_downsell":
		rec.AcceptedDownsell = asBoolPtr(value)
	case "found_with_platform":
		v := value.(bool)
		rec.FoundWithPlatform = &v
	case "roles_applied_bucket":
		b := value.(enums.ActivityBucket)
		rec.RolesAppliedBucket = &b
	case "companies_emailed_bucket":
		b := value.(enums.ActivityBucket)
		rec.CompaniesEmailedBucket = &b
	case "interviews_bucket":
		b := value.(enums.InterviewBucket)
		rec.InterviewsBucket = &b
	case "feedback":
		if value == nil {
			rec.Feedback = nil
		} else {
			s := value.(string)
			rec.Feedback = &s
		}
	case "has_immigration_lawyer":
		v := value.(bool)
		rec.HasLawyer = &v
	case "visa_type":
		s := value.(string)
		rec.VisaType = &s
	case "reason":
		if value == nil {
			rec.Reason = nil
		} else {
			r := value.(enums.CancelReason)
			rec.Reason = &r
		}
	}
}

func asBoolPtr(value any) *bool {
	if value == nil {
		return nil
	}
	if ptr, ok := value.(*bool); ok {
		if ptr == nil {
			return nil
		}
		v := *ptr
		return &v
	}
	v := value.(bool)
	return &v
}

type stubSubs struct {
	latestID      *uuid.UUID
	priceCents    int64
	discountCalls int
	discountErr   error
}

func (s *stubSubs) LatestPrice(ctx context.Context, userID uuid.UUID) (*subscriptions.PriceView, error) {
	if s.latestID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no subscription for user")
	}
	return &subscriptions.PriceView{
		SubscriptionID: *s.latestID,
		PriceCents:     s.priceCents,
		Price:          subscriptions.DollarsFromCents(s.priceCents),
	}, nil
}

func (s *stubSubs) Latest(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	return s.latestID, nil
}

func (s *stubSubs) ApplyDiscount(ctx context.Context, subscriptionID uuid.UUID, discountCents int64) (*subscriptions.DiscountResult, error) {
	if s.discountErr != nil {
		return nil, s.discountErr
	}
	s.discountCalls++
	previous := s.priceCents
	s.priceCents -= discountCents
	if s.priceCents < 0 {
		s.priceCents = 0
	}
	return &subscriptions.DiscountResult{
		SubscriptionID: subscriptionID,
		PreviousCents:  previous,
		NewCents:       s.priceCents,
	}, nil
}

type fixture struct {
	svc  Service
	repo *memRepo
	subs *stubSubs
}

func newFixture(t *testing.T, variant enums.DownsellVariant) *fixture {
	t.Helper()

	subID := uuid.New()
	subs := &stubSubs{latestID: &subID, priceCents: 2500}
	repo := newMemRepo()
	svc, err := NewService(ServiceParams{
		Repo:          repo,
		Subscriptions: subs,
		Variants:      &FixedVariantSource{Variant: variant},
		Metrics:       metrics.NewFlowMetrics(nil),
		Logger:        logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}),
		DiscountCents: 1000,
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return &fixture{svc: svc, repo: repo, subs: subs}
}

func submit(t *testing.T, f *fixture, userID uuid.UUID, patch ProgressPatch) *ProgressResult {
	t.Helper()
	result, err := f.svc.SubmitProgress(context.Background(), userID, ProgressInput{Patch: patch})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func TestSubmitProgressFoundFlowHappyPath(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantA)
	userID := uuid.New()

	// first contact creates the record and enters the found flow
	result := submit(t, f, userID, ProgressPatch{FoundJob: presentBool(true)})
	if result.Position.Flow != FlowFound || result.Position.Step != 1 {
		t.Fatalf("expected found step 1, got %+v", result.Position)
	}
	if len(f.repo.byID) != 1 {
		t.Fatalf("expected one record, got %d", len(f.repo.byID))
	}

	// step 1 answers
	submit(t, f, userID, ProgressPatch{
		FoundWithPlatform:      boolPtr(true),
		RolesAppliedBucket:     strPtr("1-5"),
		CompaniesEmailedBucket: strPtr("0"),
		InterviewsBucket:       strPtr("1-2"),
	})

	// step 2 feedback
	submit(t, f, userID, ProgressPatch{Feedback: presentString("found it thanks to the platform!")})

	// step 3 closes the record
	result = submit(t, f, userID, ProgressPatch{HasLawyer: boolPtr(false), VisaType: strPtr("H-1B")})
	if !result.Completed {
		t.Fatalf("step 3 must complete the flow")
	}

	rec := f.repo.byID[result.CancellationID]
	if rec.Status != enums.CancellationStatusCompleted {
		t.Fatalf("record must be completed, got %s", rec.Status)
	}

	// completed records do not resume
	active, err := f.svc.Active(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active != nil {
		t.Fatalf("completed record must not resume, got %+v", active)
	}
}

func TestSubmitProgressUndoTransition(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantB)
	userID := uuid.New()

	first := submit(t, f, userID, ProgressPatch{FoundJob: presentBool(false)})
	if first.Position.Flow != FlowStill {
		t.Fatalf("expected still flow, got %+v", first.Position)
	}

	// back from the first step persists the cleared choice
	result := submit(t, f, userID, ProgressPatch{FoundJob: nullBool()})
	if result.Position.Flow != FlowNone {
		t.Fatalf("undo must resolve to the choice screen, got %+v", result.Position)
	}
	if result.CancellationID != first.CancellationID {
		t.Fatalf("undo must reuse the record, not create a new one")
	}

	rec := f.repo.byID[result.CancellationID]
	if rec.DownsellVariant != enums.DownsellVariantB {
		t.Fatalf("undo must not clear the variant")
	}
	if rec.SubscriptionID == nil {
		t.Fatalf("undo must not clear the subscription reference")
	}
}

func TestSubmitProgressVariantAResume(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantA)
	userID := uuid.New()

	submit(t, f, userID, ProgressPatch{FoundJob: presentBool(false)})
	result := submit(t, f, userID, ProgressPatch{AcceptedDownsell: presentBool(false)})

	// variant A re-shows the offer even after a recorded decision
	if result.Position.Flow != FlowStill || result.Position.Step != 1 {
		t.Fatalf("variant A must resume at the offer, got %+v", result.Position)
	}
}

func TestSubmitProgressDiscountApplication(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantB)
	userID := uuid.New()

	submit(t, f, userID, ProgressPatch{FoundJob: presentBool(false)})
	submit(t, f, userID, ProgressPatch{AcceptedDownsell: presentBool(true)})

	if f.subs.discountCalls != 1 {
		t.Fatalf("expected one discount call, got %d", f.subs.discountCalls)
	}
	if f.subs.priceCents != 1500 {
		t.Fatalf("expected price 1500, got %d", f.subs.priceCents)
	}

	// a second identical accept applies the discount again (observed
	// behavior, no idempotence guard)
	submit(t, f, userID, ProgressPatch{AcceptedDownsell: presentBool(true)})
	if f.subs.discountCalls != 2 {
		t.Fatalf("expected re-apply on repeat accept, got %d calls", f.subs.discountCalls)
	}
	if f.subs.priceCents != 500 {
		t.Fatalf("expected price 500 after second accept, got %d", f.subs.priceCents)
	}
}

func TestSubmitProgressDiscountFailureIsNonFatal(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantB)
	f.subs.discountErr = pkgerrors.New(pkgerrors.CodeStorage, "billing down")
	userID := uuid.New()

	submit(t, f, userID, ProgressPatch{FoundJob: presentBool(false)})
	result := submit(t, f, userID, ProgressPatch{AcceptedDownsell: presentBool(true)})

	rec := f.repo.byID[result.CancellationID]
	if rec.AcceptedDownsell == nil || !*rec.AcceptedDownsell {
		t.Fatalf("accept must persist even when the discount fails")
	}
}

func TestSubmitProgressVariantImmutability(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantA)
	userID := uuid.New()

	first := submit(t, f, userID, ProgressPatch{FoundJob: presentBool(false)})

	patches := []ProgressPatch{
		{AcceptedDownsell: presentBool(true)},
		{AcceptedDownsell: nullBool()},
		{FoundJob: nullBool()},
		{FoundJob: presentBool(true)},
		{Feedback: presentString("a perfectly long enough feedback")},
	}
	for _, patch := range patches {
		submit(t, f, userID, patch)
	}

	rec := f.repo.byID[first.CancellationID]
	if rec.DownsellVariant != enums.DownsellVariantA {
		t.Fatalf("variant must never change, got %s", rec.DownsellVariant)
	}
}

func TestSubmitProgressOwnershipMismatch(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantB)
	owner := uuid.New()
	stranger := uuid.New()

	result := submit(t, f, owner, ProgressPatch{FoundJob: presentBool(true)})

	id := result.CancellationID
	_, err := f.svc.SubmitProgress(context.Background(), stranger, ProgressInput{
		CancellationID: &id,
		Patch:          ProgressPatch{FoundJob: presentBool(false)},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND on ownership mismatch, got %v", err)
	}
}

func TestSubmitProgressValidationDetails(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantB)

	_, err := f.svc.SubmitProgress(context.Background(), uuid.New(), ProgressInput{
		Patch: ProgressPatch{
			RolesAppliedBucket: strPtr("many"),
			Feedback:           presentString("short"),
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	details, ok := typed.Details().([]FieldError)
	if !ok || len(details) != 2 {
		t.Fatalf("expected 2 field errors in details, got %v", typed.Details())
	}
	if len(f.repo.byID) != 0 {
		t.Fatalf("rejected patch must not create a record")
	}
}

func TestSubmitProgressEmptyPatch(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantB)

	_, err := f.svc.SubmitProgress(context.Background(), uuid.New(), ProgressInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for empty patch, got %v", err)
	}
}

func TestSubmitProgressTerminalAbsorbsResubmit(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantB)
	userID := uuid.New()

	submit(t, f, userID, ProgressPatch{FoundJob: presentBool(false)})
	submit(t, f, userID, ProgressPatch{AcceptedDownsell: presentBool(true)})
	result := submit(t, f, userID, ProgressPatch{Reason: presentString("Too expensive")})
	if !result.Completed {
		t.Fatalf("reason must complete the not-found flow")
	}

	// re-submitting against the completed record triggers nothing
	id := result.CancellationID
	again, err := f.svc.SubmitProgress(context.Background(), userID, ProgressInput{
		CancellationID: &id,
		Patch:          ProgressPatch{AcceptedDownsell: presentBool(true)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Completed || len(again.Saved) != 0 {
		t.Fatalf("terminal record must absorb writes, got %+v", again)
	}
	if f.subs.discountCalls != 1 {
		t.Fatalf("terminal re-entry must not re-apply the discount, got %d", f.subs.discountCalls)
	}
}

func TestSubmitProgressRecordWithoutSubscription(t *testing.T) {
	f := newFixture(t, enums.DownsellVariantB)
	f.subs.latestID = nil
	userID := uuid.New()

	submit(t, f, userID, ProgressPatch{FoundJob: presentBool(false)})
	result := submit(t, f, userID, ProgressPatch{AcceptedDownsell: presentBool(true)})

	rec := f.repo.byID[result.CancellationID]
	if rec.SubscriptionID != nil {
		t.Fatalf("expected nil subscription reference")
	}
	if f.subs.discountCalls != 0 {
		t.Fatalf("discount must be skipped without a subscription")
	}
}
