package cancellations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/migratemate/cancelflow-backend/internal/subscriptions"
	"github.com/migratemate/cancelflow-backend/pkg/db"
	"github.com/migratemate/cancelflow-backend/pkg/db/models"
	"github.com/migratemate/cancelflow-backend/pkg/enums"
	pkgerrors "github.com/migratemate/cancelflow-backend/pkg/errors"
	"github.com/migratemate/cancelflow-backend/pkg/logger"
	"github.com/migratemate/cancelflow-backend/pkg/metrics"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Service is the wizard controller: it resolves or creates the active
// record, applies reduced patches, and runs transition side effects.
type Service interface {
	Active(ctx context.Context, userID uuid.UUID) (*ActiveView, error)
	SubmitProgress(ctx context.Context, userID uuid.UUID, input ProgressInput) (*ProgressResult, error)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo          Repository
	Subscriptions subscriptions.Service
	Variants      VariantSource
	Metrics       *metrics.FlowMetrics
	Logger        *logger.Logger
	DiscountCents int64
}

func (p ServiceParams) validate() error {
	if p.Repo == nil {
		return fmt.Errorf("cancellations repository required")
	}
	if p.Subscriptions == nil {
		return fmt.Errorf("subscriptions service required")
	}
	if p.Variants == nil {
		return fmt.Errorf("variant source required")
	}
	if p.Logger == nil {
		return fmt.Errorf("logger required")
	}
	if p.DiscountCents < 0 {
		return fmt.Errorf("discount must be non-negative")
	}
	return nil
}

type service struct {
	repo     Repository
	subs     subscriptions.Service
	variants VariantSource
	metrics  *metrics.FlowMetrics
	logg     *logger.Logger
	discount int64
}

// NewService builds the wizard controller.
func NewService(params ServiceParams) (Service, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &service{
		repo:     params.Repo,
		subs:     params.Subscriptions,
		variants: params.Variants,
		metrics:  params.Metrics,
		logg:     params.Logger,
		discount: params.DiscountCents,
	}, nil
}

// Active returns the resume view of the most recent in-progress record,
// or nil when the user has none.
func (s *service) Active(ctx context.Context, userID uuid.UUID) (*ActiveView, error) {
	rec, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading active cancellation")
	}
	return NewActiveView(rec), nil
}

// SubmitProgress validates and persists a patch, creating the record on
// first contact, and fires the transition side effects afterwards.
func (s *service) SubmitProgress(ctx context.Context, userID uuid.UUID, input ProgressInput) (*ProgressResult, error) {
	started := time.Now()

	changes, fieldErrs := Reduce(input.Patch)
	if len(fieldErrs) > 0 {
		return nil, s.reject(ctx, fieldErrs)
	}
	if changes.Empty() {
		return nil, s.reject(ctx, []FieldError{{Field: "patch", Message: "no recognized fields"}})
	}

	rec, err := s.resolveRecord(ctx, userID, input.CancellationID)
	if err != nil {
		return nil, err
	}

	// Terminal records absorb re-submits without writes or side effects.
	if rec.Completed() {
		return &ProgressResult{
			CancellationID: rec.ID,
			Saved:          map[string]any{},
			Position:       Resolve(rec.FoundJob, rec.DownsellVariant, rec.AcceptedDownsell),
			Completed:      true,
		}, nil
	}

	ctx = s.logg.WithCancellationID(ctx, rec.ID.String())

	state := StateForPosition(Resolve(rec.FoundJob, rec.DownsellVariant, rec.AcceptedDownsell))
	transition, err := Step(state, EventFor(changes))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stepping wizard")
	}

	updated := rec
	for _, effect := range transition.Effects {
		switch effect {
		case EffectAssignVariant:
			// already satisfied: resolveRecord assigns the variant on
			// creation and it never changes afterwards

		case EffectPersistPatch:
			updated, err = s.repo.Update(ctx, rec.ID, changes.Updates)
			if err != nil {
				if db.IsCheckViolation(err) {
					return nil, pkgerrors.Wrap(pkgerrors.CodeConstraint, err, "storage rejected patch value")
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "persisting progress patch")
			}

		case EffectMarkCompleted:
			if err := s.repo.MarkCompleted(ctx, updated.ID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "marking cancellation completed")
			}
			updated.Status = enums.CancellationStatusCompleted
			if transition.Next == StateFoundDone {
				s.metrics.IncOutcome("completed_found")
			} else {
				s.metrics.IncOutcome("completed_still")
			}

		case EffectApplyDiscount:
			s.applyDiscount(ctx, updated)
		}
	}

	position := Resolve(updated.FoundJob, updated.DownsellVariant, updated.AcceptedDownsell)
	step := fmt.Sprintf("%s_%d", position.Flow, position.Step)
	s.metrics.IncSave(step)
	s.metrics.ObserveSaveDuration(step, time.Since(started))

	return &ProgressResult{
		CancellationID: updated.ID,
		Saved:          changes.Saved,
		Position:       position,
		Completed:      updated.Completed(),
	}, nil
}

// resolveRecord loads the referenced record with an ownership check, or
// falls back to the active record, or creates a fresh one.
func (s *service) resolveRecord(ctx context.Context, userID uuid.UUID, id *uuid.UUID) (*models.Cancellation, error) {
	if id != nil {
		rec, err := s.repo.FindByID(ctx, *id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cancellation not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading cancellation")
		}
		if rec.UserID != userID {
			// ownership mismatch is indistinguishable from absence
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cancellation not found")
		}
		return rec, nil
	}

	rec, err := s.repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading active cancellation")
	}

	return s.createRecord(ctx, userID)
}

// createRecord assigns the downsell variant and pins the latest
// subscription. Both are set exactly once here and never patched.
func (s *service) createRecord(ctx context.Context, userID uuid.UUID) (*models.Cancellation, error) {
	variant, err := s.variants.Pick()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assigning downsell variant")
	}

	subID, err := s.subs.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec := &models.Cancellation{
		ID:              uuid.New(),
		UserID:          userID,
		SubscriptionID:  subID,
		DownsellVariant: variant,
		Status:          enums.CancellationStatusInProgress,
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		if db.IsCheckViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConstraint, err, "storage rejected new cancellation")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating cancellation")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"cancellation_id":  created.ID.String(),
		"downsell_variant": created.DownsellVariant.String(),
	}), "cancellation record created")

	return created, nil
}

// applyDiscount runs the accepted-offer price adjustment. Failures are
// observed, never surfaced: billing must not block flow progress.
func (s *service) applyDiscount(ctx context.Context, rec *models.Cancellation) {
	if rec.SubscriptionID == nil {
		s.logg.Warn(ctx, "offer accepted without a subscription, discount skipped")
		s.metrics.IncDiscount("skipped")
		return
	}

	result, err := s.subs.ApplyDiscount(ctx, *rec.SubscriptionID, s.discount)
	if err != nil {
		s.logg.Error(ctx, "discount application failed", err)
		s.metrics.IncDiscount("failed")
		return
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"subscription_id": result.SubscriptionID.String(),
		"new_cents":       result.NewCents,
	}), "discount applied for accepted downsell")
	s.metrics.IncDiscount("applied")
}

// reject folds the collected field errors into one loggable error and
// returns the structured validation failure.
func (s *service) reject(ctx context.Context, fieldErrs []FieldError) error {
	var folded error
	for _, fe := range fieldErrs {
		folded = multierr.Append(folded, fmt.Errorf("%s: %s", fe.Field, fe.Message))
		s.metrics.IncRejection(fe.Field)
	}
	s.logg.Warn(ctx, "progress patch rejected: "+folded.Error())
	return pkgerrors.Wrap(pkgerrors.CodeValidation, folded, "progress patch rejected").
		WithDetails(fieldErrs)
}
