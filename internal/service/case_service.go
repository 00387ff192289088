package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/benefits-service/internal/domain"
	"github.com/spec-kit/benefits-service/internal/events"
	"github.com/spec-kit/benefits-service/internal/lifecycle"
	"github.com/spec-kit/benefits-service/internal/reminder"
	"github.com/spec-kit/benefits-service/internal/repository"
	apperrors "github.com/spec-kit/benefits-service/pkg/util/errorutil"
)

// renewalPeriodMonths is how long a case runs before it must be renewed.
const renewalPeriodMonths = 6

// CaseService implements citizen-facing case operations.
type CaseService struct {
	cases      repository.CaseRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// CaseDependencies bundles repositories and collaborators.
type CaseDependencies struct {
	CaseRepo   repository.CaseRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewCaseService builds the service.
func NewCaseService(deps CaseDependencies) *CaseService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &CaseService{
		cases:      deps.CaseRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// CreateCaseInput is the citizen's submission.
type CreateCaseInput struct {
	BenefitType    domain.BenefitType
	Phone          string
	Address        string
	Details        map[string]any
	Attachments    []string
	SignatoryName  string
	SignatureImage string
	DocumentType   string
}

// CaseView pairs a case with its client-facing projection.
type CaseView struct {
	Case domain.Case
	View lifecycle.ClientView
}

// CreateCase files a new case for owner.
func (s *CaseService) CreateCase(ctx context.Context, owner *domain.User, in CreateCaseInput) (*CaseView, error) {
	if owner == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !in.BenefitType.Valid() {
		return nil, apperrors.NewValidationError("invalid benefit type", map[string]any{"benefitType": in.BenefitType})
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		phone = owner.Phone
	}
	renewal := s.now().AddDate(0, renewalPeriodMonths, 0)
	c := &domain.Case{
		OwnerID:        owner.ID,
		BenefitType:    in.BenefitType,
		Status:         domain.CaseStatusSubmitted,
		Stage:          domain.StageUnset,
		RenewalDate:    &renewal,
		UserName:       owner.Name,
		UserEmail:      owner.Email,
		UserPhone:      phone,
		Address:        strings.TrimSpace(in.Address),
		Details:        in.Details,
		Attachments:    in.Attachments,
		SignatoryName:  strings.TrimSpace(in.SignatoryName),
		SignatureImage: in.SignatureImage,
		DocumentType:   in.DocumentType,
	}
	if err := s.cases.Create(ctx, c); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("case created",
		zap.String("case_id", c.ID),
		zap.String("owner_id", owner.ID),
		zap.String("benefit_type", string(c.BenefitType)))
	publish(ctx, s.dispatcher, s.logger, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCaseCreated,
		CaseID:    c.ID,
		UserID:    owner.ID,
		ActorID:   owner.ID,
		Timestamp: s.now(),
		Payload:   events.CaseCreatedPayload{BenefitType: c.BenefitType, RenewalDate: c.RenewalDate},
	})
	return s.view(*c), nil
}

// ListMyCases returns the owner's cases, newest first.
func (s *CaseService) ListMyCases(ctx context.Context, ownerID string) ([]CaseView, error) {
	list, err := s.cases.List(ctx, repository.CaseFilter{OwnerID: &ownerID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := make([]CaseView, 0, len(list))
	for _, c := range list {
		out = append(out, *s.view(c))
	}
	return out, nil
}

// GetMyCase loads a case the caller owns. Other owners' cases are reported
// as not found.
func (s *CaseService) GetMyCase(ctx context.Context, ownerID, caseID string) (*CaseView, error) {
	c, err := s.ownedCase(ctx, ownerID, caseID)
	if err != nil {
		return nil, err
	}
	return s.view(*c), nil
}

// RenewalReminder builds a calendar link for the case renewal date.
func (s *CaseService) RenewalReminder(ctx context.Context, ownerID, caseID string) (string, error) {
	c, err := s.ownedCase(ctx, ownerID, caseID)
	if err != nil {
		return "", err
	}
	if c.RenewalDate == nil || c.RenewalDate.IsZero() {
		return "", apperrors.NewValidationError("case has no renewal date", map[string]any{"case_id": caseID})
	}
	return reminder.CalendarURL(reminder.Event{
		Title: "Benefits case renewal",
		Start: *c.RenewalDate,
		Details: fmt.Sprintf("Your %s benefits case is due for renewal %s.",
			c.BenefitType, humanize.RelTime(*c.RenewalDate, s.now(), "ago", "from now")),
	}), nil
}

// ListBenefits returns the public benefit catalogue.
func (s *CaseService) ListBenefits() []domain.Benefit {
	return domain.BenefitCatalogue()
}

func (s *CaseService) ownedCase(ctx context.Context, ownerID, caseID string) (*domain.Case, error) {
	if !validID(caseID) {
		return nil, apperrors.NewNotFound("case", map[string]any{"case_id": caseID})
	}
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", map[string]any{"case_id": caseID})
		}
		return nil, apperrors.MapError(err)
	}
	if c.OwnerID != ownerID {
		return nil, apperrors.NewNotFound("case", map[string]any{"case_id": caseID})
	}
	return c, nil
}

func (s *CaseService) view(c domain.Case) *CaseView {
	return &CaseView{Case: c, View: lifecycle.ProjectClientStatus(c, s.now())}
}

// validID reports whether id could name a stored record. Records are keyed
// by UUID in every store.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// publish emits an event; delivery failures are logged and never fail the
// mutation that produced the event.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("case_id", event.CaseID),
			zap.Error(err))
	}
}
