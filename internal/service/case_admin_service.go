package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/benefits-service/internal/domain"
	"github.com/spec-kit/benefits-service/internal/events"
	"github.com/spec-kit/benefits-service/internal/lifecycle"
	"github.com/spec-kit/benefits-service/internal/repository"
	apperrors "github.com/spec-kit/benefits-service/pkg/util/errorutil"
)

// CaseAdminService implements the administrator's case and user operations.
// Every mutation re-reads the record and writes it back conditionally on
// its version.
type CaseAdminService struct {
	cases      repository.CaseRepository
	users      repository.UserRepository
	history    repository.CaseHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// CaseAdminDependencies bundles repositories and collaborators.
type CaseAdminDependencies struct {
	CaseRepo    repository.CaseRepository
	UserRepo    repository.UserRepository
	HistoryRepo repository.CaseHistoryRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// NewCaseAdminService builds the service.
func NewCaseAdminService(deps CaseAdminDependencies) *CaseAdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &CaseAdminService{
		cases:      deps.CaseRepo,
		users:      deps.UserRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// AdminCaseView is a case decorated for the admin dashboard.
type AdminCaseView struct {
	Case domain.Case
	Tier lifecycle.RenewalTier
	View lifecycle.ClientView
}

// AdminCaseFilter narrows the dashboard.
type AdminCaseFilter struct {
	Renewal  lifecycle.RenewalFilter
	Statuses []domain.CaseStatus
}

// AdminCaseList is the dashboard payload.
type AdminCaseList struct {
	Cases   []AdminCaseView
	Summary lifecycle.RenewalSummary
}

// ListCases returns cases ordered by renewal urgency. The summary counts
// every case matching the status filter, regardless of the renewal filter.
func (s *CaseAdminService) ListCases(ctx context.Context, actor *domain.User, filter AdminCaseFilter) (*AdminCaseList, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": status})
		}
	}
	all, err := s.cases.List(ctx, repository.CaseFilter{Statuses: filter.Statuses})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	rows := lifecycle.Dashboard(all, filter.Renewal, now)
	out := &AdminCaseList{
		Cases:   make([]AdminCaseView, 0, len(rows)),
		Summary: lifecycle.Summarize(all, now),
	}
	for _, row := range rows {
		out.Cases = append(out.Cases, AdminCaseView{
			Case: row.Case,
			Tier: row.Tier,
			View: lifecycle.ProjectClientStatus(row.Case, now),
		})
	}
	return out, nil
}

// GetCase loads one case for the admin view.
func (s *CaseAdminService) GetCase(ctx context.Context, actor *domain.User, caseID string) (*AdminCaseView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return s.decorate(*c), nil
}

// SetStatus changes the coarse status. An unchanged status writes nothing.
func (s *CaseAdminService) SetStatus(ctx context.Context, actor *domain.User, caseID string, status domain.CaseStatus) (*AdminCaseView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status == status {
		return s.decorate(*c), nil
	}

	old := c.Status
	c.Status = status
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.record(ctx, actor, c.ID, domain.ChangeTypeStatus,
		map[string]any{"status": old},
		map[string]any{"status": status})
	s.logger.Info("case status changed",
		zap.String("case_id", c.ID),
		zap.String("actor_id", actor.ID),
		zap.String("old_status", string(old)),
		zap.String("new_status", string(status)))
	s.emit(ctx, events.EventCaseStatusChanged, actor, c, events.CaseStatusChangedPayload{OldStatus: old, NewStatus: status})
	return s.decorate(*c), nil
}

// ConfirmCompleted marks the case as confirmed by an admin. Repeating it is
// a no-op.
func (s *CaseAdminService) ConfirmCompleted(ctx context.Context, actor *domain.User, caseID string) (*AdminCaseView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.AdminConfirmedCompleted {
		return s.decorate(*c), nil
	}

	c.AdminConfirmedCompleted = true
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.record(ctx, actor, c.ID, domain.ChangeTypeConfirmed,
		map[string]any{"adminConfirmedCompleted": false},
		map[string]any{"adminConfirmedCompleted": true})
	s.logger.Info("case confirmed completed", zap.String("case_id", c.ID), zap.String("actor_id", actor.ID))
	s.emit(ctx, events.EventCaseConfirmedCompleted, actor, c, nil)
	return s.decorate(*c), nil
}

// AdvanceStage moves the case through the processing workflow.
func (s *CaseAdminService) AdvanceStage(ctx context.Context, actor *domain.User, caseID string, target domain.Stage, extra lifecycle.StageExtra) (*AdminCaseView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.AdvanceStage(*c, target, extra)
	if err != nil {
		return nil, err
	}
	forced := c.Stage.Terminal() && c.Stage != target
	if err := s.save(ctx, &next); err != nil {
		return nil, err
	}

	newValue := map[string]any{"stage": int(target), "label": next.DetailedAdminStatus}
	if next.RejectionReason != nil {
		newValue["rejectionReason"] = *next.RejectionReason
	}
	if next.ApprovedBenefits != nil {
		newValue["approvedBenefits"] = next.ApprovedBenefits
	}
	if forced {
		newValue["forced"] = true
	}
	s.record(ctx, actor, c.ID, domain.ChangeTypeStage,
		map[string]any{"stage": int(c.Stage), "label": c.DetailedAdminStatus},
		newValue)
	s.logger.Info("case stage changed",
		zap.String("case_id", c.ID),
		zap.String("actor_id", actor.ID),
		zap.Stringer("old_stage", c.Stage),
		zap.Stringer("new_stage", target),
		zap.Bool("forced", forced))
	s.emit(ctx, events.EventCaseStageChanged, actor, &next, events.CaseStageChangedPayload{
		OldStage: c.Stage,
		NewStage: target,
		Label:    next.DetailedAdminStatus,
		Forced:   forced,
	})
	return s.decorate(next), nil
}

// MarkRenewed records that the citizen renewed the case.
func (s *CaseAdminService) MarkRenewed(ctx context.Context, actor *domain.User, caseID string) (*AdminCaseView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.IsRenewed {
		return s.decorate(*c), nil
	}

	c.IsRenewed = true
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.record(ctx, actor, c.ID, domain.ChangeTypeRenewed,
		map[string]any{"isRenewed": false},
		map[string]any{"isRenewed": true})
	s.logger.Info("case marked renewed", zap.String("case_id", c.ID), zap.String("actor_id", actor.ID))
	s.emit(ctx, events.EventCaseRenewed, actor, c, nil)
	return s.decorate(*c), nil
}

// DeleteCase removes the case and its history permanently.
func (s *CaseAdminService) DeleteCase(ctx context.Context, actor *domain.User, caseID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return err
	}
	if err := s.cases.Delete(ctx, caseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("case", map[string]any{"case_id": caseID})
		}
		return apperrors.MapError(err)
	}
	if s.history != nil {
		if err := s.history.DeleteByCase(ctx, caseID); err != nil {
			s.logger.Warn("case history cleanup failed", zap.String("case_id", caseID), zap.Error(err))
		}
	}
	s.logger.Info("case deleted", zap.String("case_id", caseID), zap.String("actor_id", actor.ID))
	s.emit(ctx, events.EventCaseDeleted, actor, c, nil)
	return nil
}

// ListHistory returns the audit trail of a case, oldest first.
func (s *CaseAdminService) ListHistory(ctx context.Context, actor *domain.User, caseID string) ([]domain.CaseHistory, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, caseID); err != nil {
		return nil, err
	}
	if s.history == nil {
		return []domain.CaseHistory{}, nil
	}
	entries, err := s.history.ListByCase(ctx, caseID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if entries == nil {
		entries = []domain.CaseHistory{}
	}
	return entries, nil
}

// ListUsers returns every account.
func (s *CaseAdminService) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, nil)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// DemoteAdmin revokes a user's admin role. Demoting an already-demoted
// admin returns the user unchanged.
func (s *CaseAdminService) DemoteAdmin(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if actor.ID == userID {
		return nil, apperrors.NewValidationError("admins cannot demote themselves", map[string]any{"user_id": userID})
	}

	if !validID(userID) {
		return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if user.DemotedAt != nil && !user.IsAdmin() {
		return user, nil
	}
	if !user.IsAdmin() {
		return nil, apperrors.NewValidationError("user is not an admin", map[string]any{"user_id": userID})
	}

	now := s.now()
	user.Role = domain.UserRoleUser
	user.DemotedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("admin demoted", zap.String("user_id", user.ID), zap.String("actor_id", actor.ID))
	publish(ctx, s.dispatcher, s.logger, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserDemoted,
		UserID:    user.ID,
		ActorID:   actor.ID,
		Timestamp: now,
	})
	return user, nil
}

func requireAdmin(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

func (s *CaseAdminService) load(ctx context.Context, caseID string) (*domain.Case, error) {
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
	return c, nil
}

func (s *CaseAdminService) save(ctx context.Context, c *domain.Case) error {
	err := s.cases.Update(ctx, c)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrVersionConflict):
		return apperrors.NewConflict("case was modified concurrently; reload and retry", map[string]any{"case_id": c.ID})
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("case", map[string]any{"case_id": c.ID})
	default:
		return apperrors.MapError(err)
	}
}

// record appends an audit entry. The mutation is already committed, so a
// failure here is logged rather than returned.
func (s *CaseAdminService) record(ctx context.Context, actor *domain.User, caseID string, change domain.CaseChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	entry := &domain.CaseHistory{
		CaseID:     caseID,
		ActorID:    actor.ID,
		ChangeType: change,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("case history write failed",
			zap.String("case_id", caseID),
			zap.String("change_type", string(change)),
			zap.Error(err))
	}
}

func (s *CaseAdminService) emit(ctx context.Context, eventType events.EventType, actor *domain.User, c *domain.Case, payload interface{}) {
	publish(ctx, s.dispatcher, s.logger, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		CaseID:    c.ID,
		UserID:    c.OwnerID,
		ActorID:   actor.ID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func (s *CaseAdminService) decorate(c domain.Case) *AdminCaseView {
	now := s.now()
	return &AdminCaseView{
		Case: c,
		Tier: lifecycle.ClassifyCase(c, now),
		View: lifecycle.ProjectClientStatus(c, now),
	}
}
