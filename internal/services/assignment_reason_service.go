package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/internal/models"
	"github.com/rosterhq/roster/pkg/logger"
)

// RecordedReason is the durable outcome of recording an assignment reason.
type RecordedReason struct {
	ReasonEnum   models.AssignmentReasonEnum `json:"reason_enum"`
	ReasonString string                      `json:"reason_string"`
}

// AssignmentReasonService audits why a booking was assigned to an organizer.
// Each booking carries at most one reason row; recording replaces any prior
// row. The denormalized routing-form copy is best-effort and never fails the
// caller.
type AssignmentReasonService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAssignmentReasonService constructs an AssignmentReasonService.
func NewAssignmentReasonService(db *gorm.DB) (*AssignmentReasonService, error) {
	if db == nil {
		return nil, errors.New("assignment reason service: db is required")
	}
	return &AssignmentReasonService{
		db:  db,
		log: logger.WithModule("assignment_reason"),
	}, nil
}

// RoutingFormRouteInput describes an organizer assignment made by routing-form logic.
type RoutingFormRouteInput struct {
	BookingID             string
	RoutingFormResponseID *string
	OrganizerID           string
	TeamID                *string
	IsRerouting           bool
	ReroutedByEmail       string
}

// RoutingFormRoute records why a routing form assigned the booking to an
// organizer. A missing organizer row downgrades the reason to the fallback
// enum rather than failing.
func (s *AssignmentReasonService) RoutingFormRoute(ctx context.Context, input RoutingFormRouteInput) (*RecordedReason, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(input.BookingID) == "" {
		return nil, errors.New("assignment reason service: booking id is required")
	}

	// Organizer and team are independent reads; both complete before the
	// sentence is composed and before the transaction opens.
	organizerCh := make(chan *models.User, 1)
	teamCh := make(chan *models.Team, 1)

	go func() {
		var organizer models.User
		if err := s.db.WithContext(ctx).First(&organizer, "id = ?", input.OrganizerID).Error; err != nil {
			organizerCh <- nil
			return
		}
		organizerCh <- &organizer
	}()

	go func() {
		if input.TeamID == nil {
			teamCh <- nil
			return
		}
		var team models.Team
		if err := s.db.WithContext(ctx).First(&team, "id = ?", *input.TeamID).Error; err != nil {
			teamCh <- nil
			return
		}
		teamCh <- &team
	}()

	organizer := <-organizerCh
	team := <-teamCh

	organizerLabel := fmt.Sprintf("user-%s", input.OrganizerID)
	if organizer != nil {
		if organizer.Name != "" {
			organizerLabel = organizer.Name
		} else if organizer.Email != "" {
			organizerLabel = organizer.Email
		}
	}

	teamLabel := ""
	if team != nil && team.Name != "" {
		teamLabel = fmt.Sprintf(" in %s", team.Name)
	}

	rerouteLabel := ""
	if input.IsRerouting {
		rerouteLabel = " after reroute"
		if input.ReroutedByEmail != "" {
			rerouteLabel += fmt.Sprintf(" by %s", input.ReroutedByEmail)
		}
	}

	reasonEnum := models.AssignmentReasonRoutingFormFallback
	if organizer != nil {
		if input.IsRerouting {
			reasonEnum = models.AssignmentReasonRerouted
		} else {
			reasonEnum = models.AssignmentReasonRoutingForm
		}
	}

	reasonString := fmt.Sprintf("Assigned to %s%s via routing form%s.", organizerLabel, teamLabel, rerouteLabel)

	recorded, err := s.persistReason(ctx, input.BookingID, reasonEnum, reasonString)
	if err != nil {
		return nil, err
	}

	s.updateRoutingResponseMessage(ctx, input.RoutingFormResponseID, reasonString)
	return recorded, nil
}

// CRMOwnershipInput describes an organizer assignment driven by CRM record ownership.
type CRMOwnershipInput struct {
	BookingID             string
	CRMAppSlug            string
	TeamMemberEmail       string
	RecordType            string
	RecordID              string
	RoutingFormResponseID *string
}

// CRMOwnership records that a CRM record owner was assigned the booking.
func (s *AssignmentReasonService) CRMOwnership(ctx context.Context, input CRMOwnershipInput) (*RecordedReason, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(input.BookingID) == "" {
		return nil, errors.New("assignment reason service: booking id is required")
	}

	ownerLabel := "CRM owner"
	if input.TeamMemberEmail != "" {
		ownerLabel = fmt.Sprintf("owner %s", input.TeamMemberEmail)
	}

	sourceLabel := "from CRM"
	if input.CRMAppSlug != "" {
		sourceLabel = fmt.Sprintf("from %s", input.CRMAppSlug)
	}

	recordPhrase := ""
	var recordParts []string
	if input.RecordType != "" {
		recordParts = append(recordParts, input.RecordType)
	}
	if input.RecordID != "" {
		recordParts = append(recordParts, input.RecordID)
	}
	if len(recordParts) > 0 {
		recordPhrase = fmt.Sprintf(" matched %s", strings.Join(recordParts, " "))
	}

	reasonString := fmt.Sprintf("%s %s%s assigned this booking.", ownerLabel, sourceLabel, recordPhrase)

	recorded, err := s.persistReason(ctx, input.BookingID, models.AssignmentReasonSalesforce, reasonString)
	if err != nil {
		return nil, err
	}

	s.updateRoutingResponseMessage(ctx, input.RoutingFormResponseID, reasonString)
	return recorded, nil
}

// persistReason replaces any prior reason row for the booking and inserts the
// new one inside a single transaction. Failure here is fatal to the caller.
func (s *AssignmentReasonService) persistReason(ctx context.Context, bookingID string, reasonEnum models.AssignmentReasonEnum, reasonString string) (*RecordedReason, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", bookingID).Delete(&models.AssignmentReason{}).Error; err != nil {
			return fmt.Errorf("delete prior reason: %w", err)
		}
		reason := models.AssignmentReason{
			BookingID:    bookingID,
			ReasonEnum:   reasonEnum,
			ReasonString: reasonString,
		}
		if err := tx.Create(&reason).Error; err != nil {
			return fmt.Errorf("create reason: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("assignment reason service: persist reason: %w", err)
	}

	return &RecordedReason{ReasonEnum: reasonEnum, ReasonString: reasonString}, nil
}

// updateRoutingResponseMessage copies the reason sentence onto the
// denormalized routing-form response. Failures are logged and swallowed.
func (s *AssignmentReasonService) updateRoutingResponseMessage(ctx context.Context, responseID *string, reasonString string) {
	if responseID == nil || strings.TrimSpace(*responseID) == "" {
		return
	}

	err := s.db.WithContext(ctx).
		Model(&models.RoutingFormResponse{}).
		Where("id = ?", *responseID).
		Update("booking_assignment_reason", reasonString).Error
	if err != nil {
		s.log.Warn("failed to update routing form response with assignment reason",
			zap.String("routing_form_response_id", *responseID),
			zap.Error(err),
		)
	}
}
