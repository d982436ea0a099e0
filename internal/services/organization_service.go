package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/internal/models"
	"github.com/rosterhq/roster/pkg/metrics"
)

var (
	// ErrOwnerNotFound indicates no user exists for the proposed owner email.
	ErrOwnerNotFound = errors.New("organization: no user found for owner email")
	// ErrOnboardingExists indicates an incomplete onboarding draft already claims the owner or slug.
	ErrOnboardingExists = errors.New("organization: onboarding already exists")
	// ErrSlugTaken indicates the requested slug collides with an existing team.
	ErrSlugTaken = errors.New("organization: slug taken")
	// ErrNotQualified indicates the owner lacks the minimum published-team prerequisite.
	ErrNotQualified = errors.New("organization: owner does not meet the minimum published team requirement")
	// ErrNotOrgOwner indicates the caller may only create organizations they will own.
	ErrNotOrgOwner = errors.New("organization: callers can only create organizations they own")
)

// SlugConflictType names the source of a slug collision.
type SlugConflictType string

const (
	SlugConflictTeam          SlugConflictType = "team"
	SlugConflictRequestedSlug SlugConflictType = "requestedSlug"
	SlugConflictOnboarding    SlugConflictType = "onboarding"
)

// SlugCheck reports whether a requested organization slug is available.
type SlugCheck struct {
	Available    bool             `json:"available"`
	ConflictType SlugConflictType `json:"conflict_type,omitempty"`
}

// OrganizationService validates and records organization-creation intent.
type OrganizationService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewOrganizationService constructs an OrganizationService instance.
func NewOrganizationService(db *gorm.DB, audit *AuditService) (*OrganizationService, error) {
	if db == nil {
		return nil, errors.New("organization service: db is required")
	}
	return &OrganizationService{db: db, audit: audit}, nil
}

// CheckSlugAvailable determines whether a requested slug is free, checking
// finalized teams, pending requestedSlug metadata, and in-flight onboarding
// drafts in one validation pass. An onboarding conflict overrides the others.
func (s *OrganizationService) CheckSlugAvailable(ctx context.Context, slug string) (SlugCheck, error) {
	ctx = ensureContext(ctx)

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return SlugCheck{}, errors.New("organization service: slug is required")
	}

	var team models.Team
	err := s.db.WithContext(ctx).
		Where("slug = ?", slug).
		Or(datatypes.JSONQuery("metadata").Equals(slug, "requestedSlug")).
		First(&team).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SlugCheck{}, fmt.Errorf("organization service: check team slug: %w", err)
	}

	check := SlugCheck{Available: true}
	if err == nil {
		check.Available = false
		if team.Slug != nil && *team.Slug == slug {
			check.ConflictType = SlugConflictTeam
		} else {
			check.ConflictType = SlugConflictRequestedSlug
		}
		return check, nil
	}

	var count int64
	err = s.db.WithContext(ctx).
		Model(&models.OrganizationOnboarding{}).
		Where("slug = ? AND is_complete = ?", slug, false).
		Count(&count).Error
	if err != nil {
		return SlugCheck{}, fmt.Errorf("organization service: check onboarding slug: %w", err)
	}
	if count > 0 {
		check.Available = false
		check.ConflictType = SlugConflictOnboarding
	}

	return check, nil
}

// ownerIsQualified enforces the minimum published-team rule: outside platform
// mode, a restricted owner must hold at least one accepted ADMIN or OWNER
// membership on a standalone, non-organization team.
func (s *OrganizationService) ownerIsQualified(ctx context.Context, ownerID string, restrict, isPlatform bool) (bool, error) {
	if !restrict || isPlatform {
		return true, nil
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Membership{}).
		Joins("JOIN teams ON teams.id = memberships.team_id").
		Where("memberships.user_id = ?", ownerID).
		Where("memberships.accepted = ?", true).
		Where("memberships.role IN ?", []models.MembershipRole{models.MembershipRoleAdmin, models.MembershipRoleOwner}).
		Where("teams.is_organization = ?", false).
		Where("teams.parent_id IS NULL").
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("organization service: count owned teams: %w", err)
	}

	return count > 0, nil
}

// IntentToCreateInput captures an organization-creation request.
type IntentToCreateInput struct {
	Slug          string
	Name          string
	OrgOwnerEmail string
	Seats         int
	PricePerSeat  int
	BillingPeriod string
	IsPlatform    bool
}

// IntentToCreateResult echoes the accepted intent alongside created identifiers.
type IntentToCreateResult struct {
	UserID                   string `json:"user_id"`
	OrganizationOnboardingID string `json:"organization_onboarding_id"`
	OrgOwnerEmail            string `json:"org_owner_email"`
	Name                     string `json:"name"`
	Slug                     string `json:"slug"`
	Seats                    int    `json:"seats"`
	PricePerSeat             int    `json:"price_per_seat"`
	BillingPeriod            string `json:"billing_period"`
	IsPlatform               bool   `json:"is_platform"`
}

// IntentToCreate validates an organization-creation request and records an
// onboarding draft. Callers must be a platform admin, the named owner, or act
// as the platform; provisioning itself happens downstream.
func (s *OrganizationService) IntentToCreate(ctx context.Context, caller *models.User, input IntentToCreateInput) (*IntentToCreateResult, error) {
	ctx = ensureContext(ctx)

	if caller == nil {
		return nil, errors.New("organization service: caller is required")
	}

	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	ownerEmail, ok := normalizeIdentifier(input.OrgOwnerEmail)
	if slug == "" || name == "" || !ok {
		return nil, errors.New("organization service: slug, name, and owner email are required")
	}

	isAdmin := caller.IsPlatformAdmin()
	if !isAdmin && !strings.EqualFold(caller.Email, ownerEmail) && !input.IsPlatform {
		metrics.OrganizationIntents.WithLabelValues("forbidden").Inc()
		return nil, ErrNotOrgOwner
	}

	var owner models.User
	err := s.db.WithContext(ctx).Where("email = ?", ownerEmail).First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.OrganizationIntents.WithLabelValues("owner_not_found").Inc()
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("organization service: find owner: %w", err)
	}

	var existing int64
	err = s.db.WithContext(ctx).
		Model(&models.OrganizationOnboarding{}).
		Where("org_owner_email = ? AND is_complete = ?", owner.Email, false).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("organization service: check existing onboarding: %w", err)
	}
	if existing > 0 {
		metrics.OrganizationIntents.WithLabelValues("conflict").Inc()
		return nil, ErrOnboardingExists
	}

	slugCheck, err := s.CheckSlugAvailable(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !slugCheck.Available {
		metrics.OrganizationIntents.WithLabelValues("conflict").Inc()
		if slugCheck.ConflictType == SlugConflictOnboarding {
			return nil, ErrOnboardingExists
		}
		return nil, ErrSlugTaken
	}

	qualified, err := s.ownerIsQualified(ctx, owner.ID, !isAdmin, input.IsPlatform)
	if err != nil {
		return nil, err
	}
	if !qualified {
		metrics.OrganizationIntents.WithLabelValues("not_qualified").Inc()
		return nil, ErrNotQualified
	}

	draft := models.OrganizationOnboarding{
		CreatedByID:   caller.ID,
		OrgOwnerEmail: owner.Email,
		Name:          name,
		Slug:          slug,
		BillingPeriod: models.ParseBillingPeriod(input.BillingPeriod),
		Seats:         input.Seats,
		PricePerSeat:  input.PricePerSeat,
	}
	if err := s.db.WithContext(ctx).Create(&draft).Error; err != nil {
		if isUniqueConstraintError(err) {
			metrics.OrganizationIntents.WithLabelValues("conflict").Inc()
			return nil, ErrOnboardingExists
		}
		return nil, fmt.Errorf("organization service: create onboarding draft: %w", err)
	}

	metrics.OrganizationIntents.WithLabelValues("success").Inc()
	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &caller.ID,
		Action:   "organization.intent",
		Resource: draft.ID,
		Result:   "success",
		Metadata: map[string]any{"slug": slug, "owner": owner.Email},
	})

	return &IntentToCreateResult{
		UserID:                   owner.ID,
		OrganizationOnboardingID: draft.ID,
		OrgOwnerEmail:            owner.Email,
		Name:                     name,
		Slug:                     slug,
		Seats:                    input.Seats,
		PricePerSeat:             input.PricePerSeat,
		BillingPeriod:            string(draft.BillingPeriod),
		IsPlatform:               input.IsPlatform,
	}, nil
}
