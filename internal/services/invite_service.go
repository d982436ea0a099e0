package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rosterhq/roster/internal/models"
	"github.com/rosterhq/roster/pkg/crypto"
	"github.com/rosterhq/roster/pkg/mail"
	"github.com/rosterhq/roster/pkg/metrics"
)

const (
	defaultInviteExpiryDays = 7
	defaultInviteTokenBytes = 48
	defaultMaxBatchSize     = 50
)

var (
	// ErrInviteTokenInvalid covers missing, expired, and team-less invite tokens.
	ErrInviteTokenInvalid = errors.New("invite: token is invalid or expired")
	// ErrAlreadyMember signals redemption by a user who already accepted membership.
	ErrAlreadyMember = errors.New("invite: already a member of this team")
	// ErrTeamNotFound indicates the invite target team does not exist.
	ErrTeamNotFound = errors.New("invite: team not found")
	// ErrUnknownUsername indicates an invited username matches no account.
	ErrUnknownUsername = errors.New("invite: no user matches the supplied username")
)

// InviteOption customises InviteService behaviour.
type InviteOption func(*InviteService)

// WithInviteBaseURL configures the base URL used to create invite hyperlinks.
func WithInviteBaseURL(url string) InviteOption {
	return func(s *InviteService) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// WithInviteExpiryDays overrides the invite token lifetime.
func WithInviteExpiryDays(days int) InviteOption {
	return func(s *InviteService) {
		if days > 0 {
			s.expiryDays = days
		}
	}
}

// WithInviteTokenSize adjusts the random token length in bytes.
func WithInviteTokenSize(size int) InviteOption {
	return func(s *InviteService) {
		if size > 0 {
			s.tokenLength = size
		}
	}
}

// WithMaxBatchSize bounds the number of identifiers accepted per invite call.
func WithMaxBatchSize(max int) InviteOption {
	return func(s *InviteService) {
		if max > 0 {
			s.maxBatch = max
		}
	}
}

// WithInviteClock injects a custom clock primarily for testing.
func WithInviteClock(clock func() time.Time) InviteOption {
	return func(s *InviteService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// InviteService manages the invitation lifecycle: issuing invites for a team
// and redeeming single-use tokens into accepted memberships.
type InviteService struct {
	db          *gorm.DB
	mailer      mail.Mailer
	audit       *AuditService
	baseURL     string
	expiryDays  int
	tokenLength int
	maxBatch    int
	now         func() time.Time
}

// NewInviteService constructs an InviteService with the provided dependencies.
func NewInviteService(db *gorm.DB, mailer mail.Mailer, audit *AuditService, opts ...InviteOption) (*InviteService, error) {
	if db == nil {
		return nil, errors.New("invite service: db is required")
	}

	service := &InviteService{
		db:          db,
		mailer:      mailer,
		audit:       audit,
		expiryDays:  defaultInviteExpiryDays,
		tokenLength: defaultInviteTokenBytes,
		maxBatch:    defaultMaxBatchSize,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Redeem validates a single-use invite token and turns it into an accepted
// membership for userID, returning the team's display name.
//
// The membership upsert and the token delete run in one transaction so a
// token can never be consumed without the membership landing, and two
// concurrent redemptions of the same token cannot both succeed.
func (s *InviteService) Redeem(ctx context.Context, token, userID string) (string, error) {
	ctx = ensureContext(ctx)

	token = strings.TrimSpace(token)
	if token == "" || strings.TrimSpace(userID) == "" {
		metrics.InviteRedemptions.WithLabelValues("invalid").Inc()
		return "", ErrInviteTokenInvalid
	}

	var row models.VerificationToken
	err := s.db.WithContext(ctx).
		Preload("Team").
		Where("token = ?", token).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.InviteRedemptions.WithLabelValues("invalid").Inc()
			return "", ErrInviteTokenInvalid
		}
		return "", fmt.Errorf("invite service: find token: %w", err)
	}

	// A nil ExpiresInDays marks the token as non-expiring.
	if row.ExpiresInDays != nil && row.ExpiresAt.Before(s.now()) {
		metrics.InviteRedemptions.WithLabelValues("invalid").Inc()
		return "", ErrInviteTokenInvalid
	}
	if row.TeamID == nil || row.Team == nil {
		metrics.InviteRedemptions.WithLabelValues("invalid").Inc()
		return "", ErrInviteTokenInvalid
	}

	teamID := *row.TeamID

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var membership models.Membership
		err := tx.Where("user_id = ? AND team_id = ?", userID, teamID).First(&membership).Error

		switch {
		case err == nil && membership.Accepted:
			return ErrAlreadyMember
		case err == nil:
			// Pending invite: upgrade the existing row in place.
			if err := tx.Model(&membership).Update("accepted", true).Error; err != nil {
				return fmt.Errorf("accept membership: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			role := models.MembershipRoleMember
			if row.InvitedRole != nil {
				role = *row.InvitedRole
			}
			created := models.Membership{
				UserID:   userID,
				TeamID:   teamID,
				Role:     role,
				Accepted: true,
			}
			if err := tx.Create(&created).Error; err != nil {
				if isUniqueConstraintError(err) {
					return ErrAlreadyMember
				}
				return fmt.Errorf("create membership: %w", err)
			}
		default:
			return fmt.Errorf("load membership: %w", err)
		}

		res := tx.Where("id = ?", row.ID).Delete(&models.VerificationToken{})
		if res.Error != nil {
			return fmt.Errorf("consume token: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// A concurrent redemption consumed the token first.
			return ErrInviteTokenInvalid
		}
		return nil
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, ErrAlreadyMember):
			metrics.InviteRedemptions.WithLabelValues("already_member").Inc()
		case errors.Is(txErr, ErrInviteTokenInvalid):
			metrics.InviteRedemptions.WithLabelValues("invalid").Inc()
		}
		return "", txErr
	}

	metrics.InviteRedemptions.WithLabelValues("success").Inc()
	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &userID,
		Action:   "invite.redeem",
		Resource: teamID,
		Result:   "success",
		Metadata: map[string]any{"team_name": row.Team.Name},
	})

	return row.Team.Name, nil
}

// InviteMembersInput describes a bulk invitation request.
type InviteMembersInput struct {
	TeamID          string
	UsernameOrEmail RawInvites
	Role            string
	Language        string
	CreationSource  string
	IsPlatform      bool
	InvitedByID     string
}

// InviteMembersResult echoes the normalized identifiers and a count of invites issued.
type InviteMembersResult struct {
	UsernameOrEmail []string `json:"username_or_email"`
	NumUsersInvited int      `json:"num_users_invited"`
}

// InviteMembers validates and persists a batch of invitations for a team.
//
// Existing users receive a pending membership row immediately; unknown email
// addresses receive a single-use verification token. Validation runs before
// any write so a failing batch leaves no partial state.
func (s *InviteService) InviteMembers(ctx context.Context, input InviteMembersInput) (*InviteMembersResult, error) {
	ctx = ensureContext(ctx)

	var team models.Team
	err := s.db.WithContext(ctx).First(&team, "id = ?", input.TeamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("invite service: find team: %w", err)
	}

	entries, err := ParseInviteBatch(input.UsernameOrEmail, input.Role, s.maxBatch)
	if err != nil {
		return nil, err
	}

	result := &InviteMembersResult{}
	for _, entry := range entries {
		result.UsernameOrEmail = append(result.UsernameOrEmail, entry.Identifier)
	}

	now := s.now()
	var tokens []pendingInviteEmail

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			user, err := findUserByIdentifier(tx, entry.Identifier)
			if err != nil {
				return err
			}

			if user != nil {
				if err := upsertPendingMembership(tx, user.ID, team.ID, entry.Role); err != nil {
					return err
				}
				metrics.InvitesIssued.WithLabelValues("member").Inc()
				result.NumUsersInvited++
				continue
			}

			if !looksLikeEmail(entry.Identifier) {
				return ErrUnknownUsername
			}

			raw, err := crypto.GenerateToken(s.tokenLength)
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}

			days := s.expiryDays
			role := entry.Role
			record := models.VerificationToken{
				Token:         raw,
				Identifier:    entry.Identifier,
				TeamID:        &team.ID,
				InvitedRole:   &role,
				ExpiresAt:     now.AddDate(0, 0, days),
				ExpiresInDays: &days,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("create verification token: %w", err)
			}
			tokens = append(tokens, pendingInviteEmail{email: entry.Identifier, token: raw})
			metrics.InvitesIssued.WithLabelValues("token").Inc()
			result.NumUsersInvited++
		}
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("invite service: invite members: %w", txErr)
	}

	// Notification dispatch is best-effort and happens outside the transaction.
	for _, pending := range tokens {
		s.sendInviteEmail(ctx, team.Name, pending)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &input.InvitedByID,
		Action:   "invite.create",
		Resource: team.ID,
		Result:   "success",
		Metadata: map[string]any{"count": result.NumUsersInvited, "source": input.CreationSource},
	})

	return result, nil
}

type pendingInviteEmail struct {
	email string
	token string
}

func (s *InviteService) sendInviteEmail(ctx context.Context, teamName string, pending pendingInviteEmail) {
	if s.mailer == nil {
		return
	}

	msg := mail.Message{
		To:      []string{pending.email},
		Subject: fmt.Sprintf("You've been invited to join %s", teamName),
		Body:    s.inviteBody(teamName, pending.token),
	}
	if err := s.mailer.Send(ctx, msg); err != nil && !errors.Is(err, mail.ErrSMTPDisabled) {
		recordAudit(s.audit, ctx, AuditEntry{
			Action:   "invite.email",
			Resource: pending.email,
			Result:   "failure",
		})
	}
}

func (s *InviteService) inviteBody(teamName, token string) string {
	link := token
	if s.baseURL != "" {
		link = fmt.Sprintf("%s?token=%s", s.baseURL, token)
	}
	return fmt.Sprintf("Hello,\n\nYou have been invited to join %s. Use the following link to accept your invite:\n%s\n\nIf you did not expect this email, you can ignore it.\n", teamName, link)
}

func findUserByIdentifier(tx *gorm.DB, identifier string) (*models.User, error) {
	var user models.User
	var err error
	if looksLikeEmail(identifier) {
		err = tx.Where("email = ?", identifier).First(&user).Error
	} else {
		err = tx.Where("username = ?", identifier).First(&user).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", identifier, err)
	}
	return &user, nil
}

// upsertPendingMembership creates a pending membership unless one already
// exists; accepted rows and pending rows alike stay untouched so repeated
// invites never duplicate or downgrade a membership.
func upsertPendingMembership(tx *gorm.DB, userID, teamID string, role models.MembershipRole) error {
	var existing models.Membership
	err := tx.Where("user_id = ? AND team_id = ?", userID, teamID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load membership: %w", err)
	}

	membership := models.Membership{
		UserID:   userID,
		TeamID:   teamID,
		Role:     role,
		Accepted: false,
	}
	if err := tx.Create(&membership).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil
		}
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}
