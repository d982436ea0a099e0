package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosterhq/roster/internal/middleware"
	"github.com/rosterhq/roster/internal/models"
	"github.com/rosterhq/roster/internal/services"
	appErrors "github.com/rosterhq/roster/pkg/errors"
	"github.com/rosterhq/roster/pkg/response"
)

type TeamHandler struct {
	invites     *services.InviteService
	memberships *services.MembershipQueries
}

func NewTeamHandler(invites *services.InviteService, memberships *services.MembershipQueries) *TeamHandler {
	return &TeamHandler{invites: invites, memberships: memberships}
}

type redeemInviteRequest struct {
	Token string `json:"token" validate:"required"`
}

type inviteMembersRequest struct {
	UsernameOrEmail services.RawInvites `json:"username_or_email"`
	Role            string              `json:"role" validate:"omitempty,oneof=MEMBER ADMIN OWNER"`
	Language        string              `json:"language" validate:"omitempty,max=16"`
	CreationSource  string              `json:"creation_source" validate:"omitempty,max=64"`
	IsPlatform      bool                `json:"is_platform"`
}

type memberDTO struct {
	UserID   string                `json:"user_id"`
	Name     string                `json:"name"`
	Email    string                `json:"email"`
	Role     models.MembershipRole `json:"role"`
	Accepted bool                  `json:"accepted"`
	JoinedAt time.Time             `json:"joined_at"`
}

// POST /api/teams/invites/redeem
func (h *TeamHandler) Redeem(c *gin.Context) {
	if h.invites == nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req redeemInviteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	teamName, err := h.invites.Redeem(requestContext(c), req.Token, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInviteTokenInvalid):
			response.Error(c, appErrors.NewBadRequest("Invite token is invalid or expired"))
		case errors.Is(err, services.ErrAlreadyMember):
			response.Error(c, appErrors.NewConflict("You are already a member of this team."))
		default:
			response.Error(c, appErrors.ErrInternalServer)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"team_name": teamName})
}

// POST /api/teams/:id/invites
func (h *TeamHandler) Invite(c *gin.Context) {
	if h.invites == nil || h.memberships == nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	teamID := strings.TrimSpace(c.Param("id"))
	if teamID == "" {
		response.Error(c, appErrors.NewBadRequest("Team ID is required"))
		return
	}

	var req inviteMembersRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := requestContext(c)

	isAdmin, err := h.memberships.IsTeamAdmin(ctx, userID, teamID)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}
	if !isAdmin {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	result, err := h.invites.InviteMembers(ctx, services.InviteMembersInput{
		TeamID:          teamID,
		UsernameOrEmail: req.UsernameOrEmail,
		Role:            req.Role,
		Language:        req.Language,
		CreationSource:  req.CreationSource,
		IsPlatform:      req.IsPlatform,
		InvitedByID:     userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			response.Error(c, appErrors.ErrNotFound)
		case errors.Is(err, services.ErrTooManyInvitees),
			errors.Is(err, services.ErrEmptyInvitee),
			errors.Is(err, services.ErrInvalidEmailFormat),
			errors.Is(err, services.ErrInvalidRole),
			errors.Is(err, services.ErrUnknownUsername):
			response.Error(c, appErrors.NewBadRequest(err.Error()))
		default:
			response.Error(c, appErrors.ErrInternalServer)
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GET /api/teams/:id/members
func (h *TeamHandler) Members(c *gin.Context) {
	if h.memberships == nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	teamID := strings.TrimSpace(c.Param("id"))
	if teamID == "" {
		response.Error(c, appErrors.NewBadRequest("Team ID is required"))
		return
	}

	ctx := requestContext(c)

	isMember, err := h.memberships.IsTeamMember(ctx, userID, teamID)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}
	if !isMember {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	memberships, err := h.memberships.ListMembers(ctx, teamID)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	items := make([]memberDTO, 0, len(memberships))
	for _, m := range memberships {
		item := memberDTO{
			UserID:   m.UserID,
			Role:     m.Role,
			Accepted: m.Accepted,
			JoinedAt: m.CreatedAt,
		}
		if m.User != nil {
			item.Name = m.User.Name
			item.Email = m.User.Email
		}
		items = append(items, item)
	}

	response.Success(c, http.StatusOK, gin.H{"members": items})
}
