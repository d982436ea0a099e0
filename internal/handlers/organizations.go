package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rosterhq/roster/internal/middleware"
	"github.com/rosterhq/roster/internal/services"
	appErrors "github.com/rosterhq/roster/pkg/errors"
	"github.com/rosterhq/roster/pkg/response"
)

type OrganizationHandler struct {
	organizations *services.OrganizationService
	users         *services.UserService
}

func NewOrganizationHandler(organizations *services.OrganizationService, users *services.UserService) *OrganizationHandler {
	return &OrganizationHandler{organizations: organizations, users: users}
}

type intentToCreateRequest struct {
	Slug          string `json:"slug" validate:"required,min=1,max=64"`
	Name          string `json:"name" validate:"required,min=1,max=128"`
	OrgOwnerEmail string `json:"org_owner_email" validate:"required,email"`
	Seats         int    `json:"seats" validate:"omitempty,min=0"`
	PricePerSeat  int    `json:"price_per_seat" validate:"omitempty,min=0"`
	BillingPeriod string `json:"billing_period" validate:"omitempty,oneof=MONTHLY ANNUALLY"`
	IsPlatform    bool   `json:"is_platform"`
}

// POST /api/organizations/intent
func (h *OrganizationHandler) Intent(c *gin.Context) {
	if h.organizations == nil || h.users == nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req intentToCreateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := requestContext(c)

	caller, err := h.users.GetByID(ctx, userID)
	if err != nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.organizations.IntentToCreate(ctx, caller, services.IntentToCreateInput{
		Slug:          req.Slug,
		Name:          req.Name,
		OrgOwnerEmail: req.OrgOwnerEmail,
		Seats:         req.Seats,
		PricePerSeat:  req.PricePerSeat,
		BillingPeriod: req.BillingPeriod,
		IsPlatform:    req.IsPlatform,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotOrgOwner):
			response.Error(c, appErrors.NewForbidden("You can only create organizations you own"))
		case errors.Is(err, services.ErrOwnerNotFound):
			response.Error(c, appErrors.NewBadRequest("No user found for the provided owner email"))
		case errors.Is(err, services.ErrOnboardingExists):
			response.Error(c, appErrors.NewConflict("An organization onboarding already exists for this owner or slug"))
		case errors.Is(err, services.ErrSlugTaken):
			response.Error(c, appErrors.NewConflict("The requested slug is already taken"))
		case errors.Is(err, services.ErrNotQualified):
			response.Error(c, appErrors.NewForbidden("You do not have the minimum number of published teams required to create an organization"))
		default:
			response.Error(c, appErrors.ErrInternalServer)
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GET /api/organizations/slug-availability?slug=...
func (h *OrganizationHandler) SlugAvailability(c *gin.Context) {
	if h.organizations == nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	slug := strings.TrimSpace(c.Query("slug"))
	if slug == "" {
		response.Error(c, appErrors.NewBadRequest("slug is required"))
		return
	}

	check, err := h.organizations.CheckSlugAvailable(requestContext(c), slug)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, check)
}
