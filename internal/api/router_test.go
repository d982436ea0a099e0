package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rosterhq/roster/internal/app"
	iauth "github.com/rosterhq/roster/internal/auth"
	"github.com/rosterhq/roster/internal/database/testutil"
	"github.com/rosterhq/roster/internal/models"
	"github.com/rosterhq/roster/pkg/crypto"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *iauth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "router-test-secret", Issuer: "roster"})
	require.NoError(t, err)

	cfg := &app.Config{}
	cfg.Invites.MaxBatchSize = 50
	cfg.Invites.TokenBytes = 48
	cfg.Invites.ExpiryDays = 7
	cfg.Monitoring.Prometheus.Enabled = true

	router, err := NewRouter(db, jwt, cfg, nil)
	require.NoError(t, err)
	return router, db, jwt
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{Name: "Router Test", Email: email, Password: hash, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func bearerFor(t *testing.T, jwt *iauth.JWTService, user *models.User) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, authz string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")

	rec = doJSON(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginIssuesToken(t *testing.T) {
	router, db, _ := newTestRouter(t)
	seedUser(t, db, "alice@example.com", "correct-horse", models.UserRoleUser)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "access_token")

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/teams/invites/redeem", "", gin.H{"token": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRedeemFlow(t *testing.T) {
	router, db, jwt := newTestRouter(t)
	user := seedUser(t, db, "redeemer@example.com", "correct-horse", models.UserRoleUser)

	team := &models.Team{Name: "Router Team"}
	require.NoError(t, db.Create(team).Error)
	days := 7
	token := &models.VerificationToken{
		Token:         "router-test-token",
		Identifier:    "redeemer@example.com",
		TeamID:        &team.ID,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		ExpiresInDays: &days,
	}
	require.NoError(t, db.Create(token).Error)

	authz := bearerFor(t, jwt, user)

	rec := doJSON(t, router, http.MethodPost, "/api/teams/invites/redeem", authz, gin.H{"token": "router-test-token"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Router Team")

	// The token was consumed, so a second redemption fails.
	rec = doJSON(t, router, http.MethodPost, "/api/teams/invites/redeem", authz, gin.H{"token": "router-test-token"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInviteRequiresTeamAdmin(t *testing.T) {
	router, db, jwt := newTestRouter(t)
	admin := seedUser(t, db, "admin@example.com", "correct-horse", models.UserRoleUser)
	member := seedUser(t, db, "member@example.com", "correct-horse", models.UserRoleUser)

	team := &models.Team{Name: "Gated Team"}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&models.Membership{
		UserID: admin.ID, TeamID: team.ID, Role: models.MembershipRoleAdmin, Accepted: true,
	}).Error)
	require.NoError(t, db.Create(&models.Membership{
		UserID: member.ID, TeamID: team.ID, Role: models.MembershipRoleMember, Accepted: true,
	}).Error)

	path := fmt.Sprintf("/api/teams/%s/invites", team.ID)
	body := gin.H{"username_or_email": "new@example.com", "role": "MEMBER"}

	rec := doJSON(t, router, http.MethodPost, path, bearerFor(t, jwt, member), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, path, bearerFor(t, jwt, admin), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "num_users_invited")
}

func TestMembersListRequiresMembership(t *testing.T) {
	router, db, jwt := newTestRouter(t)
	member := seedUser(t, db, "member@example.com", "correct-horse", models.UserRoleUser)
	outsider := seedUser(t, db, "outsider@example.com", "correct-horse", models.UserRoleUser)

	team := &models.Team{Name: "Listed Team"}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&models.Membership{
		UserID: member.ID, TeamID: team.ID, Role: models.MembershipRoleMember, Accepted: true,
	}).Error)

	path := fmt.Sprintf("/api/teams/%s/members", team.ID)

	rec := doJSON(t, router, http.MethodGet, path, bearerFor(t, jwt, outsider), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, path, bearerFor(t, jwt, member), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "member@example.com")
}

func TestAdminUpdateRequiresPlatformAdmin(t *testing.T) {
	router, db, jwt := newTestRouter(t)
	admin := seedUser(t, db, "platform@example.com", "correct-horse", models.UserRoleAdmin)
	target := seedUser(t, db, "target@example.com", "correct-horse", models.UserRoleUser)
	regular := seedUser(t, db, "regular@example.com", "correct-horse", models.UserRoleUser)

	path := fmt.Sprintf("/api/admin/users/%s", target.ID)
	body := gin.H{"name": "Renamed Target"}

	rec := doJSON(t, router, http.MethodPatch, path, bearerFor(t, jwt, regular), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, path, bearerFor(t, jwt, admin), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Renamed Target")
}

func TestOrganizationIntentEndpoint(t *testing.T) {
	router, db, jwt := newTestRouter(t)
	owner := seedUser(t, db, "owner@example.com", "correct-horse", models.UserRoleUser)

	team := &models.Team{Name: "Owned Team"}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&models.Membership{
		UserID: owner.ID, TeamID: team.ID, Role: models.MembershipRoleOwner, Accepted: true,
	}).Error)

	authz := bearerFor(t, jwt, owner)

	rec := doJSON(t, router, http.MethodPost, "/api/organizations/intent", authz, gin.H{
		"slug":            "ownedorg",
		"name":            "Owned Org",
		"org_owner_email": "owner@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "organization_onboarding_id")

	// A second intent for the same owner conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/organizations/intent", authz, gin.H{
		"slug":            "secondorg",
		"name":            "Second Org",
		"org_owner_email": "owner@example.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSlugAvailabilityEndpoint(t *testing.T) {
	router, db, jwt := newTestRouter(t)
	user := seedUser(t, db, "checker@example.com", "correct-horse", models.UserRoleUser)

	slug := "claimed"
	require.NoError(t, db.Create(&models.Team{Name: "Claimed", Slug: &slug}).Error)

	authz := bearerFor(t, jwt, user)

	rec := doJSON(t, router, http.MethodGet, "/api/organizations/slug-availability?slug=claimed", authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available":false`)

	rec = doJSON(t, router, http.MethodGet, "/api/organizations/slug-availability?slug=unclaimed", authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available":true`)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}
