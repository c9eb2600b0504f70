package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/infrastructure/auth"
	"github.com/fleet/ledger/internal/infrastructure/config"
	"github.com/fleet/ledger/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-that-is-long-enough-32b",
		AccessTokenExpiration: time.Hour,
		Issuer:                "ledger-test",
	})
}

func issue(t *testing.T, svc *auth.JWTService, in auth.IssueInput) string {
	t.Helper()
	token, _, err := svc.Issue(in)
	require.NoError(t, err)
	return token
}

type whoami struct {
	Actor      access.Actor
	Company    access.CompanyContext
	CtxActor   access.Actor
	CtxCompany string
}

func authRouter(cfg AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Auth(cfg))
	r.GET("/me", func(c *gin.Context) {
		actor, _ := GetActor(c)
		company, _ := GetCompany(c)
		ctxActor, _ := access.ActorFromContext(c.Request.Context())
		c.JSON(http.StatusOK, whoami{
			Actor:      actor,
			Company:    company,
			CtxActor:   ctxActor,
			CtxCompany: logger.GetCompanyID(c.Request.Context()),
		})
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_ValidToken(t *testing.T) {
	svc := newTestJWT()
	userID, branchID, companyID := uuid.New(), uuid.New(), uuid.New()
	r := authRouter(AuthConfig{Validator: svc})

	w := get(r, issue(t, svc, auth.IssueInput{UserID: userID, Role: "CLERK", BranchID: &branchID, CompanyID: &companyID}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got whoami
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, userID, got.Actor.ID)
	assert.Equal(t, access.Role("CLERK"), got.Actor.Role)
	require.NotNil(t, got.Actor.BranchID)
	assert.Equal(t, branchID, *got.Actor.BranchID)
	assert.Equal(t, companyID, got.Company.CompanyID)
	assert.Equal(t, userID, got.CtxActor.ID)
	assert.Equal(t, companyID.String(), got.CtxCompany)
}

func TestAuth_DefaultCompany(t *testing.T) {
	svc := newTestJWT()
	fallback := uuid.New()
	token := issue(t, svc, auth.IssueInput{UserID: uuid.New(), Role: "ADMIN"})

	w := get(authRouter(AuthConfig{Validator: svc, DefaultCompanyID: fallback}), token)
	require.Equal(t, http.StatusOK, w.Code)
	var got whoami
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, fallback, got.Company.CompanyID)
	assert.Nil(t, got.Actor.BranchID)

	// no claim and no default
	w = get(authRouter(AuthConfig{Validator: svc}), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token carries no company")
}

func TestAuth_Rejections(t *testing.T) {
	svc := newTestJWT()
	r := authRouter(AuthConfig{Validator: svc, DefaultCompanyID: uuid.New()})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", "Missing authorization header"},
		{"wrong scheme", "Basic abc", "Invalid authorization header format"},
		{"empty bearer", "Bearer ", "Invalid authorization header format"},
		{"garbage token", "Bearer not.a.jwt", "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			errInfo := body["error"].(map[string]any)
			assert.Equal(t, "UNAUTHORIZED", errInfo["code"])
			assert.Equal(t, tt.want, errInfo["message"])
			assert.NotEmpty(t, errInfo["request_id"])
		})
	}
}

func TestAuth_ForeignSecret(t *testing.T) {
	other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-entirely-32-bytes!", AccessTokenExpiration: time.Hour, Issuer: "ledger-test"})
	token := issue(t, other, auth.IssueInput{UserID: uuid.New(), Role: "ADMIN"})

	w := get(authRouter(AuthConfig{Validator: newTestJWT(), DefaultCompanyID: uuid.New()}), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
