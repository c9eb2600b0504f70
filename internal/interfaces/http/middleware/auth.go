package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/infrastructure/auth"
	"github.com/fleet/ledger/internal/infrastructure/logger"
	"github.com/fleet/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ActorKey      = "ledger_actor"
	CompanyKey    = "ledger_company"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	Validator TokenValidator
	// DefaultCompanyID is used for tokens without a company claim.
	// uuid.Nil rejects such tokens.
	DefaultCompanyID uuid.UUID
	Logger           *zap.Logger
}

// Auth validates the bearer token and stores the caller's actor and company
// on both the gin context and the request context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := cfg.Validator.Validate(token)
		if err != nil {
			cfg.Logger.Debug("token rejected",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err))
			abortUnauthorized(c, tokenErrorMessage(err))
			return
		}

		actor, err := claims.Actor()
		if err != nil {
			abortUnauthorized(c, tokenErrorMessage(err))
			return
		}

		companyID, found, err := claims.Company()
		if err != nil {
			abortUnauthorized(c, tokenErrorMessage(err))
			return
		}
		if !found {
			companyID = cfg.DefaultCompanyID
		}
		if companyID == uuid.Nil {
			abortUnauthorized(c, "Token carries no company")
			return
		}
		company := access.CompanyContext{CompanyID: companyID}

		c.Set(ActorKey, actor)
		c.Set(CompanyKey, company)

		ctx := access.WithActor(c.Request.Context(), actor)
		ctx = access.WithCompany(ctx, company)
		ctx = logger.WithCompanyID(ctx, companyID.String())
		ctx = logger.WithUserID(ctx, actor.ID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActor returns the actor stored by Auth
func GetActor(c *gin.Context) (access.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}

// GetCompany returns the company context stored by Auth
func GetCompany(c *gin.Context) (access.CompanyContext, bool) {
	v, ok := c.Get(CompanyKey)
	if !ok {
		return access.CompanyContext{}, false
	}
	company, ok := v.(access.CompanyContext)
	return company, ok
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "Token is not valid yet"
	case errors.Is(err, auth.ErrMissingUserID), errors.Is(err, auth.ErrMissingRole), errors.Is(err, auth.ErrInvalidClaims):
		return "Token claims are incomplete"
	default:
		return "Invalid token"
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
