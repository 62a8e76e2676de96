package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/career-assessment-service/internal/config"
	"github.com/SAP-F-2025/career-assessment-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// Gin context keys set by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

const (
	RoleStudent   = "student"
	RoleCounselor = "counselor"
)

// Identity is what the auth middleware resolves a request to.
type Identity struct {
	UserID string
	Role   string
}

// Authenticator resolves the caller of a request. ok is false for anonymous
// or rejected requests.
type Authenticator interface {
	Authenticate(c *gin.Context) (identity Identity, ok bool)
}

// CasdoorAuthenticator validates Casdoor bearer tokens. Users holding the
// counselor role, and Casdoor admins, are treated as counselors.
type CasdoorAuthenticator struct {
	client *casdoorsdk.Client
	logger utils.Logger
}

func NewCasdoorAuthenticator(cfg config.AuthConfig, logger utils.Logger) *CasdoorAuthenticator {
	client := casdoorsdk.NewClient(cfg.Endpoint, cfg.ClientID, cfg.ClientSecret,
		cfg.Certificate, cfg.OrganizationName, cfg.ApplicationName)
	return &CasdoorAuthenticator{client: client, logger: logger}
}

func (a *CasdoorAuthenticator) Authenticate(c *gin.Context) (Identity, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return Identity{}, false
	}

	claims, err := a.client.ParseJwtToken(token)
	if err != nil {
		a.logger.Warn("Rejected bearer token", "error", err, "path", c.Request.URL.Path)
		return Identity{}, false
	}

	identity := Identity{UserID: claims.User.Id, Role: RoleStudent}
	if identity.UserID == "" {
		identity.UserID = claims.User.Owner + "/" + claims.User.Name
	}
	if claims.User.IsAdmin {
		identity.Role = RoleCounselor
	}
	for _, role := range claims.User.Roles {
		if role != nil && role.Name == RoleCounselor {
			identity.Role = RoleCounselor
		}
	}
	return identity, true
}

// HeaderAuthenticator trusts the X-Student-ID and X-User-Role headers. It is
// meant for development and for deployments behind an authenticating proxy.
type HeaderAuthenticator struct{}

func (HeaderAuthenticator) Authenticate(c *gin.Context) (Identity, bool) {
	userID := strings.TrimSpace(c.GetHeader("X-Student-ID"))
	if userID == "" {
		return Identity{}, false
	}
	role := RoleStudent
	if strings.EqualFold(c.GetHeader("X-User-Role"), RoleCounselor) {
		role = RoleCounselor
	}
	return Identity{UserID: userID, Role: role}, true
}

// AuthMiddleware rejects anonymous requests and stores the caller's identity
// in the gin context.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.Authenticate(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}
		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextUserRole, identity.Role)
		c.Next()
	}
}
