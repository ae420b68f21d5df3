package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glowpos/backend/internal/infrastructure/logger"
	"github.com/glowpos/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
)

// TenantHeader names the tenant for requests without a tenant claim
const TenantHeader = "X-Tenant-ID"

// Context keys. The string forms are what the request logger reads.
const (
	TenantIDKey = "tenant_id"
	UserIDKey   = "user_id"
	tenantUUID  = "tenant_uuid"
	userUUID    = "user_uuid"
)

// TenantResolver resolves the tenant once per request: the token's tenant
// claim, else the X-Tenant-ID header, else defaultTenant. It must run after
// JWTAuth.
func TenantResolver(defaultTenant uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := uuid.Nil
		userID := uuid.Nil

		if claims := GetJWTClaims(c); claims != nil {
			// both ids were checked when the token was validated
			tenantID, _ = claims.TenantUUID()
			userID, _ = claims.UserUUID()
		} else if header := c.GetHeader(TenantHeader); header != "" {
			parsed, err := uuid.Parse(header)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					dto.NewErrorResponseWithRequestID("INVALID_TENANT", "X-Tenant-ID must be a UUID", c.GetString("request_id")))
				return
			}
			tenantID = parsed
		} else {
			tenantID = defaultTenant
		}

		if tenantID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID("INVALID_TENANT", "Tenant could not be resolved", c.GetString("request_id")))
			return
		}

		c.Set(tenantUUID, tenantID)
		c.Set(TenantIDKey, tenantID.String())
		ctx := logger.WithTenantID(c.Request.Context(), tenantID.String())
		if userID != uuid.Nil {
			c.Set(userUUID, userID)
			c.Set(UserIDKey, userID.String())
			ctx = logger.WithUserID(ctx, userID.String())
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetTenantID returns the tenant resolved for the request
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(tenantUUID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetUserID returns the authenticated employee, or uuid.Nil for anonymous
// requests
func GetUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(userUUID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
