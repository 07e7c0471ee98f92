package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline/internal/types"
)

// TenantMiddleware resolves the tenant and user from request headers into
// the context. Missing headers fall back to the defaults so local single
// tenant deployments work without any header plumbing.
func TenantMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	tenantID := c.GetHeader(types.HeaderTenantID)
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}

	userID := c.GetHeader(types.HeaderUserID)
	if userID == "" {
		userID = types.DefaultUserID
	}

	ctx = types.SetTenantID(ctx, tenantID)
	ctx = types.SetUserID(ctx, userID)
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}
