package middlewares

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/models"
	"github.com/mmdatafocus/menucost_backend/utils"
)

// SessionMiddleware resolves the authenticated user behind the JWT claim and
// places the tenant identity (business_id, user, optional shop) into the
// request context. Everything below the handlers relies on these keys.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claim := CtxValue(c.Request.Context())
		if claim == nil {
			c.Next()
			return
		}

		var user models.User
		cacheKey := fmt.Sprintf("User:%d", claim.ID)
		exists, err := config.GetRedisObject(cacheKey, &user)
		if err != nil || !exists {
			db := config.GetDB()
			if db == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
				c.Abort()
				return
			}
			if err := db.WithContext(c.Request.Context()).
				Where("id = ?", claim.ID).Take(&user).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				c.Abort()
				return
			}
			_ = config.SetRedisObject(cacheKey, &user, utils.GetCacheLifespan())
		}
		if user.IsActive != nil && !*user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetBusinessIdInContext(c.Request.Context(), user.BusinessId)
		ctx = utils.SetUserIdInContext(ctx, user.ID)
		ctx = utils.SetUsernameInContext(ctx, user.Username)
		if user.Role == models.UserRoleAdmin {
			ctx = utils.SetIsAdminInContext(ctx, true)
		}

		if shopHeader := c.Request.Header.Get("x-shop-id"); shopHeader != "" {
			shopId, err := strconv.Atoi(shopHeader)
			if err != nil || shopId <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid x-shop-id header"})
				c.Abort()
				return
			}
			ctx = utils.SetShopIdInContext(ctx, shopId)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireSession rejects requests that reached a protected route without a
// resolved tenant.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context()); !ok || businessId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
