package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docvault/docvault/pkg/logger"
)

type updateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterUserRoutes mounts the account endpoints under rg. The group is
// expected to already carry the auth middleware.
func RegisterUserRoutes(rg *gin.RouterGroup, svc *Service) {
	u := rg.Group("/users")

	// GET /users/me — resolve (and lazily create) the caller's account
	u.GET("/me", func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		usr, err := svc.UpsertFromClaims(c.Request.Context(), claims)
		if err != nil {
			logger.Errorf("me: upsert error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if usr == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": usr})
	})

	// PUT /users/update — change name/email; blank fields keep current values
	u.PUT("/update", func(c *gin.Context) {
		claims := claimsFrom(c)
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		usr, err := svc.UpdateProfile(c.Request.Context(), sub, req.Name, req.Email)
		if err != nil {
			logger.Errorf("update profile error (sub=%s): %v", sub, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if usr == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": usr.ID, "name": usr.Name, "email": usr.Email}})
	})
}

func claimsFrom(c *gin.Context) map[string]interface{} {
	v, ok := c.Get("claims")
	if !ok {
		return nil
	}
	cm, _ := v.(map[string]interface{})
	return cm
}
