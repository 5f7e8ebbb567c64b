package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/middleware"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// me answers with the stored profile, falling back to the token claims for
// accounts that never signed in through Google.
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", "", nil)
		return
	}

	profile := User{
		ID:      userID,
		Email:   middleware.UserEmailFromContext(c),
		Name:    middleware.UserNameFromContext(c),
		Picture: middleware.UserPictureFromContext(c),
	}
	if h.Svc != nil {
		stored, err := h.Svc.GetByID(c.Request.Context(), userID)
		switch {
		case err == nil:
			profile = stored
		case errors.Is(err, ErrNotFound):
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", "", err)
			return
		}
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"userId":  profile.ID,
		"email":   profile.Email,
		"name":    profile.Name,
		"picture": profile.Picture,
	})
}
