package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tankograd/internal/repositories"
)

type AdminHandler struct {
	codes repositories.LoginCodeRepository
}

func NewAdminHandler(codes repositories.LoginCodeRepository) *AdminHandler {
	return &AdminHandler{codes: codes}
}

// @Summary      Статистика кодов входа
// @Description  Количество активных, погашенных и просроченных кодов
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Failure      502  {object}  map[string]string
// @Router       /admin/codes/stats [get]
func (h *AdminHandler) CodeStats(c *gin.Context) {
	active, redeemed, expired, err := h.codes.Stats(c.Request.Context(), time.Now())
	if err != nil {
		log.Printf("[admin][stats] failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "service temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active":   active,
		"redeemed": redeemed,
		"expired":  expired,
	})
}
