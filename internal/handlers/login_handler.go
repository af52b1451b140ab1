package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"tankograd/internal/middleware"
	"tankograd/internal/models"
	"tankograd/internal/services"
)

// CodeRedeemer — то, что хендлеру нужно от сервиса входа.
type CodeRedeemer interface {
	RedeemCode(ctx context.Context, code string) (*models.Identity, error)
	CodeLength() int
}

type LoginHandler struct {
	login    CodeRedeemer
	jwtKey   []byte
	tokenTTL time.Duration
}

func NewLoginHandler(login CodeRedeemer, jwtKey []byte, tokenTTL time.Duration) *LoginHandler {
	if tokenTTL <= 0 {
		tokenTTL = 15 * time.Minute
	}
	return &LoginHandler{login: login, jwtKey: jwtKey, tokenTTL: tokenTTL}
}

// normalizeCode чистит пользовательский ввод: кавычки, пунктуация, пробелы,
// регистр. Возвращает false, если после чистки остался не HEX нужной длины.
func normalizeCode(s string, wantLen int) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`“”«»<>.,;:()[]{}\\")
	s = strings.TrimSpace(s)
	s = strings.ToUpper(s)

	var b strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Hex_Digit, r) {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) != wantLen {
		return "", false
	}
	return code, true
}

// @Summary      Погашение кода входа
// @Description  Принимает код из Telegram, возвращает личность и access-токен
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        redeem  body      models.RedeemRequest  true  "Код входа"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Failure      410     {object}  map[string]string
// @Router       /auth/telegram/redeem [post]
func (h *LoginHandler) Redeem(c *gin.Context) {
	var req models.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, ok := normalizeCode(req.Code, h.login.CodeLength())
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid code format"})
		return
	}

	identity, err := h.login.RedeemCode(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "code not found"})
		case errors.Is(err, services.ErrCodeExpired):
			c.JSON(http.StatusGone, gin.H{"error": "code expired, request a new one"})
		case errors.Is(err, services.ErrCodeAlreadyRedeemed):
			c.JSON(http.StatusConflict, gin.H{"error": "code already used"})
		default:
			log.Printf("[auth][redeem] store failure: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "service temporarily unavailable"})
		}
		return
	}

	claims := &middleware.Claims{
		TelegramID:   identity.TelegramID,
		ExternalName: identity.ExternalName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtKey)
	if err != nil {
		log.Printf("[auth][redeem] sign access token failed for @%s: %v", identity.ExternalName, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	log.Printf("[auth][redeem] success external_name=%q telegram_id=%d", identity.ExternalName, identity.TelegramID)
	c.JSON(http.StatusOK, gin.H{
		"telegram_id":   identity.TelegramID,
		"external_name": identity.ExternalName,
		"access_token":  tokenString,
	})
}

// @Summary      Текущая личность
// @Description  Возвращает личность из access-токена
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Identity
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *LoginHandler) Me(c *gin.Context) {
	telegramID, ok1 := c.Get("telegram_id")
	externalName, ok2 := c.Get("external_name")
	if !ok1 || !ok2 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"telegram_id":   telegramID,
		"external_name": externalName,
	})
}
