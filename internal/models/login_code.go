package models

import "time"

// LoginCode — одноразовый код входа. Единственная мутация за весь жизненный
// цикл строки — переход redeemed_at из NULL в отметку времени.
type LoginCode struct {
	Code         string     `json:"code"`
	TelegramID   int64      `json:"telegram_id"`
	ExternalName string     `json:"external_name"`
	IssuedAt     time.Time  `json:"issued_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	RedeemedAt   *time.Time `json:"redeemed_at,omitempty"`
}

// RedeemRequest — тело запроса POST /auth/telegram/redeem.
type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

// Identity — результат успешного погашения кода.
type Identity struct {
	TelegramID   int64  `json:"telegram_id"`
	ExternalName string `json:"external_name"`
}
