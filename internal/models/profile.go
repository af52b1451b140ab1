package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile — предзаведённый профиль пользователя (справочник, read-only для ядра).
// external_name уникален в пределах source.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	ExternalName string    `json:"external_name"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}

const SourceTelegram = "telegram"
