package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tankograd/internal/models"
	"tankograd/internal/repositories"
	"tankograd/internal/utils"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrGenerationExhausted = errors.New("login code generation exhausted")
	ErrCodeNotFound        = errors.New("login code not found")
	ErrCodeExpired         = errors.New("login code expired")
	ErrCodeAlreadyRedeemed = errors.New("login code already redeemed")
)

const (
	defaultCodeTTL     = 10 * time.Minute
	defaultCodeBytes   = 4 // 8 HEX-символов
	defaultMaxAttempts = 5
)

// LoginMetrics — счётчики, которые сервис дергает по ходу выдачи/погашения.
// Может быть nil.
type LoginMetrics interface {
	RecordIssued()
	RecordIssueConflict()
	RecordIssueFailure(reason string)
	RecordRedeemed()
	RecordRedeemFailure(reason string)
}

// LoginService выдаёт и погашает одноразовые коды входа. Сам по себе
// состояния между вызовами не держит — всё живёт в хранилище кодов.
type LoginService struct {
	profiles repositories.ProfileRepository
	codes    repositories.LoginCodeRepository
	metrics  LoginMetrics

	codeTTL     time.Duration
	codeBytes   int
	maxAttempts int

	now      func() time.Time
	generate func(nBytes int) (string, error)
}

func NewLoginService(
	profiles repositories.ProfileRepository,
	codes repositories.LoginCodeRepository,
	m LoginMetrics,
	codeTTL time.Duration,
	codeBytes int,
	maxAttempts int,
) *LoginService {
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTL
	}
	if codeBytes <= 0 {
		codeBytes = defaultCodeBytes
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &LoginService{
		profiles:    profiles,
		codes:       codes,
		metrics:     m,
		codeTTL:     codeTTL,
		codeBytes:   codeBytes,
		maxAttempts: maxAttempts,
		now:         time.Now,
		generate:    utils.NewLoginCode,
	}
}

// CodeLength — длина кода в символах (для нормализации ввода).
func (s *LoginService) CodeLength() int { return s.codeBytes * 2 }

// CodeTTL — окно действия кода.
func (s *LoginService) CodeTTL() time.Duration { return s.codeTTL }

// IssueCode выдаёт код для пользователя Telegram. Сначала проверяем, что
// профиль предзаведён, затем — ограниченный цикл генерация/вставка:
// конфликт кода означает лишь занятую строку, пробуем с новым кодом.
func (s *LoginService) IssueCode(ctx context.Context, externalName string, telegramID int64, source string) (string, error) {
	profile, err := s.profiles.GetByExternalName(ctx, externalName, source)
	if err != nil {
		s.recordIssueFailure("directory")
		return "", fmt.Errorf("directory lookup: %w", err)
	}
	if profile == nil {
		s.recordIssueFailure("profile_not_found")
		return "", ErrProfileNotFound
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.generate(s.codeBytes)
		if err != nil {
			s.recordIssueFailure("rng")
			return "", fmt.Errorf("generate login code: %w", err)
		}

		issuedAt := s.now()
		lc := &models.LoginCode{
			Code:         code,
			TelegramID:   telegramID,
			ExternalName: externalName,
			IssuedAt:     issuedAt,
			ExpiresAt:    issuedAt.Add(s.codeTTL),
		}
		err = s.codes.Insert(ctx, lc)
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordIssued()
			}
			return code, nil
		}
		if errors.Is(err, repositories.ErrDuplicateCode) {
			log.Printf("[login] code collision, retrying: attempt=%d/%d", attempt, s.maxAttempts)
			if s.metrics != nil {
				s.metrics.RecordIssueConflict()
			}
			continue
		}
		s.recordIssueFailure("store")
		return "", fmt.Errorf("store insert: %w", err)
	}

	log.Printf("[login] generation exhausted after %d attempts (external_name=%q)", s.maxAttempts, externalName)
	s.recordIssueFailure("generation_exhausted")
	return "", ErrGenerationExhausted
}

// RedeemCode погашает код ровно один раз и возвращает привязанную личность.
// Гонку конкурентных вызовов решает условный UPDATE хранилища.
func (s *LoginService) RedeemCode(ctx context.Context, code string) (*models.Identity, error) {
	lc, err := s.codes.Claim(ctx, code, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrCodeNotFound):
			s.recordRedeemFailure("not_found")
			return nil, ErrCodeNotFound
		case errors.Is(err, repositories.ErrCodeExpired):
			s.recordRedeemFailure("expired")
			return nil, ErrCodeExpired
		case errors.Is(err, repositories.ErrCodeAlreadyRedeemed):
			s.recordRedeemFailure("already_redeemed")
			return nil, ErrCodeAlreadyRedeemed
		default:
			s.recordRedeemFailure("store")
			return nil, fmt.Errorf("store claim: %w", err)
		}
	}
	if s.metrics != nil {
		s.metrics.RecordRedeemed()
	}
	return &models.Identity{TelegramID: lc.TelegramID, ExternalName: lc.ExternalName}, nil
}

func (s *LoginService) recordIssueFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordIssueFailure(reason)
	}
}

func (s *LoginService) recordRedeemFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordRedeemFailure(reason)
	}
}
