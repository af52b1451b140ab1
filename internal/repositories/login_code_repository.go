package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tankograd/internal/models"
)

var (
	// ErrDuplicateCode — в таблице уже есть строка с таким кодом.
	ErrDuplicateCode = errors.New("login code already exists")
	// Ошибки классификации неудавшегося погашения.
	ErrCodeNotFound        = errors.New("login code not found")
	ErrCodeExpired         = errors.New("login code expired")
	ErrCodeAlreadyRedeemed = errors.New("login code already redeemed")
)

type LoginCodeRepository interface {
	Insert(ctx context.Context, lc *models.LoginCode) error
	Claim(ctx context.Context, code string, now time.Time) (*models.LoginCode, error)
	Stats(ctx context.Context, now time.Time) (active, redeemed, expired int64, err error)
	DeleteStaleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type loginCodeRepository struct{ db *sql.DB }

func NewLoginCodeRepository(db *sql.DB) LoginCodeRepository {
	return &loginCodeRepository{db: db}
}

// Insert — одна условная вставка: существующая строка с тем же кодом (в том
// числе просроченная) блокирует повторное использование значения.
func (r *loginCodeRepository) Insert(ctx context.Context, lc *models.LoginCode) error {
	const q = `
		INSERT INTO login_codes (code, telegram_id, external_name, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, q,
		lc.Code, lc.TelegramID, lc.ExternalName, lc.IssuedAt, lc.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert login code: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert login code: rows affected: %w", err)
	}
	if n == 0 {
		return ErrDuplicateCode
	}
	return nil
}

// Claim помечает код погашенным ровно один раз. Вся гонка конкурентных
// погашений решается одним условным UPDATE: из N вызовов с одним кодом
// строку заберёт ровно один. Последующий SELECT нужен только для
// классификации отказа и ничего не меняет.
func (r *loginCodeRepository) Claim(ctx context.Context, code string, now time.Time) (*models.LoginCode, error) {
	const q = `
		UPDATE login_codes
		SET redeemed_at = $2
		WHERE code = $1 AND redeemed_at IS NULL AND expires_at >= $2
		RETURNING code, telegram_id, external_name, issued_at, expires_at, redeemed_at
	`
	row := r.db.QueryRowContext(ctx, q, code, now)

	var lc models.LoginCode
	var redeemedAt sql.NullTime
	err := row.Scan(&lc.Code, &lc.TelegramID, &lc.ExternalName, &lc.IssuedAt, &lc.ExpiresAt, &redeemedAt)
	if err == nil {
		if redeemedAt.Valid {
			lc.RedeemedAt = &redeemedAt.Time
		}
		return &lc, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("claim login code: %w", err)
	}
	return nil, r.classifyClaimFailure(ctx, code, now)
}

func (r *loginCodeRepository) classifyClaimFailure(ctx context.Context, code string, now time.Time) error {
	const q = `
		SELECT redeemed_at, expires_at
		FROM login_codes
		WHERE code = $1
	`
	var redeemedAt sql.NullTime
	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx, q, code).Scan(&redeemedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return ErrCodeNotFound
	}
	if err != nil {
		return fmt.Errorf("classify claim failure: %w", err)
	}
	if redeemedAt.Valid {
		return ErrCodeAlreadyRedeemed
	}
	if now.After(expiresAt) {
		return ErrCodeExpired
	}
	// Строка снова стала пригодной между UPDATE и SELECT — для каталога
	// однократных кодов это невозможно, считаем гонкой чтения.
	return ErrCodeNotFound
}

func (r *loginCodeRepository) Stats(ctx context.Context, now time.Time) (active, redeemed, expired int64, err error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE redeemed_at IS NULL AND expires_at >= $1),
			COUNT(*) FILTER (WHERE redeemed_at IS NOT NULL),
			COUNT(*) FILTER (WHERE redeemed_at IS NULL AND expires_at < $1)
		FROM login_codes
	`
	if err = r.db.QueryRowContext(ctx, q, now).Scan(&active, &redeemed, &expired); err != nil {
		return 0, 0, 0, fmt.Errorf("login code stats: %w", err)
	}
	return active, redeemed, expired, nil
}

// DeleteStaleBefore удаляет погашенные и просроченные строки старше cutoff.
// Вызывается только фоновым воркером, корректность ядра от него не зависит.
func (r *loginCodeRepository) DeleteStaleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
		DELETE FROM login_codes
		WHERE (redeemed_at IS NOT NULL AND redeemed_at < $1)
		   OR (redeemed_at IS NULL AND expires_at < $1)
	`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale login codes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete stale login codes: rows affected: %w", err)
	}
	return n, nil
}
