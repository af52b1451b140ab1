package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tankograd/internal/models"
)

const issueRequestTimeout = 10 * time.Second

// CodeIssuer — то, что боту нужно от сервиса входа.
type CodeIssuer interface {
	IssueCode(ctx context.Context, externalName string, telegramID int64, source string) (string, error)
	CodeTTL() time.Duration
}

// TelegramBot принимает /start в личке и отвечает кодом входа.
// Работает через long polling, как и исходный бот.
type TelegramBot struct {
	api   *tgbotapi.BotAPI
	login CodeIssuer

	pollTimeout int
}

func NewTelegramBot(botToken string, login CodeIssuer, pollTimeout int) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	log.Printf("[tg] authorized as @%s", api.Self.UserName)
	return &TelegramBot{api: api, login: login, pollTimeout: pollTimeout}, nil
}

// Run крутит цикл получения обновлений до отмены контекста.
func (b *TelegramBot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	log.Printf("[tg] polling started (timeout=%ds)", b.pollTimeout)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Printf("[tg] polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				log.Printf("[tg] updates channel closed")
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *TelegramBot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	log.Printf("[tg] incoming: chatID=%d text=%q", msg.Chat.ID, text)

	if !strings.HasPrefix(text, "/start") {
		b.reply(msg.Chat.ID, greetingText)
		return
	}

	if msg.From == nil {
		b.reply(msg.Chat.ID, noUserText)
		return
	}
	username := msg.From.UserName
	if username == "" {
		b.reply(msg.Chat.ID, noUsernameText)
		return
	}

	issueCtx, cancel := context.WithTimeout(ctx, issueRequestTimeout)
	defer cancel()

	code, err := b.login.IssueCode(issueCtx, username, msg.From.ID, models.SourceTelegram)
	if err != nil {
		log.Printf("[tg] issue failed for @%s: %v", username, err)
		b.reply(msg.Chat.ID, issueErrorText(err))
		return
	}
	b.reply(msg.Chat.ID, codeText(code, b.login.CodeTTL()))
}

func (b *TelegramBot) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(m); err != nil {
		log.Printf("[tg][send][err] chatID=%d: %v", chatID, err)
	}
}

const (
	greetingText   = "Приветствую! ✨\nВведите команду /start, чтобы авторизоваться и получить код."
	noUserText     = "Ошибка: не удалось получить пользователя."
	noUsernameText = "❌ У вас не установлен username в Telegram. " +
		"Пожалуйста, установите username в настройках Telegram и попробуйте снова."
)

func codeText(code string, ttl time.Duration) string {
	return fmt.Sprintf(
		"Ваш код для входа в приложение: `%s`\nВведите его в приложении в течение %d минут.",
		code, int(ttl.Minutes()),
	)
}

// issueErrorText отдаёт пользователю фиксированный текст по типу ошибки.
// Сырые ошибки инфраструктуры наружу не показываем.
func issueErrorText(err error) string {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return "Профиль с вашим Telegram username не найден.\nОбратитесь к администратору."
	case errors.Is(err, ErrGenerationExhausted):
		return "Не удалось подобрать код, попробуйте ещё раз через минуту."
	default:
		return "Сервис временно недоступен. Попробуйте позже."
	}
}
