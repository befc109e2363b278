package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "vision-ocr/internal/application"
	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/domain/ocrerr"
)

const (
	msgStart = `👋 Привет! Я распознаю текст на фотографиях.

📸 Выберите режим и отправьте фото.

📋 Команды:
/ocr — распознать весь текст
/label — разобрать этикетку товара
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Выберите режим: /ocr или /label
2️⃣ Отправьте фото или файл изображения (jpg, png, gif, bmp)
3️⃣ Получите распознанный текст в виде пар «ключ: значение»

💡 Рекомендации:
• Снимайте при хорошем освещении
• Текст должен занимать большую часть кадра
• Фото должно быть чётким

📋 Команды:
/ocr — весь текст
/label — этикетка: название, модель, дата покупки, серийный номер
/cancel — отменить операцию`

	msgAwaitingText    = "📸 Отправьте фото, весь текст с него будет распознан."
	msgAwaitingLabel   = "🏷 Отправьте фото этикетки товара."
	msgCancelled       = "❌ Операция отменена. Отправьте /ocr или /label для нового распознавания."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото. Режим по умолчанию — весь текст."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее изображение ещё обрабатывается, подождите."
	msgNoText          = "🤷 Текст не найден."
	msgUnsupportedFile = "⚠️ Формат файла не поддерживается. Подойдут: %s."
	msgNoStructure     = "⚠️ Модель не вернула распознанный текст. Попробуйте другое фото."
	msgLabelInvalid    = "⚠️ Не удалось разобрать этикетку: модель вернула не все поля. Попробуйте другое фото."
	msgServiceDown     = "⚠️ Сервис распознавания недоступен. Попробуйте позже."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

// Bot представляет Telegram-бота
type Bot struct {
	api     *tgbotapi.BotAPI
	users   *app.UserService
	ocr     *app.OCRService
	timeout time.Duration
	logger  *slog.Logger

	// распознавания, запущенные из Run
	inflight sync.WaitGroup
}

// NewBot создаёт нового бота. timeout ограничивает обработку одного фото, 0 без ограничения.
func NewBot(token string, users *app.UserService, ocr *app.OCRService, timeout time.Duration, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("authorized on account", "username", api.Self.UserName)

	return &Bot{
		api:     api,
		users:   users,
		ocr:     ocr,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.inflight.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Фото приходит пережатым Telegram'ом, всегда jpg
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, msg, photo.FileID, "jpg")
		return
	}

	// Файл без сжатия, формат по имени
	if msg.Document != nil {
		ext := entity.FileExtension(msg.Document.FileName)
		if err := app.ValidateExtension(ext); err != nil {
			b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgUnsupportedFile, strings.Join(app.SupportedExtensions(), ", ")))
			return
		}
		b.handleImage(ctx, msg, msg.Document.FileID, ext)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	var (
		text string
		err  error
	)

	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		text = msgStart

	case "help":
		text = msgHelp

	case "ocr":
		_, err = b.users.BeginText(ctx, msg.From.ID, msg.Chat.ID)
		text = msgAwaitingText

	case "label":
		_, err = b.users.BeginLabel(ctx, msg.From.ID, msg.Chat.ID)
		text = msgAwaitingLabel

	case "cancel":
		_, err = b.users.Cancel(ctx, msg.From.ID, msg.Chat.ID)
		text = msgCancelled

	default:
		text = msgUnknownCommand
	}

	if err != nil {
		b.logger.Error("update user state", "command", msg.Command(), "error", err)
	}
	b.sendMessage(msg.Chat.ID, text)
}

// handleImage помечает пользователя занятым и запускает распознавание в фоне,
// чтобы цикл обновлений продолжал отвечать остальным.
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID, ext string) {
	mode, err := b.users.StartProcessing(ctx, msg.From.ID, msg.Chat.ID)
	if errors.Is(err, app.ErrUserBusy) {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}
	if err != nil {
		b.logger.Error("start processing", "user_id", msg.From.ID, "error", err)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		b.processImage(ctx, msg, fileID, ext, mode)
	}()
}

// processImage скачивает изображение и распознаёт его в выбранном режиме
func (b *Bot) processImage(ctx context.Context, msg *tgbotapi.Message, fileID, ext string, mode entity.Mode) {
	// Возвращаем в главное меню на любом исходе
	defer func() {
		if err := b.users.FinishProcessing(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			b.logger.Error("reset user state", "user_id", msg.From.ID, "error", err)
		}
	}()

	runCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	data, err := b.downloadFile(runCtx, fileID)
	if err != nil {
		b.logger.Error("download image", "file_id", fileID, "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.logger.Info("image received",
		"user_id", msg.From.ID,
		"mode", string(mode),
		"bytes", len(data),
		"extension", ext)

	src := entity.SourceImage{Data: data, Extension: ext}
	var text string
	switch mode {
	case entity.ModeLabel:
		var record *entity.LabelRecord
		record, err = b.ocr.ExtractLabelBytes(runCtx, src)
		if err == nil {
			text = formatPairs(record.Fields())
		}
	default:
		var result *entity.OCRResult
		result, err = b.ocr.ExtractTextBytes(runCtx, src)
		if err == nil {
			text = formatResult(result)
		}
	}

	if err != nil {
		b.logger.Warn("recognition failed", "user_id", msg.From.ID, "mode", string(mode), "error", err)
		b.sendMessage(msg.Chat.ID, errorMessage(err))
		return
	}
	b.sendMessage(msg.Chat.ID, text)
}

// errorMessage подбирает текст предупреждения по коду ошибки
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ocrerr.ErrInvalidFormat):
		return fmt.Sprintf(msgUnsupportedFile, strings.Join(app.SupportedExtensions(), ", "))
	case errors.Is(err, ocrerr.ErrNoStructure), errors.Is(err, ocrerr.ErrUnrecoverable):
		return msgNoStructure
	case errors.Is(err, ocrerr.ErrSchemaValidation):
		return msgLabelInvalid
	case errors.Is(err, ocrerr.ErrService), errors.Is(err, context.DeadlineExceeded):
		return msgServiceDown
	default:
		return msgProcessingError
	}
}

func formatResult(result *entity.OCRResult) string {
	pairs := make([][2]string, 0, result.Len())
	for _, key := range result.Keys() {
		value, _ := result.Get(key)
		pairs = append(pairs, [2]string{key, value})
	}
	return formatPairs(pairs)
}

// formatPairs одна строка «ключ: значение» на пару
func formatPairs(pairs [][2]string) string {
	if len(pairs) == 0 {
		return msgNoText
	}

	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(p[0])
		sb.WriteString(": ")
		sb.WriteString(p[1])
	}
	return sb.String()
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", path.Base(file.FilePath), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", "chat_id", chatID, "error", err)
	}
}
