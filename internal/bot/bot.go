package bot

import (
	"context"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ovoronin/weather-report-bot/internal/photo"
	"github.com/ovoronin/weather-report-bot/internal/report"
	"github.com/ovoronin/weather-report-bot/internal/store"
	"github.com/ovoronin/weather-report-bot/internal/weather"
)

// refreshCallback is the opaque payload carried by the inline refresh
// button. It never changes, so old messages keep working after a
// restart.
const refreshCallback = "upd_weather"

// Gateway handles inbound Telegram commands and callbacks and delivers
// the generated report as a photo message with a Markdown caption.
type Gateway struct {
	api       *tgbotapi.BotAPI
	synth     *report.Synthesizer
	photos    *photo.Client
	store     *store.MemoryStore
	locations []weather.Location
	maxStale  time.Duration
}

func New(token string, synth *report.Synthesizer, photos *photo.Client, st *store.MemoryStore, locations []weather.Location, maxStale time.Duration) (*Gateway, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("bot: authorized as @%s", api.Self.UserName)

	return &Gateway{
		api:       api,
		synth:     synth,
		photos:    photos,
		store:     st,
		locations: locations,
		maxStale:  maxStale,
	}, nil
}

// Run consumes the long-poll update channel until the context is
// cancelled. Handling is sequential: one update is fully processed
// before the next is dequeued.
func (g *Gateway) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := g.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			g.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			g.handle(ctx, update)
		}
	}
}

func (g *Gateway) handle(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		switch update.Message.Command() {
		case "start", "weather":
			g.sendReport(ctx, update.Message.Chat.ID)
		}
	case update.CallbackQuery != nil && update.CallbackQuery.Data == refreshCallback:
		g.refresh(ctx, update.CallbackQuery)
	}
}

// sendReport builds the report and delivers it as a new photo message.
// A failed send is logged and answered with a best-effort plain-text
// reply so the user is not left without any response.
func (g *Gateway) sendReport(ctx context.Context, chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadPhoto)
	if _, err := g.api.Request(action); err != nil {
		log.Printf("bot: chat action failed for chat %d: %v", chatID, err)
	}

	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(g.photos.BackgroundURL(ctx)))
	msg.Caption = g.reportText(ctx, false)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = refreshKeyboard()

	if _, err := g.api.Send(msg); err != nil {
		log.Printf("bot: send report to chat %d failed: %v", chatID, err)

		fallback := tgbotapi.NewMessage(chatID, "⚠️ Не удалось отправить прогноз, попробуйте позже")
		if _, err := g.api.Send(fallback); err != nil {
			log.Printf("bot: fallback reply to chat %d failed: %v", chatID, err)
		}
	}
}

// refresh acknowledges the callback immediately, then regenerates the
// report and replaces the message media and caption in place. Any
// failure is logged and swallowed: the message keeps its last good
// state and the original keyboard.
func (g *Gateway) refresh(ctx context.Context, q *tgbotapi.CallbackQuery) {
	ack := tgbotapi.NewCallback(q.ID, "Обновляю...")
	if _, err := g.api.Request(ack); err != nil {
		log.Printf("bot: callback ack failed: %v", err)
	}

	if q.Message == nil {
		log.Printf("bot: refresh callback without message, ignoring")
		return
	}

	media := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(g.photos.BackgroundURL(ctx)))
	media.Caption = g.reportText(ctx, true)
	media.ParseMode = tgbotapi.ModeMarkdown

	edit := tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{
			ChatID:      q.Message.Chat.ID,
			MessageID:   q.Message.MessageID,
			ReplyMarkup: q.Message.ReplyMarkup,
		},
		Media: media,
	}

	if _, err := g.api.Request(edit); err != nil {
		log.Printf("bot: refresh of message %d in chat %d failed: %v", q.Message.MessageID, q.Message.Chat.ID, err)
	}
}

// reportText returns a report body prefixed with its generation header.
// For initial commands a fresh-enough prefetched report is served from
// the store; a refresh always rebuilds live.
func (g *Gateway) reportText(ctx context.Context, forceFresh bool) string {
	if !forceFresh && g.maxStale > 0 {
		if cached, err := g.store.Latest(); err == nil && time.Since(cached.GeneratedAt) <= g.maxStale {
			return report.Header(cached.GeneratedAt) + cached.Text
		}
	}

	now := time.Now().UTC()
	text := g.synth.BuildFullReport(ctx, g.locations)
	g.store.Save(store.GeneratedReport{Text: text, GeneratedAt: now})
	return report.Header(now) + text
}

func refreshKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить прогноз", refreshCallback),
		),
	)
}
