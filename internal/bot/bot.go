package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shalom2552/InstaBriefBot/internal/service"
)

// pendingAction marks a user mid-way through a two-step dialog, waiting
// for a follow-up plain-text message.
type pendingAction int

const (
	pendingNone pendingAction = iota
	pendingAdd
	pendingRemove
)

type Config struct {
	AuthorizedUserIDs []int64
	AdminID           int64
	PageSize          int
	CommandTimeout    time.Duration
}

type Bot struct {
	api    *tgbotapi.BotAPI
	sync   *service.SyncService
	ask    *service.AskService
	digest *service.DigestService
	roster service.ChannelStore
	stats  service.MessageStore
	logger *slog.Logger

	authorized     map[int64]struct{}
	adminID        int64
	pageSize       int
	commandTimeout time.Duration

	mu      sync.Mutex
	pending map[int64]pendingAction
}

func New(
	api *tgbotapi.BotAPI,
	syncSvc *service.SyncService,
	askSvc *service.AskService,
	digestSvc *service.DigestService,
	roster service.ChannelStore,
	stats service.MessageStore,
	cfg Config,
	logger *slog.Logger,
) *Bot {
	authorized := make(map[int64]struct{}, len(cfg.AuthorizedUserIDs))
	for _, id := range cfg.AuthorizedUserIDs {
		authorized[id] = struct{}{}
	}

	return &Bot{
		api:            api,
		sync:           syncSvc,
		ask:            askSvc,
		digest:         digestSvc,
		roster:         roster,
		stats:          stats,
		logger:         logger.With("component", "bot"),
		authorized:     authorized,
		adminID:        cfg.AdminID,
		pageSize:       cfg.PageSize,
		commandTimeout: cfg.CommandTimeout,
		pending:        make(map[int64]pendingAction),
	}
}

// Run polls for updates until the context is cancelled. Each update is
// handled on its own goroutine so a long sync does not block questions
// from other users.
func (b *Bot) Run(ctx context.Context) error {
	b.notifyStartup()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return nil
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) notifyStartup() {
	for id := range b.authorized {
		if _, err := b.api.Send(tgbotapi.NewMessage(id, msgStartupNotice)); err != nil {
			b.logger.Warn("startup notice failed", "user_id", id, "error", err)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	userID := msg.From.ID

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic",
				"user_id", userID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			b.reply(msg.Chat.ID, msgUnexpectedFailure)
			b.alertAdmin(fmt.Sprintf("⚠️ panic while handling update from %d: %v", userID, r))
		}
	}()

	// Single authorization gate: every command and every free-text
	// message passes through here before any handler runs.
	if _, ok := b.authorized[userID]; !ok {
		b.logger.Warn("unauthorized update ignored", "user_id", userID)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.commandTimeout)
	defer cancel()

	if action := b.takePending(userID); action != pendingNone {
		b.handlePendingInput(ctx, msg, action)
		return
	}

	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "help":
		b.handleHelp(msg)
	case "channels":
		b.handleChannels(ctx, msg)
	case "add":
		b.setPending(userID, pendingAdd)
		b.reply(msg.Chat.ID, msgAskAddChannel)
	case "remove":
		b.setPending(userID, pendingRemove)
		b.reply(msg.Chat.ID, msgAskRemoveChannel)
	case "debug":
		b.handleDebug(ctx, msg)
	case "stats":
		b.handleStats(ctx, msg)
	case "sync":
		b.handleSync(ctx, msg)
	case "latest":
		b.handleLatest(ctx, msg)
	case "":
		b.handleQuestion(ctx, msg)
	default:
		b.handleHelp(msg)
	}
}

func (b *Bot) setPending(userID int64, action pendingAction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[userID] = action
}

// takePending returns and clears the user's pending dialog state.
func (b *Bot) takePending(userID int64) pendingAction {
	b.mu.Lock()
	defer b.mu.Unlock()
	action := b.pending[userID]
	delete(b.pending, userID)
	return action
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) replyHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) alertAdmin(text string) {
	if b.adminID == 0 {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(b.adminID, text)); err != nil {
		b.logger.Error("admin alert failed", "error", err)
	}
}
