package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/latest"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/sync"),
			tgbotapi.NewKeyboardButton("/stats"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/channels"),
			tgbotapi.NewKeyboardButton("/add"),
			tgbotapi.NewKeyboardButton("/remove"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/debug"),
			tgbotapi.NewKeyboardButton("/help"),
		),
	)
	keyboard.ResizeKeyboard = true

	reply := tgbotapi.NewMessage(msg.Chat.ID, msgWelcome)
	reply.ReplyMarkup = keyboard
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Error("send failed", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.replyHTML(msg.Chat.ID, msgHelp)
}

func (b *Bot) handleChannels(ctx context.Context, msg *tgbotapi.Message) {
	channels, err := b.roster.List(ctx)
	if err != nil {
		b.logger.Error("list channels failed", "error", err)
		b.reply(msg.Chat.ID, msgUnexpectedFailure)
		return
	}
	if len(channels) == 0 {
		b.reply(msg.Chat.ID, msgNoChannels)
		return
	}

	var sb strings.Builder
	sb.WriteString(msgChannelsHeader)
	for _, name := range channels {
		sb.WriteString("• " + name + "\n")
	}
	b.reply(msg.Chat.ID, sb.String())
}

// handlePendingInput completes an /add or /remove dialog with the
// channel name the user just sent.
func (b *Bot) handlePendingInput(ctx context.Context, msg *tgbotapi.Message, action pendingAction) {
	name := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(name, "@") {
		b.reply(msg.Chat.ID, msgBadChannelName)
		return
	}

	channels, err := b.roster.List(ctx)
	if err != nil {
		b.logger.Error("list channels failed", "error", err)
		b.reply(msg.Chat.ID, msgUnexpectedFailure)
		return
	}
	exists := false
	for _, c := range channels {
		if c == name {
			exists = true
			break
		}
	}

	switch action {
	case pendingAdd:
		if exists {
			b.reply(msg.Chat.ID, msgChannelExists)
			return
		}
		if err := b.roster.Add(ctx, name); err != nil {
			b.logger.Error("add channel failed", "channel", name, "error", err)
			b.reply(msg.Chat.ID, msgUnexpectedFailure)
			return
		}
		b.logger.Info("channel added", "channel", name, "user_id", msg.From.ID)
		b.reply(msg.Chat.ID, fmt.Sprintf(msgChannelAdded, name))
	case pendingRemove:
		if !exists {
			b.reply(msg.Chat.ID, msgChannelNotFound)
			return
		}
		if err := b.roster.Remove(ctx, name); err != nil {
			b.logger.Error("remove channel failed", "channel", name, "error", err)
			b.reply(msg.Chat.ID, msgUnexpectedFailure)
			return
		}
		b.logger.Info("channel removed", "channel", name, "user_id", msg.From.ID)
		b.reply(msg.Chat.ID, fmt.Sprintf(msgChannelRemoved, name))
	}
}

func (b *Bot) handleDebug(ctx context.Context, msg *tgbotapi.Message) {
	keywords, ok := b.ask.LastKeywords(msg.From.ID)
	if !ok {
		b.reply(msg.Chat.ID, msgNoKeywords)
		return
	}

	probe, err := b.ask.Probe(ctx, keywords)
	if err != nil {
		b.logger.Error("probe failed", "error", err)
		b.reply(msg.Chat.ID, msgUnexpectedFailure)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 מילות מפתח אחרונות: %s\n", strings.Join(keywords, ", ")))
	sb.WriteString(fmt.Sprintf("📄 נמצאו %d הודעות תואמות.\n", probe.Count))
	if probe.Latest != nil {
		preview := probe.Latest.Text
		if len([]rune(preview)) > 100 {
			preview = string([]rune(preview)[:100]) + "..."
		}
		sb.WriteString(fmt.Sprintf("🕓 אחרונה (%s): %s", probe.Latest.Date, preview))
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	stats, err := b.stats.CountByChannel(ctx)
	if err != nil {
		b.logger.Error("stats failed", "error", err)
		b.reply(msg.Chat.ID, msgUnexpectedFailure)
		return
	}
	if len(stats) == 0 {
		b.reply(msg.Chat.ID, msgNoStats)
		return
	}

	var sb strings.Builder
	sb.WriteString(msgStatsHeader)
	for _, stat := range stats {
		sb.WriteString(fmt.Sprintf("%s: %d הודעות\n", stat.Channel, stat.Count))
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleSync(ctx context.Context, msg *tgbotapi.Message) {
	channels, err := b.roster.List(ctx)
	if err != nil {
		b.logger.Error("list channels failed", "error", err)
		b.reply(msg.Chat.ID, msgUnexpectedFailure)
		return
	}
	if len(channels) == 0 {
		b.reply(msg.Chat.ID, msgSyncNoChannels)
		return
	}

	status, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, msgSyncStarting))
	if err != nil {
		b.logger.Error("send failed", "chat_id", msg.Chat.ID, "error", err)
		return
	}

	index := make(map[string]int, len(channels))
	for i, name := range channels {
		index[name] = i
	}
	total := len(channels) * b.pageSize

	progress := func(channel string, consulted int) {
		done := index[channel]*b.pageSize + consulted
		percent := done * 100 / total
		if percent > 100 {
			percent = 100
		}
		bar := strings.Repeat("▓", percent/10) + strings.Repeat("░", (100-percent)/10)
		text := fmt.Sprintf("🔄 מסנכרן את %s...\n%s %d%%", channel, bar, percent)
		edit := tgbotapi.NewEditMessageText(status.Chat.ID, status.MessageID, text)
		if _, err := b.api.Send(edit); err != nil {
			b.logger.Warn("progress edit failed", "error", err)
		}
	}

	report, err := b.sync.SyncAll(ctx, progress)
	if err != nil {
		b.logger.Error("sync failed", "error", err)
		b.editStatus(status, msgSyncFailed)
		return
	}

	var sb strings.Builder
	sb.WriteString(msgSyncDoneHeader)
	for _, result := range report.Results {
		sb.WriteString(fmt.Sprintf("%s: ⬆️ %d הודעות חדשות\n", result.Channel, result.Inserted))
	}
	b.editStatus(status, sb.String())
}

func (b *Bot) editStatus(status tgbotapi.Message, text string) {
	edit := tgbotapi.NewEditMessageText(status.Chat.ID, status.MessageID, text)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("status edit failed", "error", err)
	}
}

func (b *Bot) handleLatest(ctx context.Context, msg *tgbotapi.Message) {
	result, err := b.digest.Digest(ctx, msg.From.ID)
	if err != nil {
		b.logger.Error("digest failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, msgDigestFailed)
		return
	}
	if result.Empty {
		b.reply(msg.Chat.ID, msgNothingToDigest)
		return
	}
	b.reply(msg.Chat.ID, msgDigestHeader+result.Summary)
}

func (b *Bot) handleQuestion(ctx context.Context, msg *tgbotapi.Message) {
	question := strings.TrimSpace(msg.Text)
	if question == "" {
		return
	}

	b.reply(msg.Chat.ID, msgChecking)

	result, err := b.ask.Ask(ctx, msg.From.ID, question)
	if err != nil {
		b.logger.Error("question failed", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, msgQuestionFailed)
		return
	}
	if !result.Found {
		b.reply(msg.Chat.ID, msgNoResults)
		return
	}
	b.reply(msg.Chat.ID, result.Answer)
}
