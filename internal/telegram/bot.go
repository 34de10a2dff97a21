// Package telegram exposes the planner over a webhook-driven Telegram bot:
// a plain message sets today's priorities and runs a generation cycle.
package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"zenith-planner/internal/config"
	"zenith-planner/internal/metrics"
	"zenith-planner/internal/plan"
	"zenith-planner/internal/planner"
	"zenith-planner/internal/session"
	"zenith-planner/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API, the plan store, and the generation pipeline.
type Bot struct {
	api          *tgbotapi.BotAPI
	store        *store.Store
	dayPlanner   *planner.Planner
	metricsStore *metrics.Store
	cfg          *config.Config

	// Messages are handled in their own goroutines, so the one-outstanding-
	// cycle guard has to live here, keyed by chat.
	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	st *store.Store,
	dayPlanner *planner.Planner,
	metricsStore *metrics.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		store:        st,
		dayPlanner:   dayPlanner,
		metricsStore: metricsStore,
		cfg:          cfg,
		inFlight:     make(map[int64]struct{}),
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}
	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch {
	case msg.Text == "/metrics":
		b.handleMetricsRequest(msg)
	case msg.Text == "/today":
		b.handleTodayRequest(msg)
	default:
		b.handlePlanRequest(msg)
	}
}

func (b *Bot) handleTodayRequest(msg *tgbotapi.Message) {
	st := b.store.Load(plan.Today())
	reply := tgbotapi.NewMessage(msg.Chat.ID, formatSheetMarkdown(st))
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

// beginFor marks a chat as having an outstanding generation cycle. It
// reports false when one is already in flight for that chat.
func (b *Bot) beginFor(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inFlight == nil {
		b.inFlight = make(map[int64]struct{})
	}
	if _, busy := b.inFlight[chatID]; busy {
		return false
	}
	b.inFlight[chatID] = struct{}{}
	return true
}

func (b *Bot) endFor(chatID int64) {
	b.mu.Lock()
	delete(b.inFlight, chatID)
	b.mu.Unlock()
}

// handlePlanRequest treats the message text as today's priorities (one per
// line, or comma-separated) and runs a generation cycle over them.
func (b *Bot) handlePlanRequest(msg *tgbotapi.Message) {
	if !b.beginFor(msg.Chat.ID) {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "A plan is already being generated. Try again in a moment."))
		return
	}
	defer b.endFor(msg.Chat.ID)

	statusText := "🗓 *Thinking...* \n(Turning your priorities into a daily plan)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	edit := func(text string) {
		e := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, text)
		e.ParseMode = "Markdown"
		b.api.Send(e)
	}

	priorities := ParsePriorities(msg.Text)
	if !plan.HasActivePriority(priorities) {
		edit("Send me up to 3 priorities for today (one per line), and I will plan your day.")
		return
	}

	if b.dayPlanner == nil {
		log.Printf("Plan request from %d dropped: generation not configured", msg.From.ID)
		edit("❌ Plan generation is not configured on this server.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sess := session.New(b.store, plan.Today())
	sess.Update(plan.Changes{Priorities: priorities})

	active, revision, ok := sess.BeginGeneration()
	if !ok {
		edit("A plan is already being generated. Try again in a moment.")
		return
	}

	result, meta, err := b.dayPlanner.GeneratePlan(ctx, active)
	if recErr := b.metricsStore.RecordMeta(meta); recErr != nil {
		log.Printf("Warning: failed to record metrics: %v", recErr)
	}
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		sess.FinishGeneration(nil, revision)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		edit(fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeErr))
		return
	}

	sess.FinishGeneration(result, revision)
	edit(formatSheetMarkdown(sess.State()))
}

// ParsePriorities splits a message into at most the sheet's 3 priority
// slots, preferring line breaks and falling back to commas.
func ParsePriorities(text string) []string {
	sep := "\n"
	if !strings.Contains(text, "\n") {
		sep = ","
	}

	priorities := make([]string, plan.PriorityCount)
	i := 0
	for _, part := range strings.Split(text, sep) {
		if i >= plan.PriorityCount {
			break
		}
		if t := strings.TrimSpace(part); t != "" {
			priorities[i] = t
			i++
		}
	}
	return priorities
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ *Access Denied*: Admin only."))
		return
	}

	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.GetSysHealth(b.cfg.DataPath)

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Plan Records: %s\n", health.PlanDiskSize))

	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func formatSheetMarkdown(st plan.State) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *Daily Plan — %s (%s)*\n", st.Date, weekdayNames[st.SelectedDay%7]))
	sb.WriteString(fmt.Sprintf("Progress: %d%%\n\n", st.Progress))

	sb.WriteString("*Priorities*\n")
	for i, p := range st.Priorities {
		if p == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, p))
	}

	sb.WriteString("\n*Schedule*\n")
	for h := plan.ScheduleStartHour; h <= plan.ScheduleEndHour; h++ {
		if activity, ok := st.Schedule[h]; ok && activity != "" {
			sb.WriteString(fmt.Sprintf("`%02d:00` %s\n", h, activity))
		}
	}

	sb.WriteString("\n*Todos*\n")
	for _, todo := range st.Todos {
		if todo.Text == "" {
			continue
		}
		mark := "☐"
		if todo.Completed {
			mark = "☑"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, todo.Text))
	}

	if st.Notes != "" {
		sb.WriteString(fmt.Sprintf("\n_%s_\n", st.Notes))
	}
	return sb.String()
}
