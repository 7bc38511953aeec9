// internal/app/system/workers/telegram.go
package workers

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vhht/vhhtbot/internal/app/assistant/actions"
	"github.com/vhht/vhhtbot/internal/app/assistant/pipeline"
	"go.uber.org/zap"
)

// TransportTelegram labels turns arriving through the Telegram poller.
const TransportTelegram = "telegram"

// FailureReply is sent when a turn fails unexpectedly.
const FailureReply = "Hic, em đang gặp trục trặc một chút 😭 Anh/chị thử lại sau nha!"

// maxInFlight bounds chats handled concurrently.
const maxInFlight = 8

// Converser handles one turn of a conversation.
type Converser interface {
	Converse(ctx context.Context, id string, in pipeline.Input) (pipeline.Reply, error)
}

// TelegramPoller is a background worker that long-polls Telegram and
// answers each text message through the assistant. Every chat is one
// conversation, and a chat's messages are handled one at a time in arrival
// order so each turn sees the state saved by the previous one. Telegram
// users carry no platform identity.
type TelegramPoller struct {
	api         *tgbotapi.BotAPI
	conv        Converser
	log         *zap.Logger
	turnTimeout time.Duration
	sem         chan struct{}
	stopCh      chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup

	// queues holds pending messages per chat. A chat has an entry while a
	// goroutine is draining it.
	mu     sync.Mutex
	queues map[int64][]*tgbotapi.Message
}

// NewTelegramPoller connects to the Bot API with token.
func NewTelegramPoller(token string, conv Converser, logger *zap.Logger, turnTimeout time.Duration) (*TelegramPoller, error) {
	return NewTelegramPollerWithEndpoint(token, tgbotapi.APIEndpoint, conv, logger, turnTimeout)
}

// NewTelegramPollerWithEndpoint is NewTelegramPoller against a custom Bot
// API endpoint format such as "http://host/bot%s/%s".
func NewTelegramPollerWithEndpoint(token, endpoint string, conv Converser, logger *zap.Logger, turnTimeout time.Duration) (*TelegramPoller, error) {
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramPoller{
		api:         api,
		conv:        conv,
		log:         logger,
		turnTimeout: turnTimeout,
		sem:         make(chan struct{}, maxInFlight),
		stopCh:      make(chan struct{}),
		queues:      make(map[int64][]*tgbotapi.Message),
	}, nil
}

// Start begins the background polling loop.
func (w *TelegramPoller) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := w.api.GetUpdatesChan(u)

	w.wg.Add(1)
	go w.run(updates)
	w.log.Info("telegram poller started", zap.String("bot", w.api.Self.UserName))
}

// Stop signals the worker to stop and waits for in-flight turns.
func (w *TelegramPoller) Stop() {
	w.stopOnce.Do(func() {
		w.api.StopReceivingUpdates()
		close(w.stopCh)
	})
	w.wg.Wait()
	w.log.Info("telegram poller stopped")
}

func (w *TelegramPoller) run(updates tgbotapi.UpdatesChannel) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Chat == nil {
				continue
			}
			if !w.enqueue(update.Message) {
				continue
			}
			select {
			case w.sem <- struct{}{}:
			case <-w.stopCh:
				return
			}
			w.wg.Add(1)
			go func(chatID int64) {
				defer func() { <-w.sem; w.wg.Done() }()
				w.drain(chatID)
			}(update.Message.Chat.ID)
		}
	}
}

// enqueue appends msg to its chat's queue and reports whether the chat
// needs a new draining goroutine.
func (w *TelegramPoller) enqueue(msg *tgbotapi.Message) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, busy := w.queues[msg.Chat.ID]
	w.queues[msg.Chat.ID] = append(q, msg)
	return !busy
}

// drain handles a chat's queued messages in order until the queue is empty
// or the poller stops.
func (w *TelegramPoller) drain(chatID int64) {
	for {
		w.mu.Lock()
		q := w.queues[chatID]
		stopped := false
		select {
		case <-w.stopCh:
			stopped = true
		default:
		}
		if len(q) == 0 || stopped {
			delete(w.queues, chatID)
			w.mu.Unlock()
			return
		}
		msg := q[0]
		w.queues[chatID] = q[1:]
		w.mu.Unlock()

		w.handle(msg)
	}
}

func (w *TelegramPoller) handle(msg *tgbotapi.Message) {
	if msg.Text == "" {
		return
	}
	if msg.IsCommand() {
		if msg.Command() == "start" || msg.Command() == "help" {
			w.send(msg.Chat.ID, actions.GreetingReply)
		}
		return
	}

	ctx := context.Background()
	if w.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.turnTimeout)
		defer cancel()
	}

	id := "tg:" + strconv.FormatInt(msg.Chat.ID, 10)
	reply, err := w.conv.Converse(ctx, id, pipeline.Input{Text: msg.Text, Transport: TransportTelegram})
	if err != nil {
		w.log.Error("telegram turn failed", zap.String("conversation_id", id), zap.Error(err))
		w.send(msg.Chat.ID, FailureReply)
		return
	}
	w.send(msg.Chat.ID, reply.Text)
}

func (w *TelegramPoller) send(chatID int64, text string) {
	if _, err := w.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		w.log.Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
