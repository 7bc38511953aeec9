// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/dalemusser/waffle/config"
	"github.com/vhht/vhhtbot/internal/app/assistant/contextbuild"
	"github.com/vhht/vhhtbot/internal/app/assistant/pipeline"
	"github.com/vhht/vhhtbot/internal/app/assistant/registration"
	"github.com/vhht/vhhtbot/internal/app/assistant/responder"
	"github.com/vhht/vhhtbot/internal/app/assistant/taskquery"
	campaignstore "github.com/vhht/vhhtbot/internal/app/store/campaigns"
	"github.com/vhht/vhhtbot/internal/app/store/conversations"
	departmentstore "github.com/vhht/vhhtbot/internal/app/store/departments"
	phasestore "github.com/vhht/vhhtbot/internal/app/store/phases"
	recordstore "github.com/vhht/vhhtbot/internal/app/store/records"
	taskstore "github.com/vhht/vhhtbot/internal/app/store/tasks"
	"github.com/vhht/vhhtbot/internal/app/system/auth"
	"github.com/vhht/vhhtbot/internal/app/system/ratelimit"
	"github.com/vhht/vhhtbot/internal/app/system/tasks"
	"github.com/vhht/vhhtbot/internal/app/system/timeouts"
	"github.com/vhht/vhhtbot/internal/app/system/timezones"
	"github.com/vhht/vhhtbot/internal/app/system/workers"
	"go.uber.org/zap"
)

// services are the long-lived components built by Startup and shared with
// BuildHandler and Shutdown.
type services struct {
	pipeline  *pipeline.Pipeline
	sessions  *auth.SessionManager
	verifier  *auth.Verifier
	limiter   *ratelimit.ChatLimiter
	scheduler *tasks.Scheduler
	telegram  *workers.TelegramPoller
}

var (
	svcMu sync.Mutex
	svc   *services
)

func currentServices() *services {
	svcMu.Lock()
	defer svcMu.Unlock()
	return svc
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It builds
// the turn pipeline and starts the background workers: the conversation
// purge schedule and, when a token is configured, the Telegram poller.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Lookup:     appCfg.LookupTimeout,
		Query:      appCfg.QueryTimeout,
		Join:       appCfg.JoinTimeout,
		Completion: appCfg.LLMTimeout,
	})

	s, err := buildServices(ctx, coreCfg, appCfg, deps, logger)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	if s.telegram != nil {
		s.telegram.Start()
	}

	svcMu.Lock()
	svc = s
	svcMu.Unlock()
	return nil
}

func buildServices(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (*services, error) {
	loc, err := timezones.Load(appCfg.Timezone)
	if err != nil {
		return nil, err
	}

	db := deps.MongoDatabase
	campaigns := campaignstore.New(db)
	phases := phasestore.New(db)
	taskStore := taskstore.New(db)

	completer, err := responder.NewCompleter(ctx, responder.Config{
		Provider:    appCfg.LLMProvider,
		APIKey:      appCfg.LLMAPIKey,
		BaseURL:     appCfg.LLMBaseURL,
		Model:       appCfg.LLMModel,
		MaxTokens:   appCfg.LLMMaxTokens,
		Temperature: appCfg.LLMTemperature,
	})
	if err != nil {
		logger.Error("completion provider init failed", zap.Error(err))
		return nil, err
	}
	if appCfg.LLMAPIKey == "" {
		logger.Warn("llm_api_key is empty; completions will fail and fall back to the apology reply",
			zap.String("provider", appCfg.LLMProvider))
	}

	var states pipeline.StateStore
	var convStore *conversations.Store
	switch {
	case deps.Cache != nil:
		states = deps.Cache
	default:
		convStore = conversations.New(db, appCfg.ConversationTTL)
		states = convStore
	}

	p := pipeline.New(pipeline.Deps{
		Tasks: taskquery.New(taskStore, phases, campaigns, timezones.NewCalendar(loc), nil, logger),
		Registrar: registration.New(appCfg.BackendURL,
			&http.Client{Timeout: appCfg.BackendTimeout}, campaigns, logger),
		Context:   contextbuild.New(recordstore.New(db), phases, taskStore, departmentstore.New(db), logger),
		Campaigns: campaigns,
		Responder: responder.New(completer, appCfg.LLMTimeout, logger),
		States:    states,
		Logger:    logger,
	})

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessions, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	scheduler := tasks.NewScheduler(loc, logger)
	if convStore != nil {
		if err := scheduler.Add(tasks.ConversationPurgeJob(convStore, logger, appCfg.PurgeSchedule)); err != nil {
			return nil, fmt.Errorf("schedule conversation purge: %w", err)
		}
	}

	s := &services{
		pipeline:  p,
		sessions:  sessions,
		verifier:  auth.NewVerifier(appCfg.JWTAccessSecret, logger),
		limiter:   ratelimit.NewChatLimiter(appCfg.RateLimitPerIP, appCfg.RateLimitPerUser),
		scheduler: scheduler,
	}

	if appCfg.TelegramToken != "" {
		turnTimeout := appCfg.JoinTimeout + appCfg.LLMTimeout
		poller, err := workers.NewTelegramPoller(appCfg.TelegramToken, p, logger, turnTimeout)
		if err != nil {
			s.limiter.Stop()
			logger.Error("telegram init failed", zap.Error(err))
			return nil, err
		}
		s.telegram = poller
	}

	return s, nil
}
