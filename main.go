package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/chative-support-router/agent/agents/dataworker"
	"github.com/tanpawarit/chative-support-router/agent/agents/router"
	"github.com/tanpawarit/chative-support-router/agent/agents/supportworker"
	"github.com/tanpawarit/chative-support-router/agent/audit"
	"github.com/tanpawarit/chative-support-router/agent/classifier"
	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
	"github.com/tanpawarit/chative-support-router/agent/conversation"
	"github.com/tanpawarit/chative-support-router/agent/llm"
	promptx "github.com/tanpawarit/chative-support-router/agent/prompt"
	statex "github.com/tanpawarit/chative-support-router/agent/state"
	"github.com/tanpawarit/chative-support-router/agent/store"
	configx "github.com/tanpawarit/chative-support-router/pkg/config"
	_ "github.com/tanpawarit/chative-support-router/pkg/logger/autoload"
	qstashx "github.com/tanpawarit/chative-support-router/pkg/qstash"
)

type AppConfig struct {
	SessionBackend string `envconfig:"SESSION_BACKEND" default:"memory"`
	SessionID      string `envconfig:"SESSION_ID" default:"demo"`
	ShowTrace      bool   `envconfig:"SHOW_TRACE" default:"true"`
}

var demoQueries = []string{
	"Get customer information for ID 5",
	"I need help with my account, customer ID 12345",
	"I want to cancel my subscription but I'm having billing issues",
	"What's the status of all high-priority tickets for premium customers?",
	"Show me all active customers who have open tickets",
	"I've been charged twice, please refund immediately!",
	"Update my email to new@email.com and show my ticket history",
	"I'm customer 5 and I want to upgrade my account",
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("APP")
	storeCfg := configx.MustNew[store.Config]("STORE")
	routerCfg := configx.MustNew[router.Config]("ROUTER")
	classifierCfg := configx.MustNew[classifier.Config]("CLASSIFIER")
	auditCfg := configx.MustNew[audit.Config]("AUDIT")

	db, err := store.Open(*storeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer db.Close()

	if err := db.CreateSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("create schema")
	}
	if storeCfg.Seed {
		customers, tickets := store.DemoData(time.Now())
		if err := db.Seed(ctx, customers, tickets); err != nil {
			log.Fatal().Err(err).Msg("seed store")
		}
	}

	data, err := dataworker.New(db)
	if err != nil {
		log.Fatal().Err(err).Msg("build data worker")
	}

	var llmCfg llm.Config
	if classifierCfg.Backend != "" && classifierCfg.Backend != classifier.BackendRules {
		llmCfg = *configx.MustNew[llm.Config]("OPENROUTER")
	}
	cls, err := classifier.Build(ctx, *classifierCfg, llmCfg, promptx.LoadPromptSet().Classifier)
	if err != nil {
		log.Fatal().Err(err).Msg("build classifier")
	}

	rt, err := router.New(cls, data, supportworker.New(), *routerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	svc, err := conversation.New(rt, mustSessionStore(appCfg.SessionBackend), mustTraceSink(*auditCfg))
	if err != nil {
		log.Fatal().Err(err).Msg("build conversation service")
	}

	queries := flag.Args()
	if len(queries) == 0 {
		queries = demoQueries
	}

	for _, q := range queries {
		reply, err := svc.HandleMessage(ctx, appCfg.SessionID, q)
		if err != nil {
			log.Error().Err(err).Str("query", q).Msg("handle message")
			continue
		}
		printReply(q, reply, appCfg.ShowTrace)
	}
}

func mustSessionStore(backend string) statex.Store {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "memory":
		return statex.NewMemoryStore()
	case "upstash":
		redisCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		s, err := statex.NewUpstashRedisStore(*redisCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("build upstash session store")
		}
		return s
	default:
		log.Fatal().Str("backend", backend).Msg("unsupported session backend")
		return nil
	}
}

func mustTraceSink(cfg audit.Config) contractx.TraceSink {
	if !cfg.Enabled {
		return audit.Noop{}
	}
	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	sink, err := audit.NewQStashSink(qstashx.MustNew(*qstashCfg), cfg.Destination)
	if err != nil {
		log.Fatal().Err(err).Msg("build trace sink")
	}
	return sink
}

func printReply(query string, reply conversation.Reply, showTrace bool) {
	fmt.Println("\n==============================")
	fmt.Println("User query:", query)
	fmt.Println("==============================")
	if showTrace {
		fmt.Println("\n=== Conversation Log ===")
		for _, m := range reply.Trace {
			fmt.Printf("%s -> %s: %s | meta=%v\n", m.Sender, m.Recipient, m.Content, m.Metadata)
		}
	}
	fmt.Println("\n=== Final Answer to User ===")
	fmt.Println(reply.Text)
}
