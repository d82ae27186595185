package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/studycircle/studycircle/internal/adapters/http"
	"github.com/studycircle/studycircle/internal/adapters/llm"
	firestorestore "github.com/studycircle/studycircle/internal/adapters/storage/firestore"
	memstore "github.com/studycircle/studycircle/internal/adapters/storage/memory"
	sqlitestore "github.com/studycircle/studycircle/internal/adapters/storage/sqlite"
	"github.com/studycircle/studycircle/internal/app/studio"
	"github.com/studycircle/studycircle/internal/config"
	"github.com/studycircle/studycircle/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	var (
		llmClient domain.LLMClient
		err       error
	)

	switch cfg.LLMBackend {
	case "dashscope":
		log.Println("[LLM] Using DashScope LLM client")
		llmClient, err = llm.NewDashScopeClient(cfg.DashScopeAPIKey, cfg.DashScopeBaseURL)
		if err != nil {
			log.Fatalf("error initializing DashScope client: %v", err)
		}
	case "vertex":
		log.Println("[LLM] Using Vertex LLM client")
		llmClient, err = llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation)
		if err != nil {
			log.Fatalf("error initializing Vertex client: %v", err)
		}
	default:
		log.Println("[LLM] Using MOCK LLM client")
		llmClient = llm.NewMockLLM()
	}

	var sessionStore domain.SessionStore
	var stateStore domain.StateStore

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}

		// 1 store, implements 2 interfaces
		sessionStore = fsStore
		stateStore = fsStore

	case "sqlite":
		log.Printf("[STORE] Using SQLite storage (path=%s)", cfg.SQLitePath)
		sqStore, err := sqlitestore.NewStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("error initializing SQLite store: %v", err)
		}
		defer sqStore.Close()

		sessionStore = sqStore
		stateStore = sqStore

	default:
		log.Println("[STORE] Using in-memory storage")
		sessionStore = memstore.NewSessionStore()
		stateStore = memstore.NewStateStore()
	}

	rules := studio.DefaultFallbackRules()
	if cfg.FallbackRulesPath != "" {
		rules, err = studio.LoadFallbackRules(cfg.FallbackRulesPath)
		if err != nil {
			log.Fatalf("error loading fallback rules: %v", err)
		}
		log.Printf("[DIAGRAM] Loaded %d fallback rules from %s", len(rules), cfg.FallbackRulesPath)
	}

	models := map[domain.AgentID]string{
		domain.AgentReviewer:   cfg.ReviewerModel,
		domain.AgentResearcher: cfg.ResearcherModel,
		domain.AgentVisualizer: cfg.VisualizerModel,
	}

	svc := studio.NewService(llmClient, sessionStore, stateStore, models, rules)

	handler := httpadapter.NewServer(svc)

	port := ":" + cfg.Port
	log.Println("studycircle API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}
