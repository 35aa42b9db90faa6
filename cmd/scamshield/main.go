package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/scamshield/scamshield/pkg/bus"
	"github.com/scamshield/scamshield/pkg/config"
	"github.com/scamshield/scamshield/pkg/detect"
	"github.com/scamshield/scamshield/pkg/engage"
	"github.com/scamshield/scamshield/pkg/fusion"
	"github.com/scamshield/scamshield/pkg/handoff"
	"github.com/scamshield/scamshield/pkg/pipeline"
	"github.com/scamshield/scamshield/pkg/schema"
	"github.com/scamshield/scamshield/pkg/store"
)

const Version = "0.1.0"

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadTuning(); err != nil {
		log.Fatalf("config: %v", err)
	}

	eventBus := bus.New(bus.WithMaxHistory(cfg.EventHistorySize))

	detectors := detect.NewSet()
	detectors.Historical.Bind(eventBus)

	engine := fusion.NewEngine(cfg.Weights, cfg.Thresholds)
	router := handoff.NewRouter(eventBus)
	service := pipeline.NewService(detectors, engine, router, eventBus)

	sessions := buildSessionStore(cfg)
	honeypot := engage.NewEngine(sessions, eventBus)
	honeypot.Bind(eventBus)

	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.PostgresURL)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		store.NewEventWriter(pool).Bind(eventBus)
		log.Println("✓ event audit trail enabled (postgres)")
	} else {
		log.Println("○ event audit trail disabled (no postgres url)")
	}

	app := fiber.New(fiber.Config{
		AppName: "ScamShield",
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "ok",
			"version":         Version,
			"active_sessions": honeypot.ActiveSessions(),
		})
	})

	app.Post("/detect-scam", func(c fiber.Ctx) error {
		var req schema.DetectorInput
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}

		verdict, err := service.Analyze(req)
		if err != nil {
			if errors.Is(err, pipeline.ErrInvalidInput) {
				return c.Status(400).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(500).JSON(fiber.Map{"error": "analysis failed"})
		}
		return c.JSON(verdict)
	})

	app.Post("/honeypot/engage", func(c fiber.Ctx) error {
		var req struct {
			ConversationID   string  `json:"conversation_id"`
			OriginalSenderID string  `json:"original_sender_id"`
			ScamProbability  float64 `json:"scam_probability"`
			ScamType         string  `json:"scam_type"`
			InitialMessage   string  `json:"initial_message"`
			PersonaKey       string  `json:"persona_key"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if req.ConversationID == "" {
			return c.Status(400).JSON(fiber.Map{"error": "conversation_id is required"})
		}

		key := engage.PersonaKey(req.PersonaKey)
		if req.PersonaKey == "" {
			key = engage.PersonaForScamType(req.ScamType)
		}

		result, err := honeypot.Engage(req.ConversationID, req.OriginalSenderID,
			req.ScamType, req.ScamProbability, req.InitialMessage, key)
		if err != nil {
			if errors.Is(err, engage.ErrInvalidPersona) {
				return c.Status(400).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(500).JSON(fiber.Map{"error": "engagement failed"})
		}
		return c.JSON(result)
	})

	app.Post("/honeypot/message", func(c fiber.Ctx) error {
		var req struct {
			SessionID string `json:"session_id"`
			Message   string `json:"message"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if req.SessionID == "" || req.Message == "" {
			return c.Status(400).JSON(fiber.Map{"error": "session_id and message are required"})
		}

		result, err := honeypot.HandleMessage(req.SessionID, req.Message)
		if err != nil {
			if errors.Is(err, engage.ErrSessionNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "session not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "message handling failed"})
		}
		return c.JSON(result)
	})

	app.Get("/honeypot/session/:id", func(c fiber.Ctx) error {
		session, err := honeypot.Session(c.Params("id"))
		if err != nil {
			if errors.Is(err, engage.ErrSessionNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "session not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "session lookup failed"})
		}
		return c.JSON(session)
	})

	app.Get("/events", func(c fiber.Ctx) error {
		if conversationID := c.Query("conversation_id"); conversationID != "" {
			return c.JSON(eventBus.EventsForConversation(conversationID))
		}
		if eventType := c.Query("type"); eventType != "" {
			return c.JSON(eventBus.EventsByType(bus.EventType(eventType)))
		}
		return c.Status(400).JSON(fiber.Map{"error": "conversation_id or type query parameter is required"})
	})

	log.Printf("ScamShield %s listening on %s", Version, cfg.ListenAddr)
	log.Printf("  POST /detect-scam          - score a conversation")
	log.Printf("  POST /honeypot/engage      - start an engagement")
	log.Printf("  POST /honeypot/message     - relay a scammer message")
	log.Printf("  GET  /honeypot/session/:id - session details")
	log.Printf("  GET  /events               - bus history queries")

	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func buildSessionStore(cfg *config.Config) engage.SessionStore {
	if cfg.RedisAddr == "" {
		log.Println("○ session persistence disabled (in-memory sessions)")
		return engage.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("○ redis unreachable (%v), falling back to in-memory sessions", err)
		return engage.NewMemoryStore()
	}

	log.Println("✓ session persistence enabled (redis)")
	return store.NewRedisSessionStore(client, cfg.SessionTTL)
}
