package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/punktprzejscia/przejscie/internal/ai"
	"github.com/punktprzejscia/przejscie/internal/ai/gemini"
	"github.com/punktprzejscia/przejscie/internal/cardback"
	"github.com/punktprzejscia/przejscie/internal/config"
	"github.com/punktprzejscia/przejscie/internal/deck"
	"github.com/punktprzejscia/przejscie/internal/mailer"
	"github.com/punktprzejscia/przejscie/internal/questions"
	"github.com/punktprzejscia/przejscie/internal/session"
	"github.com/punktprzejscia/przejscie/internal/storage"
	"github.com/punktprzejscia/przejscie/internal/ws"
	staticserver "github.com/punktprzejscia/przejscie/static"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Punkt Przejścia - reflective emotion-card exercise

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                 Port to listen on (default: 8080)
  DB_PATH              SQLite database path (default: ./przejscie.db)
  GEMINI_API_KEY       Gemini API key for card-back generation (optional)
  GEMINI_MODEL         Image model to use (default: gemini-3-pro-image-preview)
  EMAILJS_SERVICE_ID   EmailJS service for submissions
  EMAILJS_TEMPLATE_ID  EmailJS template for submissions
  EMAILJS_PUBLIC_KEY   EmailJS public key
  EMAILJS_BASE_URL     Custom EmailJS base URL (optional)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Punkt Przejścia %s\n", version)
		return
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Config
	cfg := config.FromEnv()
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	if err := run(cfg, port); err != nil {
		log.Fatal(err)
	}
}

// run wires the server and blocks until it exits. Errors return through here
// so deferred cleanup still happens.
func run(cfg config.Config, port string) error {
	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Storage
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// Deck catalog: built-in deck plus any persisted custom decks
	catalog := deck.NewCatalog(deck.BuiltIn())
	customDecks, err := db.ListDecks()
	if err != nil {
		return err
	}
	for _, d := range customDecks {
		if err := catalog.Add(d); err != nil {
			zerologlog.Warn().Err(err).Str("deck", d.ID).Msg("skipping stored deck")
		}
	}

	// Card-back resolver; generation is optional and degrades to the default
	var generator ai.ImageGenerator
	if cfg.GeminiAPIKey != "" {
		g, err := gemini.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			zerologlog.Warn().Err(err).Msg("gemini client unavailable, using default card back")
		} else {
			generator = g
		}
	}
	resolver := cardback.NewResolver(db.KV(), generator, nil)
	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	resolver.Init(initCtx)
	cancel()

	// Draw sessions + socket bridge
	sm := session.NewManager(catalog, questions.NewStatic())
	sock := ws.New(sm)
	sockio := sock.Mount(r)
	defer sockio.Close()

	// Mailer
	mail := mailer.New(cfg.EmailJSServiceID, cfg.EmailJSTemplate, cfg.EmailJSPublicKey, cfg.EmailJSBaseURL)

	api := r.Group("/api")
	registerDeckRoutes(api, catalog, db)
	registerSessionRoutes(api, sm)
	registerCardBackRoutes(api, resolver)
	registerSubmitRoute(api, sm, mail)
	registerHistoryRoutes(api, sm, db)

	// Serve the embedded frontend for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Printf("listening on :%s", port)
	return r.Run(":" + port)
}

type deckSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsCustom    bool   `json:"isCustom"`
	CardCount   int    `json:"cardCount"`
}

func registerDeckRoutes(api *gin.RouterGroup, catalog *deck.Catalog, db *storage.DB) {
	api.GET("/decks", func(c *gin.Context) {
		decks := catalog.List()
		out := make([]deckSummary, len(decks))
		for i, d := range decks {
			out[i] = deckSummary{ID: d.ID, Name: d.Name, Description: d.Description, IsCustom: d.IsCustom, CardCount: len(d.Cards)}
		}
		c.JSON(http.StatusOK, gin.H{"decks": out})
	})

	api.GET("/decks/:id/cards", func(c *gin.Context) {
		d, err := catalog.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "deck_not_found"})
			return
		}
		c.JSON(http.StatusOK, d)
	})

	type createDeckReq struct {
		Name        string           `json:"name"`
		Description string           `json:"description"`
		Cards       []deck.CardInput `json:"cards"`
	}
	api.POST("/decks", func(c *gin.Context) {
		var req createDeckReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		d, err := deck.NewCustom(req.Name, req.Description, req.Cards, func() int { return rand.Intn(1000000) })
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.SaveDeck(d); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save deck"})
			return
		}
		if err := catalog.Add(d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, d)
	})

	api.DELETE("/decks/:id", func(c *gin.Context) {
		id := c.Param("id")
		switch err := catalog.Remove(id); err {
		case nil:
		case deck.ErrDeckNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "deck_not_found"})
			return
		case deck.ErrBuiltInDeck:
			c.JSON(http.StatusForbidden, gin.H{"error": "built-in decks cannot be removed"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := db.DeleteDeck(id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete deck"})
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func registerSessionRoutes(api *gin.RouterGroup, sm *session.Manager) {
	type createSessionReq struct {
		DeckID string `json:"deckId"`
	}
	api.POST("/session", func(c *gin.Context) {
		var req createSessionReq
		if c.Request.ContentLength > 0 {
			if err := c.BindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
				return
			}
		}
		s, err := sm.CreateSession(req.DeckID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "deck_not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "deckId": s.Deck.ID, "state": s.State()})
	})

	api.GET("/session/:id/state", func(c *gin.Context) {
		s, err := sm.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
			return
		}
		c.JSON(http.StatusOK, s.State())
	})

	api.POST("/session/:id/draw", func(c *gin.Context) {
		s, err := sm.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
			return
		}
		if err := s.Draw(); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, s.State())
	})

	api.POST("/session/:id/questions/regenerate", func(c *gin.Context) {
		s, err := sm.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
			return
		}
		switch err := s.RegenerateQuestions(); {
		case err == nil:
			c.JSON(http.StatusAccepted, s.State())
		case errors.Is(err, session.ErrNoCardRevealed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		}
	})
}

func registerCardBackRoutes(api *gin.RouterGroup, resolver *cardback.Resolver) {
	api.GET("/cardback", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"imageRef": resolver.Current(), "isDefault": resolver.IsDefault()})
	})

	api.POST("/cardback", func(c *gin.Context) {
		file, header, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, 4<<20))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
			return
		}
		if err := resolver.Upload(header.Header.Get("Content-Type"), data); err != nil {
			if errors.Is(err, cardback.ErrNotAnImage) || errors.Is(err, cardback.ErrTooLarge) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"imageRef": resolver.Current(), "isDefault": false})
	})

	api.DELETE("/cardback", func(c *gin.Context) {
		if err := resolver.Reset(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"imageRef": resolver.Current(), "isDefault": true})
	})
}

func registerSubmitRoute(api *gin.RouterGroup, sm *session.Manager, mail *mailer.Client) {
	type submitReq struct {
		SessionID string         `json:"sessionId"`
		Contact   mailer.Contact `json:"contact"`
		Answers   map[int]string `json:"answers"`
	}
	api.POST("/submit", func(c *gin.Context) {
		var req submitReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		s, err := sm.Get(req.SessionID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
			return
		}
		st := s.State()
		if st.Card == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no card revealed"})
			return
		}
		if err := req.Contact.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		report := mailer.ComposeReport(req.Contact, st.Card.Name, st.Questions, req.Answers)
		params := mailer.TemplateParams{
			Name:     req.Contact.Name,
			Email:    req.Contact.Email,
			Message:  report,
			CardName: st.Card.Name,
			Phone:    req.Contact.Phone,
			Age:      req.Contact.Age,
			Gender:   req.Contact.Gender,
		}
		if err := mail.Send(c.Request.Context(), params); err != nil {
			msg := err.Error()
			if msg == "" {
				msg = mailer.FallbackErrorMessage
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "sent"})
	})
}

func registerHistoryRoutes(api *gin.RouterGroup, sm *session.Manager, db *storage.DB) {
	api.GET("/history", func(c *gin.Context) {
		records, err := db.ListRecords()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list history"})
			return
		}
		if records == nil {
			records = []session.Record{}
		}
		c.JSON(http.StatusOK, gin.H{"sessions": records})
	})

	type saveHistoryReq struct {
		SessionID string `json:"sessionId"`
		Notes     string `json:"notes"`
	}
	api.POST("/history", func(c *gin.Context) {
		var req saveHistoryReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		s, err := sm.Get(req.SessionID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
			return
		}
		st := s.State()
		if st.Card == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no card revealed"})
			return
		}
		record := session.Record{
			ID:        uuid.NewString(),
			Timestamp: time.Now().UTC(),
			DeckName:  s.Deck.Name,
			Card:      *st.Card,
			Questions: st.Questions,
			Notes:     req.Notes,
		}
		if err := db.SaveRecord(record); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
			return
		}
		c.JSON(http.StatusCreated, record)
	})

	api.DELETE("/history/:id", func(c *gin.Context) {
		if err := db.DeleteRecord(c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete session"})
			return
		}
		c.Status(http.StatusNoContent)
	})
}
