package server

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/askdeck/askdeck/config"
	"github.com/askdeck/askdeck/internal/chat"
	"github.com/askdeck/askdeck/internal/docs"
	"github.com/askdeck/askdeck/internal/history"
	"github.com/askdeck/askdeck/internal/history/inmemory"
	redis_history "github.com/askdeck/askdeck/internal/history/redis"
	"github.com/askdeck/askdeck/provider"
)

func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(os.Stdout, "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	docSvc := docs.NewService(cfg.Documents, docs.TextExtractor{}, log.New(os.Stdout, "[DOCS] ", log.LstdFlags))
	if cfg.Documents.WarmOnStart {
		n := docSvc.Warm()
		baseLogger.Printf("warmed %d documents from %s", n, cfg.Documents.Dir)
	}

	store, err := newHistoryStore(cfg.Sessions)
	if err != nil {
		return err
	}

	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return err
	}

	engine := chat.NewEngine(docSvc, llm, store, log.New(os.Stdout, "[CHAT] ", log.LstdFlags))

	api := e.Group("/api")
	ch := &ChatHandler{Engine: engine, Store: store}
	ch.Register(api.Group("/chat"))
	dh := &DocsHandler{Docs: docSvc}
	dh.Register(api.Group("/documents"))

	addr := cfg.Server.Address
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	if addr == "" {
		addr = ":10010"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

func newHistoryStore(cfg config.SessionsConfig) (history.Store, error) {
	switch cfg.Backend {
	case "", "inmemory":
		return inmemory.New(cfg.IdleTimeout, log.New(os.Stdout, "[SESSIONS] ", log.LstdFlags)), nil
	case "redis":
		return redis_history.New(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, cfg.IdleTimeout, log.New(os.Stdout, "[SESSIONS] ", log.LstdFlags)), nil
	default:
		return nil, fmt.Errorf("unsupported sessions backend: %s", cfg.Backend)
	}
}
