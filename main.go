package main

import (
	"log"

	"deskbridge/internal/config"
	"deskbridge/internal/middleware"
	"deskbridge/internal/routes"
	"deskbridge/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("deskbridge: %v", err)
	}

	services.InitAuthService(cfg.AuthSecret, cfg.TokenExpiry)
	services.InitWebSocketHub(cfg.StatsInterval)
	middleware.NewSecurityLogger()

	r := gin.Default()
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.IPWhitelistMiddleware(middleware.NewIPWhitelist(cfg.AllowedIPs)))
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter()))

	var auth []gin.HandlerFunc
	if cfg.AuthDisabled {
		log.Println("[SECURITY] Warning: auth disabled, bridge operations are unauthenticated")
	} else {
		auth = append(auth, middleware.AuthMiddleware())
	}

	routes.RegisterBridgeRoutes(r, auth...)
	routes.RegisterFSRoutes(r, auth...)
	routes.RegisterAuthRoutes(r, middleware.NewTokenRateLimiter())

	log.Printf("DeskBridge listening on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("deskbridge: %v", err)
	}
}
