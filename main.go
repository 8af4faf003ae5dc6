package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	log.SetPrefix("macromanage: ")
	log.SetFlags(0)

	// .env is optional in deployed environments where variables are set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env loaded: %v", err)
	}

	pool := getDBPool()
	defer pool.Close()

	h := newHandler(pool)

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "localhost:3000"
	}

	fmt.Printf("Starting macromanage API on %s...\n", addr)
	if err := http.ListenAndServe(addr, withCORS(router)); err != nil {
		log.Fatal(err)
	}
}

// withCORS allows the comma-separated origins in CORS_ORIGINS. With none set
// the handler is returned unwrapped, since an empty list means "*" to cors.
func withCORS(h http.Handler) http.Handler {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(h)
}
