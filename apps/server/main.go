package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"idoubtit-lite/apps/server/internal/auth"
	"idoubtit-lite/apps/server/internal/banter"
	"idoubtit-lite/apps/server/internal/gateway"
	"idoubtit-lite/apps/server/internal/lobby"
	"idoubtit-lite/apps/server/internal/prefs"
	"idoubtit-lite/apps/server/internal/table"
	"idoubtit-lite/doubt/npc"
)

func main() {
	authService, authMode, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init auth manager: %v", err)
	}
	defer authService.Close()
	prefsService, prefsMode, err := prefs.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init prefs store: %v", err)
	}
	defer prefsService.Close()

	registry := npc.NewRegistry()
	if path := strings.TrimSpace(os.Getenv("PERSONAS_PATH")); path != "" {
		if err := registry.LoadFromFile(path); err != nil {
			log.Fatalf("[Server] Failed to load personas from %s: %v", path, err)
		}
		log.Printf("[Server] Loaded %d personas", registry.Count())
	}

	var narrator table.Narrator
	banterClient, err := banter.NewFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init banter client: %v", err)
	}
	if banterClient != nil {
		narrator = banterClient
		log.Printf("[Server] Banter enabled")
	}

	lby := lobby.New(registry, narrator)
	defer lby.Close()
	gw := gateway.New(lby, authService, prefsService)
	authHTTP := auth.NewHTTPHandler(authService)
	prefsHTTP := prefs.NewHTTPHandler(prefsService, authService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	authHTTP.RegisterRoutes(mux)
	prefsHTTP.RegisterRoutes(mux)

	addr := ":8080"
	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		addr = v
	}
	log.Printf("[Server] Auth mode: %s", authMode)
	log.Printf("[Server] Prefs mode: %s", prefsMode)
	log.Printf("[Server] Starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}
