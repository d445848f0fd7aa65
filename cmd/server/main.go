package main

import (
	"log"

	httpapi "number-duel/internal/api/http"
	"number-duel/internal/api/relay"
	"number-duel/internal/api/ws"
	"number-duel/internal/config"
	"number-duel/internal/room"
	"number-duel/internal/store"
)

func main() {
	cfg := config.Load()
	mem := store.NewMemoryStore()

	queue := httpapi.NewPollQueue()
	dispatch := room.NewDispatcher(queue)
	mgr := room.NewManager(mem, cfg, dispatch)
	hub := ws.NewHub(mgr, dispatch, cfg.AllowOrigin)

	if cfg.NATSURL != "" {
		rl, err := relay.Connect(cfg.NATSURL, mgr, dispatch)
		if err != nil {
			log.Fatalf("relay connect: %v", err)
		}
		defer rl.Close()
		log.Printf("relay connected to %s", cfg.NATSURL)
	}

	r := httpapi.NewRouter(mgr, mem, cfg, hub, queue)
	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
