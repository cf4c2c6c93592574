package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nfeditor/app/server"
	"nfeditor/store"
	"nfeditor/types"

	"github.com/joho/godotenv"
)

func init() {
	loadEnvVariables()
}

func main() {
	cfg := types.ServerConfigFromEnv()

	st, err := store.Open(context.Background(), cfg.Postgres)
	if err != nil {
		log.Fatal("error to open invoice store: ", err)
	}

	s := server.NewServer(cfg, st)

	go s.Run()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	log.Println("Received shutdown signal, shutting down server...")
	s.Stop()
}

func loadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using process environment")
	}
}
