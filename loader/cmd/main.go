package main

import (
	"context"
	"log"

	"nfeditor/loader/service"
	"nfeditor/store"
	"nfeditor/types"

	"github.com/joho/godotenv"
)

func init() {
	loadEnvVariables()
}

func main() {
	cfg := types.LoaderConfigFromEnv()

	st, err := store.Open(context.Background(), cfg.Postgres)
	if err != nil {
		log.Fatal("error to open invoice store: ", err)
	}

	svc, err := service.New(st, cfg)
	if err != nil {
		log.Fatal("error to create loader: ", err)
	}

	svc.Run()

	log.Println("Closing invoice store...")
	if err := st.Close(); err != nil {
		log.Printf("error closing store: %v\n", err)
	}
}

func loadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using process environment")
	}
}
