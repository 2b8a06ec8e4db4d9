package main

import (
	"context"
	"log"

	"wallet-core/internal/bootstrap"
)

func main() {
	container, err := bootstrap.New(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := container.Run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
