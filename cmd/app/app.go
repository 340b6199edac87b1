package main

import (
	"github.com/hermes-labs/catalog-service/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// .env опционален: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	app.Run()
}
