// @title Pricelist Import API
// @version 1.0
// @description API импорта прайс-листов поставщиков. AI-извлечение строк, нормализация цен и единиц измерения, классификация и дедупликация.

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:8080
// @BasePath /api
// @schemes http https

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricelist/database"
	"pricelist/internal/config"
	"pricelist/server"
)

func main() {
	log.Println("Запуск сервера импорта прайс-листов...")

	// Загружаем конфигурацию
	log.Println("[1/3] Загрузка конфигурации...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("✗ Ошибка загрузки конфигурации: %v", err)
	}
	log.Printf("✓ Конфигурация загружена. Порт: %s", cfg.Port)
	if cfg.AIAPIKey == "" {
		log.Println("⚠ AI_API_KEY не задан: извлечение будет завершаться ошибкой")
	}

	// Открываем базу данных
	log.Println("[2/3] Подключение к базе данных...")
	db, err := database.NewDB(database.DBConfig{
		Path:            cfg.DatabasePath,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("✗ Ошибка открытия базы данных: %v", err)
	}
	defer db.Close()
	log.Printf("✓ База данных открыта: %s", cfg.DatabasePath)

	// Создаем и запускаем сервер
	log.Println("[3/3] Запуск HTTP сервера...")
	srv := server.NewServer(cfg, db)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Ждем сигнала остановки или ошибки сервера
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Получен сигнал: %v", sig)
	case err := <-errChan:
		if err != nil {
			log.Fatalf("✗ Ошибка сервера: %v", err)
		}
		return
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("✗ Ошибка остановки: %v", err)
	}
}
