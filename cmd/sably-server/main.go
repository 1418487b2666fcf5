// HTTP сервис рекомендаций стикеров.
// Основная точка входа для продакшн запуска.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilkoid/sably/internal/app"
	"github.com/ilkoid/sably/internal/server"
	"github.com/ilkoid/sably/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	// 0. Инициализируем логгер
	if err := utils.InitLogger(); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}

	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	utils.Info("Application started", "version", "1.0")

	// 1. Собираем компоненты
	components, err := app.Build(*configPath)
	if err != nil {
		utils.Error("Bootstrap failed", "error", err)
		return err
	}

	// 2. Первичная загрузка индекса: сначала дисковый кэш, при промахе
	// полная перестройка. Неудача не фатальна, сервис поднимется и
	// будет отдавать 503 до первого успешного /refresh.
	if err := components.Rec.Refresh(ctx, false); err != nil {
		utils.Warn("Initial index load failed, serving without index", "error", err)
	} else {
		stats := components.Rec.Stats()
		utils.Info("Index ready",
			"categories", stats.TotalCategories,
			"files", stats.TotalFiles)
	}

	// 3. Поднимаем HTTP сервер
	srv := server.New(components.Cfg, components.Rec)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		return srv.Shutdown()
	case err := <-errCh:
		if err != nil {
			utils.Error("HTTP server failed", "error", err)
		}
		return err
	}
}
