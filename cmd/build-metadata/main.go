// Утилита одноразовой сборки кэша метаданных.
// Обходит хранилище, строит индекс и пишет JSON файл, который затем
// подхватит сервис. Удобна для прогрева кэша в CI или по cron.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilkoid/sably/internal/app"
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
	verbose := flag.Bool("verbose", false, "печатать категории с количеством файлов")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}

	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	components, err := app.Build(*configPath)
	if err != nil {
		return err
	}

	// Всегда полная перестройка: смысл утилиты именно в свежем листинге
	if err := components.Rec.Refresh(ctx, true); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	snap, ok := components.Cache.Load()
	if !ok {
		return fmt.Errorf("cache file %s was not written", components.Cache.Path())
	}

	fmt.Printf("Metadata cache written: %s\n", components.Cache.Path())
	fmt.Printf("  categories: %d\n", snap.Meta.TotalCategories)
	fmt.Printf("  files:      %d\n", snap.Meta.TotalFiles)
	fmt.Printf("  source:     %s\n", snap.Meta.SourceDescriptor)

	if *verbose {
		for _, name := range snap.CategoryNames() {
			fmt.Printf("  %-20s %d\n", name, len(snap.Categories[name]))
		}
	}

	return nil
}
