// Диагностическая утилита: сырой листинг bucket без фильтров каталога.
// Показывает что реально лежит в хранилище, когда индекс выглядит странно.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilkoid/sably/pkg/config"
	"github.com/ilkoid/sably/pkg/s3storage"
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
	prefix := flag.String("prefix", "", "префикс листинга (по умолчанию catalog.root_prefix)")
	limit := flag.Int("limit", 0, "остановиться после N объектов (0 = без лимита)")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}

	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	client, err := s3storage.New(cfg.S3)
	if err != nil {
		return err
	}

	listPrefix := *prefix
	if listPrefix == "" {
		listPrefix = cfg.Catalog.RootPrefix
	}

	fmt.Printf("Listing s3://%s/%s\n\n", cfg.S3.Bucket, listPrefix)

	errLimitReached := errors.New("limit reached")

	count := 0
	var totalSize int64
	err = client.WalkObjects(ctx, listPrefix, func(obj s3storage.StoredObject) error {
		count++
		totalSize += obj.Size
		fmt.Printf("%10d  %s  %s\n", obj.Size, obj.LastModified.Format("2006-01-02 15:04"), obj.Key)
		if *limit > 0 && count >= *limit {
			return errLimitReached
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return err
	}

	fmt.Printf("\nTotal: %d objects, %d bytes\n", count, totalSize)
	return nil
}
