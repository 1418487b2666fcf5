// Package app собирает компоненты сервиса из конфигурации.
//
// Сборка вынесена из main чтобы сервер и утилиты командной строки
// строили одну и ту же цепочку: хранилище -> листер -> билдер -> кэш ->
// скоринг -> рекомендер.
package app

import (
	"fmt"

	"github.com/ilkoid/sably/pkg/catalog"
	"github.com/ilkoid/sably/pkg/config"
	"github.com/ilkoid/sably/pkg/emotion"
	"github.com/ilkoid/sably/pkg/metacache"
	"github.com/ilkoid/sably/pkg/recommend"
	"github.com/ilkoid/sably/pkg/s3storage"
	"github.com/ilkoid/sably/pkg/scoring"
	"github.com/ilkoid/sably/pkg/utils"
)

// Components — собранные части сервиса.
type Components struct {
	Cfg     *config.AppConfig
	Storage *s3storage.Client
	Lister  *catalog.Lister
	Builder *catalog.Builder
	Cache   *metacache.Cache
	Rec     *recommend.Recommender
}

// Build загружает конфиг и собирает все компоненты.
func Build(configPath string) (*Components, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	utils.Info("config loaded", "path", configPath, "bucket", cfg.S3.Bucket)

	storage, err := s3storage.New(cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	dict, err := loadDictionary(cfg.Emotions)
	if err != nil {
		return nil, err
	}
	utils.Info("emotion dictionary ready", "emotions", dict.Len())

	engine, err := scoring.NewEngine(
		scoring.Weighted{
			Scorer: scoring.NewKeywordScorer(dict,
				cfg.Algorithm.DirectMatchBonus, cfg.Algorithm.EmotionMatchBonus),
			Weight: cfg.Algorithm.KeywordWeight,
		},
		scoring.Weighted{
			Scorer: scoring.SemanticStub{},
			Weight: cfg.Algorithm.SemanticWeight,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("scoring engine: %w", err)
	}

	lister := catalog.NewLister(storage, cfg.Catalog.RootPrefix, cfg.Catalog.Extensions)
	builder := catalog.NewBuilder(cfg.S3.Bucket, cfg.S3.Endpoint, cfg.Catalog.RootPrefix)
	cache := metacache.New(cfg.Catalog.CacheFile, cfg.Catalog.CacheTTL)

	rec := recommend.New(cfg, lister, builder, cache, engine, recommend.NewRand())

	return &Components{
		Cfg:     cfg,
		Storage: storage,
		Lister:  lister,
		Builder: builder,
		Cache:   cache,
		Rec:     rec,
	}, nil
}

// loadDictionary берёт словарь из файла или встроенный по умолчанию.
func loadDictionary(cfg config.EmotionsConfig) (*emotion.Dictionary, error) {
	if cfg.DictionaryFile == "" {
		return emotion.Default(), nil
	}
	dict, err := emotion.Load(cfg.DictionaryFile)
	if err != nil {
		return nil, fmt.Errorf("emotion dictionary: %w", err)
	}
	return dict, nil
}
