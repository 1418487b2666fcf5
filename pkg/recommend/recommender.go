package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ilkoid/sably/pkg/catalog"
	"github.com/ilkoid/sably/pkg/config"
	"github.com/ilkoid/sably/pkg/metacache"
	"github.com/ilkoid/sably/pkg/scoring"
	"github.com/ilkoid/sably/pkg/utils"
)

// Recommender — фасад всей подсистемы рекомендаций.
//
// Владеет текущим снапшотом индекса и двумя операциями над ним:
// Refresh (загрузка из кэша либо полная перестройка из хранилища)
// и Recommend (подбор стикеров под текст). Потокобезопасен.
type Recommender struct {
	cfg     *config.AppConfig
	lister  *catalog.Lister
	builder *catalog.Builder
	cache   *metacache.Cache
	sel     selector

	// limiter гасит шквал форсированных перестроек: полный листинг
	// бакета дорог, а /refresh доступен снаружи.
	limiter *rate.Limiter

	// refreshMu сериализует перестройки: параллельные Refresh не должны
	// дважды ходить в хранилище за одним и тем же листингом.
	refreshMu sync.Mutex

	mu       sync.RWMutex
	snap     *catalog.Snapshot
	loadedAt time.Time
}

// New создает Recommender поверх готовых компонентов.
func New(cfg *config.AppConfig, lister *catalog.Lister, builder *catalog.Builder,
	cache *metacache.Cache, engine *scoring.Engine, rng Rand) *Recommender {
	return &Recommender{
		cfg:     cfg,
		lister:  lister,
		builder: builder,
		cache:   cache,
		sel:     selector{engine: engine, rng: rng},
		limiter: rate.NewLimiter(rate.Every(cfg.Recommend.RefreshMinInterval), 1),
	}
}

// Refresh актуализирует индекс.
//
// force=false: сначала дисковый кэш, перестройка только при промахе.
// force=true: кэш игнорируется, всегда полная перестройка; частота
// ограничена лимитером, отказ — ErrRefreshThrottled.
//
// При ошибке листинга текущий снапшот остаётся на месте: лучше отдавать
// чуть устаревшие рекомендации, чем никакие.
func (r *Recommender) Refresh(ctx context.Context, force bool) error {
	if force && !r.limiter.Allow() {
		utils.Warn("forced refresh throttled",
			"min_interval", r.cfg.Recommend.RefreshMinInterval.String())
		return ErrRefreshThrottled
	}

	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	if !force {
		if snap, ok := r.cache.Load(); ok {
			r.swap(snap)
			return nil
		}
	}

	snap, err := r.rebuild(ctx)
	if err != nil {
		return err
	}

	if err := r.cache.Save(snap); err != nil {
		// Неперсистированный снапшот всё равно рабочий
		utils.Warn("cannot persist rebuilt index", "error", err)
	}

	r.swap(snap)
	return nil
}

// rebuild выполняет полный цикл листинг → сборка.
func (r *Recommender) rebuild(ctx context.Context) (*catalog.Snapshot, error) {
	utils.Info("rebuilding emoji index", "timeout", r.cfg.Catalog.ListTimeout.String())

	listCtx, cancel := context.WithTimeout(ctx, r.cfg.Catalog.ListTimeout)
	defer cancel()

	records, err := r.lister.List(listCtx)
	if err != nil {
		return nil, fmt.Errorf("index rebuild failed: %w", err)
	}

	return r.builder.Build(records), nil
}

// swap атомарно заменяет снапшот.
func (r *Recommender) swap(snap *catalog.Snapshot) {
	r.mu.Lock()
	r.snap = snap
	r.loadedAt = time.Now()
	r.mu.Unlock()
}

// current отдаёт снапшот для чтения. nil = индекс ещё не загружался.
func (r *Recommender) current() *catalog.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Recommend подбирает topK стикеров под текст.
//
// Валидация входа строгая: пустой текст и topK вне сконфигурированных
// границ отклоняются, а не исправляются молча.
func (r *Recommender) Recommend(text string, topK int) ([]Recommendation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text must not be empty")
	}
	if err := r.cfg.Recommend.ValidateTopK(topK); err != nil {
		return nil, err
	}

	snap := r.current()
	if snap == nil {
		return nil, ErrIndexNotLoaded
	}
	if snap.IsEmpty() {
		return nil, ErrEmptyIndex
	}

	recs := r.sel.pick(snap, text, topK)

	utils.Debug("recommendation served",
		"text_len", len(text),
		"top_k", topK,
		"returned", len(recs))
	return recs, nil
}

// Scores отдаёт скор каждой категории для текста, отсортированный по
// убыванию. Диагностический срез для /scores, URL не выбирает.
func (r *Recommender) Scores(text string) ([]ScoreResult, error) {
	snap := r.current()
	if snap == nil {
		return nil, ErrIndexNotLoaded
	}
	scores, _ := r.sel.scoreCategories(snap, text)
	return scores, nil
}

// Loaded сообщает, загружен ли индекс хотя бы раз.
func (r *Recommender) Loaded() bool {
	return r.current() != nil
}

// Stats возвращает статистику текущего индекса для /status.
func (r *Recommender) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snap == nil {
		return Stats{}
	}
	return Stats{
		TotalCategories:  r.snap.Meta.TotalCategories,
		TotalFiles:       r.snap.Meta.TotalFiles,
		LoadedAt:         r.loadedAt.Format(time.RFC3339),
		SourceDescriptor: r.snap.Meta.SourceDescriptor,
	}
}
