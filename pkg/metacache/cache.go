// Package metacache персистит снапшот индекса стикеров на диск.
//
// Формат артефакта — JSON документ с секциями "metadata" и "categories",
// он обязан round-trip'иться байт-в-байт (внешние потребители читают его
// напрямую). Свежесть определяется по mtime файла и TTL.
package metacache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/ilkoid/sably/pkg/catalog"
	"github.com/ilkoid/sably/pkg/utils"
)

// lockTimeout — сколько ждём файловую блокировку при сохранении.
const lockTimeout = 5 * time.Second

// Cache управляет одним файлом кэша метаданных.
//
// Дисциплина записи: временный файл в той же директории + os.Rename.
// Читатель никогда не видит частично записанный файл: либо старый
// снапшот целиком, либо новый целиком. Конкурентные Save сериализуются
// мьютексом внутри процесса и flock между процессами.
type Cache struct {
	path string
	ttl  time.Duration

	mu sync.Mutex

	// now подменяется в тестах для проверки истечения TTL.
	now func() time.Time
}

// New создает Cache для файла path со временем жизни ttl.
func New(path string, ttl time.Duration) *Cache {
	return &Cache{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Load читает снапшот из кэша.
//
// ok=false (промах) в любом из случаев:
//   - файла нет;
//   - mtime файла старше now-TTL;
//   - JSON не парсится или в нём нет секции categories.
//
// Битый файл — это промах, а не фатальная ошибка: следующая перестройка
// перезапишет его целиком.
func (c *Cache) Load() (*catalog.Snapshot, bool) {
	st, err := os.Stat(c.path)
	if err != nil {
		utils.Debug("metadata cache miss: file not found", "path", c.path)
		return nil, false
	}

	if st.ModTime().Before(c.now().Add(-c.ttl)) {
		utils.Info("metadata cache expired", "path", c.path, "mtime", st.ModTime().Format(time.RFC3339))
		return nil, false
	}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		utils.Warn("metadata cache unreadable, treating as miss", "path", c.path, "error", err)
		return nil, false
	}

	var snap catalog.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		utils.Warn("metadata cache corrupt, treating as miss", "path", c.path, "error", err)
		return nil, false
	}

	// Валидация схемы: categories обязана присутствовать.
	if snap.Categories == nil {
		utils.Warn("metadata cache missing categories section, treating as miss", "path", c.path)
		return nil, false
	}

	utils.Info("metadata cache hit",
		"path", c.path,
		"categories", snap.Meta.TotalCategories,
		"files", snap.Meta.TotalFiles,
		"generated_at", snap.Meta.GeneratedAt)
	return &snap, true
}

// Save атомарно записывает снапшот в файл кэша.
func (c *Cache) Save(snap *catalog.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	release, err := c.acquireFileLock()
	if err != nil {
		return err
	}
	defer release()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal snapshot: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create cache dir %s: %w", dir, err)
	}

	// Временный файл обязан жить в той же директории: os.Rename
	// атомарен только внутри одной файловой системы.
	tmp, err := os.CreateTemp(dir, ".sably-meta-*.json")
	if err != nil {
		return fmt.Errorf("cannot create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot write temp cache file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot sync temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot close temp cache file: %w", err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cannot replace cache file: %w", err)
	}

	utils.Info("metadata cache saved",
		"path", c.path,
		"bytes", len(data),
		"categories", snap.Meta.TotalCategories)
	return nil
}

// Path возвращает путь к файлу кэша.
func (c *Cache) Path() string { return c.path }

// acquireFileLock берёт межпроцессную блокировку рядом с файлом кэша.
//
// Предполагается что кэшем владеет один процесс; блокировка — страховка
// для запуска утилиты build-metadata рядом с работающим сервисом.
func (c *Cache) acquireFileLock() (func(), error) {
	l := flock.New(c.path + ".lock")
	deadline := time.Now().Add(lockTimeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cannot acquire cache lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("another process is writing the cache (lock: %s)", l.Path())
		}
		time.Sleep(100 * time.Millisecond)
	}
}
