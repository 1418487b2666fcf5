package recommend

import "errors"

// ErrIndexNotLoaded — Recommend() вызван до первой успешной загрузки
// или сборки индекса. Лечится вызовом Refresh.
var ErrIndexNotLoaded = errors.New("emoji index is not loaded yet")

// ErrEmptyIndex — индекс загружен, но в нём нет ни одной категории.
// Пустой список рекомендаций молча не возвращаем.
var ErrEmptyIndex = errors.New("emoji index contains no categories")

// ErrRefreshThrottled — форсированная перестройка отклонена лимитером.
var ErrRefreshThrottled = errors.New("forced refresh throttled, try again later")
