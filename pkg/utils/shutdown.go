// Graceful shutdown сервиса рекомендаций.
//
// Сервис завершается корректно при получении сигнала:
//   - SIGINT (Ctrl+C)
//   - SIGTERM (kill, оркестратор)
//
// Отмена контекста прерывает листинг хранилища и останавливает HTTP
// сервер; логи дописываются и файл закрывается при выходе из main.
package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupGracefulShutdown устанавливает обработчик сигналов.
//
// Возвращает функцию очистки для вызова через defer:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer SetupGracefulShutdown(cancel)()
//
// При получении сигнала отменяется контекст; перестройка индекса и
// HTTP сервер обязаны проверять ctx и завершаться сами.
//
// Rule 11: Уважает context.Context для распространения отмены.
func SetupGracefulShutdown(cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		Info("Received signal, shutting down gracefully", "signal", sig.String())
		cancel()
	}()

	return func() {
		// Закрываем лог-файл (безопасно вызывать всегда)
		Close()
	}
}

// SetupGracefulShutdownWithContext создаёт контекст и настраивает
// graceful shutdown. Обёртка для типичного main:
//
//	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
//	defer shutdown()
func SetupGracefulShutdownWithContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	shutdown := SetupGracefulShutdown(cancel)
	return ctx, shutdown
}
