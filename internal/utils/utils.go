package utils

import (
	"go.uber.org/zap"
)

// HandleFatalError завершает процесс, если err не nil. stage попадает в лог,
// чтобы было видно, на каком шаге запуска упали.
// Без логгера - panic.
func HandleFatalError(err error, logger *zap.Logger, stage string) {
	if err == nil {
		return
	}
	if logger == nil {
		panic(stage + ": " + err.Error())
	}
	logger.Fatal("Ошибка запуска", zap.String("stage", stage), zap.Error(err))
}
