package config

import (
	"errors"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ConfigFile структура предоставляет путь к файлу, а также указатель на структуру.
// Config - указатель на структуру.
// Структуры могу содержать теги envconfig и godotenv.
type ConfigFile struct {
	// Путь к файлу.
	Path string
	// Конфигурация - указатель на структуру.
	Config interface{}
}

// LoadConfigFiles предоставляет возможность загрузки сразу нескольких конфигурационных файлов
// и анмаршалинга в структуры. Отсутствующий файл - ошибка.
func LoadConfigFiles(configFiles ...*ConfigFile) error {
	for _, configFile := range configFiles {
		if configFile.Path != "" {
			if err := godotenv.Load(configFile.Path); err != nil {
				return err
			}
		}

		if err := process(configFile.Config); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfigs предоставляет возможность загрузки сразу нескольких конфигураций и анмаршалинга в структуры.
//   - config - ссылки на структуры. Структуры могу содержать теги envconfig и validate.
func LoadConfigs(config ...interface{}) error {
	for _, cfg := range config {
		if err := process(cfg); err != nil {
			return err
		}
	}
	return nil
}

// LoadEnvFile подгружает .env, если он есть. В отличие от LoadConfigFiles
// отсутствие файла не ошибка: в проде переменные приходят из окружения.
func LoadEnvFile(path string, logger *zap.Logger) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("no .env file found, using environment variables", zap.String("path", path))
		return nil
	}
	return err
}

func process(cfg interface{}) error {
	if err := envconfig.Process("", cfg); err != nil {
		return err
	}
	return validate.Struct(cfg)
}
