package config

import "time"

type Config struct {
	MasterBotConfig
	ClientBotConfig
	DBConfig
	FlowConfig
	LogConfig
	GoogleSheetConfig
}

// Бот для мастеров
type MasterBotConfig struct {
	MasterToken string `envconfig:"MASTER_BOT_TOKEN" required:"true" masked:"true" validate:"required"`
}

// Бот для клиентов. Username нужен для ссылки-приглашения,
// если не задан, то берется у самого бота после авторизации.
type ClientBotConfig struct {
	ClientToken    string `envconfig:"CLIENT_BOT_TOKEN" required:"true" masked:"true" validate:"required"`
	ClientUsername string `envconfig:"CLIENT_BOT_USERNAME"`
}

type DBConfig struct {
	Driver string `envconfig:"DB_DRIVER" default:"postgres" validate:"oneof=postgres sqlite"`

	User   string `envconfig:"DBUSER" masked:"true" validate:"required_if=Driver postgres"`
	Pass   string `envconfig:"DBPASS" masked:"true"`
	Host   string `envconfig:"DBHOST" masked:"true" validate:"required_if=Driver postgres"`
	DBName string `envconfig:"DBNAME" masked:"true" validate:"required_if=Driver postgres"`

	Port    string `envconfig:"DBPORT" default:"5432" masked:"true"`
	SSLMode string `envconfig:"DBSSLMODE" default:"disable" masked:"true"`

	SQLitePath string `envconfig:"DB_SQLITE_PATH" default:"db.sqlite3"`
}

type FlowConfig struct {
	// 0 - незавершенная регистрация хранится бессрочно
	TTL            time.Duration `envconfig:"FLOW_TTL" default:"0" validate:"gte=0"`
	BirthdayPolicy string        `envconfig:"BIRTHDAY_POLICY" default:"skip" validate:"oneof=skip reprompt"`
	HandlerTimeout time.Duration `envconfig:"HANDLER_TIMEOUT" default:"10s" validate:"gt=0"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// Выгрузка клиентов в Google Sheets. Выключена, если SheetID пустой.
type GoogleSheetConfig struct {
	SheetID           string        `envconfig:"SHEET_ID" masked:"true"`
	ClientListID      string        `envconfig:"CLIENT_LIST_ID" masked:"true" validate:"required_with=SheetID"`
	CredentialsBase64 string        `envconfig:"CREDENTIALS_BASE64" masked:"true" validate:"required_with=SheetID"`
	PauseMs           int           `envconfig:"SHEET_PAUSE_MS" validate:"gte=0"`
	SyncInterval      time.Duration `envconfig:"SHEET_SYNC_INTERVAL" default:"10m" validate:"gt=0"`
}

func (c GoogleSheetConfig) Enabled() bool {
	return c.SheetID != ""
}
