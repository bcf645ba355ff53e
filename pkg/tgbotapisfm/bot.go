package tgbotapisfm

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"master_crm/pkg/zaplogger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Config структура для конфигурации бота
type Config struct {
	Token           string           // Токен бота
	Expiration      time.Duration    // Время хранения состояний пользователя, 0 - бессрочно
	CleanupInterval time.Duration    // Интервал очистки кеша
	States          map[string]State // Карта состояний
	DefaultState    string           // Состояние пользователя, для которого ничего не сохранено
}

// Bot структура для бота
type Bot struct {
	BotAPI        *tgbotapi.BotAPI // API бота. Экспортируется для доступа к нему из вне
	expiration    time.Duration    // Время хранения состояний пользователя
	limiter       *Limiter         // Лимитер для ограничения количества запросов к API
	cache         *gocache.Cache   // Кеш для хранения состояний пользователей
	logger        *zap.Logger      // Логгер для записи событий
	states        map[string]State // Состояния пользователя
	globalStates  []*State         // Состояния, в которые может перейти пользователь из любого другого
	defaultState  string           // Состояние по умолчанию
	updateHandler HandlerFunc      // Обработчик, который будет вызываться при получении любого обновления
	mu            sync.RWMutex     // Мьютекс для проверки состояния бота
	statesMu      sync.RWMutex     // Мьютекс для безопасного обновления состояний

	IgnoreList []int64 // Список ID пользователей, которые будут игнорироваться
}

// NewBot конструктор нового бота
// logger - необязательный параметр, если не передан, то будет создан новый логгер
func NewBot(config Config, ignoreList []int64, logger ...*zap.Logger) (*Bot, error) {
	if config.Token == "" {
		return nil, ErrInvalidToken
	}
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	botAPI, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, NewValidationError(ErrTelegramInit, err)
	}

	var zapLogger *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		zapLogger = logger[0]
	} else {
		zapLogger, err = zaplogger.New("info")
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	app := newBot(botAPI, config, ignoreList, zapLogger)
	app.logger.Info("Бот авторизован", zap.String("username", botAPI.Self.UserName))
	return app, nil
}

func validateConfig(config *Config) error {
	// Если карта состояний пуста, то нужно ее иницилизировать, чтобы избежать ошибок
	if config.States == nil {
		config.States = make(map[string]State)
	}
	if config.Expiration < 0 {
		return NewValidationError(ErrNegativeExpiration, config.Expiration)
	}
	if config.CleanupInterval < 0 {
		return NewValidationError(ErrNegativeCleanup, config.CleanupInterval)
	}
	if config.DefaultState != "" {
		if _, ok := config.States[config.DefaultState]; !ok {
			return NewValidationError(ErrStateHandlerNotFound, config.DefaultState)
		}
	}
	return nil
}

func newBot(botAPI *tgbotapi.BotAPI, config Config, ignoreList []int64, logger *zap.Logger) *Bot {
	expiration := config.Expiration
	if expiration == 0 {
		expiration = gocache.NoExpiration
	}
	return &Bot{
		BotAPI:       botAPI,
		limiter:      NewLimiter(),
		cache:        gocache.New(expiration, config.CleanupInterval),
		states:       config.States,
		globalStates: collectGlobal(config.States),
		defaultState: config.DefaultState,
		expiration:   expiration,
		logger:       logger,
		IgnoreList:   ignoreList,
	}
}

// collectGlobal - отдельный список глобальных состояний
func collectGlobal(states map[string]State) []*State {
	globalStates := make([]*State, 0)
	for _, state := range states {
		if state.Global {
			globalStates = append(globalStates, &state)
		}
	}
	return globalStates
}

// SetLogger заменяет текущий логгер
// Должен вызываться до Start()
func (b *Bot) SetLogger(logger *zap.Logger) error {
	if !b.mu.TryRLock() {
		return NewValidationError(ErrBotStarted, "logger")
	}
	defer b.mu.RUnlock()

	b.logger = logger
	return nil
}

// SetUpdateHandler устанавливает обработчик обновлений
// Должен вызываться до Start()
func (b *Bot) SetUpdateHandler(handler HandlerFunc) error {
	if !b.mu.TryRLock() {
		return NewValidationError(ErrBotStarted, "update handler")
	}
	defer b.mu.RUnlock()

	b.updateHandler = handler
	return nil
}

// Username бота, под которым он авторизован
func (b *Bot) Username() string {
	if b.BotAPI == nil {
		return ""
	}
	return b.BotAPI.Self.UserName
}

// Start запускает обработку обновлений в горутине и возвращает канал для ошибок
func (b *Bot) Start(offset, timeout int) chan error {
	errChan := make(chan error, 1)

	if !b.mu.TryLock() {
		b.logger.Warn("Бот уже запущен")
		errChan <- ErrBotStarted
		return errChan
	}

	b.logger.Info("Запуск бота")
	go func() {
		if err := b.HandleUpdates(offset, timeout); err != nil {
			errChan <- err
		}
		close(errChan)
	}()

	return errChan
}

// Stop останавливает обработку обновлений
func (b *Bot) Stop() {
	b.BotAPI.StopReceivingUpdates() // Останавливаем получение обновлений
	b.mu.Unlock()                   // Разблокируем мьютекс, заблокированный в Start()
	b.logger.Info("Остановка обработки обновлений")
}

// HandleUpdates запускает обработку всех обновлений поступающих боту из телеграмма.
// Обновления обрабатываются по одному, в порядке поступления.
// Ошибка обработчика логируется и не останавливает цикл.
func (b *Bot) HandleUpdates(offset, timeout int) error {
	// Настройка обновлений
	u := tgbotapi.NewUpdate(offset)
	u.Timeout = timeout
	updates := b.BotAPI.GetUpdatesChan(u)
	b.logger.Info("Запуск обработки обновлений")

	for update := range updates {
		b.HandleUpdate(update)
	}

	return nil
}

// HandleUpdate обрабатывает одно обновление: общий обработчик, глобальные состояния,
// затем состояние пользователя
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic in update handler", zap.Any("panic", r), zap.Int("update_id", update.UpdateID))
		}
	}()

	// Обработка любого обновления
	if b.updateHandler != nil {
		if err := b.updateHandler(b, update); err != nil {
			b.logger.Error("Ошибка в обработчике обновлений", zap.Error(err))
		}
	}

	from := update.SentFrom()
	if from == nil {
		return
	}
	if slices.Contains(b.IgnoreList, from.ID) {
		return
	}
	if update.FromChat() != nil && slices.Contains(b.IgnoreList, update.FromChat().ID) {
		return
	}

	// Обработка глобальных стейтов
	if b.HandleGlobalStates(update) {
		return
	}

	// Получение названия состояния пользователя
	userStateName, err := b.GetUserState(from.ID)
	if err != nil {
		if !errors.Is(err, ErrStateNotFound) || b.defaultState == "" {
			b.logger.Debug("no state for user", zap.Int64("user_id", from.ID), zap.Error(err))
			return
		}
		userStateName = b.defaultState
	}

	b.statesMu.RLock()
	userState, ok := b.states[userStateName]
	b.statesMu.RUnlock()
	if !ok {
		b.logger.Error("state not found in states map", zap.String("state", userStateName))
		return
	}

	// Обработка обновления по локальному состоянию
	b.SelectHandler(update, &userState)
}

// GetUserState возвращает название состояния, в котором находится пользователь
func (b *Bot) GetUserState(userId int64) (string, error) {
	userStateInterface, ok := b.cache.Get(strconv.FormatInt(userId, 10))
	if !ok {
		return "", ErrStateNotFound
	}

	userState, ok := userStateInterface.(string)
	if !ok {
		return "", ErrInvalidStateType
	}

	return userState, nil
}

// SetUserState меняет состояние пользователя
func (b *Bot) SetUserState(userId int64, state string) error {
	b.statesMu.RLock()
	_, ok := b.states[state]
	b.statesMu.RUnlock()

	if !ok {
		return NewValidationError(ErrStateHandlerNotFound, state)
	}

	b.cache.Set(strconv.FormatInt(userId, 10), state, b.expiration)
	return nil
}

// ClearUserState возвращает пользователя в состояние по умолчанию
func (b *Bot) ClearUserState(userId int64) {
	b.cache.Delete(strconv.FormatInt(userId, 10))
}

// HandleGlobalStates проверяет подходит ли действие пользователя под
// глобальные состояния и если подходит, то выполняет его.
// Возвращает true, если обработчик нашелся.
// CatchAllFunc у глобальных состояний не вызывается, иначе они перехватят все.
func (b *Bot) HandleGlobalStates(update tgbotapi.Update) bool {
	b.statesMu.RLock()
	globalStates := b.globalStates
	b.statesMu.RUnlock()

	for _, state := range globalStates {
		global := *state
		global.CatchAllFunc = nil
		if b.SelectHandler(update, &global) {
			return true
		}
	}
	return false
}

// SelectHandler ищет в состоянии обработчик для обновления и выполняет его.
// Возвращает true, если нашелся обработчик (не CatchAll).
func (b *Bot) SelectHandler(update tgbotapi.Update, userState *State) bool {
	switch {
	case update.Message != nil:
		return b.handleMessage(userState, update)
	case update.CallbackQuery != nil:
		return b.handleCallback(userState, update)
	}
	return false
}

func (b *Bot) run(kind, key string, handler Handler, update tgbotapi.Update) {
	from := update.SentFrom()
	fields := []zap.Field{zap.String(kind, key)}
	if from != nil {
		fields = append(fields, zap.Int64("user_id", from.ID), zap.String("username", from.UserName))
	}

	if err := handler.Handle(b, update); err != nil {
		b.logger.Error("failed to handle "+kind, append(fields, zap.Error(err))...)
		return
	}
	b.logger.Debug(kind+" handled successfully", fields...)
}

// handleMessage ищет команду или текст в map'ах и выполняет обработчик
func (b *Bot) handleMessage(userState *State, update tgbotapi.Update) bool {
	msg := update.Message

	if msg.IsCommand() {
		command := strings.ToLower(msg.Command())
		if handler, ok := userState.CommandHandlers[command]; ok {
			b.run("command", command, handler, update)
			return true
		}
	}

	text := strings.ToLower(strings.TrimSpace(msg.Text))
	if handler, ok := userState.MessageHandlers[text]; ok && text != "" {
		b.run("message", text, handler, update)
		return true
	}

	if userState.CatchAllFunc != nil {
		b.run("message", "catch_all", *userState.CatchAllFunc, update)
		return false
	}

	b.logger.Debug("message handler not found",
		zap.String("text", msg.Text),
		zap.Int64("chat_id", msg.Chat.ID),
	)
	return false
}

// handleCallback ищет data кнопки в map'е и выполняет обработчик
func (b *Bot) handleCallback(userState *State, update tgbotapi.Update) bool {
	data := update.CallbackQuery.Data

	if handler, ok := userState.CallbackHandlers[data]; ok {
		b.run("callback", data, handler, update)
		return true
	}

	if userState.CatchAllFunc != nil {
		b.run("callback", "catch_all", *userState.CatchAllFunc, update)
		return false
	}

	b.logger.Debug("callback handler not found",
		zap.String("callback", data),
		zap.Int64("user_id", update.CallbackQuery.From.ID),
	)
	return false
}
