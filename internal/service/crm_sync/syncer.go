package crm_sync

import (
	"context"
	"sync"
	"time"

	"master_crm/internal/domain"
	"master_crm/pkg/masker"

	"go.uber.org/zap"
)

// Syncer выгружает новые связи мастер-клиент в таблицу:
// по таймеру и по сигналу после регистрации клиента.
type Syncer struct {
	logger       *zap.Logger
	SheetService domain.SheetService
	ExportRepo   domain.ExportRepo

	interval      time.Duration
	forceUpdateCh chan struct{}
	stopCh        chan struct{}
	stopOnce      sync.Once
	mu            sync.Mutex
}

func NewSyncer(sheetService domain.SheetService, exportRepo domain.ExportRepo, logger *zap.Logger, forceUpdateCh chan struct{}, interval time.Duration) *Syncer {
	return &Syncer{
		logger:        logger.Named("crm_sync"),
		SheetService:  sheetService,
		ExportRepo:    exportRepo,
		interval:      interval,
		forceUpdateCh: forceUpdateCh,
		stopCh:        make(chan struct{}),
	}
}

// Start запускает фоновую синхронизацию. Первая выгрузка - сразу.
func (s *Syncer) Start() {
	go s.backgroundSync()
}

func (s *Syncer) backgroundSync() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.SyncOnce(context.Background())
	for {
		select {
		case <-ticker.C:
			s.SyncOnce(context.Background())
		case <-s.forceUpdateCh:
			s.SyncOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// SyncOnce выгружает все невыгруженные связи. Возвращает, сколько выгружено.
// Ошибка по одной связи не мешает остальным, связь останется в очереди до следующего раза.
func (s *Syncer) SyncOnce(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	rels, err := s.ExportRepo.GetUnsyncedRelationships(ctx)
	if err != nil {
		s.logger.Error("error getting unsynced relationships", zap.Error(err))
		return 0
	}

	synced := 0
	for _, rel := range rels {
		var phone *string
		if rel.Client != nil {
			phone = rel.Client.Phone
		}
		fields := []zap.Field{zap.Uint("relationship_id", rel.ID), masker.PhoneField(phone)}

		row, err := s.SheetService.FindFirstFreeRow()
		if err != nil {
			s.logger.Error("error finding free row", append(fields, zap.Error(err))...)
			continue
		}
		if row <= 1 {
			row = 2 // строка 1 - заголовки, данные с 2-й
		}
		if err := s.SheetService.InsertRelationship(row, rel); err != nil {
			s.logger.Error("error inserting relationship to sheet", append(fields, zap.Error(err))...)
			continue
		}
		if err := s.ExportRepo.UpdateSheetIsSynced(ctx, rel.ID, true); err != nil {
			s.logger.Error("error updating SheetIsSynced", append(fields, zap.Error(err))...)
			continue
		}
		synced++
	}
	if synced > 0 {
		s.logger.Info("relationships exported", zap.Int("count", synced))
	}
	return synced
}

// ForceUpdate немедленно запускает синхронизацию
func (s *Syncer) ForceUpdate() {
	select {
	case s.forceUpdateCh <- struct{}{}:
	default:
	}
}

// Stop останавливает фоновую задачу
func (s *Syncer) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
