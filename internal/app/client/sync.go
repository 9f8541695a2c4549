package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"edusync/internal/domain/school"
	"edusync/internal/domain/sync"
)

const statsFile = "sync_stats.json"

// SyncService массовая синхронизация всех зарегистрированных коллекций
type SyncService struct {
	syncers   []sync.Syncer
	log       *slog.Logger
	statsPath string
	now       func() time.Time

	mu        gosync.RWMutex
	isSyncing bool
	stats     *SyncStats
}

// SyncStats статистика синхронизации, сохраняется между запусками клиента
type SyncStats struct {
	TotalSyncs      int       `json:"total_syncs"`
	LastSuccessful  time.Time `json:"last_successful"`
	LastFailed      time.Time `json:"last_failed"`
	TotalDownloaded int       `json:"total_downloaded"`
	TotalSkipped    int       `json:"total_skipped"`
	TotalErrors     int       `json:"total_errors"`
	AvgSyncDuration float64   `json:"avg_sync_duration"`
}

// SyncResult результат одного прогона
type SyncResult struct {
	Success    bool          `json:"success"`
	Reports    []sync.Report `json:"reports"`
	Downloaded int           `json:"downloaded"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Errors     []string      `json:"errors"`
	Duration   time.Duration `json:"duration"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
}

// NewSyncService создает сервис синхронизации. Коллекции синхронизируются
// в порядке передачи syncers.
func NewSyncService(syncers []sync.Syncer, configDir string, log *slog.Logger) *SyncService {
	s := &SyncService{
		syncers: syncers,
		log:     log.With("component", "sync_service"),
		now:     time.Now,
		stats:   &SyncStats{},
	}
	if configDir != "" {
		s.statsPath = filepath.Join(configDir, statsFile)
		if stats, err := loadStats(s.statsPath); err == nil {
			s.stats = stats
		}
	}
	return s
}

// Sync синхронизирует указанные коллекции, без аргументов все.
// Параллельный запуск отклоняется с sync.ErrSyncInProgress.
func (s *SyncService) Sync(ctx context.Context, collections ...string) (*SyncResult, error) {
	targets, err := s.selectSyncers(collections)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		return nil, sync.ErrSyncInProgress
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	result := &SyncResult{
		StartTime: s.now(),
		Reports:   make([]sync.Report, 0, len(targets)),
		Errors:    []string{},
	}
	s.log.Info("Начало синхронизации", "collections", len(targets))

	var runErr error
	for _, syncer := range targets {
		report, err := syncer.Sync(ctx)
		result.Reports = append(result.Reports, report)
		result.Downloaded += report.Downloaded
		result.Skipped += report.Skipped
		result.Failed += report.Failed
		if report.Err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", report.Collection, report.Err))
		}
		if err != nil {
			runErr = err
			break
		}
	}

	result.EndTime = s.now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Success = runErr == nil && len(result.Errors) == 0 && result.Failed == 0

	s.updateStats(result)

	if result.Success {
		s.log.Info("Синхронизация завершена",
			"downloaded", result.Downloaded,
			"skipped", result.Skipped,
			"duration", result.Duration,
		)
	} else {
		s.log.Warn("Синхронизация завершена с ошибками",
			"downloaded", result.Downloaded,
			"failed", result.Failed,
			"errors", len(result.Errors),
		)
	}

	return result, runErr
}

func (s *SyncService) selectSyncers(collections []string) ([]sync.Syncer, error) {
	if len(collections) == 0 {
		return s.syncers, nil
	}

	byName := make(map[string]sync.Syncer, len(s.syncers))
	for _, syncer := range s.syncers {
		byName[syncer.Collection()] = syncer
	}

	out := make([]sync.Syncer, 0, len(collections))
	for _, name := range collections {
		syncer, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", school.ErrUnknownCollection, name)
		}
		out = append(out, syncer)
	}
	return out, nil
}

func (s *SyncService) updateStats(result *SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := float64(s.stats.TotalSyncs) * s.stats.AvgSyncDuration
	s.stats.TotalSyncs++
	s.stats.AvgSyncDuration = (prev + result.Duration.Seconds()) / float64(s.stats.TotalSyncs)
	s.stats.TotalDownloaded += result.Downloaded
	s.stats.TotalSkipped += result.Skipped
	s.stats.TotalErrors += result.Failed + len(result.Errors)

	if result.Success {
		s.stats.LastSuccessful = result.EndTime
	} else {
		s.stats.LastFailed = result.EndTime
	}

	s.saveStats()
}

// Run синхронизирует все коллекции с интервалом до отмены контекста
func (s *SyncService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Info("Автоматическая синхронизация отключена")
		return
	}

	s.log.Info("Запуск автоматической синхронизации", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Автоматическая синхронизация остановлена")
			return
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil && !errors.Is(err, sync.ErrSyncInProgress) && ctx.Err() == nil {
				s.log.Error("Ошибка автоматической синхронизации", "error", err)
			}
		}
	}
}

// GetStats возвращает копию статистики
func (s *SyncService) GetStats() SyncStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.stats
}

// IsSyncing проверяет, выполняется ли синхронизация
func (s *SyncService) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// ResetStats сбрасывает статистику синхронизации
func (s *SyncService) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = &SyncStats{}
	s.saveStats()
}

func loadStats(path string) (*SyncStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var stats SyncStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// saveStats вызывается под s.mu
func (s *SyncService) saveStats() {
	if s.statsPath == "" {
		return
	}

	data, err := json.MarshalIndent(s.stats, "", "  ")
	if err != nil {
		s.log.Error("Ошибка сериализации статистики", "error", err)
		return
	}

	if err := os.WriteFile(s.statsPath, data, 0600); err != nil {
		s.log.Error("Ошибка записи статистики", "error", err)
	}
}
