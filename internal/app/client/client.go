package client

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"

	"edusync/internal/app/client/config"
	"edusync/internal/domain/school"
	"edusync/internal/domain/sync"
	"edusync/internal/infrastructure/metrics"
	"edusync/internal/infrastructure/storage/sqlite"
	"edusync/internal/model"
)

// App клиентское приложение: локальная база, API сервера документов и
// по одному репозиторию на коллекцию. Хранилища создаются один раз и
// передаются во все репозитории.
type App struct {
	config     *config.Config
	log        *slog.Logger
	httpClient *httpClient
	store      *sqlite.Store
	registry   *prometheus.Registry

	students     *sync.Repository[*school.Student]
	fees         *sync.Repository[*school.Fee]
	invoices     *sync.Repository[*school.Invoice]
	transactions *sync.Repository[*school.Transaction]
	products     *sync.Repository[*school.Product]
	vendors      *sync.Repository[*school.Vendor]
	attendance   *sync.Repository[*school.Attendance]
	quizzes      *sync.Repository[*school.Quiz]

	records     map[string]Records
	syncService *SyncService
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := sqlite.Open(ctx, cfg.LocalDriver, cfg.DataPath, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия локального хранилища: %w", err)
	}

	return newApp(cfg, log, store, NewHTTPClient(cfg, log)), nil
}

func newApp(cfg *config.Config, log *slog.Logger, store *sqlite.Store, api *httpClient) *App {
	reg := prometheus.NewRegistry()
	opts := []sync.Option{
		sync.WithRecorder(metrics.NewRecorder(reg)),
		sync.WithStrategy(cfg.SyncStrategy),
	}

	a := &App{
		config:     cfg,
		log:        log,
		httpClient: api,
		store:      store,
		registry:   reg,
		records:    make(map[string]Records, len(school.Collections)),
	}

	a.students = register[*school.Student](a, school.CollectionStudents, opts)
	a.fees = register[*school.Fee](a, school.CollectionFees, opts)
	a.invoices = register[*school.Invoice](a, school.CollectionInvoices, opts)
	a.transactions = register[*school.Transaction](a, school.CollectionTransactions, opts)
	a.products = register[*school.Product](a, school.CollectionProducts, opts)
	a.vendors = register[*school.Vendor](a, school.CollectionVendors, opts)
	a.attendance = register[*school.Attendance](a, school.CollectionAttendance, opts)
	a.quizzes = register[*school.Quiz](a, school.CollectionQuizzes, opts)

	syncers := []sync.Syncer{
		a.students, a.vendors, a.products, a.fees,
		a.invoices, a.transactions, a.attendance, a.quizzes,
	}
	a.syncService = NewSyncService(syncers, cfg.ConfigDir, log)

	return a
}

func register[T school.Record](a *App, name string, opts []sync.Option) *sync.Repository[T] {
	repo := sync.NewRepository[T](
		name,
		sqlite.NewCollection[T](a.store, name),
		NewRemoteCollection[T](a.httpClient, name),
		a.log,
		opts...,
	)
	a.records[name] = erase(repo)
	return repo
}

// Close закрывает локальную базу
func (a *App) Close() error {
	return a.store.Close()
}

// CheckConnection проверяет доступность сервера
func (a *App) CheckConnection(ctx context.Context) error {
	return a.httpClient.HealthCheck(ctx)
}

// Records репозиторий коллекции по имени
func (a *App) Records(collection string) (Records, error) {
	r, ok := a.records[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", school.ErrUnknownCollection, collection)
	}
	return r, nil
}

// Collections имена зарегистрированных коллекций по алфавиту
func (a *App) Collections() []string {
	names := make([]string, 0, len(a.records))
	for name := range a.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *App) LocalCounts(ctx context.Context) (map[string]int, error) {
	return a.store.Counts(ctx)
}

func (a *App) Students() *sync.Repository[*school.Student] { return a.students }
func (a *App) Fees() *sync.Repository[*school.Fee]         { return a.fees }

// AddStudent регистрирует ученика
func (a *App) AddStudent(ctx context.Context, s *school.Student) (sync.WriteResult[*school.Student], error) {
	if s.Status == "" {
		s.Status = school.StudentActive
	}
	return a.students.Insert(ctx, s)
}

// AddFee выставляет начисление ученику
func (a *App) AddFee(ctx context.Context, f *school.Fee) (sync.WriteResult[*school.Fee], error) {
	return a.fees.Insert(ctx, f)
}

// PayFee регистрирует платеж по начислению и сохраняет его в обоих хранилищах
func (a *App) PayFee(ctx context.Context, id string, amount decimal.Decimal) (sync.WriteResult[*school.Fee], error) {
	found, err := a.fees.Get(ctx, id)
	if err != nil {
		return sync.WriteResult[*school.Fee]{}, err
	}
	if !found.Found {
		return sync.WriteResult[*school.Fee]{}, fmt.Errorf("начисление %s: %w", id, model.ErrNotFound)
	}

	fee := found.Value
	if err := fee.Pay(amount); err != nil {
		return sync.WriteResult[*school.Fee]{Record: fee, Remote: sync.OutcomeSkipped}, err
	}
	return a.fees.Update(ctx, fee)
}

// Sync синхронизирует коллекции с сервером, без аргументов все
func (a *App) Sync(ctx context.Context, collections ...string) (*SyncResult, error) {
	return a.syncService.Sync(ctx, collections...)
}

func (a *App) GetSyncService() *SyncService {
	return a.syncService
}

// RemoteCounts счетчики удаленных операций текущего процесса
func (a *App) RemoteCounts() ([]metrics.RemoteCount, error) {
	return metrics.RemoteCounts(a.registry)
}

// RunAutoSync блокирует до отмены контекста, синхронизируя с интервалом из конфигурации
func (a *App) RunAutoSync(ctx context.Context) {
	a.syncService.Run(ctx, a.config.SyncInterval)
}
