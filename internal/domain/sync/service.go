package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"edusync/internal/model"
)

type options struct {
	recorder Recorder
	strategy Strategy
	now      func() time.Time
	newID    func() string
}

type Option func(*options)

func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

func WithStrategy(s Strategy) Option {
	return func(o *options) {
		if s != "" {
			o.strategy = s
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

// Repository согласует локальную и удаленную копии записей одного типа.
//
// Чтение списков идет только из локального хранилища. Запись идет сначала локально,
// затем в удаленное хранилище; ошибка удаленной части логируется и возвращается
// как Outcome, локальная запись не откатывается. Удаление выполняется локально
// всегда, независимо от ответа удаленного хранилища.
type Repository[T model.Entity] struct {
	collection string
	local      LocalStore[T]
	remote     RemoteStore[T]
	log        *slog.Logger
	opts       options
}

var _ Syncer = (*Repository[model.Entity])(nil)

// NewRepository создает репозиторий коллекции поверх переданных хранилищ
func NewRepository[T model.Entity](
	collection string,
	local LocalStore[T],
	remote RemoteStore[T],
	log *slog.Logger,
	opts ...Option,
) *Repository[T] {
	o := options{
		recorder: nopRecorder{},
		strategy: StrategyServer,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Repository[T]{
		collection: collection,
		local:      local,
		remote:     remote,
		log:        log.With("component", "repository", "collection", collection),
		opts:       o,
	}
}

func (r *Repository[T]) Collection() string {
	return r.collection
}

// Observe возвращает последовательность чтения по ID: сначала локальное значение
// (Found=false, если записи нет), затем, если удаленное хранилище ответило,
// удаленное значение, уже сохраненное локально. При ошибке удаленного хранилища
// второго значения нет. Со StrategyNewer более свежая локальная копия не
// перезаписывается и остается последним значением. Канал закрывается после
// последнего значения.
func (r *Repository[T]) Observe(ctx context.Context, id string) <-chan Lookup[T] {
	// Буфер на все значения: горутина не блокируется, даже если читатель ушел
	out := make(chan Lookup[T], 2)

	go func() {
		defer close(out)

		local, err := r.local.Get(ctx, id)
		haveLocal := err == nil
		switch {
		case haveLocal:
			out <- Lookup[T]{Value: local, Found: true, Source: SourceLocal}
		case errors.Is(err, model.ErrNotFound):
			out <- Lookup[T]{Source: SourceLocal}
		default:
			out <- Lookup[T]{Source: SourceLocal, Err: fmt.Errorf("local get %s: %w", id, err)}
			return
		}

		remote, err := r.remote.Get(ctx, id)
		r.observe("get", err)
		if err != nil {
			r.logRemote("get", id, err)
			return
		}
		if r.opts.strategy == StrategyNewer && haveLocal && isNewer(local, remote) {
			r.log.Debug("local copy is newer, remote ignored", "id", id)
			return
		}

		if err := r.local.Upsert(ctx, remote); err != nil {
			out <- Lookup[T]{Source: SourceRemote, Err: fmt.Errorf("local refresh %s: %w", id, err)}
			return
		}
		out <- Lookup[T]{Value: remote, Found: true, Source: SourceRemote}
	}()

	return out
}

// Get дочитывает Observe и возвращает последнее значение
func (r *Repository[T]) Get(ctx context.Context, id string) (Lookup[T], error) {
	var last Lookup[T]
	for l := range r.Observe(ctx, id) {
		if l.Err != nil {
			return last, l.Err
		}
		last = l
	}
	return last, nil
}

func (r *Repository[T]) List(ctx context.Context, filters ...model.Filter) ([]T, error) {
	recs, err := r.local.List(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.collection, err)
	}
	return recs, nil
}

func (r *Repository[T]) Count(ctx context.Context, filters ...model.Filter) (int, error) {
	n, err := r.local.Count(ctx, filters...)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.collection, err)
	}
	return n, nil
}

// Watch живая выборка из локального хранилища
func (r *Repository[T]) Watch(ctx context.Context, filters ...model.Filter) (model.Subscription[[]T], error) {
	sub, err := r.local.Watch(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", r.collection, err)
	}
	return sub, nil
}

// Insert сохраняет новую запись. Пустой ID генерируется на клиенте до локальной записи,
// поэтому локальная и удаленная копии всегда имеют один и тот же ID.
func (r *Repository[T]) Insert(ctx context.Context, rec T) (WriteResult[T], error) {
	if err := validate(rec); err != nil {
		return WriteResult[T]{Record: rec, Remote: OutcomeSkipped}, err
	}
	if rec.GetID() == "" {
		rec.SetID(r.opts.newID())
	}
	rec.Stamp(r.opts.now())

	if err := r.local.Upsert(ctx, rec); err != nil {
		return WriteResult[T]{Record: rec, Remote: OutcomeSkipped}, fmt.Errorf("local insert %s: %w", rec.GetID(), err)
	}

	id, err := r.remote.Insert(ctx, rec)
	if err == nil && id != rec.GetID() {
		r.log.Warn("remote assigned a different id", "id", rec.GetID(), "remote_id", id)
	}
	return r.writeResult(rec, "insert", err), nil
}

// Update перезаписывает существующую запись. Запись без ID отклоняется
// без изменений в обоих хранилищах.
func (r *Repository[T]) Update(ctx context.Context, rec T) (WriteResult[T], error) {
	if rec.GetID() == "" {
		r.opts.recorder.ObserveRemote(r.collection, "update", OutcomeRejected)
		return WriteResult[T]{Record: rec, Remote: OutcomeRejected, RemoteErr: ErrMissingID}, ErrMissingID
	}
	if err := validate(rec); err != nil {
		return WriteResult[T]{Record: rec, Remote: OutcomeSkipped}, err
	}
	rec.Stamp(r.opts.now())

	if err := r.local.Upsert(ctx, rec); err != nil {
		return WriteResult[T]{Record: rec, Remote: OutcomeSkipped}, fmt.Errorf("local update %s: %w", rec.GetID(), err)
	}

	err := r.remote.Update(ctx, rec)
	return r.writeResult(rec, "update", err), nil
}

// Delete удаляет запись сначала в удаленном хранилище, затем локально.
// Локальное удаление выполняется при любом ответе удаленного хранилища,
// возвращается результат удаленной части.
func (r *Repository[T]) Delete(ctx context.Context, id string) (Outcome, error) {
	if id == "" {
		r.opts.recorder.ObserveRemote(r.collection, "delete", OutcomeRejected)
		return OutcomeRejected, ErrMissingID
	}

	err := r.remote.Delete(ctx, id)
	outcome := r.observe("delete", err)
	if err != nil {
		r.logRemote("delete", id, err)
	}

	if err := r.local.Delete(ctx, id); err != nil {
		return outcome, fmt.Errorf("local delete %s: %w", id, err)
	}
	return outcome, nil
}

// Sync загружает всю удаленную коллекцию и перезаписывает локальные копии.
// Записи, которых нет в удаленном хранилище, не удаляются.
func (r *Repository[T]) Sync(ctx context.Context) (Report, error) {
	start := r.opts.now()
	report := Report{Collection: r.collection}

	recs, err := r.remote.List(ctx)
	report.Remote = r.observe("list", err)
	if err != nil {
		r.logRemote("list", "", err)
		report.Err = err
		report.Duration = r.opts.now().Sub(start)
		return report, nil
	}
	report.Fetched = len(recs)

	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			report.Duration = r.opts.now().Sub(start)
			return report, err
		}
		if rec.GetID() == "" {
			r.log.Warn("remote record without id skipped")
			report.Failed++
			continue
		}

		if r.opts.strategy == StrategyNewer && r.localIsNewer(ctx, rec) {
			report.Skipped++
			continue
		}

		if err := r.local.Upsert(ctx, rec); err != nil {
			r.log.Error("failed to store remote record", "id", rec.GetID(), "error", err)
			report.Failed++
			continue
		}
		report.Downloaded++
	}

	r.log.Debug("collection synced",
		"fetched", report.Fetched,
		"downloaded", report.Downloaded,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	report.Duration = r.opts.now().Sub(start)
	return report, nil
}

func (r *Repository[T]) localIsNewer(ctx context.Context, remote T) bool {
	local, err := r.local.Get(ctx, remote.GetID())
	if err != nil {
		return false
	}
	return isNewer(local, remote)
}

// isNewer true, если local изменена позже remote
func isNewer[T model.Entity](local, remote T) bool {
	_, localUpdated := local.Timestamps()
	_, remoteUpdated := remote.Timestamps()
	return localUpdated.After(remoteUpdated)
}

func (r *Repository[T]) writeResult(rec T, op string, err error) WriteResult[T] {
	outcome := r.observe(op, err)
	if err != nil {
		r.logRemote(op, rec.GetID(), err)
	}
	return WriteResult[T]{Record: rec, Remote: outcome, RemoteErr: err}
}

func (r *Repository[T]) observe(op string, err error) Outcome {
	outcome := Classify(err)
	r.opts.recorder.ObserveRemote(r.collection, op, outcome)
	return outcome
}

func (r *Repository[T]) logRemote(op, id string, err error) {
	level := slog.LevelWarn
	if Classify(err) == OutcomeNotFound {
		level = slog.LevelDebug
	}
	r.log.Log(context.Background(), level, "remote operation failed, continuing with local store",
		"op", op,
		"id", id,
		"error", err,
	)
}

// Classify переводит ошибку удаленного хранилища в Outcome
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSynced
	case errors.Is(err, model.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrMissingID), errors.Is(err, ErrRejected):
		return OutcomeRejected
	default:
		return OutcomeUnavailable
	}
}

func validate(rec any) error {
	if v, ok := rec.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}
