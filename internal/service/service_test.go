package service

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"lyra/internal/clients"
	"lyra/internal/models"
)

// Заглушки клиентов и репозиториев для тестов сервисного слоя

type fakeCompute struct {
	currentFn func(ctx context.Context) (*clients.UpstreamEnvelope, error)
	fetchFn   func(ctx context.Context) (*clients.UpstreamEnvelope, error)
	historyFn func(ctx context.Context, start, end string, limit int) (*clients.UpstreamEnvelope, error)
	syncFn    func(ctx context.Context) (*clients.UpstreamEnvelope, error)
	listFn    func(ctx context.Context) (*clients.UpstreamEnvelope, error)
	imagesFn  func(ctx context.Context, programID string) (*clients.UpstreamEnvelope, error)
	calls     map[string]int
}

func newFakeCompute() *fakeCompute {
	return &fakeCompute{calls: make(map[string]int)}
}

func (f *fakeCompute) CurrentPosition(ctx context.Context) (*clients.UpstreamEnvelope, error) {
	f.calls["current"]++
	return f.currentFn(ctx)
}

func (f *fakeCompute) FetchPosition(ctx context.Context) (*clients.UpstreamEnvelope, error) {
	f.calls["fetch"]++
	return f.fetchFn(ctx)
}

func (f *fakeCompute) History(ctx context.Context, start, end string, limit int) (*clients.UpstreamEnvelope, error) {
	f.calls["history"]++
	return f.historyFn(ctx, start, end, limit)
}

func (f *fakeCompute) SyncDatasets(ctx context.Context) (*clients.UpstreamEnvelope, error) {
	f.calls["sync"]++
	return f.syncFn(ctx)
}

func (f *fakeCompute) ListDatasets(ctx context.Context) (*clients.UpstreamEnvelope, error) {
	f.calls["list"]++
	return f.listFn(ctx)
}

func (f *fakeCompute) ProgramImages(ctx context.Context, programID string) (*clients.UpstreamEnvelope, error) {
	f.calls["images"]++
	return f.imagesFn(ctx, programID)
}

func (f *fakeCompute) Raw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	f.calls["raw"]++
	return nil, nil
}

func okEnvelope(data string) *clients.UpstreamEnvelope {
	return &clients.UpstreamEnvelope{OK: true, Data: json.RawMessage(data)}
}

func failEnvelope(message string) *clients.UpstreamEnvelope {
	return &clients.UpstreamEnvelope{OK: false, ErrorMessage: message}
}

type fakeJWST struct {
	imagesFn func(ctx context.Context, programID string) ([]json.RawMessage, error)
	calls    int
}

func (f *fakeJWST) ProgramImages(ctx context.Context, programID string) ([]json.RawMessage, error) {
	f.calls++
	return f.imagesFn(ctx, programID)
}

type fakeIssRepo struct {
	upserted []models.IssPosition
	history  []models.IssPosition
}

func (f *fakeIssRepo) Upsert(ctx context.Context, position *models.IssPosition) error {
	f.upserted = append(f.upserted, *position)
	return nil
}

func (f *fakeIssRepo) GetLast(ctx context.Context) (*models.IssPosition, error) {
	if len(f.upserted) == 0 {
		return nil, nil
	}
	return &f.upserted[len(f.upserted)-1], nil
}

func (f *fakeIssRepo) GetHistory(ctx context.Context, start, end *time.Time, limit int) ([]models.IssPosition, error) {
	return f.history, nil
}

func (f *fakeIssRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.upserted)), nil
}

type fakeOsdrRepo struct {
	stored        []models.OsdrDataset
	batchUpserted [][]models.OsdrDataset
	batchErr      error
}

func (f *fakeOsdrRepo) Upsert(ctx context.Context, item *models.OsdrDataset) error {
	f.stored = append(f.stored, *item)
	return nil
}

func (f *fakeOsdrRepo) BatchUpsert(ctx context.Context, items []models.OsdrDataset, batchSize int) (int64, error) {
	f.batchUpserted = append(f.batchUpserted, items)
	if f.batchErr != nil {
		return 0, f.batchErr
	}
	return int64(len(items)), nil
}

func (f *fakeOsdrRepo) GetAll(ctx context.Context, limit int) ([]models.OsdrDataset, error) {
	if limit > len(f.stored) {
		limit = len(f.stored)
	}
	return f.stored[:limit], nil
}

func (f *fakeOsdrRepo) FindByDatasetID(ctx context.Context, datasetID string) (*models.OsdrDataset, error) {
	for i := range f.stored {
		if f.stored[i].DatasetID == datasetID {
			return &f.stored[i], nil
		}
	}
	return nil, nil
}

func (f *fakeOsdrRepo) Search(ctx context.Context, query string, limit int) ([]models.OsdrDataset, error) {
	return nil, nil
}

func (f *fakeOsdrRepo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	return 0, nil
}

func (f *fakeOsdrRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.stored)), nil
}

type fakeAstro struct {
	eventsFn func(ctx context.Context, lat, lon float64, days int) (map[string]interface{}, error)
	calls    int
}

func (f *fakeAstro) Events(ctx context.Context, lat, lon float64, days int) (map[string]interface{}, error) {
	f.calls++
	return f.eventsFn(ctx, lat, lon, days)
}

func (f *fakeAstro) Bodies(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (f *fakeAstro) MoonPhase(ctx context.Context, date time.Time) (map[string]interface{}, error) {
	return map[string]interface{}{"date": date.Format("2006-01-02")}, nil
}
