package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyra/internal/api"
	"lyra/internal/cache"
	"lyra/internal/clients"
)

const jwstItemsPayload = `[
	{"id":"img-1","observation_id":"jw02734-obs1","program":"2734","file_type":"jpg","location":"https://example.org/1.jpg"},
	{"id":"img-2","observationId":"jw02734-obs2","program":"2734","location":"https://example.org/2.jpg"}
]`

func TestJWSTGetImagesFromCompute(t *testing.T) {
	compute := newFakeCompute()
	compute.imagesFn = func(ctx context.Context, programID string) (*clients.UpstreamEnvelope, error) {
		assert.Equal(t, "2734", programID)
		return okEnvelope(jwstItemsPayload), nil
	}
	direct := &fakeJWST{}

	svc := NewJWSTService(cache.NewMemoryStore(), compute, direct, "2734")

	images, err := svc.GetImages(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, "jw02734-obs1", images[0].ObservationID)
	// Вариант ключа observationId тоже распознается
	assert.Equal(t, "jw02734-obs2", images[1].ObservationID)
	// file_type по умолчанию jpg
	assert.Equal(t, "jpg", images[1].FileType)

	assert.Zero(t, direct.calls)
}

func TestJWSTGetImagesFallsBackToDirect(t *testing.T) {
	compute := newFakeCompute()
	compute.imagesFn = func(ctx context.Context, programID string) (*clients.UpstreamEnvelope, error) {
		return nil, &api.UpstreamError{StatusCode: 502}
	}
	direct := &fakeJWST{
		imagesFn: func(ctx context.Context, programID string) ([]json.RawMessage, error) {
			var items []json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(jwstItemsPayload), &items))
			return items, nil
		},
	}

	svc := NewJWSTService(cache.NewMemoryStore(), compute, direct, "2734")

	images, err := svc.GetImages(context.Background(), "2734")
	require.NoError(t, err)
	assert.Len(t, images, 2)
	assert.Equal(t, 1, direct.calls)
}

func TestJWSTGetImagesEmptyComputePayloadFallsBack(t *testing.T) {
	compute := newFakeCompute()
	compute.imagesFn = func(ctx context.Context, programID string) (*clients.UpstreamEnvelope, error) {
		return okEnvelope(`null`), nil
	}
	direct := &fakeJWST{
		imagesFn: func(ctx context.Context, programID string) ([]json.RawMessage, error) {
			return []json.RawMessage{json.RawMessage(`{"id":"img-direct"}`)}, nil
		},
	}

	svc := NewJWSTService(cache.NewMemoryStore(), compute, direct, "2734")

	images, err := svc.GetImages(context.Background(), "2734")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "img-direct", images[0].ID)
}

func TestJWSTGetImagesBothSourcesFailGiveEmptyList(t *testing.T) {
	compute := newFakeCompute()
	compute.imagesFn = func(ctx context.Context, programID string) (*clients.UpstreamEnvelope, error) {
		return nil, &api.UpstreamError{StatusCode: 503}
	}
	direct := &fakeJWST{
		imagesFn: func(ctx context.Context, programID string) ([]json.RawMessage, error) {
			return nil, &api.UpstreamError{StatusCode: 401, Body: "bad key"}
		},
	}

	svc := NewJWSTService(cache.NewMemoryStore(), compute, direct, "2734")

	// Оба источника недоступны - пустой список без ошибки
	images, err := svc.GetImages(context.Background(), "2734")
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestJWSTGetImagesCachedPerProgram(t *testing.T) {
	compute := newFakeCompute()
	compute.imagesFn = func(ctx context.Context, programID string) (*clients.UpstreamEnvelope, error) {
		return okEnvelope(jwstItemsPayload), nil
	}

	svc := NewJWSTService(cache.NewMemoryStore(), compute, &fakeJWST{}, "2734")
	ctx := context.Background()

	_, err := svc.GetImages(ctx, "2734")
	require.NoError(t, err)
	_, err = svc.GetImages(ctx, "2734")
	require.NoError(t, err)
	assert.Equal(t, 1, compute.calls["images"])

	_, err = svc.GetImages(ctx, "1981")
	require.NoError(t, err)
	assert.Equal(t, 2, compute.calls["images"])
}
