package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, *params.Bucket, *params.Key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

var q2 = domain.DateRange{
	Start: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
}

func body(t *testing.T, raw domain.RawData) *s3.GetObjectOutput {
	b, err := json.Marshal(raw)
	require.NoError(t, err)
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "snapshots/acme/2025-04-01_2025-06-30.json", Key("snapshots", "acme", q2))
	assert.Equal(t, "acme/2025-04-01_2025-06-30.json", Key("", "acme", q2))
}

func TestSource_FetchRaw(t *testing.T) {
	snapshot := domain.RawData{
		Client: domain.Client{ID: "acme", Name: "Acme Corp"},
		Pickups: []domain.Pickup{
			{ID: "p-1", Location: "Austin", WeightKg: 100},
			{ID: "p-2", Location: "Dallas", WeightKg: 50},
		},
		Assets: []domain.Asset{
			{ID: "a-1", PickupID: "p-1", Category: "laptop"},
			{ID: "a-2", PickupID: "p-2", Category: "laptop"},
		},
	}

	t.Run("decodes the client snapshot", func(t *testing.T) {
		// Given
		client := &mockS3{}
		client.On("GetObject", mock.Anything, "reports", "snapshots/acme/2025-04-01_2025-06-30.json").
			Return(body(t, snapshot), nil).Once()
		src, err := NewSource(client, Settings{Bucket: "reports", Prefix: "snapshots", ClientID: "acme"})
		require.NoError(t, err)

		// When
		raw, err := src.FetchRaw(context.Background(), q2, nil)

		// Then
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", raw.Client.Name)
		assert.Len(t, raw.Pickups, 2)
		client.AssertExpectations(t)
	})

	t.Run("applies filters and client override", func(t *testing.T) {
		client := &mockS3{}
		client.On("GetObject", mock.Anything, "reports", "globex/2025-04-01_2025-06-30.json").
			Return(body(t, snapshot), nil).Once()
		src, err := NewSource(client, Settings{Bucket: "reports", ClientID: "acme"})
		require.NoError(t, err)

		raw, err := src.FetchRaw(context.Background(), q2, domain.Filters{
			domain.FilterClientID: "globex",
			domain.FilterLocation: "Dallas",
		})

		require.NoError(t, err)
		require.Len(t, raw.Pickups, 1)
		require.Len(t, raw.Assets, 1)
		assert.Equal(t, "a-2", raw.Assets[0].ID)
		client.AssertExpectations(t)
	})

	t.Run("missing object", func(t *testing.T) {
		client := &mockS3{}
		client.On("GetObject", mock.Anything, "reports", mock.Anything).
			Return(nil, &types.NoSuchKey{}).Once()
		src, err := NewSource(client, Settings{Bucket: "reports", ClientID: "acme"})
		require.NoError(t, err)

		_, err = src.FetchRaw(context.Background(), q2, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
		assert.Contains(t, err.Error(), "s3://reports/acme/2025-04-01_2025-06-30.json")
	})

	t.Run("transport failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		client := &mockS3{}
		client.On("GetObject", mock.Anything, "reports", mock.Anything).Return(nil, boom).Once()
		src, err := NewSource(client, Settings{Bucket: "reports", ClientID: "acme"})
		require.NoError(t, err)

		_, err = src.FetchRaw(context.Background(), q2, nil)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("corrupt object", func(t *testing.T) {
		client := &mockS3{}
		client.On("GetObject", mock.Anything, "reports", mock.Anything).
			Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("{")))}, nil).Once()
		src, err := NewSource(client, Settings{Bucket: "reports", ClientID: "acme"})
		require.NoError(t, err)

		_, err = src.FetchRaw(context.Background(), q2, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode snapshot")
	})
}

func TestNewSource(t *testing.T) {
	_, err := NewSource(nil, Settings{Bucket: "reports"})
	assert.Error(t, err)

	_, err = NewSource(&mockS3{}, Settings{})
	assert.EqualError(t, err, "bucket is required")

	src, err := NewSource(&mockS3{}, Settings{Bucket: "reports"})
	require.NoError(t, err)
	_, err = src.FetchRaw(context.Background(), q2, nil)
	assert.EqualError(t, err, "client id is required")
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s3.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bucket: reports\nprefix: snapshots\nregion: eu-west-1\n"), 0o600))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, Settings{Bucket: "reports", Prefix: "snapshots", Region: "eu-west-1"}, settings)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
