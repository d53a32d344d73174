// Package snapshot serves report raw data from JSON snapshots kept in S3.
// Objects are keyed <prefix>/<client>/<start>_<end>.json with ISO dates.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/ewaste-reports/pkg/adapters"
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	DefaultRegion = "us-east-1"
	dateLayout    = "2006-01-02"
)

// ErrSnapshotNotFound is returned when no object exists for the requested period
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ObjectGetter is the subset of the S3 client the source needs
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Settings struct {
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	ClientID string `mapstructure:"client_id"`
	Profile  string `mapstructure:"profile"`
	Region   string `mapstructure:"region"`
}

type Source struct {
	client   ObjectGetter
	settings Settings
}

// LoadSettings reads snapshot settings from a profile file.
func LoadSettings(profilePath string) (Settings, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse snapshot config: %w", err)
	}
	return settings, nil
}

func NewSource(client ObjectGetter, settings Settings) (*Source, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if settings.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &Source{client: client, settings: settings}, nil
}

// NewSourceFromProfile builds the S3 client from a shared AWS config profile.
func NewSourceFromProfile(ctx context.Context, settings Settings) (*Source, error) {
	cfg, err := LoadConfig(ctx, settings.Profile, settings.Region)
	if err != nil {
		return nil, err
	}
	return NewSource(s3.NewFromConfig(*cfg), settings)
}

func LoadConfig(ctx context.Context, profile, region string) (*awssdk.Config, error) {
	if region == "" {
		region = DefaultRegion
	}
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(region)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &awsCfg, nil
}

// Key returns the object key holding the snapshot of a client's period.
func Key(prefix, clientID string, dr domain.DateRange) string {
	name := fmt.Sprintf("%s_%s.json", dr.Start.Format(dateLayout), dr.End.Format(dateLayout))
	return path.Join(prefix, clientID, name)
}

func (s *Source) FetchRaw(ctx context.Context, dr domain.DateRange, filters domain.Filters) (*domain.RawData, error) {
	logger := zerolog.Ctx(ctx)

	clientID := s.settings.ClientID
	if id := filters[domain.FilterClientID]; id != "" {
		clientID = id
	}
	if clientID == "" {
		return nil, fmt.Errorf("client id is required")
	}

	key := Key(s.settings.Prefix, clientID, dr)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(s.settings.Bucket),
		Key:    awssdk.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrSnapshotNotFound, s.settings.Bucket, key)
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer func() {
		if err := out.Body.Close(); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to close object body")
		}
	}()

	var raw domain.RawData
	if err := json.NewDecoder(out.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}

	logger.Debug().Str("bucket", s.settings.Bucket).Str("key", key).Msg("snapshot loaded")
	return adapters.FilterRawData(&raw, filters[domain.FilterLocation], filters[domain.FilterCategory]), nil
}
