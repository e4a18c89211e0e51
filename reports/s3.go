package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/offgate/offgate/config"
)

type S3Store struct {
	client *s3.Client
	bucket string

	// overridable in tests
	now func() time.Time
}

var _ Store = (*S3Store)(nil)

// NewS3FromConfig builds an S3Store from the reports.s3 configuration
// block. An explicit endpoint switches the client to path style for
// S3-compatible stores like MinIO.
func NewS3FromConfig(ctx context.Context) (*S3Store, error) {
	bucket := viper.GetString(config.KeyReportsBucket)
	if bucket == "" {
		return nil, errors.New("no reports bucket configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(viper.GetString(config.KeyReportsRegion)),
	}
	if access := viper.GetString(config.KeyReportsAccess); access != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			access,
			viper.GetString(config.KeyReportsSecret),
			"",
		)))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not load AWS config: %w", err)
	}

	endpoint := viper.GetString(config.KeyReportsEndpoint)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().Str("bucket", bucket).Str("endpoint", endpoint).Msg("connected to report store")

	return &S3Store{
		client: client,
		bucket: bucket,
		now:    time.Now,
	}, nil
}

func (s *S3Store) TodaysFile(ctx context.Context) (*File, error) {
	name := FileNameForDate(s.now())

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not check for today's report: %w", err)
	}

	return &File{
		Name:         name,
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

func (s *S3Store) Download(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	if !ValidFileName(name) {
		return nil, 0, ErrNotFound
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("could not fetch report %s: %w", name, err)
	}

	return out.Body, aws.ToInt64(out.ContentLength), nil
}

func (s *S3Store) List(ctx context.Context) ([]File, error) {
	var files []File

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not list reports: %w", err)
		}

		for _, obj := range page.Contents {
			name := aws.ToString(obj.Key)
			if !ValidFileName(name) {
				continue
			}
			files = append(files, File{
				Name:         name,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	// report names sort the same way as their dates
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name > files[j].Name
	})

	return files, nil
}
