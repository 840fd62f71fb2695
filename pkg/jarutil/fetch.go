package jarutil

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	"github.com/vcf-sdk/classindex/pkg/logutil"
	"github.com/vcf-sdk/classindex/pkg/runutil"
)

// S3URL points to an object in S3.
type S3URL struct {
	Bucket string
	Key    string
}

// ParseS3URL parses URLs in the form s3://bucket/key.
func ParseS3URL(raw string) (*S3URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse S3 URL")
	}

	if u.Scheme != "s3" {
		return nil, errors.Errorf("unknown scheme %q for the S3 URL", u.Scheme)
	}

	key := strings.TrimPrefix(path.Clean(u.Path), "/")
	if u.Host == "" || key == "" || key == "." {
		return nil, errors.Errorf("S3 URL %s needs a bucket and a key", raw)
	}

	return &S3URL{
		Bucket: u.Host,
		Key:    key,
	}, nil
}

func (u S3URL) String() string {
	return "s3://" + u.Bucket + "/" + u.Key
}

// IsRemote returns true, if the location needs to be fetched before it can be
// opened.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// Downloader is the subset of the S3 transfer manager that is needed to fetch
// archives.
type Downloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error)
}

// DefaultFetchAttempts is the number of download attempts, if Fetcher.Attempts
// is not set.
const DefaultFetchAttempts = 3

// Fetcher makes archives available on the local file system. Failed downloads
// are retried, unless the object does not exist.
type Fetcher struct {
	Downloader Downloader

	Attempts int
	Backoff  runutil.Backoff
}

// NewS3Fetcher creates a Fetcher that uses the default AWS credential chain.
func NewS3Fetcher(ctx context.Context) (*Fetcher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithDefaultRegion("eu-west-1"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	return &Fetcher{
		Downloader: manager.NewDownloader(s3.NewFromConfig(cfg)),
	}, nil
}

// Fetch returns a local path for the location. Local paths are returned
// unchanged. S3 objects are downloaded into dir, keeping their base name.
func (f *Fetcher) Fetch(ctx context.Context, location string, dir string) (string, error) {
	if !IsRemote(location) {
		return location, nil
	}

	u, err := ParseS3URL(location)
	if err != nil {
		return "", err
	}

	target := filepath.Join(dir, path.Base(u.Key))
	logutil.Get(ctx).Info("downloading archive",
		"source", u.String(),
		"target", target,
	)

	err = runutil.Retry(ctx, f.attempts(), f.backoff(), func(ctx context.Context) error {
		return f.download(ctx, u, target)
	})
	if err != nil {
		os.Remove(target)
		return "", err
	}

	return target, nil
}

func (f *Fetcher) download(ctx context.Context, u *S3URL, target string) error {
	w, err := os.Create(target)
	if err != nil {
		return runutil.Permanent(errors.Wrapf(err, "failed to create %s", target))
	}
	defer w.Close()

	_, err = f.Downloader.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(u.Key),
	})
	if err != nil {
		var (
			noSuchKey *types.NoSuchKey
			notFound  *types.NotFound
		)
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return runutil.Permanent(errors.Wrapf(ErrNotFound, "%s does not exist", u))
		}

		return errors.Wrapf(err, "failed to download %s", u)
	}

	return errors.Wrapf(w.Close(), "failed to write %s", target)
}

func (f *Fetcher) attempts() int {
	if f.Attempts <= 0 {
		return DefaultFetchAttempts
	}
	return f.Attempts
}

func (f *Fetcher) backoff() runutil.Backoff {
	if f.Backoff == nil {
		return runutil.ExponentialBackoff{
			Initial:          500 * time.Millisecond,
			Max:              10 * time.Second,
			JitterProportion: 0.5,
		}
	}
	return f.Backoff
}
