package channelFs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"golang.org/x/sync/errgroup"
)

// maxParallel bounds concurrent object downloads.
const maxParallel = 4

// NewClient creates an S3 client. Static credentials are used when both keys
// are set in the environment; otherwise the default AWS chain applies.
func NewClient(region string) (s3iface.S3API, error) {
	cfg := &aws.Config{Region: aws.String(region)}

	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

// SyncFromS3 downloads every channel list stored under prefix into dir and
// returns the sorted local file names. Existing files with the same name are
// replaced; other local lists are left alone.
func SyncFromS3(ctx context.Context, client s3iface.S3API, bucket, prefix, dir string) ([]string, error) {
	log.Printf("SyncFromS3 called | bucket=%s | prefix=%s | dir=%s", bucket, prefix, dir)
	if bucket == "" {
		return nil, errors.New("no bucket configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}

	var keys []string
	if err := client.ListObjectsV2PagesWithContext(ctx, listInput, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") {
				continue
			}
			keys = append(keys, *obj.Key)
		}
		return !lastPage
	}); err != nil {
		return nil, fmt.Errorf("failed to list s3://%s/%s: %w", bucket, prefix, err)
	}

	targets := localNames(keys)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	names := make([]string, 0, len(targets))
	for name, key := range targets {
		names = append(names, name)
		g.Go(func() error {
			if err := download(ctx, client, bucket, key, filepath.Join(dir, name)); err != nil {
				return fmt.Errorf("failed to download %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(names)
	log.Printf("SyncFromS3 completed | downloaded=%d", len(names))
	return names, nil
}

// localNames maps each usable local file name to the object it is fetched
// from. Lists live flat in one directory, so when several keys share a base
// name only the first one listed is used. Names that are not plain file
// names are skipped.
func localNames(keys []string) map[string]string {
	targets := make(map[string]string, len(keys))
	for _, key := range keys {
		name := path.Base(key)
		if name == "." || name == ".." || name == "/" || strings.ContainsRune(name, '\\') {
			log.Printf("SyncFromS3: skipping %q, not a usable file name", key)
			continue
		}
		if prev, ok := targets[name]; ok {
			log.Printf("SyncFromS3: skipping %q, %s already comes from %q", key, name, prev)
			continue
		}
		targets[name] = key
	}
	return targets
}

// download writes the object through a temporary file so a partially
// transferred list never replaces a good one.
func download(ctx context.Context, client s3iface.S3API, bucket, key, localPath string) error {
	result, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer result.Body.Close()

	tmp := localPath + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, result.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, localPath)
}
