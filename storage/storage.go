package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	appconfig "stocklens/config"
	"stocklens/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	passwordsKey  = "config/passwords.json"
	factKeyPrefix = "ga4/"
)

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Client talks to the S3-compatible R2 bucket that holds the product
// master CSV, archived fact exports and the password blob.
type Client struct {
	s3     *s3.Client
	bucket string
}

// NewClient builds the storage client from the application config.
// Returns an error when the storage credentials are not set.
func NewClient(ctx context.Context) (*Client, error) {
	cfg := appconfig.AppConfig
	if !appconfig.IsStorageEnabled() {
		return nil, fmt.Errorf("object storage is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.StorageAccessKeyID, cfg.StorageSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
		o.UsePathStyle = true
	})

	return &Client{s3: client, bucket: cfg.StorageBucket}, nil
}

func (c *Client) list(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(c.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	out, err := c.s3.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket %s: %w", c.bucket, err)
	}

	objects := make([]ObjectInfo, 0, len(out.Contents))
	for _, obj := range out.Contents {
		info := ObjectInfo{Key: aws.ToString(obj.Key)}
		if obj.Size != nil {
			info.Size = *obj.Size
		}
		if obj.LastModified != nil {
			info.LastModified = *obj.LastModified
		}
		objects = append(objects, info)
	}
	return objects, nil
}

func (c *Client) get(ctx context.Context, key string) ([]byte, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (c *Client) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// FindLatestProductCSV returns the most recently modified top-level CSV
// in the bucket, nil when none exists. Uploads from the PIM land with
// varying names, so discovery beats a fixed key.
func (c *Client) FindLatestProductCSV(ctx context.Context) (*ObjectInfo, error) {
	objects, err := c.list(ctx, "")
	if err != nil {
		return nil, err
	}

	var latest *ObjectInfo
	for i := range objects {
		obj := &objects[i]
		if !strings.HasSuffix(obj.Key, ".csv") || strings.HasPrefix(obj.Key, factKeyPrefix) {
			continue
		}
		if latest == nil || obj.LastModified.After(latest.LastModified) {
			latest = obj
		}
	}
	return latest, nil
}

// DownloadProductMaster fetches the latest product master CSV bytes,
// falling back to the configured fixed key.
func (c *Client) DownloadProductMaster(ctx context.Context) ([]byte, string, error) {
	key := appconfig.AppConfig.ProductMasterKey
	if latest, err := c.FindLatestProductCSV(ctx); err == nil && latest != nil {
		key = latest.Key
	}

	data, err := c.get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	log.Printf("Downloaded product master from storage: %s (%d bytes)", key, len(data))
	return data, key, nil
}

// UploadProductMaster stores the product master CSV under the fixed key.
func (c *Client) UploadProductMaster(ctx context.Context, data []byte) error {
	return c.put(ctx, appconfig.AppConfig.ProductMasterKey, data, "text/csv")
}

// ProductMasterInfo reports whether a product master exists and its
// metadata.
func (c *Client) ProductMasterInfo(ctx context.Context) (*ObjectInfo, error) {
	latest, err := c.FindLatestProductCSV(ctx)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		return latest, nil
	}

	key := appconfig.AppConfig.ProductMasterKey
	out, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil // no master stored yet
	}
	info := &ObjectInfo{Key: key}
	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return info, nil
}

func factKey(brand, startDate, endDate string) string {
	return fmt.Sprintf("%s%s/%s_%s.json", factKeyPrefix, brand, startDate, endDate)
}

// SaveFactExport archives one brand's fact batch. The batch is stored
// as JSON so the reload path does not have to re-normalize.
func (c *Client) SaveFactExport(ctx context.Context, brand string, batch *models.FactBatch) error {
	if batch == nil || batch.Period.StartDate == nil || batch.Period.EndDate == nil {
		return fmt.Errorf("fact batch for %s has no period window", brand)
	}
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode fact batch: %w", err)
	}
	key := factKey(brand,
		batch.Period.StartDate.Format("20060102"),
		batch.Period.EndDate.Format("20060102"))
	return c.put(ctx, key, data, "application/json")
}

// LoadLatestFactExport restores the most recent archived batch for one
// brand, nil when none exists.
func (c *Client) LoadLatestFactExport(ctx context.Context, brand string) (*models.FactBatch, error) {
	objects, err := c.list(ctx, factKeyPrefix+brand+"/")
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, nil
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key > objects[j].Key // keys embed the window dates
	})

	data, err := c.get(ctx, objects[0].Key)
	if err != nil {
		return nil, err
	}
	var batch models.FactBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode archived batch %s: %w", objects[0].Key, err)
	}
	return &batch, nil
}

// SavePasswords persists the password set.
func (c *Client) SavePasswords(ctx context.Context, set models.PasswordSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode passwords: %w", err)
	}
	return c.put(ctx, passwordsKey, data, "application/json")
}

// LoadPasswords restores the password set, nil when none was saved yet.
func (c *Client) LoadPasswords(ctx context.Context) (*models.PasswordSet, error) {
	data, err := c.get(ctx, passwordsKey)
	if err != nil {
		return nil, nil // treat a missing blob as "use defaults"
	}
	var set models.PasswordSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to decode passwords: %w", err)
	}
	return &set, nil
}
