package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/storage"
	"github.com/urfave/cli/v2"
)

func downloadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "storage-endpoint",
			Usage:    "S3-compatible endpoint host",
			Required: true,
			EnvVars:  []string{"STORAGE_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:     "storage-access-key",
			Usage:    "Access key for object storage",
			Required: true,
			EnvVars:  []string{"STORAGE_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:     "storage-secret-key",
			Usage:    "Secret key for object storage",
			Required: true,
			EnvVars:  []string{"STORAGE_SECRET_KEY"},
		},
		&cli.StringFlag{
			Name:     "storage-bucket",
			Usage:    "Bucket holding the seed CSV files",
			Required: true,
			EnvVars:  []string{"STORAGE_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "storage-region",
			Usage:   "Bucket region",
			Value:   "us-east-1",
			EnvVars: []string{"STORAGE_REGION"},
		},
		&cli.BoolFlag{
			Name:    "storage-use-ssl",
			Usage:   "Use HTTPS for object storage",
			Value:   true,
			EnvVars: []string{"STORAGE_USE_SSL"},
		},
		&cli.StringFlag{
			Name:    "storage-prefix",
			Usage:   "Key prefix of the seed CSV files",
			Value:   "seeds",
			EnvVars: []string{"STORAGE_PREFIX"},
		},
		&cli.StringFlag{
			Name:    "download-dir",
			Usage:   "Local directory to download seed files into",
			Value:   "./data/seeds",
			EnvVars: []string{"SEED_DOWNLOAD_DIR"},
		},
	}
}

func runDownload(c *cli.Context) error {
	client, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  c.String("storage-endpoint"),
		AccessKey: c.String("storage-access-key"),
		SecretKey: c.String("storage-secret-key"),
		Bucket:    c.String("storage-bucket"),
		Region:    c.String("storage-region"),
		UseSSL:    c.Bool("storage-use-ssl"),
	})
	if err != nil {
		return err
	}

	destDir := c.String("download-dir")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure download dir %s: %w", destDir, err)
	}

	paths, err := downloadSeedFiles(c, client, c.String("storage-prefix"), destDir)
	if err != nil {
		return err
	}

	for _, path := range paths {
		log.Printf("Downloaded %s", path)
	}
	log.Printf("Downloaded %d seed files to %s", len(paths), destDir)
	return nil
}

func downloadSeedFiles(c *cli.Context, client storage.ObjectStorage, prefix, destDir string) ([]string, error) {
	listPrefix := strings.TrimSpace(prefix)
	objects, err := client.ListObjects(c.Context, listPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects for prefix %s: %w", listPrefix, err)
	}

	var keys []string
	for _, obj := range objects {
		if strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no CSV files found for prefix %s", prefix)
	}

	localPaths := make([]string, 0, len(keys))
	for _, key := range keys {
		localPath := filepath.Join(destDir, objectRelativePath(listPrefix, key))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to prepare directory for %s: %w", localPath, err)
		}
		if err := client.DownloadObject(c.Context, key, localPath); err != nil {
			return nil, err
		}
		localPaths = append(localPaths, localPath)
	}

	sort.Strings(localPaths)
	return localPaths, nil
}

func objectRelativePath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, prefixTrimmed+"/")
	if rel == "" {
		return filepath.Base(key)
	}
	return rel
}
