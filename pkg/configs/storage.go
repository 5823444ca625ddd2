package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// StorageType selects the content store backend.
type StorageType string

const (
	StorageTypeFS     StorageType = "fs"
	StorageTypeS3     StorageType = "s3"
	StorageTypeMemory StorageType = "memory"
)

const (
	DefaultStorageType       = string(StorageTypeFS)
	DefaultStorageRoot       = "data/datasets"
	DefaultS3Endpoint        = "localhost:9000"
	DefaultS3AccessKeyID     = "minioadmin"
	DefaultS3SecretAccessKey = "minioadmin"
	DefaultS3UseSSL          = false
	DefaultS3BucketName      = "geovault"
	DefaultS3Region          = "us-east-1"
)

// StorageConfig holds content store settings. Root is the base folder for
// the filesystem backend; the S3 fields configure the MinIO backend.
type StorageConfig struct {
	Type            string `mapstructure:"type" rule:"oneof=fs s3 memory"`
	Root            string `mapstructure:"root"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
}

// GetEndpointURL returns the full S3 endpoint URL.
func (c *StorageConfig) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

func (c *StorageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("storage.type", DefaultStorageType)
	v.SetDefault("storage.root", DefaultStorageRoot)
	v.SetDefault("storage.endpoint", DefaultS3Endpoint)
	v.SetDefault("storage.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("storage.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("storage.use_ssl", DefaultS3UseSSL)
	v.SetDefault("storage.bucket_name", DefaultS3BucketName)
	v.SetDefault("storage.region", DefaultS3Region)
}
