// Package storage 提供了报表导出用对象存储（MinIO）的访问功能。
package storage

import (
	"bytes"
	"context"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/config"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient 为 nil 时表示对象存储未启用，导出接口会返回未配置错误。
var MinioClient *minio.Client

// InitMinIO 初始化 MinIO 客户端并确保存储桶存在。
// Endpoint 为空时跳过初始化。
func InitMinIO(cfg config.MinIOConfig) {
	if cfg.Endpoint == "" {
		log.Warnf("minio not configured, analytics export disabled")
		return
	}

	var err error
	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("初始化 MinIO 客户端失败", err)
	}

	log.Info("MinIO 客户端初始化成功")

	ctx := context.Background()
	exists, err := MinioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		log.Fatal("检查 MinIO 存储桶失败", err)
	}
	if !exists {
		log.Infof("存储桶 '%s' 不存在，正在创建...", cfg.BucketName)
		if err := MinioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			log.Fatal("创建 MinIO 存储桶失败", err)
		}
		log.Infof("存储桶 '%s' 创建成功", cfg.BucketName)
	}
}

// UploadJSON 把一段 JSON 数据作为对象写入存储桶。
func UploadJSON(ctx context.Context, bucketName, objectName string, data []byte) error {
	_, err := MinioClient.PutObject(ctx, bucketName, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return err
}

// GetPresignedURL 为指定对象生成一个限时下载链接。
func GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	presignedURL, err := MinioClient.PresignedGetObject(ctx, bucketName, objectName, expiry, nil)
	if err != nil {
		log.Errorf("Error generating presigned URL: %s", err)
		return "", err
	}
	return presignedURL.String(), nil
}
