package storage

import (
	"fmt"
	"mime/multipart"

	"github.com/Miracle004/Lumo/config"
)

// Storage 抽象文件存储后端，上传头像和封面图时使用
// 返回值是可直接放进数据库的访问URL或相对路径
type Storage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}

// New 根据配置选择存储后端
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(cfg.GCSProjectID, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	case "local", "":
		return NewLocalStorage(cfg.LocalStoragePath, cfg.BackendURL)
	default:
		return nil, fmt.Errorf("未知的存储后端: %s", cfg.StorageBackend)
	}
}
