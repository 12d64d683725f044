package storage

import (
	"bytes"
	"context"
	"fmt"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/pkg/constvars"
	"healnexus-service/internal/pkg/dto/requests"
	"healnexus-service/internal/pkg/exceptions"
	"healnexus-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type minioReceiptStorage struct {
	MinioClient *minio.Client
	BucketName  string
	Log         *zap.Logger
}

func NewMinioReceiptStorage(minioClient *minio.Client, bucketName string, logger *zap.Logger) contracts.ReceiptStorage {
	return &minioReceiptStorage{
		MinioClient: minioClient,
		BucketName:  bucketName,
		Log:         logger,
	}
}

// EnsureBucket creates the receipt bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, minioClient *minio.Client, bucketName, region string) error {
	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: region})
}

func (m *minioReceiptStorage) ArchiveReceipt(ctx context.Context, receipt *requests.PaymentReceipt) (string, error) {
	requestID := utils.GetRequestID(ctx)
	objectName := fmt.Sprintf(constvars.ReceiptObjectKeyFormat, receipt.AppointmentID)

	body, err := json.Marshal(receipt)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}

	_, err = m.MinioClient.PutObject(ctx, m.BucketName, objectName, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: constvars.MIMEApplicationJSON,
		UserMetadata: map[string]string{
			"receipt-id": receipt.ReceiptID,
		},
	})
	if err != nil {
		m.Log.Error("minioReceiptStorage.ArchiveReceipt error calling PutObject",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBucketNameKey, m.BucketName),
			zap.String(constvars.LoggingObjectKey, objectName),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioPutObject(err, m.BucketName)
	}

	m.Log.Info("minioReceiptStorage.ArchiveReceipt succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketNameKey, m.BucketName),
		zap.String(constvars.LoggingObjectKey, objectName),
	)
	return objectName, nil
}
