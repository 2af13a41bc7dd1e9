package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	qrcode "github.com/skip2/go-qrcode"
	"google.golang.org/api/option"
)

// QRService renders QR code PNGs for tag barcodes and uploads them to
// cloud storage. Without a configured bucket it still renders but returns a
// server-relative URL, so local development needs no cloud credentials.
type QRService struct {
	bucketName string
	bucket     *gcs.BucketHandle
}

// NewQRService wires the storage bucket from Firebase credentials. Either
// credentialsBase64 or credentialsFile may be set; bucketName empty means
// local mode.
func NewQRService(credentialsBase64, credentialsFile, bucketName string) (*QRService, error) {
	if bucketName == "" {
		return &QRService{}, nil
	}

	ctx := context.Background()

	var opt option.ClientOption
	if credentialsBase64 != "" {
		credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(credentialsJSON)
	} else {
		opt = option.WithCredentialsFile(credentialsFile)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting storage client: %w", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting storage bucket: %w", err)
	}

	return &QRService{bucketName: bucketName, bucket: bucket}, nil
}

// Generate renders the barcode as a 256px PNG and stores it, returning the
// artifact URL to persist on the tag.
func (s *QRService) Generate(ctx context.Context, companyID, barcode string) (string, error) {
	png, err := qrcode.Encode(barcode, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}

	objectPath := fmt.Sprintf("qr/%s/%s.png", companyID, barcode)

	if s == nil || s.bucket == nil {
		// Local mode: no upload, hand back a deterministic path.
		return "/" + objectPath, nil
	}

	writer := s.bucket.Object(objectPath).NewWriter(ctx)
	writer.ContentType = "image/png"
	if _, err := writer.Write(png); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to upload QR image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize QR upload: %w", err)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectPath)
	log.Printf("🖼️  QR image stored: %s", url)
	return url, nil
}
