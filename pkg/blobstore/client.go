package blobstore

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

type Config struct {
	ConnectionString string
	ContainerName    string
}

// UploadInput carries everything the store needs about an incoming file.
type UploadInput struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

type UploadResult struct {
	BlobName string
	URL      string
}

// BlobInfo is a listing entry for blobs under a session prefix.
type BlobInfo struct {
	Name         string
	Size         int64
	LastModified time.Time
}

type Client struct {
	client        *azblob.Client
	containerName string
}

func NewClient(config Config) (*Client, error) {
	if config.ConnectionString == "" || config.ContainerName == "" {
		return nil, fmt.Errorf("blob storage configuration is missing")
	}

	azClient, err := azblob.NewClientFromConnectionString(config.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob storage client: %v", err)
	}

	return &Client{
		client:        azClient,
		containerName: config.ContainerName,
	}, nil
}

// EnsureContainer creates the configured container when absent. Idempotent.
func (c *Client) EnsureContainer(ctx context.Context) error {
	access := container.PublicAccessTypeBlob
	_, err := c.client.CreateContainer(ctx, c.containerName, &azblob.CreateContainerOptions{
		Access: &access,
	})
	if err != nil {
		if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create container %s: %v", c.containerName, err)
	}
	log.Printf("Created container: %s", c.containerName)
	return nil
}

// Upload stores a file under a session-scoped blob name. The name carries a
// timestamp suffix so repeated uploads of the same file name in a session do
// not collide.
func (c *Client) Upload(ctx context.Context, file UploadInput, sessionID string) (*UploadResult, error) {
	if err := c.EnsureContainer(ctx); err != nil {
		return nil, err
	}

	blobName := fmt.Sprintf("%s/%s_%d", sessionID, file.Name, time.Now().UnixMilli())
	log.Printf("Uploading blob: %s", blobName)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	originalName := file.Name
	uploadTime := time.Now().UTC().Format(time.RFC3339)
	fileSize := strconv.FormatInt(file.Size, 10)

	_, err := c.client.UploadStream(ctx, c.containerName, blobName, file.Reader, &azblob.UploadStreamOptions{
		Metadata: map[string]*string{
			"sessionId":    &sessionID,
			"originalName": &originalName,
			"uploadTime":   &uploadTime,
			"fileSize":     &fileSize,
		},
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload blob %s: %v", blobName, err)
	}

	log.Printf("Blob uploaded successfully: %s", blobName)

	blobURL := c.client.ServiceClient().
		NewContainerClient(c.containerName).
		NewBlobClient(blobName).
		URL()

	return &UploadResult{
		BlobName: blobName,
		URL:      blobURL,
	}, nil
}

// ListBySession lists all blobs stored under a session's prefix.
func (c *Client) ListBySession(ctx context.Context, sessionID string) ([]BlobInfo, error) {
	prefix := sessionID + "/"
	pager := c.client.NewListBlobsFlatPager(c.containerName, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	var blobs []BlobInfo
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs for session %s: %v", sessionID, err)
		}
		for _, item := range page.Segment.BlobItems {
			info := BlobInfo{}
			if item.Name != nil {
				info.Name = *item.Name
			}
			if item.Properties != nil {
				if item.Properties.ContentLength != nil {
					info.Size = *item.Properties.ContentLength
				}
				if item.Properties.LastModified != nil {
					info.LastModified = *item.Properties.LastModified
				}
			}
			blobs = append(blobs, info)
		}
	}
	return blobs, nil
}

// GetMetadata returns the metadata tags stored with a blob.
func (c *Client) GetMetadata(ctx context.Context, blobName string) (map[string]string, error) {
	resp, err := c.client.ServiceClient().
		NewContainerClient(c.containerName).
		NewBlobClient(blobName).
		GetProperties(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get blob metadata for %s: %v", blobName, err)
	}

	metadata := make(map[string]string, len(resp.Metadata))
	for key, value := range resp.Metadata {
		if value != nil {
			metadata[key] = *value
		}
	}
	return metadata, nil
}

// Delete removes a blob.
func (c *Client) Delete(ctx context.Context, blobName string) error {
	_, err := c.client.DeleteBlob(ctx, c.containerName, blobName, nil)
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %v", blobName, err)
	}
	return nil
}
