package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveUploader pushes finished clip archives to a Google Drive folder.
// Entirely optional: the pipeline succeeds without it, and upload errors
// are logged by the caller, never fatal.
type DriveUploader struct {
	service    *drive.Service
	folderName string
	folderID   string
}

// NewDriveUploader creates an uploader from OAuth credentials. The token
// file must already contain a valid token; this service never runs the
// interactive consent flow.
func NewDriveUploader(credentialsFile, tokenFile, folderName string) (*DriveUploader, error) {
	ctx := context.Background()

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	client, err := clientFromToken(config, tokenFile)
	if err != nil {
		return nil, err
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create Drive service: %w", err)
	}

	du := &DriveUploader{service: srv, folderName: folderName}
	if err := du.ensureFolder(); err != nil {
		return nil, err
	}
	return du, nil
}

func clientFromToken(config *oauth2.Config, tokenFile string) (*http.Client, error) {
	f, err := os.Open(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode oauth token: %w", err)
	}
	return config.Client(context.Background(), tok), nil
}

// ensureFolder finds or creates the destination folder.
func (du *DriveUploader) ensureFolder() error {
	query := fmt.Sprintf("name='%s' and mimeType='application/vnd.google-apps.folder' and trashed=false",
		du.folderName)

	r, err := du.service.Files.List().Q(query).Spaces("drive").Fields("files(id, name)").Do()
	if err != nil {
		return fmt.Errorf("search for folder: %w", err)
	}
	if len(r.Files) > 0 {
		du.folderID = r.Files[0].Id
		return nil
	}

	folder := &drive.File{
		Name:     du.folderName,
		MimeType: "application/vnd.google-apps.folder",
	}
	file, err := du.service.Files.Create(folder).Fields("id").Do()
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	du.folderID = file.Id
	return nil
}

// UploadArchive uploads a finished archive and returns its shareable link.
func (du *DriveUploader) UploadArchive(archivePath string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	meta := &drive.File{
		Name:    filepath.Base(archivePath),
		Parents: []string{du.folderID},
	}
	created, err := du.service.Files.Create(meta).Media(f).Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("upload archive: %w", err)
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id), nil
}
