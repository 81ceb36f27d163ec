// Package drive implementa el almacenamiento de comprobantes sobre Google
// Drive con una cuenta de servicio. Cada empresa tiene su carpeta bajo el
// folder raíz configurado.
package drive

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/facturamx/gastos-api/internal/application/receipts"
	"github.com/facturamx/gastos-api/pkg/config"
)

const folderMimeType = "application/vnd.google-apps.folder"

var _ receipts.ReceiptStorage = (*Uploader)(nil)

// Uploader adaptador de ReceiptStorage sobre la API de Drive v3.
type Uploader struct {
	service      *driveapi.Service
	rootFolderID string
}

// NewUploader construye el servicio de Drive con las credenciales de la
// cuenta de servicio. CredentialsJSON tiene prioridad; si viene vacío se lee
// el archivo de CredentialsPath. La carpeta raíz debe estar compartida con
// la cuenta de servicio (acceso Editor).
func NewUploader(ctx context.Context, cfg config.DriveConfig) (*Uploader, error) {
	credJSON := []byte(cfg.CredentialsJSON)
	if len(credJSON) == 0 {
		if cfg.CredentialsPath == "" {
			return nil, fmt.Errorf("faltan credenciales de Drive (JSON o ruta de archivo)")
		}
		data, err := os.ReadFile(cfg.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("leer credenciales de Drive: %w", err)
		}
		credJSON = data
	}

	jwtCfg, err := google.JWTConfigFromJSON(credJSON, driveapi.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parsear credenciales de Drive: %w", err)
	}

	service, err := driveapi.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("crear servicio de Drive: %w", err)
	}

	return &Uploader{service: service, rootFolderID: cfg.RootFolderID}, nil
}

// EnsureFolder devuelve el ID de la carpeta con ese nombre bajo el folder
// raíz, creándola si no existe.
func (u *Uploader) EnsureFolder(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and mimeType = '%s' and '%s' in parents and trashed = false",
		escapeQuery(name), folderMimeType, u.rootFolderID,
	)
	list, err := u.service.Files.List().
		Q(query).
		Fields("files(id)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("buscar carpeta %q: %w", name, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	created, err := u.service.Files.Create(&driveapi.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{u.rootFolderID},
	}).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("crear carpeta %q: %w", name, err)
	}
	return created.Id, nil
}

// Upload sube el archivo a la carpeta y devuelve su enlace de vista.
func (u *Uploader) Upload(ctx context.Context, folderID, filename, mimeType string, content io.Reader) (string, error) {
	created, err := u.service.Files.Create(&driveapi.File{
		Name:    filename,
		Parents: []string{folderID},
	}).Media(content, googleapi.ContentType(mimeType)).
		SupportsAllDrives(true).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("subir %q: %w", filename, err)
	}

	if created.WebViewLink != "" {
		return created.WebViewLink, nil
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id), nil
}

// escapeQuery escapa comillas simples en nombres para el query de Drive.
func escapeQuery(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
