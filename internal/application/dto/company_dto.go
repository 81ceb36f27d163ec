package dto

import "time"

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	RFC           *string `json:"rfc"`
	BoardID       *string `json:"board_id"`
	DriveFolderID *string `json:"drive_folder_id"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Domain        string     `json:"domain"`
	RFC           string     `json:"rfc"`
	BoardID       string     `json:"board_id,omitempty"`
	DriveFolderID string     `json:"drive_folder_id,omitempty"`
	Plan          string     `json:"plan"`
	Status        string     `json:"status"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	LastSyncItems int        `json:"last_sync_items"`
	LastSyncOK    bool       `json:"last_sync_ok"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// UserListResponse usuarios de una empresa.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
}
