package gqlclient

import (
	"context"

	"github.com/dmitrijs2005/receiptscan/internal/credential"
	"github.com/dmitrijs2005/receiptscan/internal/models"
)

// AuthPayload is the result of a login or register mutation.
type AuthPayload struct {
	Token   string      `json:"token"`
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

// UploadResult is the result of the uploadReceipt mutation.
type UploadResult struct {
	Message string                  `json:"message"`
	Receipt models.ExtractedReceipt `json:"receipt"`
}

// ListResult is the result of the receipts query.
type ListResult struct {
	Message string      `json:"message"`
	Data    models.Page `json:"data"`
}

// DetailResult is the result of the single-receipt query.
type DetailResult struct {
	Message string        `json:"message"`
	Receipt models.Detail `json:"receipt"`
}

// Upload is a binary file carried by a multipart mutation.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Client is the remote service surface consumed by the application core.
// Implementations do not retry; callers decide.
type Client interface {
	Login(ctx context.Context, email, password string) (*AuthPayload, error)
	Register(ctx context.Context, name, email, password string) (*AuthPayload, error)
	UploadReceipt(ctx context.Context, file Upload, category string) (*UploadResult, error)
	Receipts(ctx context.Context, page, limit int, category string) (*models.Page, error)
	Receipt(ctx context.Context, id string) (*models.Detail, error)
}

// CredentialReader is the read-only slice of the credential store the
// dispatcher needs. The full credential.Store satisfies it.
type CredentialReader interface {
	Load() (*credential.Credential, error)
}
