package console

import "errors"

var (
	// ErrConfiguration: segredo/conexão obrigatória ausente.
	ErrConfiguration = errors.New("configuration error")

	// ErrAuth: senha de admin incorreta. O operador pode tentar de novo.
	ErrAuth = errors.New("incorrect password")

	// ErrValidation: entrada rejeitada antes de chegar ao store.
	ErrValidation = errors.New("invalid input")

	// ErrAdminRequired: ação de escrita com o gate fechado.
	ErrAdminRequired = errors.New("admin mode required")

	// ErrUnexpected: qualquer falha fora das categorias acima.
	ErrUnexpected = errors.New("unexpected error")
)

// Mensagens exibidas ao operador.
const (
	MsgFetchFailed     = "Error fetching users"
	MsgCreateFailed    = "Error creating user"
	MsgUpdateFailed    = "Error updating user"
	MsgDeleteFailed    = "Error deleting user"
	MsgUnexpected      = "Unexpected error"
	MsgRequired        = "Username and password are required"
	MsgInvalidAccess   = "Access must be a JSON object"
	MsgInvalidActive   = "Active must be on or off"
	MsgInvalidForm     = "The form could not be read"
	MsgWrongPassword   = "Incorrect password"
	MsgNotConfigured   = "Admin password is not configured"
	MsgAdminRequired   = "Admin mode is required for this action"
	MsgNotEditing      = "That user is not being edited"
	MsgNothingToDelete = "No deletion is pending"

	NoticeAdminGranted = "Admin access granted"
	NoticeCreated      = "User created"
	NoticeUpdated      = "User updated"
	NoticeDeleted      = "User deleted"
)
