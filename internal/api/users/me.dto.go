package users

import (
	"time"

	"juriszap-app/internal/domain/access"
)

// MeResponse is the dashboard's view of the profile plus the guard verdict.
// The client redirects to Access.Redirect whenever Access.Allowed is false.
type MeResponse struct {
	UID               uint       `json:"uid"`
	Nome              string     `json:"nome"`
	Email             string     `json:"email"`
	Telefone          string     `json:"telefone"`
	Role              string     `json:"role"`
	PlanoID           *string    `json:"planoId,omitempty"`
	PlanoNome         *string    `json:"planoNome,omitempty"`
	StatusAssinatura  string     `json:"statusAssinatura"`
	ProximoVencimento *time.Time `json:"proximoVencimento,omitempty"`
	DataCadastro      time.Time  `json:"dataCadastro"`

	Access access.Decision `json:"access"`
}
