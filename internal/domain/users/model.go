package users

import (
	"time"

	"juriszap-app/internal/domain/plans"
)

// Subscription status values for User.StatusAssinatura. After provisioning,
// only the Stripe webhook path writes this field.
const (
	StatusAtivo             = "ativo"
	StatusPagamentoAtrasado = "pagamento_atrasado"
	StatusInativo           = "inativo"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the durable profile record. The JSON names are the wire contract
// consumed by the dashboard and the guard layer, so they stay in Portuguese.
// Profiles are only ever created by the account provisioner after a completed
// checkout; there is no self-service signup path.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"uid"`
	Nome     string `json:"nome"`
	Email    string `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Telefone string `json:"telefone"`

	Password     *string `json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"-"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`
	Role         string  `gorm:"not null;default:'user'" json:"role"`

	PlanoID *string     `gorm:"column:plano_id" json:"planoId,omitempty"`
	Plano   *plans.Plan `gorm:"foreignKey:PlanoID;references:StripePriceID" json:"-"`

	StatusAssinatura string `gorm:"column:status_assinatura;not null;default:'inativo'" json:"statusAssinatura"`

	// Join key used by the reconciler; immutable once set, unique per profile.
	StripeCustomerID *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id" json:"stripeCustomerId,omitempty"`
	SubscriptionID   *string `gorm:"column:subscription_id;uniqueIndex:idx_users_subscription_id" json:"-"`

	// Only the reconciler moves this, and only forward.
	ProximoVencimento *time.Time `gorm:"column:proximo_vencimento" json:"proximoVencimento,omitempty"`

	DataCadastro time.Time `gorm:"column:data_cadastro;autoCreateTime" json:"dataCadastro"`
	UpdatedAt    time.Time `json:"-"`
}
