package stripewebhooks

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"juriszap-app/internal/domain/billing"
	"juriszap-app/internal/domain/plans"
	"juriszap-app/internal/domain/users"

	"gorm.io/gorm"
)

// Store is the profile-store surface the webhook handlers need. Lookups
// return (nil, nil) when no row matches, so handlers can tell "orphaned
// event" apart from a store failure (which must bubble up and trigger a
// Stripe retry).
type Store interface {
	UserByStripeCustomerID(customerID string) (*users.User, error)
	UserByEmail(email string) (*users.User, error)
	CreateUser(u *users.User) error
	UpdateUserFields(uid uint, fields map[string]interface{}) error

	PlanByPriceID(priceID string) (*plans.Plan, error)

	RecordPayment(p *billing.Payment) error

	CreatePasswordSetupToken(uid uint) (string, error)

	EventSeen(eventID string) (bool, error)
	MarkEventProcessed(eventID, eventType string) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) UserByStripeCustomerID(customerID string) (*users.User, error) {
	var u users.User
	err := s.db.Where("stripe_customer_id = ?", customerID).Limit(1).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormStore) UserByEmail(email string) (*users.User, error) {
	var u users.User
	err := s.db.Where("email = ?", email).Limit(1).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormStore) CreateUser(u *users.User) error {
	return s.db.Create(u).Error
}

func (s *gormStore) UpdateUserFields(uid uint, fields map[string]interface{}) error {
	return s.db.Model(&users.User{}).Where("id = ?", uid).Updates(fields).Error
}

func (s *gormStore) PlanByPriceID(priceID string) (*plans.Plan, error) {
	var p plans.Plan
	err := s.db.Where("stripe_price_id = ?", priceID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) RecordPayment(p *billing.Payment) error {
	return s.db.Create(p).Error
}

func (s *gormStore) CreatePasswordSetupToken(uid uint) (string, error) {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	token := hex.EncodeToString(bytes)

	s.db.Where("user_id = ? AND type = ?", uid, users.TokenPasswordSetup).Delete(&users.VerificationToken{})

	err := s.db.Create(&users.VerificationToken{
		UserID:    uid,
		Token:     token,
		Type:      users.TokenPasswordSetup,
		ExpiresAt: time.Now().Add(72 * time.Hour),
	}).Error
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *gormStore) EventSeen(eventID string) (bool, error) {
	var count int64
	err := s.db.Model(&billing.StripeEvent{}).Where("event_id = ?", eventID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *gormStore) MarkEventProcessed(eventID, eventType string) error {
	return s.db.Create(&billing.StripeEvent{EventID: eventID, Type: eventType}).Error
}
