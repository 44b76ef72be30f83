package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"notaria-digital/internal/core/domain"
)

// User represents users table
type User struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Role      string         `gorm:"size:20;default:'CLIENT'" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ToDomain converts the model to a domain user
func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Role:      domain.Role(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserFromDomain converts a domain user to the model
func UserFromDomain(u *domain.User) *User {
	return &User{
		ID:       u.ID,
		Email:    u.Email,
		Password: u.Password,
		Name:     u.Name,
		Role:     string(u.Role),
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"index;size:36;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// BeforeCreate assigns a UUID primary key
func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	return nil
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// Request represents requests table
type Request struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string `gorm:"index;size:36;not null" json:"owner_id"`
	RequestType string `gorm:"size:50;not null" json:"request_type"`

	DeedNumber string `gorm:"size:50;not null" json:"deed_number"`
	DeedYear   string `gorm:"size:10;not null" json:"deed_year"`
	Notary     string `gorm:"size:100;not null" json:"notary"`
	Parties    string `gorm:"type:text;not null" json:"parties"`

	Title       string `gorm:"size:150;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	Status          string   `gorm:"size:20;index;not null;default:'PENDING'" json:"status"`
	Amount          *float64 `gorm:"type:decimal(12,2)" json:"amount"`
	TransactionID   *string  `gorm:"size:100" json:"transaction_id"`
	RejectionReason *string  `gorm:"type:text" json:"rejection_reason"`
	PdfValidated    bool     `gorm:"not null;default:false" json:"pdf_validated"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Request) TableName() string {
	return "requests"
}

// BeforeCreate assigns a UUID primary key
func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ToDomain converts the model to a domain request. The preloaded owner,
// when present, rides along for display purposes only.
func (r *Request) ToDomain() *domain.Request {
	req := &domain.Request{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		RequestType:     r.RequestType,
		DeedNumber:      r.DeedNumber,
		DeedYear:        r.DeedYear,
		Notary:          r.Notary,
		Parties:         r.Parties,
		Title:           r.Title,
		Description:     r.Description,
		Status:          domain.Status(r.Status),
		Amount:          r.Amount,
		TransactionID:   r.TransactionID,
		RejectionReason: r.RejectionReason,
		PdfValidated:    r.PdfValidated,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Owner.ID != "" {
		req.Owner = r.Owner.ToDomain()
	}
	return req
}

// RequestFromDomain converts a domain request to the model
func RequestFromDomain(r *domain.Request) *Request {
	return &Request{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		RequestType:     r.RequestType,
		DeedNumber:      r.DeedNumber,
		DeedYear:        r.DeedYear,
		Notary:          r.Notary,
		Parties:         r.Parties,
		Title:           r.Title,
		Description:     r.Description,
		Status:          string(r.Status),
		Amount:          r.Amount,
		TransactionID:   r.TransactionID,
		RejectionReason: r.RejectionReason,
		PdfValidated:    r.PdfValidated,
	}
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Request{},
	)
}
