package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"notaria-digital/internal/adapters/persistence/models"
	"notaria-digital/internal/core/domain"
)

// requestRepository implements RequestRepository on MySQL via GORM
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// Create creates a new request
func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	m := models.RequestFromDomain(req)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	req.ID = m.ID
	req.CreatedAt = m.CreatedAt
	req.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a request by ID with its owner
func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	var m models.Request
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// ListByOwner lists requests owned by a user, newest first
func (r *requestRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Request, error) {
	var rows []*models.Request
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(rows), nil
}

// ListAll lists all requests, newest first
func (r *requestRepository) ListAll(ctx context.Context) ([]*domain.Request, error) {
	var rows []*models.Request
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(rows), nil
}

// ListByStatus lists requests in a given status, oldest first
func (r *requestRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Request, error) {
	var rows []*models.Request
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(rows), nil
}

// UpdateStatus writes the status and its payload fields with an optimistic
// compare-and-swap on the previously observed status. Zero rows affected
// means another caller won the edge (or the row vanished).
func (r *requestRepository) UpdateStatus(ctx context.Context, req *domain.Request, expected domain.Status) error {
	res := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND status = ?", req.ID, string(expected)).
		Updates(map[string]interface{}{
			"status":           string(req.Status),
			"amount":           req.Amount,
			"transaction_id":   req.TransactionID,
			"rejection_reason": req.RejectionReason,
			"pdf_validated":    req.PdfValidated,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.conflictOrNotFound(ctx, req.ID)
	}
	return nil
}

// MarkValidated flips pdf_validated on a PAID request exactly once
func (r *requestRepository) MarkValidated(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND status = ? AND pdf_validated = ?", id, string(domain.StatusPaid), false).
		Update("pdf_validated", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.conflictOrNotFound(ctx, id)
	}
	return nil
}

// conflictOrNotFound distinguishes a lost CAS from an unknown id
func (r *requestRepository) conflictOrNotFound(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Request{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrRequestNotFound
	}
	return domain.ErrStatusConflict
}

func toDomainList(rows []*models.Request) []*domain.Request {
	result := make([]*domain.Request, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.ToDomain())
	}
	return result
}
