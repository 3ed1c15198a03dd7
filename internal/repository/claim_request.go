package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

type ClaimRequestRepository interface {
	Create(ctx context.Context, request *entity.ClaimRequest) error
	GetByID(ctx context.Context, id string) (*entity.ClaimRequest, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.ClaimRequest, error)
	GetLastRewarded(ctx context.Context, userID, questID string, instanceID sql.NullString) (*entity.ClaimRequest, error)
	GetLastSucceeded(ctx context.Context, userID, questID string) (*entity.ClaimRequest, error)
	UpdateResultByID(ctx context.Context, id string, status entity.ClaimRequestStatus, log, txHash string) error
	UpdateResultByIDs(ctx context.Context, ids []string, status entity.ClaimRequestStatus, log, txHash string) error
}

type claimRequestRepository struct{}

func NewClaimRequestRepository() *claimRequestRepository {
	return &claimRequestRepository{}
}

func (r *claimRequestRepository) Create(ctx context.Context, request *entity.ClaimRequest) error {
	return xcontext.DB(ctx).Create(request).Error
}

func (r *claimRequestRepository) GetByID(ctx context.Context, id string) (*entity.ClaimRequest, error) {
	var result entity.ClaimRequest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *claimRequestRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.ClaimRequest, error) {
	var result []entity.ClaimRequest
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetLastRewarded returns the last claim request of the user on the given
// quest and instance which was not resolved as failed. Its existence means the
// reward is already recorded for this window.
func (r *claimRequestRepository) GetLastRewarded(
	ctx context.Context, userID, questID string, instanceID sql.NullString,
) (*entity.ClaimRequest, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND quest_id=?", userID, questID).
		Where("status IN (?)", []entity.ClaimRequestStatus{entity.ClaimCreated, entity.ClaimSucceeded})

	if instanceID.Valid {
		tx = tx.Where("instance_id=?", instanceID.String)
	}

	var result entity.ClaimRequest
	if err := tx.Order("created_at DESC").Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *claimRequestRepository) GetLastSucceeded(
	ctx context.Context, userID, questID string,
) (*entity.ClaimRequest, error) {
	var result entity.ClaimRequest
	err := xcontext.DB(ctx).
		Where("user_id=? AND quest_id=? AND status=?", userID, questID, entity.ClaimSucceeded).
		Order("created_at DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *claimRequestRepository) UpdateResultByID(
	ctx context.Context, id string, status entity.ClaimRequestStatus, log, txHash string,
) error {
	return r.UpdateResultByIDs(ctx, []string{id}, status, log, txHash)
}

func (r *claimRequestRepository) UpdateResultByIDs(
	ctx context.Context, ids []string, status entity.ClaimRequestStatus, log, txHash string,
) error {
	return xcontext.DB(ctx).
		Model(&entity.ClaimRequest{}).
		Where("id IN (?)", ids).
		Where("status=?", entity.ClaimCreated).
		Updates(map[string]any{"status": status, "log": log, "tx_hash": txHash}).Error
}

// IsDuplicateKeyError tells if an insert failed because of a unique index
// collision. Gorm drivers report this differently, so fall back to matching
// the message.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
