package identity

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wealth/internal/database"
	apperrors "wealth/internal/errors"
	"wealth/internal/logger"
	"wealth/internal/metrics"
	"wealth/internal/models"
)

// Resolver finds, and on first sight creates, the user record behind an identity.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a Resolver.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Lookup returns the user for ident without creating one.
func (r *Resolver) Lookup(ctx context.Context, ident *Identity) (*models.User, error) {
	if ident == nil || ident.ExternalID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	user, err := r.find(ctx, ident.ExternalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageFailure, err)
	}
	return user, nil
}

// Provision returns the user for ident, creating it when absent. Concurrent
// calls for the same identity converge on a single row.
func (r *Resolver) Provision(ctx context.Context, ident *Identity) (*models.User, error) {
	user, err := r.Lookup(ctx, ident)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	if ident.Email == "" {
		return nil, apperrors.ErrMissingProfileData
	}
	return r.insertOrReuse(ctx, ident)
}

// CheckUser is Provision for callers that must keep going when resolution
// fails: it checks storage first, logs any failure and reports it as an
// absent user.
func (r *Resolver) CheckUser(ctx context.Context, ident *Identity) (*models.User, bool) {
	log := logger.FromContext(ctx)

	if err := r.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		log.Errorw("database connection failed", "error", err.Error())
		return nil, false
	}
	if ident == nil {
		return nil, false
	}

	user, err := r.Provision(ctx, ident)
	if err != nil {
		var appErr *apperrors.AppError
		fields := []interface{}{"external_id", ident.ExternalID, "error", err.Error()}
		if errors.As(err, &appErr) && appErr.Internal != nil {
			fields = append(fields, "internal", appErr.Internal.Error())
		}
		log.Errorw("failed to resolve user", fields...)
		return nil, false
	}
	return user, true
}

func (r *Resolver) find(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// insertOrReuse inserts the user unless a row for the same external id
// already exists, in which case the existing row is returned.
func (r *Resolver) insertOrReuse(ctx context.Context, ident *Identity) (*models.User, error) {
	user := &models.User{
		ExternalID: ident.ExternalID,
		Name:       ident.DisplayName(),
		Email:      ident.Email,
		ImageURL:   ident.ImageURL,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "external_id"}}, DoNothing: true}).
		Create(user)
	if res.Error != nil {
		if database.IsUniqueViolation(res.Error) {
			return nil, apperrors.Wrap(apperrors.ErrDuplicateEmail, res.Error)
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageFailure, res.Error)
	}

	if res.RowsAffected == 0 {
		existing, err := r.find(ctx, ident.ExternalID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageFailure, err)
		}
		return existing, nil
	}

	metrics.UsersProvisioned.Inc()
	logger.FromContext(ctx).Infow("provisioned user", "user_id", user.ID, "external_id", user.ExternalID)
	return user, nil
}
