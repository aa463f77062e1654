package repository

import (
	"context"

	"p2psandbox/internal/models"

	"gorm.io/gorm"
)

// OrganizationRepository defines persistence operations for organizations.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Organization, error)
	// FindOrCreateByDomain returns the organization for the given email
	// domain, creating it with the given name if it does not exist yet.
	FindOrCreateByDomain(ctx context.Context, domain, name string) (*models.Organization, error)
	List(ctx context.Context, limit, offset int) ([]models.Organization, error)
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository returns a new OrganizationRepository implementation.
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) GetByID(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Organization", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &org, nil
}

func (r *organizationRepository) FindOrCreateByDomain(ctx context.Context, domain, name string) (*models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).
		Where(models.Organization{Domain: domain}).
		Attrs(models.Organization{Name: name}).
		FirstOrCreate(&org).Error
	if err != nil {
		// A concurrent create for the same domain can lose the race on the
		// unique index; re-read in that case.
		if isUniqueConstraintError(err) {
			if ferr := r.db.WithContext(ctx).Where("domain = ?", domain).First(&org).Error; ferr == nil {
				return &org, nil
			}
		}
		return nil, models.NewInternalError(err)
	}
	return &org, nil
}

func (r *organizationRepository) List(ctx context.Context, limit, offset int) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&orgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return orgs, nil
}
