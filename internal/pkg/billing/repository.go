package billing

import (
	"github.com/motherboardhq/payment-service/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the reconciler. The three
// tables are owned exclusively by this package; no other component writes
// them.
type Repository interface {
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error
	SaveUser(user *models.User) error
	ListUsers() ([]models.User, error)
	CreateSubscriptionIfNotExists(sub *models.Subscription) (bool, error)
	GetSubscriptionByCode(code string) (*models.Subscription, error)
	CreatePaymentLogIfNotExists(entry *models.PaymentLog) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a reconciler repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *gormRepository) SaveUser(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *gormRepository) ListUsers() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

// CreateSubscriptionIfNotExists inserts a subscription row, treating a
// (email, plan_id) conflict as "already subscribed": the existing row is
// loaded into sub and created=false is returned.
func (r *gormRepository) CreateSubscriptionIfNotExists(sub *models.Subscription) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "email"},
			{Name: "plan_id"},
		},
		DoNothing: true,
	}).Create(sub)
	if tx.Error != nil {
		return false, tx.Error
	}

	created := tx.RowsAffected > 0
	if !created {
		if err := r.db.Where("email = ? AND plan_id = ?", sub.Email, sub.PlanID).First(sub).Error; err != nil {
			return false, err
		}
	}
	return created, nil
}

func (r *gormRepository) GetSubscriptionByCode(code string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("subscription_code = ?", code).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreatePaymentLogIfNotExists appends a payment log row, reporting
// created=false when the reference was already logged.
func (r *gormRepository) CreatePaymentLogIfNotExists(entry *models.PaymentLog) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reference"}},
		DoNothing: true,
	}).Create(entry)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
