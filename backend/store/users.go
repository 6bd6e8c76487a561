package store

import (
	"context"
	"errors"

	"akatsuki/backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, u *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	ExistsByEmailOrNickname(ctx context.Context, tx *gorm.DB, email, nickname string) (bool, error)
	// CreditXP increments users.xp in place and returns the new balance.
	CreditXP(ctx context.Context, tx *gorm.DB, userID uint, amount int) (int, error)
	TopByXP(ctx context.Context, tx *gorm.DB, limit int) ([]models.User, error)
	CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
	// ListActiveAfter pages active users by id, starting after afterID.
	ListActiveAfter(ctx context.Context, tx *gorm.DB, afterID uint, limit int) ([]models.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewUserRepo(db *gorm.DB, baseLog *zap.SugaredLogger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, u *models.User) error {
	return pick(r.db, tx).WithContext(ctx).Create(u).Error
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	var u models.User
	err := pick(r.db, tx).WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var u models.User
	err := pick(r.db, tx).WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) ExistsByEmailOrNickname(ctx context.Context, tx *gorm.DB, email, nickname string) (bool, error) {
	var n int64
	err := pick(r.db, tx).WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? OR nickname = ?", email, nickname).
		Count(&n).Error
	return n > 0, err
}

func (r *userRepo) CreditXP(ctx context.Context, tx *gorm.DB, userID uint, amount int) (int, error) {
	transaction := pick(r.db, tx).WithContext(ctx)

	res := transaction.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("xp", gorm.Expr("xp + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var xp int
	if err := transaction.Model(&models.User{}).
		Where("id = ?", userID).
		Select("xp").
		Scan(&xp).Error; err != nil {
		return 0, err
	}
	return xp, nil
}

func (r *userRepo) TopByXP(ctx context.Context, tx *gorm.DB, limit int) ([]models.User, error) {
	var users []models.User
	err := pick(r.db, tx).WithContext(ctx).
		Where("is_active = ?", true).
		Order("xp DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	var n int64
	err := pick(r.db, tx).WithContext(ctx).
		Model(&models.User{}).
		Where("is_active = ?", true).
		Count(&n).Error
	return n, err
}

func (r *userRepo) ListActiveAfter(ctx context.Context, tx *gorm.DB, afterID uint, limit int) ([]models.User, error) {
	var users []models.User
	err := pick(r.db, tx).WithContext(ctx).
		Where("is_active = ? AND id > ?", true, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := pick(r.db, tx).WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}
