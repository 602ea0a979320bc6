package repositories

import (
	"AfyaCare/cache"
	"AfyaCare/database"
	"AfyaCare/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	UserCacheExpiry = 24 * time.Hour
)

type UserRepository struct {
	cache *cache.Cache
}

func NewUserRepository(cache *cache.Cache) *UserRepository {
	return &UserRepository{cache: cache}
}

// Create stores a new staff member with a bcrypt-hashed password.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := database.DB.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if err := r.cache.DeleteAll(ctx, "users_cache"); err != nil {
		log.Printf("Failed to delete users cache: %v", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_cache:%d", id)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get user from cache: %v", err)
	}

	var user models.User
	err = database.DB.Preload("Role").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Password = ""

	if data, err := json.Marshal(user); err == nil {
		if err := r.cache.Set(ctx, cacheKey, data, UserCacheExpiry); err != nil {
			log.Printf("Failed to set user in cache: %v", err)
		}
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := database.DB.Preload("Role").First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := database.DB.Preload("Role").Order("username ASC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// Update persists user changes. A non-empty password is re-hashed; an empty
// one leaves the stored hash untouched.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	} else {
		var current models.User
		if err := database.DB.First(&current, "id = ?", user.ID).Error; err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		user.Password = current.Password
	}

	if err := database.DB.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if err := r.cache.Delete(ctx, fmt.Sprintf("user_cache:%d", user.ID)); err != nil {
		log.Printf("Failed to delete user cache: %v", err)
	}
	if err := r.cache.DeleteAll(ctx, "users_cache"); err != nil {
		log.Printf("Failed to delete users cache: %v", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res := database.DB.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if err := r.cache.Delete(ctx, fmt.Sprintf("user_cache:%d", id)); err != nil {
		log.Printf("Failed to delete user cache: %v", err)
	}
	if err := r.cache.DeleteAll(ctx, "users_cache"); err != nil {
		log.Printf("Failed to delete users cache: %v", err)
	}
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func (r *UserRepository) VerifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := database.DB.Preload("Role").First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid credentials")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	user.Password = ""
	return &user, nil
}

func (r *UserRepository) GetRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := database.DB.Preload("Permissions").Order("name ASC").Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	return roles, nil
}
