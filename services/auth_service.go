package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Whatsapp string `json:"whatsapp" binding:"max=30"`
	Address  string `json:"address"`
}

type AuthResult struct {
	Token string      `json:"token"`
	Role  string      `json:"role"`
	User  interface{} `json:"user"`
}

type AuthService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewAuthService(db *gorm.DB, notifier Notifier) *AuthService {
	return &AuthService{db: db, notifier: notifier}
}

func (s *AuthService) AdminLogin(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(admin.ID, utils.RoleAdmin)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithField("admin_id", admin.ID).Info("Admin logged in")
	return &AuthResult{Token: token, Role: utils.RoleAdmin, User: admin}, nil
}

func (s *AuthService) RegisterCustomer(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Whatsapp = strings.TrimSpace(in.Whatsapp)
	in.Address = strings.TrimSpace(in.Address)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Customer{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	password := string(hashed)

	customer := models.Customer{
		Name:     in.Name,
		Email:    in.Email,
		Password: &password,
		Whatsapp: in.Whatsapp,
		Address:  in.Address,
	}
	if err := db.Create(&customer).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.notifier.NotifyAdmins(context.WithoutCancel(ctx), models.AdminNotifNewCustomer, "Customer Baru",
		fmt.Sprintf("%s (%s) baru saja mendaftar", customer.Name, customer.Email), &customer.ID); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"effect":      "admin_notification",
			"customer_id": customer.ID,
		}).Warnf("Side effect failed: %v", err)
	}

	token, err := utils.GenerateToken(customer.ID, utils.RoleCustomer)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Role: utils.RoleCustomer, User: customer}, nil
}

func (s *AuthService) CustomerLogin(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	// akun Google tanpa password tidak bisa login pakai password
	if customer.Password == nil ||
		bcrypt.CompareHashAndPassword([]byte(*customer.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(customer.ID, utils.RoleCustomer)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Role: utils.RoleCustomer, User: customer}, nil
}

// Logout mem-blacklist token sampai waktu expired-nya
func (s *AuthService) Logout(token string) error {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(utils.TokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	return nil
}

// Profile mengembalikan admin atau customer sesuai role di token
func (s *AuthService) Profile(ctx context.Context, userID uint, role string) (interface{}, error) {
	db := s.db.WithContext(ctx)
	switch role {
	case utils.RoleAdmin:
		var admin models.Admin
		if err := db.First(&admin, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
		return admin, nil
	case utils.RoleCustomer:
		var customer models.Customer
		if err := db.First(&customer, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
		return customer, nil
	default:
		return nil, utils.ErrInvalidToken
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
