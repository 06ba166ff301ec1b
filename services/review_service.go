package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/utils"
)

type CreateReviewInput struct {
	ProductID uint   `json:"productId" binding:"required"`
	OrderID   uint   `json:"orderId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

type UpdateReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type ReviewService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewReviewService(db *gorm.DB, notifier Notifier) *ReviewService {
	return &ReviewService{db: db, notifier: notifier}
}

// CreateReview: produk hanya bisa direview dari order milik sendiri yang sudah delivered
func (s *ReviewService) CreateReview(ctx context.Context, customerID uint, in CreateReviewInput) (*models.ProductReview, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var order models.Order
	err := db.Select("id", "status", "customer_id", "customer_name").
		Where("id = ? AND customer_id = ?", in.OrderID, customerID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotAllowed
	}
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, ErrReviewNotAllowed
	}

	var itemCount int64
	if err := db.Model(&models.OrderItem{}).
		Where("order_id = ? AND product_id = ?", order.ID, in.ProductID).
		Count(&itemCount).Error; err != nil {
		return nil, err
	}
	if itemCount == 0 {
		return nil, ErrReviewNotAllowed
	}

	var existing int64
	if err := db.Model(&models.ProductReview{}).
		Where("customer_id = ? AND order_id = ? AND product_id = ?", customerID, order.ID, in.ProductID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrReviewExists
	}

	review := &models.ProductReview{
		ProductID:  in.ProductID,
		CustomerID: &customerID,
		OrderID:    &order.ID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	if err := db.Create(review).Error; err != nil {
		return nil, err
	}

	s.recompute(ctx, in.ProductID)

	if err := s.notifier.NotifyAdmins(context.WithoutCancel(ctx), models.AdminNotifNewReview, "Review Baru",
		fmt.Sprintf("%s memberi rating %d untuk produk #%d", order.CustomerName, review.Rating, review.ProductID),
		&order.ID); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"effect":    "admin_notification",
			"review_id": review.ID,
		}).Warnf("Side effect failed: %v", err)
	}

	return review, nil
}

// UpdateReview hanya untuk pemilik review
func (s *ReviewService) UpdateReview(ctx context.Context, customerID, reviewID uint, in UpdateReviewInput) (*models.ProductReview, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var review models.ProductReview
	if err := db.Where("id = ? AND customer_id = ?", reviewID, customerID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if err := db.Model(&review).Updates(map[string]interface{}{
		"rating":  in.Rating,
		"comment": in.Comment,
	}).Error; err != nil {
		return nil, err
	}
	review.Rating = in.Rating
	review.Comment = in.Comment

	s.recompute(ctx, review.ProductID)
	return &review, nil
}

// DeleteReview. customerID nil berarti dihapus oleh admin
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID uint, customerID *uint) error {
	db := s.db.WithContext(ctx)

	query := db.Where("id = ?", reviewID)
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	var review models.ProductReview
	if err := query.First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := db.Delete(&models.ProductReview{}, review.ID).Error; err != nil {
		return err
	}

	s.recompute(ctx, review.ProductID)
	return nil
}

// ListProductReviews -> review terbaru dulu, hanya nama reviewer yang ditampilkan
func (s *ReviewService) ListProductReviews(ctx context.Context, productID uint) ([]models.ProductReview, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &NotFoundError{Err: ErrProductNotFound, Entity: fmt.Sprintf("product %d", productID)}
	}

	reviews := make([]models.ProductReview, 0)
	if err := db.Preload("Customer", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name")
	}).Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	for i := range reviews {
		if reviews[i].Customer != nil {
			reviews[i].CustomerName = reviews[i].Customer.Name
		}
	}
	return reviews, nil
}

// RecomputeProductRating menghitung ulang rating (rata-rata, 1 desimal) dan jumlah review produk
func (s *ReviewService) RecomputeProductRating(ctx context.Context, productID uint) error {
	db := s.db.WithContext(ctx)

	var ratings []int
	if err := db.Model(&models.ProductReview{}).
		Where("product_id = ?", productID).
		Pluck("rating", &ratings).Error; err != nil {
		return err
	}

	rating := 0.0
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		rating = math.Round(float64(sum)/float64(len(ratings))*10) / 10
	}

	// map supaya nilai 0 tetap ikut ditulis
	return db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": len(ratings),
		}).Error
}

// recompute gagal tidak menggagalkan mutasi review
func (s *ReviewService) recompute(ctx context.Context, productID uint) {
	if err := s.RecomputeProductRating(context.WithoutCancel(ctx), productID); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"product_id": productID,
		}).Errorf("Failed to recompute product rating: %v", err)
	}
}
