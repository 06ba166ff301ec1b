package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/storefront-api/middlewares"
	"github.com/yeremiapane/storefront-api/services"
	"github.com/yeremiapane/storefront-api/utils"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{Reviews: reviews}
}

// GetProductReviews -> publik
func (rc *ReviewController) GetProductReviews(c *gin.Context) {
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	reviews, err := rc.Reviews.ListProductReviews(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product reviews", reviews)
}

func (rc *ReviewController) CreateReview(c *gin.Context) {
	userID, _, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return
	}

	var in services.CreateReviewInput
	if !bindJSON(c, &in) {
		return
	}

	review, err := rc.Reviews.CreateReview(c.Request.Context(), userID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Review created", review)
}

func (rc *ReviewController) UpdateReview(c *gin.Context) {
	id, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	userID, _, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return
	}

	var in services.UpdateReviewInput
	if !bindJSON(c, &in) {
		return
	}

	review, err := rc.Reviews.UpdateReview(c.Request.Context(), userID, id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Review updated", review)
}

// DeleteReview -> customer hanya review miliknya, admin bebas
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	userID, role, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return
	}

	var owner *uint
	if role != utils.RoleAdmin {
		owner = &userID
	}
	if err := rc.Reviews.DeleteReview(c.Request.Context(), id, owner); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Review deleted", gin.H{"review_id": id})
}
