package public

import (
	"github.com/sabzihub/backend/internal/http/response"
	"github.com/sabzihub/backend/internal/service"

	"github.com/gin-gonic/gin"
)

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order item not found"},
	{target: service.ErrReviewNotAllowed, code: response.CodeBadRequest, msg: "only delivered items can be reviewed"},
	{target: service.ErrAlreadyReviewed, code: response.CodeBadRequest, msg: "item already reviewed"},
	{target: service.ErrRatingInvalid, code: response.CodeBadRequest, msg: "rating must be between 1 and 5"},
}

// CreateReviewRequest reviews a delivered order item.
type CreateReviewRequest struct {
	OrderItemID uint   `json:"order_item_id" binding:"required"`
	Rating      int    `json:"rating" binding:"required"`
	Comment     string `json:"comment"`
}

// CreateReview leaves a review against a delivered order item.
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	review, err := h.ReviewService.Create(uid, req.OrderItemID, req.Rating, req.Comment)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "review create failed")
		return
	}
	response.Success(c, review)
}
