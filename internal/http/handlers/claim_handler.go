package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liveauction/auction-backend/internal/dto"
	"github.com/liveauction/auction-backend/internal/http/handlers/common"
	"github.com/liveauction/auction-backend/internal/service"
)

// ClaimHandler предоставляет HTTP слой для заявок аукционистов.
type ClaimHandler struct {
	claims *service.ClaimService
}

// NewClaimHandler создаёт хэндлер.
func NewClaimHandler(claims *service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

// Create обрабатывает POST /claims — подача заявки на лот.
func (h *ClaimHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)

	var req dto.CreateClaimRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	itemID, err := req.ParseItemID()
	if err != nil {
		common.RespondBadRequest(c, "некорректный идентификатор лота")
		return
	}

	claim, err := h.claims.CreateClaim(c.Request.Context(), userID, role, itemID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, claim)
}

// Review обрабатывает POST /claims/:id/review — решение продавца.
func (h *ClaimHandler) Review(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)

	claimID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ReviewClaimRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	claim, err := h.claims.ReviewClaim(c.Request.Context(), claimID, userID, role, req.Approve, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, claim)
}

// Get обрабатывает GET /claims/:id.
func (h *ClaimHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)

	claimID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	claim, err := h.claims.GetClaim(c.Request.Context(), claimID, userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, claim)
}

// ListByItem обрабатывает GET /items/:id/claims — заявки по лоту для продавца.
func (h *ClaimHandler) ListByItem(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)

	itemID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	claims, err := h.claims.ListItemClaims(c.Request.Context(), itemID, userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, claims)
}

// ListMy обрабатывает GET /claims/my — заявки текущего аукциониста.
func (h *ClaimHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit, offset := common.GetPagination(c)
	claims, err := h.claims.ListMyClaims(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items, err := h.claims.ItemsForClaims(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := make([]dto.ClaimWithItemResponse, 0, len(claims))
	for i := range claims {
		entry := dto.ClaimWithItemResponse{Claim: &claims[i]}
		if item, ok := items[claims[i].ItemID]; ok {
			entry.Item = dto.NewItemShortInfo(item)
		}
		response = append(response, entry)
	}

	common.RespondJSON(c, http.StatusOK, response)
}
