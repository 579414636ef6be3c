package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liveauction/auction-backend/internal/dto"
	"github.com/liveauction/auction-backend/internal/http/handlers/common"
	"github.com/liveauction/auction-backend/internal/repository"
	"github.com/liveauction/auction-backend/internal/service"
)

// ItemHandler предоставляет HTTP слой для лотов: CRUD продавца, модерация
// и публичный каталог.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler создаёт хэндлер.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// Create обрабатывает POST /items.
func (h *ItemHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateItemRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.CreateItem(c.Request.Context(), userID, role, service.ItemInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Condition:     req.Condition,
		StartingPrice: req.StartingPrice,
		ReservePrice:  req.ReservePrice,
		BidIncrement:  req.BidIncrement,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, item)
}

// Update обрабатывает PUT /items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
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

	var req dto.UpdateItemRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.UpdateItem(c.Request.Context(), itemID, userID, role, service.ItemInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Condition:     req.Condition,
		StartingPrice: req.StartingPrice,
		ReservePrice:  req.ReservePrice,
		BidIncrement:  req.BidIncrement,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, item)
}

// Submit обрабатывает POST /items/:id/submit — отправка лота на модерацию.
func (h *ItemHandler) Submit(c *gin.Context) {
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

	item, err := h.items.SubmitForApproval(c.Request.Context(), itemID, userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, item)
}

// Review обрабатывает POST /items/:id/review — решение модератора.
func (h *ItemHandler) Review(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	itemID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ReviewItemRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.ReviewItem(c.Request.Context(), itemID, role, req.Approve, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, item)
}

// Cancel обрабатывает POST /items/:id/cancel — снятие лота с продажи.
func (h *ItemHandler) Cancel(c *gin.Context) {
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

	if err := h.items.CancelItem(c.Request.Context(), itemID, userID, role); err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "лот снят с продажи", nil)
}

// Get обрабатывает GET /items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	userID, _ := common.CurrentUserID(c)
	role, _ := common.CurrentUserRole(c)

	itemID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.GetItem(c.Request.Context(), itemID, userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, item)
}

// ListMy обрабатывает GET /items/my — лоты текущего продавца.
func (h *ItemHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit, offset := common.GetPagination(c)
	items, err := h.items.ListMyItems(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, items)
}

// ListPending обрабатывает GET /items/pending — очередь модерации.
func (h *ItemHandler) ListPending(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit, offset := common.GetPagination(c)
	items, err := h.items.ListPendingReview(c.Request.Context(), role, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, items)
}

// Catalog обрабатывает GET /items — публичный каталог одобренных лотов.
func (h *ItemHandler) Catalog(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	params := repository.ItemSearchParams{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	}

	items, total, err := h.items.SearchCatalog(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.PaginatedItemsResponse{
		Data: items,
		Pagination: dto.Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
		},
	})
}

// SetPhotos обрабатывает PUT /items/:id/photos.
func (h *ItemHandler) SetPhotos(c *gin.Context) {
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

	var req dto.SetItemPhotosRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	mediaIDs, err := req.ParseMediaIDs()
	if err != nil {
		common.RespondBadRequest(c, "некорректный идентификатор файла")
		return
	}

	if err := h.items.SetPhotos(c.Request.Context(), itemID, userID, role, mediaIDs); err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "фотографии лота обновлены", nil)
}
