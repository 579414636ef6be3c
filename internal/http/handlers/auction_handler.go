package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liveauction/auction-backend/internal/dto"
	"github.com/liveauction/auction-backend/internal/http/handlers/common"
	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/service"
)

// AuctionHandler предоставляет HTTP слой для аукционов.
type AuctionHandler struct {
	auctions *service.AuctionService
}

// NewAuctionHandler создаёт хэндлер.
func NewAuctionHandler(auctions *service.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctions: auctions}
}

// Create обрабатывает POST /auctions — создание аукциона по одобренной заявке.
func (h *AuctionHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)

	var req dto.CreateAuctionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	claimID, err := req.ParseClaimID()
	if err != nil {
		common.RespondBadRequest(c, "некорректный идентификатор заявки")
		return
	}

	startTime, endTime, err := req.ParseTimes()
	if err != nil {
		common.RespondBadRequest(c, "время начала и окончания должны быть в формате RFC3339")
		return
	}

	auction, err := h.auctions.CreateAuction(c.Request.Context(), userID, role, claimID, service.CreateAuctionInput{
		Title:         req.Title,
		StartingPrice: req.StartingPrice,
		ReservePrice:  req.ReservePrice,
		BidIncrement:  req.BidIncrement,
		StartTime:     startTime,
		EndTime:       endTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, auction)
}

// Update обрабатывает PUT /auctions/:id — изменение названия и расписания.
func (h *AuctionHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)

	auctionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateAuctionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	startTime, endTime, err := req.ParseTimes()
	if err != nil {
		common.RespondBadRequest(c, "время начала и окончания должны быть в формате RFC3339")
		return
	}

	auction, err := h.auctions.UpdateAuction(c.Request.Context(), auctionID, userID, role, service.AuctionScheduleInput{
		Title:     req.Title,
		StartTime: startTime,
		EndTime:   endTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, auction)
}

// Cancel обрабатывает POST /auctions/:id/cancel — отмена аукциона.
func (h *AuctionHandler) Cancel(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)

	auctionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.auctions.CancelAuction(c.Request.Context(), auctionID, userID, role); err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "аукцион отменён, лот снова открыт для заявок", nil)
}

// Get обрабатывает GET /auctions/:id.
func (h *AuctionHandler) Get(c *gin.Context) {
	auctionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	auction, err := h.auctions.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, auction)
}

// List обрабатывает GET /auctions?status=... — список аукционов по статусу.
func (h *AuctionHandler) List(c *gin.Context) {
	status := c.DefaultQuery("status", models.AuctionStatusScheduled)
	limit, offset := common.GetPagination(c)

	auctions, err := h.auctions.ListAuctions(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, auctions)
}

// ListMy обрабатывает GET /auctions/my — аукционы текущего аукциониста.
func (h *AuctionHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit, offset := common.GetPagination(c)
	auctions, err := h.auctions.ListMyAuctions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, auctions)
}
