// Package escrowdelivery manages delivery layer of service settlements.
package escrowdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/middleware"
	"github.com/go-petr/pet-economy/pkg/web"
)

// Service provides service layer interface needed by escrow delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package escrowdelivery
type Service interface {
	ClaimSell(ctx context.Context, performer, serviceID int64, evidence string) (domain.Escrow, error)
	Confirm(ctx context.Context, escrowID, confirmer int64) (domain.SettlementResult, error)
	Pending(ctx context.Context, beneficiary int64) ([]domain.Escrow, error)
	Log(ctx context.Context, accountID *int64, limit, offset int32) ([]domain.LogEntry, error)
}

var errStatus = map[error]int{
	domain.ErrBankAccount:            http.StatusBadRequest,
	domain.ErrInsufficientFunds:      http.StatusBadRequest,
	domain.ErrServiceNotFound:        http.StatusNotFound,
	domain.ErrEscrowNotFound:         http.StatusNotFound,
	domain.ErrSelfConfirmationDenied: http.StatusForbidden,
	domain.ErrEscrowNotPending:       http.StatusConflict,
}

// Handler facilitates escrow delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns escrow handler.
func NewHandler(es Service) *Handler {
	return &Handler{service: es}
}

type idURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type claimRequest struct {
	Evidence string `json:"evidence" binding:"max=1024"`
}

type escrowResponse struct {
	Data struct {
		Escrow domain.Escrow `json:"escrow"`
	} `json:"data"`
}

// Claim handles http request to claim a sell service done by the caller.
func (h *Handler) Claim(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req claimRequest
	if gctx.Request.ContentLength != 0 {
		if err := gctx.ShouldBindJSON(&req); err != nil {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest, web.BindError(err))

			return
		}
	}

	escrow, err := h.service.ClaimSell(ctx, middleware.AccountID(gctx), uri.ID, req.Evidence)
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	var res escrowResponse
	res.Data.Escrow = escrow

	gctx.JSON(http.StatusOK, res)
}

type settlementResponse struct {
	Data struct {
		Settlement domain.SettlementResult `json:"settlement"`
	} `json:"data"`
}

// Confirm handles http request to confirm an escrow on behalf of the caller.
func (h *Handler) Confirm(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	result, err := h.service.Confirm(ctx, uri.ID, middleware.AccountID(gctx))
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	var res settlementResponse
	res.Data.Settlement = result

	gctx.JSON(http.StatusOK, res)
}

type pendingRequest struct {
	Beneficiary *int64 `form:"beneficiary" binding:"omitempty,min=0"`
}

type escrowsResponse struct {
	Data struct {
		Escrows []domain.Escrow `json:"escrows"`
	} `json:"data"`
}

// Pending handles http request to list pending escrows. The caller's own escrows are
// listed unless another beneficiary is given.
func (h *Handler) Pending(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req pendingRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	beneficiary := middleware.AccountID(gctx)
	if req.Beneficiary != nil {
		beneficiary = *req.Beneficiary
	}

	escrows, err := h.service.Pending(ctx, beneficiary)
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	var res escrowsResponse
	res.Data.Escrows = escrows

	gctx.JSON(http.StatusOK, res)
}

type logRequest struct {
	Account  *int64 `form:"account" binding:"omitempty,min=0"`
	PageID   int32  `form:"page_id" binding:"omitempty,min=1"`
	PageSize int32  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type logResponse struct {
	Data struct {
		Entries []domain.LogEntry `json:"entries"`
	} `json:"data"`
}

// Log handles http request to page through settled entries, newest first.
func (h *Handler) Log(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req logRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	if req.PageID == 0 {
		req.PageID = 1
	}

	if req.PageSize == 0 {
		req.PageSize = 20
	}

	entries, err := h.service.Log(ctx, req.Account, req.PageSize, (req.PageID-1)*req.PageSize)
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	var res logResponse
	res.Data.Entries = entries

	gctx.JSON(http.StatusOK, res)
}
