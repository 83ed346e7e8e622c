// Package transferdelivery manages delivery layer of transfers: two-step sends and
// service purchases.
package transferdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/middleware"
	"github.com/go-petr/pet-economy/pkg/moneypkg"
	"github.com/go-petr/pet-economy/pkg/web"
)

// ProposalService provides the two-step send interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type ProposalService interface {
	ProposeSend(ctx context.Context, from, to int64, amount decimal.Decimal) (domain.Proposal, error)
	Confirm(ctx context.Context, id uuid.UUID, requester int64) (domain.SendResult, error)
}

// PurchaseService provides the purchase interface needed by transfer delivery layer.
type PurchaseService interface {
	BuyService(ctx context.Context, buyer, serviceID int64, performer *int64) (domain.PurchaseResult, error)
}

var errStatus = map[error]int{
	domain.ErrInvalidAmount:         http.StatusBadRequest,
	domain.ErrSameAccount:           http.StatusBadRequest,
	domain.ErrBankAccount:           http.StatusBadRequest,
	domain.ErrInsufficientFunds:     http.StatusBadRequest,
	domain.ErrProposalNotFound:      http.StatusNotFound,
	domain.ErrServiceNotFound:       http.StatusNotFound,
	domain.ErrAccountNotFound:       http.StatusNotFound,
	domain.ErrProposalOwnerMismatch: http.StatusForbidden,
	domain.ErrNoCounterparty:        http.StatusConflict,
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	proposals ProposalService
	purchases PurchaseService
}

// NewHandler returns transfer handler.
func NewHandler(ps ProposalService, bs PurchaseService) *Handler {
	return &Handler{
		proposals: ps,
		purchases: bs,
	}
}

type proposeRequest struct {
	To     int64  `json:"to" binding:"min=0"`
	Amount string `json:"amount" binding:"required,amount"`
}

type proposalData struct {
	Proposal domain.Proposal `json:"proposal"`
}

type proposalResponse struct {
	Data proposalData `json:"data,omitempty"`
}

// Propose handles http request to propose a send from the caller.
func (h *Handler) Propose(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req proposeRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	amount, err := moneypkg.Parse(req.Amount)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	proposal, err := h.proposals.ProposeSend(ctx, middleware.AccountID(gctx), req.To, amount)
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	gctx.JSON(http.StatusOK, proposalResponse{Data: proposalData{proposal}})
}

type confirmRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type sendData struct {
	Transfer domain.SendResult `json:"transfer"`
}

type sendResponse struct {
	Data sendData `json:"data,omitempty"`
}

// Confirm handles http request to execute a proposal of the caller.
func (h *Handler) Confirm(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req confirmRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	result, err := h.proposals.Confirm(ctx, uuid.MustParse(req.ID), middleware.AccountID(gctx))
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	gctx.JSON(http.StatusOK, sendResponse{Data: sendData{result}})
}

type buyURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type buyRequest struct {
	Performer *int64 `json:"performer" binding:"omitempty,min=0"`
}

type purchaseData struct {
	Purchase domain.PurchaseResult `json:"purchase"`
}

type purchaseResponse struct {
	Data purchaseData `json:"data,omitempty"`
}

// Buy handles http request to buy a catalog service. The body may name the performer.
func (h *Handler) Buy(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri buyURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req buyRequest
	if gctx.Request.ContentLength != 0 {
		if err := gctx.ShouldBindJSON(&req); err != nil {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest, web.BindError(err))

			return
		}
	}

	result, err := h.purchases.BuyService(ctx, middleware.AccountID(gctx), uri.ID, req.Performer)
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	gctx.JSON(http.StatusOK, purchaseResponse{Data: purchaseData{result}})
}
