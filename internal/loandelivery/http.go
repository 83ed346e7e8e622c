// Package loandelivery manages delivery layer of loans.
package loandelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/middleware"
	"github.com/go-petr/pet-economy/pkg/moneypkg"
	"github.com/go-petr/pet-economy/pkg/web"
)

// LoanService provides the loan interface needed by loan delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package loandelivery
type LoanService interface {
	LoanPresets() []decimal.Decimal
	IssueLoan(ctx context.Context, owner int64, amount decimal.Decimal) (domain.LoanResult, error)
	RepayLoan(ctx context.Context, owner, loanID int64) (domain.LoanResult, error)
}

// DebtService provides the debts view needed by loan delivery layer.
type DebtService interface {
	Debts(ctx context.Context, now time.Time) ([]domain.Debt, error)
}

var errStatus = map[error]int{
	domain.ErrInvalidAmount:     http.StatusBadRequest,
	domain.ErrBankAccount:       http.StatusBadRequest,
	domain.ErrInsufficientFunds: http.StatusBadRequest,
	domain.ErrLoanNotFound:      http.StatusNotFound,
	domain.ErrLoanAlreadyActive: http.StatusConflict,
}

// Handler facilitates loan delivery layer logic.
type Handler struct {
	loans LoanService
	debts DebtService
	now   func() time.Time
}

// NewHandler returns loan handler.
func NewHandler(ls LoanService, ds DebtService) *Handler {
	return &Handler{
		loans: ls,
		debts: ds,
		now:   time.Now,
	}
}

type presetsResponse struct {
	Data struct {
		Presets []decimal.Decimal `json:"presets"`
	} `json:"data"`
}

// Presets handles http request to list the loan amounts on offer.
func (h *Handler) Presets(gctx *gin.Context) {
	var res presetsResponse
	res.Data.Presets = h.loans.LoanPresets()

	gctx.JSON(http.StatusOK, res)
}

type issueRequest struct {
	Amount string `json:"amount" binding:"required,amount"`
}

type loanData struct {
	Loan domain.LoanResult `json:"loan"`
}

type loanResponse struct {
	Data loanData `json:"data,omitempty"`
}

// Issue handles http request to borrow from the Bank.
func (h *Handler) Issue(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req issueRequest
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

	result, err := h.loans.IssueLoan(ctx, middleware.AccountID(gctx), amount)
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	gctx.JSON(http.StatusOK, loanResponse{Data: loanData{result}})
}

type repayRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Repay handles http request to repay the caller's loan.
func (h *Handler) Repay(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req repayRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	result, err := h.loans.RepayLoan(ctx, middleware.AccountID(gctx), req.ID)
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	gctx.JSON(http.StatusOK, loanResponse{Data: loanData{result}})
}

type debtsResponse struct {
	Data struct {
		Debts []domain.Debt `json:"debts"`
	} `json:"data"`
}

// Debts handles http request to show every active loan with the amount owed.
func (h *Handler) Debts(gctx *gin.Context) {
	debts, err := h.debts.Debts(gctx.Request.Context(), h.now().UTC())
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	var res debtsResponse
	res.Data.Debts = debts

	gctx.JSON(http.StatusOK, res)
}
