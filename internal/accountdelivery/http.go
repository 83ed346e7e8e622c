// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/middleware"
	"github.com/go-petr/pet-economy/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Register(ctx context.Context, id int64) (domain.NamedAccount, error)
	Balance(ctx context.Context, id int64) (domain.NamedAccount, error)
	List(ctx context.Context) ([]domain.NamedAccount, error)
}

var errStatus = map[error]int{
	domain.ErrBankAccount: http.StatusBadRequest,
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account domain.NamedAccount `json:"account"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Register handles http request to open the caller's account.
func (h *Handler) Register(gctx *gin.Context) {
	account, err := h.service.Register(gctx.Request.Context(), middleware.AccountID(gctx))
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{account}})
}

// Me handles http request to get the caller's balance.
func (h *Handler) Me(gctx *gin.Context) {
	account, err := h.service.Balance(gctx.Request.Context(), middleware.AccountID(gctx))
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{account}})
}

type dataAccounts struct {
	Accounts []domain.NamedAccount `json:"accounts"`
}

type responseAccounts struct {
	Data dataAccounts `json:"data,omitempty"`
}

// List handles http request to list every balance.
func (h *Handler) List(gctx *gin.Context) {
	accounts, err := h.service.List(gctx.Request.Context())
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	gctx.JSON(http.StatusOK, responseAccounts{Data: dataAccounts{accounts}})
}
