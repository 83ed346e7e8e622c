// Package catalogdelivery manages delivery layer of the service catalog.
package catalogdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/pkg/moneypkg"
	"github.com/go-petr/pet-economy/pkg/web"
)

// Service provides service layer interface needed by catalog delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package catalogdelivery
type Service interface {
	Add(ctx context.Context, name string, price decimal.Decimal, kind domain.ServiceKind) (domain.Service, error)
	List(ctx context.Context, kind domain.ServiceKind) ([]domain.Service, error)
	Remove(ctx context.Context, id int64) error
}

var errStatus = map[error]int{
	domain.ErrInvalidAmount:      http.StatusBadRequest,
	domain.ErrInvalidServiceKind: http.StatusBadRequest,
	domain.ErrInvalidServiceName: http.StatusBadRequest,
	domain.ErrServiceNotFound:    http.StatusNotFound,
}

// Handler facilitates catalog delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns catalog handler.
func NewHandler(cs Service) *Handler {
	return &Handler{service: cs}
}

type addRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Price string `json:"price" binding:"required,amount"`
	Kind  string `json:"kind" binding:"required,servicekind"`
}

type serviceResponse struct {
	Data struct {
		Service domain.Service `json:"service"`
	} `json:"data"`
}

// Add handles http request to add a catalog service.
func (h *Handler) Add(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req addRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	price, err := moneypkg.Parse(req.Price)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	svc, err := h.service.Add(ctx, req.Name, price, domain.ServiceKind(req.Kind))
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	var res serviceResponse
	res.Data.Service = svc

	gctx.JSON(http.StatusOK, res)
}

type listRequest struct {
	Kind string `form:"kind" binding:"omitempty,servicekind"`
}

type servicesResponse struct {
	Data struct {
		Services []domain.Service `json:"services"`
	} `json:"data"`
}

// List handles http request to list the catalog, optionally filtered by kind.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	services, err := h.service.List(ctx, domain.ServiceKind(req.Kind))
	if err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	var res servicesResponse
	res.Data.Services = services

	gctx.JSON(http.StatusOK, res)
}

type removeRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Remove handles http request to delete a catalog service.
func (h *Handler) Remove(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req removeRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	if err := h.service.Remove(ctx, req.ID); err != nil {
		web.Fail(gctx, err, errStatus)
		return
	}

	gctx.Status(http.StatusNoContent)
}
