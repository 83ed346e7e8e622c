// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-economy/internal/accountdelivery"
	"github.com/go-petr/pet-economy/internal/accountservice"
	"github.com/go-petr/pet-economy/internal/accrualservice"
	"github.com/go-petr/pet-economy/internal/catalogdelivery"
	"github.com/go-petr/pet-economy/internal/catalogservice"
	"github.com/go-petr/pet-economy/internal/escrowdelivery"
	"github.com/go-petr/pet-economy/internal/escrowservice"
	"github.com/go-petr/pet-economy/internal/identity"
	"github.com/go-petr/pet-economy/internal/loandelivery"
	"github.com/go-petr/pet-economy/internal/metrics"
	"github.com/go-petr/pet-economy/internal/middleware"
	"github.com/go-petr/pet-economy/internal/notify"
	"github.com/go-petr/pet-economy/internal/proposalservice"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/go-petr/pet-economy/internal/transferdelivery"
	"github.com/go-petr/pet-economy/internal/transferservice"
	"github.com/go-petr/pet-economy/pkg/configpkg"
	"github.com/go-petr/pet-economy/pkg/moneypkg"
	"github.com/go-petr/pet-economy/pkg/tokenpkg"
)

// Deps holds the collaborators the services are built from.
type Deps struct {
	Store     store.UnitOfWork
	Names     identity.Resolver
	Notifier  notify.Notifier
	Proposals proposalservice.Repo
}

// Services holds the service layer of the economy.
type Services struct {
	Accounts  *accountservice.Service
	Transfers *transferservice.Service
	Accrual   *accrualservice.Service
	Escrows   *escrowservice.Service
	Catalog   *catalogservice.Service
	Proposals *proposalservice.Service
}

// NewServices wires the service layer on top of deps.
func NewServices(deps Deps, config configpkg.Config) Services {
	transfers := transferservice.New(deps.Store, transferservice.LowestIDSelector{}, deps.Notifier)

	return Services{
		Accounts:  accountservice.New(deps.Store.Accounts(), deps.Names),
		Transfers: transfers,
		Accrual:   accrualservice.New(deps.Store, deps.Names),
		Escrows:   escrowservice.New(deps.Store, deps.Notifier),
		Catalog:   catalogservice.New(deps.Store.Services()),
		Proposals: proposalservice.New(deps.Proposals, transfers, config.ProposalTTL),
	}
}

// Server holds the services, handlers router and configuration.
type Server struct {
	Engine     *gin.Engine
	Config     configpkg.Config
	Services   Services
	TokenMaker tokenpkg.Maker
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(services Services, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("amount", moneypkg.ValidAmount); err != nil {
			return nil, errors.New("cannot register amount validator")
		}

		if err := v.RegisterValidation("servicekind", catalogdelivery.ValidServiceKind); err != nil {
			return nil, errors.New("cannot register servicekind validator")
		}
	}

	accountHandler := accountdelivery.NewHandler(services.Accounts)
	transferHandler := transferdelivery.NewHandler(services.Proposals, services.Transfers)
	loanHandler := loandelivery.NewHandler(services.Transfers, services.Accrual)
	escrowHandler := escrowdelivery.NewHandler(services.Escrows)
	catalogHandler := catalogdelivery.NewHandler(services.Catalog)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics())
	engine.Use(gin.Recovery())

	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/accounts", accountHandler.Register)
	authRoutes.GET("/accounts/me", accountHandler.Me)
	authRoutes.GET("/accounts", accountHandler.List)

	authRoutes.POST("/transfers/proposals", transferHandler.Propose)
	authRoutes.POST("/transfers/proposals/:id/confirm", transferHandler.Confirm)

	authRoutes.POST("/services", catalogHandler.Add)
	authRoutes.GET("/services", catalogHandler.List)
	authRoutes.DELETE("/services/:id", catalogHandler.Remove)
	authRoutes.POST("/services/:id/buy", transferHandler.Buy)
	authRoutes.POST("/services/:id/claim", escrowHandler.Claim)

	authRoutes.GET("/loans/presets", loanHandler.Presets)
	authRoutes.POST("/loans", loanHandler.Issue)
	authRoutes.POST("/loans/:id/repay", loanHandler.Repay)
	authRoutes.GET("/loans/debts", loanHandler.Debts)

	authRoutes.GET("/escrows/pending", escrowHandler.Pending)
	authRoutes.POST("/escrows/:id/confirm", escrowHandler.Confirm)
	authRoutes.GET("/escrows/log", escrowHandler.Log)

	server := &Server{
		Engine:     engine,
		Config:     config,
		Services:   services,
		TokenMaker: tokenMaker,
	}

	return server, nil
}
