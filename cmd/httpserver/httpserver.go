// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/entrydelivery"
	"github.com/go-petr/pet-ledger/internal/entryrepo"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/transferdelivery"
	"github.com/go-petr/pet-ledger/internal/txrepo"
	"github.com/go-petr/pet-ledger/internal/userrepo"
	"github.com/go-petr/pet-ledger/internal/userservice"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB         *sql.DB
	Engine     *gin.Engine
	Config     configpkg.Config
	TokenMaker tokenpkg.Maker
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// ServiceConfig returns the account service settings from the application config.
func ServiceConfig(config configpkg.Config) accountservice.Config {
	return accountservice.Config{
		RequirePIN:       config.RequirePIN,
		HistoryWindow:    config.HistoryWindow,
		DefaultPageSize:  config.DefaultPageSize,
		MaxPageSize:      config.MaxPageSize,
		ReferenceRetries: config.ReferenceRetries,
	}
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	entryRepo := entryrepo.NewRepoPGS(conn)
	coordinator := txrepo.NewCoordinatorPGS(conn)

	tokenMaker, err := tokenpkg.NewMaker(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	userService := userservice.New(userRepo)
	accountService := accountservice.New(accountRepo, entryRepo, coordinator, userService, ServiceConfig(config))

	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(accountService)
	entryHandler := entrydelivery.NewHandler(accountService)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := accountdelivery.RegisterValidators(v); err != nil {
			return nil, err
		}

		if err := v.RegisterValidation("entry_kind", entrydelivery.ValidEntryKind); err != nil {
			return nil, fmt.Errorf("cannot register entry_kind validator: %w", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.PUT("/accounts/:id", accountHandler.UpdateType)
	authRoutes.PUT("/accounts/:id/freeze", accountHandler.Freeze)
	authRoutes.PUT("/accounts/:id/unfreeze", accountHandler.Unfreeze)
	authRoutes.PUT("/accounts/:id/close", accountHandler.Close)
	authRoutes.DELETE("/accounts/:id", accountHandler.Delete)

	authRoutes.POST("/accounts/deposit", transferHandler.Deposit)
	authRoutes.POST("/accounts/withdraw", transferHandler.Withdraw)
	authRoutes.POST("/accounts/transfer", transferHandler.Transfer)

	authRoutes.GET("/accounts/:id/transactions", entryHandler.List)
	authRoutes.GET("/accounts/:id/transactions/:entry_id", entryHandler.Get)

	server := &Server{
		DB:         conn,
		Engine:     engine,
		Config:     config,
		TokenMaker: tokenMaker,
	}

	return server, nil
}
