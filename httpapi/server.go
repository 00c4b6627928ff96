// Package httpapi exposes the vending machine over HTTP. Customer routes
// are open; admin routes sit behind a bearer-token check issued by the
// login endpoint.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	vendo "github.com/vendolabs/vendo"
)

// Server wires the machine into an echo instance.
type Server struct {
	machine *vendo.Machine
	auth    *authenticator
	logger  *slog.Logger
	echo    *echo.Echo
}

// New builds the HTTP server around a machine. The admin credentials are a
// single operator account; adminPassHash is a bcrypt hash.
func New(m *vendo.Machine, jwtSecret, adminUser, adminPassHash string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		machine: m,
		auth:    newAuthenticator(jwtSecret, adminUser, adminPassHash, logger),
		logger:  logger,
		echo:    echo.New(),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(echomw.Recover())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleRoot)

	customer := s.echo.Group("/api/customer")
	customer.GET("/available-products", s.handleAvailableProducts)
	customer.POST("/buy", s.handleBuy)

	admin := s.echo.Group("/api/admin")
	admin.POST("/login", s.handleLogin)

	guarded := admin.Group("", s.auth.middleware())
	guarded.POST("/backup", s.handleBackup)
	guarded.POST("/restore", s.handleRestore)
	guarded.GET("/items", s.handleListItems)
	guarded.POST("/items", s.handleAddItem)
	guarded.DELETE("/items/:id", s.handleRemoveItem)
	guarded.PUT("/items/:id/price", s.handleChangePrice)
	guarded.PUT("/denominations", s.handleSetDenominations)
	guarded.PUT("/currency", s.handleSetCurrency)
	guarded.POST("/deposit", s.handleDeposit)
	guarded.POST("/withdraw", s.handleWithdraw)
	guarded.GET("/balance", s.handleBalance)
	guarded.GET("/logs", s.handleLogs)
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start runs the server on the given address until Shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server starting", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
