package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	vendo "github.com/vendolabs/vendo"
	"github.com/vendolabs/vendo/inventory"
)

type errorResponse struct {
	Error string `json:"error"`
}

// coin is one slot of the tendered cash in a buy request.
type coin struct {
	Denomination int `json:"denomination"`
	Count        int `json:"count"`
}

type buyRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Coins    []coin `json:"coins"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type itemRequest struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

type amountRequest struct {
	Amount int `json:"amount"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"service":  "vendo",
		"currency": s.machine.Currency(),
		"restored": s.machine.Restored(),
	})
}

func (s *Server) handleAvailableProducts(c echo.Context) error {
	available := make([]inventory.Item, 0)
	for _, it := range s.machine.Items() {
		if it.Quantity > 0 {
			available = append(available, it)
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"products": available})
}

func (s *Server) handleBuy(c echo.Context) error {
	var req buyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	tendered := 0
	for _, cn := range req.Coins {
		if cn.Denomination <= 0 || cn.Count <= 0 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "coins must have positive denomination and count"})
		}
		tendered += cn.Denomination * cn.Count
	}

	receipt, err := s.machine.Buy(req.ItemID, req.Quantity, tendered)
	if err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, receipt)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	token, err := s.auth.login(req.Username, req.Password)
	if err != nil {
		s.logger.Warn("login rejected", "username", req.Username)
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleBackup(c echo.Context) error {
	if err := s.machine.Backup(c.Request().Context()); err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "machine state backed up"})
}

func (s *Server) handleRestore(c echo.Context) error {
	restored := s.machine.Restore(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]bool{"restored": restored})
}

func (s *Server) handleListItems(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"items": s.machine.Items()})
}

func (s *Server) handleAddItem(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	item, err := s.machine.AddOrRestock(inventory.Item{
		Type:     req.Type,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) handleRemoveItem(c echo.Context) error {
	if err := s.machine.RemoveItem(c.Param("id")); err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "item removed"})
}

func (s *Server) handleChangePrice(c echo.Context) error {
	var req struct {
		Price int `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	item, err := s.machine.ChangePrice(c.Param("id"), req.Price)
	if err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) handleSetDenominations(c echo.Context) error {
	var req struct {
		Denominations []int `json:"denominations"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := s.machine.SetDenominations(req.Denominations); err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"denominations": s.machine.Denominations()})
}

func (s *Server) handleSetCurrency(c echo.Context) error {
	var req struct {
		Currency string `json:"currency"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := s.machine.SetCurrency(req.Currency); err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"currency": s.machine.Currency()})
}

func (s *Server) handleDeposit(c echo.Context) error {
	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	entry, err := s.machine.Deposit(req.Amount)
	if err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"entry": entry, "balance": s.machine.Balance()})
}

func (s *Server) handleWithdraw(c echo.Context) error {
	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	entry, err := s.machine.Withdraw(req.Amount)
	if err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"entry": entry, "balance": s.machine.Balance()})
}

func (s *Server) handleBalance(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"balance":  s.machine.Balance(),
		"currency": s.machine.Currency(),
	})
}

func (s *Server) handleLogs(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"logs": s.machine.Logs()})
}

// domainError maps machine errors onto HTTP statuses. Not-found lookups
// are 404, refused operations are 400, store outages are 503, anything
// else is a 500.
func (s *Server) domainError(c echo.Context, err error) error {
	switch {
	case vendo.IsNotFound(err):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case vendo.IsRejection(err):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case vendo.IsRetryable(err):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
