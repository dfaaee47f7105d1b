package sales

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"cardmarket.GO/api"
	salesService "cardmarket.GO/service/sales"
)

func init() {
	api.RegisterModule(RegisterSalesRoutes)
}

func RegisterSalesRoutes(apiGroup *echo.Group, db *gorm.DB) {
	svc, err := salesService.NewService(db, nil)
	if err != nil {
		panic("sales api: " + err.Error())
	}
	g := apiGroup.Group("/orders")

	// POST /api/orders – checkout
	g.POST("", func(c echo.Context) error {
		var in salesService.PlaceOrderInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION_FAILED", "message": err.Error()})
		}

		res, err := svc.PlaceOrder(c.Request().Context(), in)
		if err != nil {
			return orderError(c, err)
		}
		return c.JSON(http.StatusCreated, res)
	})

	// GET /api/orders/:id
	g.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION_FAILED", "message": "invalid order id"})
		}
		order, err := svc.GetOrder(uint(id))
		if err != nil {
			return orderError(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})

	// PUT /api/orders/:id/status – lifecycle transition
	g.PUT("/:id/status", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION_FAILED", "message": "invalid order id"})
		}
		var body struct {
			Status string `json:"status"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION_FAILED", "message": err.Error()})
		}

		order, err := svc.SetStatus(c.Request().Context(), uint(id), body.Status)
		if err != nil {
			return orderError(c, err)
		}
		return c.JSON(http.StatusOK, order)
	})
}

// orderError maps service errors onto the response taxonomy. Unknown errors
// get an opaque body and a correlated server-side log line.
func orderError(c echo.Context, err error) error {
	var (
		valErr        *salesService.ValidationError
		notFound      *salesService.ItemNotFoundError
		stockErr      *salesService.InsufficientStockError
		transitionErr *salesService.InvalidTransitionError
	)
	switch {
	case errors.As(err, &valErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "VALIDATION_FAILED", "message": valErr.Msg})
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ITEM_NOT_FOUND", "inventory_ids": notFound.InventoryIDs})
	case errors.As(err, &stockErr):
		return c.JSON(http.StatusConflict, echo.Map{"error": "INSUFFICIENT_STOCK", "shortfalls": stockErr.Shortfalls})
	case errors.As(err, &transitionErr):
		resp := echo.Map{"error": "INVALID_TRANSITION", "from": transitionErr.From, "to": transitionErr.To}
		if len(transitionErr.Shortfalls) > 0 {
			resp["shortfalls"] = transitionErr.Shortfalls
		}
		return c.JSON(http.StatusConflict, resp)
	case errors.Is(err, salesService.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ORDER_NOT_FOUND"})
	}

	correlation := uuid.NewString()
	log.Printf("order request failed (correlation %s): %v", correlation, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "INTERNAL", "correlation_id": correlation})
}
