package price

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"cardmarket.GO/api"
	priceRepo "cardmarket.GO/model/repository/price"
)

func init() {
	api.RegisterModule(RegisterPriceRoutes)
}

func RegisterPriceRoutes(apiGroup *echo.Group, db *gorm.DB) {
	repo, err := priceRepo.NewPriceRepository(db)
	if err != nil {
		panic("price api: " + err.Error())
	}

	// GET /api/price/:id – canonical price + provenance for one sellable unit
	apiGroup.GET("/price/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inventory id"})
		}

		info, err := repo.Resolve(uint(id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "inventory record not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "price lookup failed"})
		}
		return c.JSON(http.StatusOK, info)
	})
}
