package inventory

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"cardmarket.GO/api"
	inventoryService "cardmarket.GO/service/inventory"
)

func init() {
	api.RegisterModule(RegisterInventoryRoutes)
}

func RegisterInventoryRoutes(apiGroup *echo.Group, db *gorm.DB) {
	proc, err := inventoryService.NewProcessor(db)
	if err != nil {
		panic("inventory api: " + err.Error())
	}
	g := apiGroup.Group("/inventory")

	// POST /api/inventory/corrections – bulk stock/price corrections (JSON rows)
	g.POST("/corrections", func(c echo.Context) error {
		start := time.Now()

		var body struct {
			Rows []inventoryService.CorrectionRow `json:"rows"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if len(body.Rows) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows array is required and must not be empty"})
		}

		res, err := proc.ApplyCorrections(body.Rows)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error(), "request_duration_ms": duration})
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"succeeded":           res.Succeeded,
			"warnings":            res.Warnings,
			"errors":              res.Errors,
			"request_duration_ms": duration,
		})
	})

	// POST /api/inventory/import – CSV upload, same per-row semantics
	g.POST("/import", func(c echo.Context) error {
		start := time.Now()

		file, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipart 'file' field is required"})
		}
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		defer src.Close()

		res, err := inventoryService.ImportCSV(proc, src)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "request_duration_ms": duration})
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"total_rows":          res.TotalRows,
			"succeeded":           res.Succeeded,
			"warnings":            res.Warnings,
			"errors":              res.Errors,
			"request_duration_ms": duration,
		})
	})
}
