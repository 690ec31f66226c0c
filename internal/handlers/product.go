package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/farmify/farmify-api/internal/models"
	"github.com/farmify/farmify-api/internal/mykafka"
	"github.com/farmify/farmify-api/internal/upload"
	"github.com/farmify/farmify-api/internal/validation"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Uploads  *upload.Store
	Validate *validatorv10.Validate
	BaseURL  string
}

// pictureURL resolves a stored filename to a fetchable URL. Empty
// filenames stay empty.
func (h *ProductHandler) pictureURL(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf("%s/uploads/%s", h.BaseURL, name)
}

// GetProducts lists the whole catalog with picture references resolved.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	var products []models.Product
	if err := h.DB.WithContext(c.Request().Context()).Order("id ASC").Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	for i := range products {
		products[i].Picture = h.pictureURL(products[i].Picture)
	}

	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// CreateProduct adds a catalog item. The picture comes either from an
// uploaded "picture" file part or from a remote URL in the "picture" form
// field; having neither is a validation error.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	name := c.FormValue("name")
	quantityRaw := c.FormValue("quantity")
	priceRaw := c.FormValue("pricePerKg")

	if name == "" || quantityRaw == "" || priceRaw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, quantity and pricePerKg are required")
	}

	quantity, err := strconv.ParseUint(quantityRaw, 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil || price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pricePerKg")
	}

	filename, err := h.resolvePicture(c)
	if err != nil {
		return err
	}

	product := models.Product{
		Name:       name,
		Picture:    filename,
		Quantity:   uint(quantity),
		PricePerKg: price,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]interface{}{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	product.Picture = h.pictureURL(product.Picture)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "product added successfully",
		"product": product,
	})
}

func (h *ProductHandler) resolvePicture(c echo.Context) (string, error) {
	if fh, err := c.FormFile("picture"); err == nil {
		name, err := h.Uploads.SaveMultipart(fh)
		if err != nil {
			return "", echo.NewHTTPError(http.StatusInternalServerError, "could not save picture")
		}
		return name, nil
	}

	if raw := c.FormValue("picture"); raw != "" {
		name, err := h.Uploads.FetchRemote(c.Request().Context(), raw)
		if err != nil {
			return "", echo.NewHTTPError(http.StatusBadRequest, "could not fetch picture url")
		}
		return name, nil
	}

	return "", echo.NewHTTPError(http.StatusBadRequest, "picture is required (upload or URL)")
}

// EditProduct applies a partial update.
func (h *ProductHandler) EditProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req validation.EditProductRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return err
	}

	var product models.Product
	if err := h.DB.WithContext(c.Request().Context()).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.PricePerKg != nil {
		product.PricePerKg = *req.PricePerKg
	}

	if err := h.DB.WithContext(c.Request().Context()).Save(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]interface{}{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "product updated successfully",
		"product": product,
	})
}

// DeleteProduct removes a catalog item; unknown ids are a 404, never a
// silent success.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.DB.WithContext(c.Request().Context()).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := h.DB.WithContext(c.Request().Context()).Delete(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted successfully"})
}
