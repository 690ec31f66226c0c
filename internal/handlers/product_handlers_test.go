package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/farmify/farmify-api/internal/models"
	"github.com/farmify/farmify-api/internal/upload"
	"github.com/farmify/farmify-api/internal/validation"
)

func newProductHandler(t *testing.T) *ProductHandler {
	db := initTestDB(t)
	uploads, err := upload.NewStore(t.TempDir())
	require.NoError(t, err)

	return &ProductHandler{
		DB:       db,
		Uploads:  uploads,
		Validate: validation.New(),
		BaseURL:  "http://localhost:8080",
	}
}

func multipartContext(t *testing.T, e *echo.Echo, fields map[string]string, fileField, fileName string, fileBody []byte) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileBody)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/add", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestGetProductsResolvesPictureURLs(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	require.NoError(t, h.DB.Create(&models.Product{
		Name: "Tomatoes", Picture: "t.jpg", Quantity: 10, PricePerKg: 25,
	}).Error)

	rec, c := jsonContext(t, e, http.MethodGet, "/buyer/getallproducts", nil)

	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	require.Equal(t, "http://localhost:8080/uploads/t.jpg", resp.Products[0].Picture)
}

func TestCreateProductWithUpload(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	fields := map[string]string{
		"name":       "Tomatoes",
		"quantity":   "50",
		"pricePerKg": "25.5",
	}
	rec, c := multipartContext(t, e, fields, "picture", "tomato.png", []byte("not really a png"))
	asCaller(c, 1, models.RoleAdmin)

	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string         `json:"message"`
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Tomatoes", resp.Product.Name)
	require.Equal(t, uint(50), resp.Product.Quantity)
	require.Equal(t, 25.5, resp.Product.PricePerKg)
	require.Contains(t, resp.Product.Picture, "http://localhost:8080/uploads/")

	var stored models.Product
	require.NoError(t, h.DB.First(&stored, resp.Product.ID).Error)
	require.NotEmpty(t, stored.Picture)
}

func TestCreateProductRequiresPicture(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	fields := map[string]string{
		"name":       "Tomatoes",
		"quantity":   "50",
		"pricePerKg": "25.5",
	}
	_, c := multipartContext(t, e, fields, "", "", nil)
	asCaller(c, 1, models.RoleAdmin)

	err := h.CreateProduct(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateProductRequiresFields(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	_, c := multipartContext(t, e, map[string]string{"name": "Tomatoes"}, "", "", nil)
	asCaller(c, 1, models.RoleAdmin)

	err := h.CreateProduct(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestEditProductPartialUpdate(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	p := models.Product{Name: "Tomatoes", Picture: "t.jpg", Quantity: 10, PricePerKg: 25}
	require.NoError(t, h.DB.Create(&p).Error)

	newPrice := 30.0
	rec, c := jsonContext(t, e, http.MethodPut, "/admin/editproduct/1", map[string]interface{}{"pricePerKg": newPrice})
	asCaller(c, 1, models.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.EditProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Product
	require.NoError(t, h.DB.First(&stored, p.ID).Error)
	require.Equal(t, 30.0, stored.PricePerKg)
	require.Equal(t, "Tomatoes", stored.Name)
	require.Equal(t, uint(10), stored.Quantity)
}

func TestEditProductNotFound(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	_, c := jsonContext(t, e, http.MethodPut, "/admin/editproduct/99", map[string]interface{}{"name": "X"})
	asCaller(c, 1, models.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := h.EditProduct(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestDeleteProductNotFound(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	_, c := jsonContext(t, e, http.MethodDelete, "/admin/deleteproduct/99", nil)
	asCaller(c, 1, models.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := h.DeleteProduct(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestDeleteProduct(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	p := models.Product{Name: "Tomatoes", Picture: "t.jpg", Quantity: 10, PricePerKg: 25}
	require.NoError(t, h.DB.Create(&p).Error)

	rec, c := jsonContext(t, e, http.MethodDelete, "/admin/deleteproduct/1", nil)
	asCaller(c, 1, models.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, h.DB.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}
