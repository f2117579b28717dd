package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"autoparts-storefront/internal/domain"
)

// bindProductForm reads a listing form either as JSON or, when images are
// attached, as multipart/form-data with one field per attribute,
// compatibleVehicles as a JSON string and files under "images".
func bindProductForm(c *gin.Context) (domain.ProductForm, []domain.ImageUpload, error) {
	var form domain.ProductForm
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		if err := c.ShouldBindJSON(&form); err != nil {
			return domain.ProductForm{}, nil, err
		}
		return form, nil, nil
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return domain.ProductForm{}, nil, err
	}
	value := func(key string) string {
		if vs := mf.Value[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	form = domain.ProductForm{
		Title:          value("title"),
		SKU:            value("sku"),
		Description:    value("description"),
		Category:       value("category"),
		Status:         value("status"),
		ExistingImages: mf.Value["existingImages"],
	}
	if raw := value("price"); raw != "" {
		if form.Price, err = strconv.ParseFloat(raw, 64); err != nil {
			return domain.ProductForm{}, nil, fmt.Errorf("price: %w", err)
		}
	}
	if raw := value("stock"); raw != "" {
		if form.Stock, err = strconv.Atoi(raw); err != nil {
			return domain.ProductForm{}, nil, fmt.Errorf("stock: %w", err)
		}
	}
	if raw := value("compatibleVehicles"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form.CompatibleVehicles); err != nil {
			return domain.ProductForm{}, nil, fmt.Errorf("compatibleVehicles: %w", err)
		}
	}

	images := make([]domain.ImageUpload, 0, len(mf.File["images"]))
	for _, fh := range mf.File["images"] {
		img, err := readUpload(fh)
		if err != nil {
			return domain.ProductForm{}, nil, fmt.Errorf("image %s: %w", fh.Filename, err)
		}
		images = append(images, img)
	}
	return form, images, nil
}

func readUpload(fh *multipart.FileHeader) (domain.ImageUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.ImageUpload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.ImageUpload{}, err
	}
	return domain.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *handlers) sellerProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	product, err := h.deps.Seller.Product(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handlers) createSellerProduct(c *gin.Context) {
	h.saveSellerProduct(c, 0, http.StatusCreated)
}

func (h *handlers) updateSellerProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.saveSellerProduct(c, id, http.StatusOK)
}

func (h *handlers) saveSellerProduct(c *gin.Context, id int64, status int) {
	form, images, err := bindProductForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid product form", "bad_request"))
		return
	}
	product, err := h.deps.Seller.SaveProduct(c.Request.Context(), principalFrom(c), id, form, images)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, product)
}

func (h *handlers) sellerOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	detail, err := h.deps.Seller.Order(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
