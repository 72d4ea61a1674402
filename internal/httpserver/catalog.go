package httpserver

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"

	"storefront/internal/domain"
	catalogsvc "storefront/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

// itemResponse carries the stored image as base64 text, the shape the web
// client renders directly.
type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Brand       string `json:"brand,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	Image       string `json:"image,omitempty"`
}

func toItemResponse(p domain.Product) itemResponse {
	out := itemResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		PriceCents:  p.PriceCents,
	}
	if len(p.Image) > 0 {
		out.Image = base64.StdEncoding.EncodeToString(p.Image)
	}
	return out
}

func listItemsHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := catalogsvc.Filter{
			Brand: c.Query("brand"),
			Sort:  c.Query("sort"),
		}
		if v := c.Query("minPrice"); v != "" {
			f.MinPriceCents, _ = strconv.ParseInt(v, 10, 64)
		}
		if v := c.Query("maxPrice"); v != "" {
			f.MaxPriceCents, _ = strconv.ParseInt(v, 10, 64)
		}

		products, err := catalog.List(c.Request.Context(), f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
			return
		}
		items := make([]itemResponse, 0, len(products))
		for _, p := range products {
			items = append(items, toItemResponse(p))
		}
		c.JSON(http.StatusOK, items)
	}
}

func itemFiltersHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		brands, err := catalog.Brands(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch filters"})
			return
		}
		buckets, err := catalog.PriceBuckets(c.Request.Context(), 4)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch filters"})
			return
		}
		if brands == nil {
			brands = []string{}
		}
		if buckets == nil {
			buckets = []catalogsvc.PriceBucket{}
		}
		c.JSON(http.StatusOK, gin.H{"brands": brands, "priceBuckets": buckets})
	}
}

func getItemHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
			return
		}

		p, err := catalog.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
			return
		}
		c.JSON(http.StatusOK, toItemResponse(*p))
	}
}

func createItemHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		description := c.PostForm("description")
		brand := c.PostForm("brand")
		priceCents, err := strconv.ParseInt(c.PostForm("priceCents"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "priceCents must be an integer"})
			return
		}

		var imageData []byte
		var imageType string
		if file, err := c.FormFile("image"); err == nil {
			f, err := file.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
				return
			}
			defer f.Close()
			imageData, err = io.ReadAll(f)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
				return
			}
			imageType = file.Header.Get("Content-Type")
		}

		p, err := catalog.Create(c.Request.Context(), catalogsvc.CreateInput{
			Name:        name,
			Description: description,
			Brand:       brand,
			PriceCents:  priceCents,
			Image:       imageData,
			ImageType:   imageType,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, toItemResponse(*p))
	}
}

func deleteItemHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID int64 `json:"id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
			return
		}
		if err := catalog.Delete(c.Request.Context(), req.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
	}
}
