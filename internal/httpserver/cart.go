package httpserver

import (
	"encoding/json"
	"net/http"

	"storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

// syncCartRequest keeps cart as raw JSON so a non-array payload can be
// rejected with 400 instead of a bind error.
type syncCartRequest struct {
	Cart json.RawMessage `json:"cart"`
}

func getCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		items, err := carts.Get(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": items})
	}
}

func syncCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)

		var req syncCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart must be an array"})
			return
		}
		// null unmarshals into a nil slice without error; only an array may
		// replace the stored cart.
		if len(req.Cart) == 0 || string(req.Cart) == "null" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart must be an array"})
			return
		}
		var items []domain.CartItem
		if err := json.Unmarshal(req.Cart, &items); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart must be an array"})
			return
		}

		if err := carts.Sync(c.Request.Context(), u.ID, items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart synced successfully", "cart": items})
	}
}
