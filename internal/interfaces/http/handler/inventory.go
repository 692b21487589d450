package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/moodtrack/backend/internal/application/inventory"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// InventoryHandler serves the item pages
type InventoryHandler struct {
	BaseHandler
	items *inventoryapp.ItemService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(base BaseHandler, items *inventoryapp.ItemService) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, items: items}
}

// AddItemForm is the payload of POST /add_item. Quantity is a pointer so
// that a missing field fails binding while 0 stays valid.
type AddItemForm struct {
	Name     string `form:"item_name" binding:"required,max=200"`
	Quantity *int   `form:"quantity" binding:"required"`
	Price    string `form:"price" binding:"required"`
}

// UpdateItemForm is the payload of POST /update_item/:id
type UpdateItemForm struct {
	Quantity *int   `form:"new_quantity" binding:"required"`
	Price    string `form:"new_price" binding:"required"`
}

var errInvalidPrice = shared.NewDomainError("INVALID_PRICE", "Price must be a number")

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errInvalidPrice
	}
	return d, nil
}

// List renders the inventory
//
// GET /
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.items.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", "Inventory", items)
}

// Add creates an item
//
// POST /add_item
func (h *InventoryHandler) Add(c *gin.Context) {
	var form AddItemForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}
	price, err := parsePrice(form.Price)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	item, err := h.items.Create(c.Request.Context(), inventoryapp.CreateItemInput{
		Name:     form.Name,
		Quantity: *form.Quantity,
		Price:    price,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.flashRedirect(c, middleware.FlashSuccess, "Added "+item.Name, "/")
}

// Edit renders the update form
//
// GET /update_item/:id
func (h *InventoryHandler) Edit(c *gin.Context) {
	item, err := h.items.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.render(c, http.StatusOK, "update_item.html", "Update item", item)
}

// Update sets quantity and price
//
// POST /update_item/:id
func (h *InventoryHandler) Update(c *gin.Context) {
	var form UpdateItemForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, err)
		return
	}
	price, err := parsePrice(form.Price)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	item, err := h.items.Update(c.Request.Context(), c.Param("id"), inventoryapp.UpdateItemInput{
		Quantity: *form.Quantity,
		Price:    price,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.flashRedirect(c, middleware.FlashSuccess, "Updated "+item.Name, "/")
}

// Delete removes an item
//
// GET /delete_item/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	err := h.items.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, shared.ErrNotFound):
		h.flashRedirect(c, middleware.FlashError, "Item not found", "/")
	case err != nil:
		h.HandleError(c, err)
	default:
		h.flashRedirect(c, middleware.FlashSuccess, "Item deleted", "/")
	}
}
