package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/littlelemon/ordering-api/models"
	"github.com/littlelemon/ordering-api/utils"
)

type CartController struct {
	DB *gorm.DB
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{DB: db}
}

// getOrCreateCart returns the customer's cart, creating an empty one on
// first access. A concurrent create losing the race on the unique customer
// index falls back to fetching the winner's row.
func getOrCreateCart(db *gorm.DB, customerID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("customer_id = ?", customerID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{CustomerID: customerID}
	if err := db.Create(&cart).Error; err != nil {
		if isDuplicateErr(err) {
			err = db.Where("customer_id = ?", customerID).First(&cart).Error
		}
		if err != nil {
			return nil, err
		}
	}
	return &cart, nil
}

// GetCart lists the customer's cart with all its lines.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	cart, err := getOrCreateCart(cc.DB, userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := cc.DB.Preload("Items.MenuItem").First(cart, cart.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart", cart)
}

// AddToCart upserts one line. Re-adding a menu item replaces the quantity
// rather than incrementing it, and the unit price is re-snapshotted from the
// menu item's current price on every write.
func (cc *CartController) AddToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var body struct {
		MenuItem uint `json:"menuitem" binding:"required"`
		Quantity *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}
	if quantity < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("quantity cannot be negative"))
		return
	}

	var item models.MenuItem
	if err := cc.DB.First(&item, body.MenuItem).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	cart, err := getOrCreateCart(cc.DB, userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	line, err := cc.upsertLine(cart.ID, &item, quantity)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Cart line saved", line)
}

func (cc *CartController) upsertLine(cartID uint, item *models.MenuItem, quantity int) (*models.CartItem, error) {
	var line models.CartItem
	err := cc.DB.Where("cart_id = ? AND menu_item_id = ?", cartID, item.ID).First(&line).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		line = models.CartItem{
			CartID:     cartID,
			MenuItemID: item.ID,
			Quantity:   quantity,
		}
		line.Reprice(item.Price)
		err = cc.DB.Create(&line).Error
		if isDuplicateErr(err) {
			// Lost a concurrent insert race; fall through to the update path.
			err = cc.DB.Where("cart_id = ? AND menu_item_id = ?", cartID, item.ID).First(&line).Error
		} else {
			return &line, err
		}
	}
	if err != nil {
		return nil, err
	}

	line.Quantity = quantity
	line.Reprice(item.Price)
	if err := cc.DB.Save(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// RemoveFromCart deletes one line, scoped to the caller's own cart.
func (cc *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	lineID, _ := strconv.Atoi(c.Param("line_id"))

	var line models.CartItem
	err := cc.DB.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.customer_id = ?", lineID, userID).
		First(&line).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("cart line not found"))
		return
	}

	if err := cc.DB.Delete(&line).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item removed from cart", gin.H{"cart_item_id": line.ID})
}
