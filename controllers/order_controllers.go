package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/littlelemon/ordering-api/models"
	"github.com/littlelemon/ordering-api/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// orderView is the response projection of an order with its derived totals.
type orderView struct {
	models.Order
	Total    decimal.Decimal `json:"total"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func newOrderView(order models.Order) orderView {
	return orderView{
		Order:    order,
		Total:    order.Total(),
		Subtotal: order.Subtotal(),
	}
}

// PlaceOrder materializes the customer's cart as an order. Each line's price
// is re-read from the menu item at this instant, not taken from the cart
// snapshot, and the whole conversion is one transaction.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	if currentRole(c) != models.RoleCustomer {
		utils.RespondError(c, http.StatusForbidden, errors.New("only customers can place orders"))
		return
	}

	cart, err := getOrCreateCart(oc.DB, userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var lines []models.CartItem
	if err := oc.DB.Where("cart_id = ?", cart.ID).Find(&lines).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if len(lines) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cart is empty"))
		return
	}

	var order models.Order
	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			CustomerID: userID,
			Status:     models.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			var item models.MenuItem
			if err := tx.First(&item, line.MenuItemID).Error; err != nil {
				return err
			}
			orderItem := models.NewOrderItem(order.ID, &item, line.Quantity)
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := oc.DB.Preload("Items").First(&order, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %d placed by customer %d", order.ID, userID)

	utils.RespondJSON(c, http.StatusCreated, "Order placed", newOrderView(order))
}

// ListOrders is role-scoped: managers and admins see everything, delivery
// crew see their assignments, customers see their own orders. Supports
// ?paid=, ?status= and ?ordering=created|-created|total|-total.
func (oc *OrderController) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	query := oc.DB.Preload("Items")
	switch currentRole(c) {
	case models.RoleManager, models.RoleAdmin:
	case models.RoleDeliveryCrew:
		query = query.Where("delivery_crew_id = ?", userID)
	default:
		query = query.Where("customer_id = ?", userID)
	}

	if paid := c.Query("paid"); paid != "" {
		val, err := strconv.ParseBool(paid)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("paid must be a boolean"))
			return
		}
		query = query.Where("paid = ?", val)
	}
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", status))
			return
		}
		query = query.Where("status = ?", status)
	}

	ordering := c.Query("ordering")
	switch ordering {
	case "created":
		query = query.Order("created_at")
	case "", "-created":
		query = query.Order("created_at desc")
	case "total", "-total":
		// Totals are derived from the lines; sorted below after loading.
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("ordering must be created, -created, total or -total"))
		return
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, newOrderView(order))
	}

	if ordering == "total" || ordering == "-total" {
		sort.SliceStable(views, func(i, j int) bool {
			if ordering == "total" {
				return views[i].Total.LessThan(views[j].Total)
			}
			return views[j].Total.LessThan(views[i].Total)
		})
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", views)
}

// canViewOrder: managers/admins, the assigned crew member or the owner.
func canViewOrder(role string, userID uint, order *models.Order) bool {
	switch role {
	case models.RoleManager, models.RoleAdmin:
		return true
	case models.RoleDeliveryCrew:
		return order.DeliveryCrewID != nil && *order.DeliveryCrewID == userID
	default:
		return order.CustomerID == userID
	}
}

// GetOrder
func (oc *OrderController) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if !canViewOrder(currentRole(c), userID, &order) {
		utils.RespondError(c, http.StatusForbidden, errors.New("not authorized to view this order"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", newOrderView(order))
}

// UpdateOrder is a full replace of the mutable fields, managers and admins
// only.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	role := currentRole(c)
	if role != models.RoleManager && role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, errors.New("not authorized to update this order"))
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	var body struct {
		Status       *string `json:"status"`
		Paid         *bool   `json:"paid"`
		Discount     *int    `json:"discount"`
		DeliveryCrew *uint   `json:"delivery_crew"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Status == nil || body.Paid == nil || body.Discount == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("status, paid and discount are required"))
		return
	}

	if !models.ValidOrderStatus(*body.Status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", *body.Status))
		return
	}
	if models.TerminalOrderStatus(order.Status) && *body.Status != order.Status {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order is already %s", order.Status))
		return
	}
	if *body.Discount < 0 || *body.Discount > 100 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("discount must be between 0 and 100"))
		return
	}

	order.Status = *body.Status
	order.Paid = *body.Paid
	order.Discount = *body.Discount
	order.DeliveryCrewID = nil
	if body.DeliveryCrew != nil {
		var crew models.User
		if err := oc.DB.First(&crew, *body.DeliveryCrew).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("delivery crew user not found"))
			return
		}
		order.DeliveryCrewID = &crew.ID
	}

	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", newOrderView(order))
}

// PatchOrder allows exactly one semantic per call: a status change (manager,
// admin or the assigned crew member) or a crew assignment (manager/admin).
func (oc *OrderController) PatchOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	role := currentRole(c)
	if role != models.RoleManager && role != models.RoleAdmin && role != models.RoleDeliveryCrew {
		utils.RespondError(c, http.StatusForbidden, errors.New("not authorized to update this order"))
		return
	}

	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	var body struct {
		Status       *string `json:"status"`
		DeliveryCrew *uint   `json:"delivery_crew"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch {
	case body.Status != nil:
		if role == models.RoleDeliveryCrew &&
			(order.DeliveryCrewID == nil || *order.DeliveryCrewID != userID) {
			utils.RespondError(c, http.StatusForbidden, errors.New("order is not assigned to you"))
			return
		}
		if !models.ValidOrderStatus(*body.Status) {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", *body.Status))
			return
		}
		if models.TerminalOrderStatus(order.Status) && *body.Status != order.Status {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order is already %s", order.Status))
			return
		}

		order.Status = *body.Status
		if err := oc.DB.Save(&order).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Order status updated", gin.H{"status": order.Status})

	case body.DeliveryCrew != nil:
		if role != models.RoleManager && role != models.RoleAdmin {
			utils.RespondError(c, http.StatusForbidden, errors.New("only managers can assign delivery crew"))
			return
		}

		var crew models.User
		if err := oc.DB.First(&crew, *body.DeliveryCrew).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("delivery crew user not found"))
			return
		}

		order.DeliveryCrewID = &crew.ID
		if err := oc.DB.Save(&order).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Delivery crew assigned", gin.H{"delivery_crew": crew})

	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("only the status and delivery_crew fields can be updated"))
	}
}
