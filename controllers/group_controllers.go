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

// GroupController manages the manager and delivery crew rosters. Membership
// lives in the single role column, so adding a member promotes the user and
// removing one demotes them back to customer.
type GroupController struct {
	DB *gorm.DB
}

func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{DB: db}
}

func (gc *GroupController) listByRole(c *gin.Context, role string, label string) {
	var users []models.User
	if err := gc.DB.Where("role = ?", role).Order("email").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, label, users)
}

func (gc *GroupController) addByEmail(c *gin.Context, role string, group string) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := gc.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user with that email not found"))
		return
	}

	if user.Role == role {
		utils.RespondError(c, http.StatusBadRequest, errors.New("user is already in the "+group+" group"))
		return
	}

	user.Role = role
	if err := gc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %s added to the %s group", user.Email, group)

	utils.RespondJSON(c, http.StatusCreated, "User added to the "+group+" group", user)
}

func (gc *GroupController) removeByID(c *gin.Context, role string, group string) {
	id, _ := strconv.Atoi(c.Param("user_id"))

	var user models.User
	if err := gc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	if user.Role != role {
		utils.RespondError(c, http.StatusBadRequest, errors.New("user is not in the "+group+" group"))
		return
	}

	user.Role = models.RoleCustomer
	if err := gc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User removed from the "+group+" group", gin.H{"user_id": user.ID})
}

// ListManagers
func (gc *GroupController) ListManagers(c *gin.Context) {
	gc.listByRole(c, models.RoleManager, "Managers")
}

// AddManager
func (gc *GroupController) AddManager(c *gin.Context) {
	gc.addByEmail(c, models.RoleManager, "managers")
}

// RemoveManager
func (gc *GroupController) RemoveManager(c *gin.Context) {
	gc.removeByID(c, models.RoleManager, "managers")
}

// ListDeliveryCrew
func (gc *GroupController) ListDeliveryCrew(c *gin.Context) {
	gc.listByRole(c, models.RoleDeliveryCrew, "Delivery crew")
}

// AddDeliveryCrew
func (gc *GroupController) AddDeliveryCrew(c *gin.Context) {
	gc.addByEmail(c, models.RoleDeliveryCrew, "delivery crew")
}

// RemoveDeliveryCrew
func (gc *GroupController) RemoveDeliveryCrew(c *gin.Context) {
	gc.removeByID(c, models.RoleDeliveryCrew, "delivery crew")
}
