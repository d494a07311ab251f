package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/littlelemon/ordering-api/models"
	"github.com/littlelemon/ordering-api/utils"
)

const menuImageDir = "public/uploads/menu_images"

type MenuItemController struct {
	DB *gorm.DB
}

func NewMenuItemController(db *gorm.DB) *MenuItemController {
	return &MenuItemController{DB: db}
}

// ListMenuItems supports ?category=<id>, ?featured=<bool>, ?search=<name
// substring> and ?ordering=price|-price.
func (mc *MenuItemController) ListMenuItems(c *gin.Context) {
	query := mc.DB.Preload("Category")

	if categoryID := c.Query("category"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if featured := c.Query("featured"); featured != "" {
		val, err := strconv.ParseBool(featured)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("featured must be a boolean"))
			return
		}
		query = query.Where("featured = ?", val)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	switch c.Query("ordering") {
	case "price":
		query = query.Order("price")
	case "-price":
		query = query.Order("price desc")
	case "":
		query = query.Order("name")
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("ordering must be price or -price"))
		return
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu items", items)
}

// GetMenuItem
func (mc *MenuItemController) GetMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.Preload("Category").First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// CreateMenuItem accepts a multipart form (name, price, category, featured,
// description, optional image file). Slug is always derived from the name.
func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	name := utils.SanitizeText(c.PostForm("name"))
	if name == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	price, err := decimal.NewFromString(c.PostForm("price"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid price"))
		return
	}
	if price.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price cannot be negative"))
		return
	}

	categoryID, err := strconv.Atoi(c.PostForm("category"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category"))
		return
	}
	var category models.Category
	if err := mc.DB.First(&category, categoryID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	featured := true
	if v := c.PostForm("featured"); v != "" {
		featured, err = strconv.ParseBool(v)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("featured must be a boolean"))
			return
		}
	}

	item := models.MenuItem{
		Name:        name,
		Slug:        slug.Make(name),
		Price:       price,
		Featured:    featured,
		CategoryID:  category.ID,
		Description: utils.SanitizeText(c.PostForm("description")),
	}

	if file, err := c.FormFile("image"); err == nil {
		imageURL, err := saveImage(c, file)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		item.ImageURL = &imageURL
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		if isDuplicateErr(err) {
			utils.RespondError(c, http.StatusConflict, errors.New("a menu item with that name already exists"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem handles both PUT and PATCH with a JSON body; absent fields
// are left untouched. A name change regenerates the slug.
func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var body struct {
		Name        *string          `json:"name"`
		Price       *decimal.Decimal `json:"price"`
		Featured    *bool            `json:"featured"`
		Category    *uint            `json:"category"`
		Description *string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		name := utils.SanitizeText(*body.Name)
		if name == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("name cannot be empty"))
			return
		}
		if name != item.Name {
			item.Name = name
			item.Slug = slug.Make(name)
		}
	}
	if body.Price != nil {
		if body.Price.IsNegative() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price cannot be negative"))
			return
		}
		item.Price = *body.Price
	}
	if body.Featured != nil {
		item.Featured = *body.Featured
	}
	if body.Category != nil {
		var category models.Category
		if err := mc.DB.First(&category, *body.Category).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
			return
		}
		item.CategoryID = category.ID
	}
	if body.Description != nil {
		item.Description = utils.SanitizeText(*body.Description)
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		if isDuplicateErr(err) {
			utils.RespondError(c, http.StatusConflict, errors.New("a menu item with that name already exists"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem removes the item and any cart lines referencing it. Items
// already on placed orders are kept for history, so the delete is refused.
func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var orderRefs int64
	if err := mc.DB.Model(&models.OrderItem{}).Where("menu_item_id = ?", item.ID).Count(&orderRefs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if orderRefs > 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("menu item is referenced by existing orders"))
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"menu_item_id": item.ID})
}

// saveImage stores an uploaded image under a UUID filename and returns the
// public URL path it will be served from.
func saveImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(menuImageDir, 0755); err != nil {
		return "", fmt.Errorf("error creating upload directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", errors.New("unsupported image type")
	}

	filename := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(menuImageDir, filename)); err != nil {
		return "", fmt.Errorf("error saving image: %w", err)
	}

	return "/uploads/menu_images/" + filename, nil
}
