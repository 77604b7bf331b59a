package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/internal/webserver"
	"github.com/invtrack/invtrack/pkg/common"
)

func registerCategoryRoutes() {
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiGET("/categories/:id", getCategory)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiPUT("/categories/:id", updateCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

type categoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func listCategories(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.InvCategory{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	var rows []domain.InvCategory
	if err := base.Order("name ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var row domain.InvCategory
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}
	return ok(c, row)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Category name is required", nil)
	}
	var dup domain.InvCategory
	if err := GetDB(c).Where("name = ?", payload.Name).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_CATEGORY", "Category with this name already exists", nil)
	}

	row := domain.InvCategory{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Description: payload.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := GetDB(c).Create(&row).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	return ok(c, row)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	var row domain.InvCategory
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if name := strings.TrimSpace(payload.Name); name != "" {
		updates["name"] = name
	}
	if payload.Description != "" {
		updates["description"] = payload.Description
	}
	if err := GetDB(c).Model(&row).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&row)
	return ok(c, row)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var inUse int64
	GetDB(c).Model(&domain.InvProduct{}).Where("category_id = ?", id).Count(&inUse)
	if inUse > 0 {
		return fail(c, http.StatusConflict, "CATEGORY_IN_USE", "Category is referenced by products", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.InvCategory{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
