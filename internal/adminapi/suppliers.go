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

func registerSupplierRoutes() {
	webserver.ApiGET("/suppliers", listSuppliers)
	webserver.ApiGET("/suppliers/:id", getSupplier)
	webserver.ApiPOST("/suppliers", createSupplier)
	webserver.ApiPUT("/suppliers/:id", updateSupplier)
	webserver.ApiDELETE("/suppliers/:id", deleteSupplier)
}

type supplierPayload struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

func listSuppliers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.InvSupplier{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query suppliers", err.Error())
	}
	var rows []domain.InvSupplier
	if err := base.Order("name ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query suppliers", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getSupplier(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}
	var row domain.InvSupplier
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Supplier not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query supplier", err.Error())
	}
	return ok(c, row)
}

func createSupplier(c echo.Context) error {
	var payload supplierPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse supplier", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Supplier name is required", nil)
	}
	var dup domain.InvSupplier
	if err := GetDB(c).Where("name = ?", payload.Name).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_SUPPLIER", "Supplier with this name already exists", nil)
	}

	row := domain.InvSupplier{
		ID:            common.UUIDint64(),
		Name:          payload.Name,
		ContactPerson: payload.ContactPerson,
		Email:         payload.Email,
		Phone:         payload.Phone,
		Address:       payload.Address,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := GetDB(c).Create(&row).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create supplier", err.Error())
	}
	return ok(c, row)
}

func updateSupplier(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}
	var payload supplierPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse supplier", nil)
	}
	var row domain.InvSupplier
	if err := GetDB(c).Where("id = ?", id).First(&row).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Supplier not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query supplier", err.Error())
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if name := strings.TrimSpace(payload.Name); name != "" {
		updates["name"] = name
	}
	if payload.ContactPerson != "" {
		updates["contact_person"] = payload.ContactPerson
	}
	if payload.Email != "" {
		updates["email"] = payload.Email
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.Address != "" {
		updates["address"] = payload.Address
	}
	if err := GetDB(c).Model(&row).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update supplier", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&row)
	return ok(c, row)
}

func deleteSupplier(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}
	var inUse int64
	GetDB(c).Model(&domain.InvProduct{}).Where("supplier_id = ?", id).Count(&inUse)
	if inUse > 0 {
		return fail(c, http.StatusConflict, "SUPPLIER_IN_USE", "Supplier is referenced by products", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.InvSupplier{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete supplier", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
