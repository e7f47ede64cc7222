package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomarket/storefront/internal/logging"
	"github.com/ecomarket/storefront/internal/repo"
)

type AdminHandler struct {
	Repo *repo.GormRepo
}

func (h *AdminHandler) Ping(c echo.Context) error {
	return c.String(http.StatusOK, "pong")
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Repo.ListUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, users)
}

// AssignPermission adds a named permission to a named role. Both must exist
// already; the role is not mutated on failure.
func (h *AdminHandler) AssignPermission(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.assign_permission")

	var req struct {
		RoleName       string `json:"roleName"`
		PermissionName string `json:"permissionName"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("assign permission error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	if err := h.Repo.AssignPermission(ctx, req.RoleName, req.PermissionName); err != nil {
		if errors.Is(err, repo.ErrRoleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Role not found: " + req.RoleName})
		}
		if errors.Is(err, repo.ErrPermissionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Permission not found: " + req.PermissionName})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("permission assigned", "role", req.RoleName, "permission", req.PermissionName)
	return c.NoContent(http.StatusOK)
}
