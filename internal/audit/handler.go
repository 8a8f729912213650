package audit

import (
	"strconv"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/database"
	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=booking&entity_id=12&limit=50
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.AuditLog{}).Order("created_at DESC, id DESC")

		if entityType := c.Query("entity_type"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			entityID, err := strconv.ParseUint(entityIDStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "entity_id must be a number")
			}
			q = q.Where("entity_id = ?", uint(entityID))
		}

		limit := 100
		if limitStr := c.Query("limit"); limitStr != "" {
			if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 500 {
				limit = n
			}
		}

		var logs []models.AuditLog
		if err := q.Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load audit logs")
		}

		return c.JSON(logs)
	}
}
