// completions.go
//
// Resonance aggregation service for the habit tracker
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of resonance.
// resonance is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// resonance is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with resonance.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/models"
	"github.com/localnerve/resonance/internal/services"
	"github.com/localnerve/resonance/internal/types"
	"github.com/localnerve/resonance/internal/utils"
)

// CompletionHandler handles completion check-in routes
type CompletionHandler struct {
	Completions *services.CompletionService
	Log         *logger.Logger
}

// CheckIn handles POST /api/completions
// @Summary Check in completions
// @Description Record one or many habit completions for the caller. Each fresh completion of an axis category propagates to the community resonance.
// @Tags Completions
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller id set by the gateway"
// @Param body body services.CheckInInput true "One check-in object or an array of them"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /completions [post]
func (h *CompletionHandler) CheckIn(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var body types.FlexList[services.CheckInInput]
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, errTypeInput)
	}
	if len(body) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, errTypeInput)
	}

	results, err := h.Completions.CheckInMany(c.UserContext(), userID, body.Slice())
	if err != nil {
		return serviceError(c, h.Log, err, "checkIn")
	}

	var created int64
	for _, r := range results {
		if r.Created {
			created++
		}
	}
	return utils.MutationSuccessResponse(c, fiber.StatusOK, created, results)
}

// Uncheck handles DELETE /api/completions/:categoryId
// @Summary Un-check a completion
// @Description Remove the caller's completion. Community resonance already recorded for the day is kept.
// @Tags Completions
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller id set by the gateway"
// @Param categoryId path string true "Category ID"
// @Param day query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /completions/{categoryId} [delete]
func (h *CompletionHandler) Uncheck(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	day, err := parseDay(c.Query("day"))
	if err != nil {
		return err
	}
	categoryID := models.CategoryID(c.Params("categoryId"))

	removed, err := h.Completions.Uncheck(c.UserContext(), userID, categoryID, day)
	if err != nil {
		return serviceError(c, h.Log, err, "uncheck")
	}

	var affected int64
	if removed {
		affected = 1
	}
	return utils.MutationSuccessResponse(c, fiber.StatusOK, affected, fiber.Map{
		"categoryId": categoryID,
		"removed":    removed,
	})
}
