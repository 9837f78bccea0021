// resonance.go
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

// ResonanceHandler handles the resonance log and visualization routes
type ResonanceHandler struct {
	Events *services.EventLog
	Query  *services.QueryService
	Log    *logger.Logger
}

// RecordEventRequest is the body of POST /api/resonance/events
type RecordEventRequest struct {
	CategoryID models.CategoryID `json:"categoryId"`
	Day        types.Day         `json:"day,omitempty"`
}

// RecordEventResponse reports the outcome of a record call
type RecordEventResponse struct {
	Ok        bool                           `json:"ok"`
	Duplicate bool                           `json:"duplicate"`
	Event     models.ResonanceEvent          `json:"event"`
	Aggregate *models.ConstellationAggregate `json:"aggregate,omitempty"`
}

// RecordEvent handles POST /api/resonance/events
// @Summary Record a resonance event
// @Description Log that the caller completed an axis category. Repeating the call for the same day is a no-op.
// @Tags Resonance
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller id set by the gateway"
// @Param body body RecordEventRequest true "Category and optional day"
// @Success 200 {object} RecordEventResponse "Already recorded"
// @Success 201 {object} RecordEventResponse "Recorded"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /resonance/events [post]
func (h *ResonanceHandler) RecordEvent(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var body RecordEventRequest
	if err := c.BodyParser(&body); err != nil || body.CategoryID == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, errTypeInput)
	}

	result, err := h.Events.Record(c.UserContext(), userID, body.CategoryID, body.Day)
	if err != nil {
		return serviceError(c, h.Log, err, "recordEvent")
	}

	status := fiber.StatusOK
	if result.Inserted {
		status = fiber.StatusCreated
	}
	return utils.SuccessResponse(c, RecordEventResponse{
		Ok:        true,
		Duplicate: !result.Inserted,
		Event:     result.Event,
		Aggregate: result.Aggregate,
	}, status)
}

// GetHexagon handles GET /api/resonance/hexagon
// @Summary Get the caller's resonance hexagon
// @Description Per active axis, how many other users completed it on the day and whether the caller did. Read failures degrade to a zero-filled answer with degraded=true. When the category registry itself cannot be read the answer is degraded=true with an empty axes list, the only response without one row per active axis.
// @Tags Resonance
// @Produce json
// @Param X-User-ID header string true "Caller id set by the gateway"
// @Param day query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} services.HexagonResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /resonance/hexagon [get]
func (h *ResonanceHandler) GetHexagon(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	day, err := parseDay(c.Query("day"))
	if err != nil {
		return err
	}

	result, err := h.Query.HexagonResonance(c.UserContext(), userID, day)
	if err != nil {
		if isInputError(err) {
			return serviceError(c, h.Log, err, "getHexagon")
		}
		if h.Log != nil {
			h.Log.Error("hexagon axes unavailable", "day", day, "error", err)
		}
		if day.IsZero() {
			day = h.Query.Clock.Today()
		}
		result = services.FallbackHexagon(day)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// GetConstellation handles GET /api/resonance/constellation/:day
// @Summary Get the community constellation of a day
// @Description Aggregate completion count and intensity per axis for the day.
// @Tags Resonance
// @Produce json
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {array} models.ConstellationAggregate
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /resonance/constellation/{day} [get]
func (h *ResonanceHandler) GetConstellation(c *fiber.Ctx) error {
	day, err := parseDay(c.Params("day"))
	if err != nil {
		return err
	}

	rows, err := h.Query.Constellation(c.UserContext(), day)
	if err != nil {
		return serviceError(c, h.Log, err, "getConstellation")
	}
	return c.Status(fiber.StatusOK).JSON(rows)
}
