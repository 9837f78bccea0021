// common.go
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
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/middleware"
	"github.com/localnerve/resonance/internal/services"
	"github.com/localnerve/resonance/internal/types"
	"github.com/localnerve/resonance/internal/utils"
)

const (
	errTypeInput    = "resonance.validation.input"
	errTypeUser     = "resonance.authorization.user"
	errTypeCategory = "resonance.category"
)

// callerID reads the identity stored by middleware.RequireUser
func callerID(c *fiber.Ctx) (string, error) {
	id := middleware.UserID(c)
	if id == "" {
		return "", &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "user not found in context",
			Type:    errTypeUser,
		}
	}
	return id, nil
}

// parseDay reads an optional day from a query parameter or path segment.
// An empty value means today.
func parseDay(raw string) (types.Day, error) {
	day, err := types.ParseDay(raw)
	if err != nil {
		return "", &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: err.Error(),
			Type:    errTypeInput,
		}
	}
	return day, nil
}

func isInputError(err error) bool {
	return errors.Is(err, services.ErrInvalidInput)
}

// serviceError maps engine errors onto HTTP responses
func serviceError(c *fiber.Ctx, log *logger.Logger, err error, op string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errTypeInput)
	case errors.Is(err, services.ErrCategoryNotFound):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusNotFound, errTypeCategory)
	}
	if log != nil {
		log.Error("request failed", "op", op, "error", err)
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, op)
}
