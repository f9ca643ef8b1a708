package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/wanderhq/tour-api/internal/service"
	"github.com/wanderhq/tour-api/pkg/pagination"
)

type TripHandler struct {
	s service.TripService
}

func NewTripHandler(s service.TripService) *TripHandler {
	return &TripHandler{s: s}
}

func (h *TripHandler) ListTrips(c *fiber.Ctx) error {
	userID := GetUserID(c)
	page := pagination.Parse(c.Query("page"), c.Query("size"))

	resp, err := h.s.List(c.Context(), userID, page)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *TripHandler) ListTripsWithoutPagination(c *fiber.Ctx) error {
	userID := GetUserID(c)

	trips, err := h.s.ListAll(c.Context(), userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"trips": trips})
}

func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	tripID, err := c.ParamsInt("id")
	if err != nil {
		return domainError(c, err)
	}

	trip, err := h.s.Get(c.Context(), int64(tripID))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(trip)
}

func (h *TripHandler) CreateTrip(c *fiber.Ctx) error {
	userID := GetUserID(c)

	fields, err := service.NormalizeTripPayload(c.Body())
	if err != nil {
		return domainError(c, err)
	}

	trip, err := h.s.Create(c.Context(), userID, fields)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(trip)
}

func (h *TripHandler) UpdateTrip(c *fiber.Ctx) error {
	userID := GetUserID(c)
	tripID, err := c.ParamsInt("id")
	if err != nil {
		return domainError(c, err)
	}

	fields, err := service.NormalizeTripPayload(c.Body())
	if err != nil {
		return domainError(c, err)
	}

	trip, err := h.s.Update(c.Context(), userID, int64(tripID), fields)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(trip)
}

func (h *TripHandler) DeleteTrip(c *fiber.Ctx) error {
	tripID, err := c.ParamsInt("id")
	if err != nil {
		return domainError(c, err)
	}

	if err := h.s.Remove(c.Context(), int64(tripID)); err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": fmt.Sprintf("Trip id - %d is deleted successfully", tripID),
	})
}
