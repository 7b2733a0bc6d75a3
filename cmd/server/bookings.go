package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit/pkg/apperr"
	"shareit/pkg/dto"
)

func (s *server) createBooking(c *gin.Context) {
	bookerID, ok := caller(c)
	if !ok {
		return
	}
	var in dto.BookingCreate
	if !bindJSON(c, &in) {
		return
	}
	out, err := s.svc.Bookings.Create(c.Request.Context(), bookerID, in)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) confirmBooking(c *gin.Context) {
	ownerID, bookingID, ok := callerAndID(c)
	if !ok {
		return
	}
	approved, err := dto.ParseApproved(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	out, err := s.svc.Bookings.Confirm(c.Request.Context(), ownerID, bookingID, approved)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) getBooking(c *gin.Context) {
	userID, bookingID, ok := callerAndID(c)
	if !ok {
		return
	}
	out, err := s.svc.Bookings.Get(c.Request.Context(), userID, bookingID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) listBookerBookings(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	state, err := dto.ParseState(c, true)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	p, ok := page(c)
	if !ok {
		return
	}
	out, err := s.svc.Bookings.ListForBooker(c.Request.Context(), userID, state, p)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) listOwnerBookings(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	state, err := dto.ParseState(c, true)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	p, ok := page(c)
	if !ok {
		return
	}
	out, err := s.svc.Bookings.ListForOwner(c.Request.Context(), userID, state, p)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
