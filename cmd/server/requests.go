package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit/pkg/apperr"
	"shareit/pkg/dto"
)

func (s *server) createRequest(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var in dto.RequestCreate
	if !bindJSON(c, &in) {
		return
	}
	out, err := s.svc.Requests.Create(c.Request.Context(), userID, in)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) listOwnRequests(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	out, err := s.svc.Requests.ListOwn(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) listOtherRequests(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	p, ok := page(c)
	if !ok {
		return
	}
	out, err := s.svc.Requests.ListOthers(c.Request.Context(), userID, p)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) getRequest(c *gin.Context) {
	userID, requestID, ok := callerAndID(c)
	if !ok {
		return
	}
	out, err := s.svc.Requests.Get(c.Request.Context(), userID, requestID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
