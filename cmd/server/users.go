package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit/pkg/apperr"
	"shareit/pkg/dto"
)

func (s *server) createUser(c *gin.Context) {
	var in dto.UserCreate
	if !bindJSON(c, &in) {
		return
	}
	out, err := s.svc.Users.Create(c.Request.Context(), in)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) listUsers(c *gin.Context) {
	out, err := s.svc.Users.List(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) getUser(c *gin.Context) {
	id, err := dto.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	out, err := s.svc.Users.Get(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) updateUser(c *gin.Context) {
	id, err := dto.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	var patch dto.UserPatch
	if !bindJSON(c, &patch) {
		return
	}
	out, err := s.svc.Users.Update(c.Request.Context(), id, patch)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) deleteUser(c *gin.Context) {
	id, err := dto.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := s.svc.Users.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusOK)
}
