package main

import (
	"github.com/gin-gonic/gin"

	"shareit/pkg/apperr"
	"shareit/pkg/dto"
	"shareit/pkg/repository"
)

// bindJSON decodes the body into obj and answers 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apperr.Respond(c, apperr.FromBinding(err))
		return false
	}
	return true
}

// callerAndID reads the identity header and the :id path parameter.
func callerAndID(c *gin.Context) (int64, int64, bool) {
	userID, err := dto.UserID(c)
	if err != nil {
		apperr.Respond(c, err)
		return 0, 0, false
	}
	id, err := dto.PathID(c, "id")
	if err != nil {
		apperr.Respond(c, err)
		return 0, 0, false
	}
	return userID, id, true
}

func caller(c *gin.Context) (int64, bool) {
	userID, err := dto.UserID(c)
	if err != nil {
		apperr.Respond(c, err)
		return 0, false
	}
	return userID, true
}

// page reads the required from/size pair.
func page(c *gin.Context) (repository.Page, bool) {
	p, err := dto.ParsePagination(c, true)
	if err != nil {
		apperr.Respond(c, err)
		return repository.Page{}, false
	}
	return repository.Page{From: p.From, Size: p.Size}, true
}
