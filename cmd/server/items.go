package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit/pkg/apperr"
	"shareit/pkg/dto"
)

func (s *server) createItem(c *gin.Context) {
	ownerID, ok := caller(c)
	if !ok {
		return
	}
	var in dto.ItemCreate
	if !bindJSON(c, &in) {
		return
	}
	out, err := s.svc.Items.Create(c.Request.Context(), ownerID, in)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) updateItem(c *gin.Context) {
	ownerID, itemID, ok := callerAndID(c)
	if !ok {
		return
	}
	var patch dto.ItemPatch
	if !bindJSON(c, &patch) {
		return
	}
	out, err := s.svc.Items.Update(c.Request.Context(), ownerID, itemID, patch)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) getItem(c *gin.Context) {
	userID, itemID, ok := callerAndID(c)
	if !ok {
		return
	}
	out, err := s.svc.Items.Get(c.Request.Context(), userID, itemID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) listOwnerItems(c *gin.Context) {
	ownerID, ok := caller(c)
	if !ok {
		return
	}
	p, ok := page(c)
	if !ok {
		return
	}
	out, err := s.svc.Items.ListByOwner(c.Request.Context(), ownerID, p)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) searchItems(c *gin.Context) {
	text, present := c.GetQuery("text")
	if !present {
		apperr.Respond(c, apperr.Fields(map[string]string{"text": "is required"}))
		return
	}
	p, ok := page(c)
	if !ok {
		return
	}
	out, err := s.svc.Items.Search(c.Request.Context(), text, p)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) deleteItem(c *gin.Context) {
	ownerID, itemID, ok := callerAndID(c)
	if !ok {
		return
	}
	if err := s.svc.Items.Delete(c.Request.Context(), ownerID, itemID); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *server) addComment(c *gin.Context) {
	authorID, itemID, ok := callerAndID(c)
	if !ok {
		return
	}
	var in dto.CommentCreate
	if !bindJSON(c, &in) {
		return
	}
	out, err := s.svc.Items.AddComment(c.Request.Context(), authorID, itemID, in)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
