package main

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"shareit/pkg/apperr"
	"shareit/pkg/dto"
)

// withCaller rejects requests without a numeric identity header.
func (g *gateway) withCaller(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := dto.UserID(c); err != nil {
			apperr.Respond(c, err)
			return
		}
		next(c)
	}
}

func (g *gateway) withID(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := dto.PathID(c, "id"); err != nil {
			apperr.Respond(c, err)
			return
		}
		next(c)
	}
}

// bindBody validates the JSON body into obj and returns the raw bytes for
// forwarding.
func bindBody(c *gin.Context, obj any) ([]byte, bool) {
	if err := c.ShouldBindBodyWith(obj, binding.JSON); err != nil {
		apperr.Respond(c, apperr.FromBinding(err))
		return nil, false
	}
	raw, _ := c.Get(gin.BodyBytesKey)
	body, _ := raw.([]byte)
	return body, true
}

func (g *gateway) passThrough(c *gin.Context) {
	g.forward(c, nil, nil)
}

func (g *gateway) createUser(c *gin.Context) {
	var in dto.UserCreate
	if body, ok := bindBody(c, &in); ok {
		g.forward(c, nil, body)
	}
}

func (g *gateway) updateUser(c *gin.Context) {
	var patch dto.UserPatch
	body, ok := bindBody(c, &patch)
	if !ok {
		return
	}
	if email, set := patch.Email.Get(); set && strings.TrimSpace(email) != "" && !dto.IsEmail(email) {
		apperr.Respond(c, apperr.Fields(map[string]string{"email": "must be a well-formed email address"}))
		return
	}
	g.forward(c, nil, body)
}

func (g *gateway) createItem(c *gin.Context) {
	var in dto.ItemCreate
	if body, ok := bindBody(c, &in); ok {
		g.forward(c, nil, body)
	}
}

func (g *gateway) updateItem(c *gin.Context) {
	var patch dto.ItemPatch
	if body, ok := bindBody(c, &patch); ok {
		g.forward(c, nil, body)
	}
}

func (g *gateway) addComment(c *gin.Context) {
	var in dto.CommentCreate
	if body, ok := bindBody(c, &in); ok {
		g.forward(c, nil, body)
	}
}

func (g *gateway) createRequest(c *gin.Context) {
	var in dto.RequestCreate
	if body, ok := bindBody(c, &in); ok {
		g.forward(c, nil, body)
	}
}

// listPaged serves owner items and other users' requests.
func (g *gateway) listPaged(c *gin.Context) {
	query, ok := pageQuery(c)
	if !ok {
		return
	}
	g.forward(c, query, nil)
}

// searchItems answers blank text with an empty list without asking the server.
func (g *gateway) searchItems(c *gin.Context) {
	text, present := c.GetQuery("text")
	if !present {
		apperr.Respond(c, apperr.Fields(map[string]string{"text": "is required"}))
		return
	}
	query, ok := pageQuery(c)
	if !ok {
		return
	}
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusOK, []dto.ItemDto{})
		return
	}
	query.Set("text", text)
	g.forward(c, query, nil)
}

func (g *gateway) createBooking(c *gin.Context) {
	var in dto.BookingCreate
	body, ok := bindBody(c, &in)
	if !ok {
		return
	}
	now := g.now()
	start, end := in.Start.Time(), in.End.Time()
	fields := map[string]string{}
	if start.Before(now) {
		fields["start"] = "must be a date in the present or in the future"
	}
	if end.Before(now) {
		fields["end"] = "must be a date in the present or in the future"
	}
	if len(fields) > 0 {
		apperr.Respond(c, apperr.Fields(fields))
		return
	}
	if !end.After(start) {
		apperr.Respond(c, apperr.Validation("End of booking must be after its start"))
		return
	}
	g.forward(c, nil, body)
}

func (g *gateway) confirmBooking(c *gin.Context) {
	approved, err := dto.ParseApproved(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	g.forward(c, url.Values{"approved": {strconv.FormatBool(approved)}}, nil)
}

// listBookings checks the state before anything else, so an unknown state
// fails whatever the paging parameters are.
func (g *gateway) listBookings(c *gin.Context) {
	state, err := dto.ParseState(c, false)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	query, ok := pageQuery(c)
	if !ok {
		return
	}
	query.Set("state", string(state))
	g.forward(c, query, nil)
}

func pageQuery(c *gin.Context) (url.Values, bool) {
	p, err := dto.ParsePagination(c, false)
	if err != nil {
		apperr.Respond(c, err)
		return nil, false
	}
	return url.Values{
		"from": {strconv.Itoa(p.From)},
		"size": {strconv.Itoa(p.Size)},
	}, true
}
