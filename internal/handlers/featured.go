package handlers

import (
	"net/http"

	"github.com/driftnote/backend/internal/auth"
	"github.com/driftnote/backend/internal/featured"
	"github.com/driftnote/backend/internal/feed"
	"github.com/driftnote/backend/internal/query"
	"github.com/driftnote/backend/internal/util"
	"github.com/gin-gonic/gin"
)

// parseCursor reads the shared since/until/limit parameters
func (h *Handlers) parseCursor(c *gin.Context, defaultLimit int) (featured.PageCursor, error) {
	limit := util.ParseInt(c.Query("limit"), defaultLimit)
	return featured.NewPageCursor(
		c.Query("sinceId"),
		c.Query("untilId"),
		limit,
		defaultLimit,
		h.maxPageLimit,
	)
}

// FeaturedNotes returns the featured notes feed
// GET /api/notes/featured?limit=10&offset=0&channelId=...
func (h *Handlers) FeaturedNotes(c *gin.Context) {
	channelID, hasChannel := c.GetQuery("channelId")

	params := feed.FeaturedNotesParams{
		Limit:     util.ParseInt(c.Query("limit"), 10),
		Offset:    util.ParseInt(c.Query("offset"), 0),
		ChannelID: util.OptionalString(channelID, hasChannel),
	}

	notes, err := h.feed.FeaturedNotes(c.Request.Context(), auth.ViewerID(c), params)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notes": notes,
		"meta": gin.H{
			"limit":  params.Limit,
			"offset": params.Offset,
			"count":  len(notes),
		},
	})
}

// FeaturedGallery returns the featured gallery feed from the ranking cache
// GET /api/gallery/featured?limit=10&untilId=...
func (h *Handlers) FeaturedGallery(c *gin.Context) {
	cursor, err := h.parseCursor(c, 10)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	posts, err := h.feed.FeaturedGallery(c.Request.Context(), auth.ViewerID(c), cursor)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"meta": gin.H{
			"limit": cursor.Limit,
			"count": len(posts),
		},
	})
}

// PopularGallery returns the most liked gallery posts
// GET /api/gallery/popular?limit=10&untilId=...
func (h *Handlers) PopularGallery(c *gin.Context) {
	cursor, err := h.parseCursor(c, 10)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	posts, err := h.feed.PopularGallery(c.Request.Context(), auth.ViewerID(c), cursor)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"meta": gin.H{
			"limit": cursor.Limit,
			"count": len(posts),
		},
	})
}

// FeaturedChannels returns recently active channels
// GET /api/channels/featured?limit=10
func (h *Handlers) FeaturedChannels(c *gin.Context) {
	limit := util.ParseInt(c.Query("limit"), 10)

	channels, err := h.feed.FeaturedChannels(c.Request.Context(), auth.ViewerID(c), limit)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channels": channels,
		"meta": gin.H{
			"count": len(channels),
		},
	})
}

// SearchChannels searches channels by name and description
// GET /api/channels/search?query=...&type=nameAndDescription&limit=5&sinceId=...&untilId=...
func (h *Handlers) SearchChannels(c *gin.Context) {
	cursor, err := h.parseCursor(c, 5)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	searchQuery, hasQuery := c.GetQuery("query")

	matchType := query.TextMatchType(c.DefaultQuery("type", string(query.MatchNameAndDescription)))
	if matchType != query.MatchNameAndDescription && matchType != query.MatchNameOnly {
		util.RespondBadRequest(c, "type must be nameAndDescription or nameOnly")
		return
	}

	params := feed.ChannelSearchParams{
		Query:     util.OptionalString(searchQuery, hasQuery),
		MatchType: matchType,
		Cursor:    cursor,
	}

	channels, err := h.feed.SearchChannels(c.Request.Context(), auth.ViewerID(c), params)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channels": channels,
		"meta": gin.H{
			"limit": cursor.Limit,
			"count": len(channels),
		},
	})
}

// PinnedUsers returns the instance's pinned accounts
// GET /api/users/pinned
func (h *Handlers) PinnedUsers(c *gin.Context) {
	users, err := h.feed.PinnedUsers(c.Request.Context(), auth.ViewerID(c))
	if err != nil {
		util.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"meta": gin.H{
			"count": len(users),
		},
	})
}
