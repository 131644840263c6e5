package handler

import (
	"context"
	"errors"
	"net/http"

	"ordinance-map/internal/index"
	"ordinance-map/internal/models"
	"ordinance-map/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
)

// ViewerHandler handles map viewer requests
type ViewerHandler struct {
	service ViewerService
}

// Service interface for dependency injection
type ViewerService interface {
	Load(ctx context.Context) error
	Status() service.Status
	Summary() (index.Stats, error)
	Tree() ([]service.OrdinanceNode, error)
	Annotations() (*geojson.FeatureCollection, error)
	VisibleView() (index.View, error)
	StreetView(key models.StreetKey) (index.View, error)
	Search(query string) ([]index.SearchHit, error)
	SetVisibility(req service.VisibilityRequest) (service.VisibilityResult, error)
}

// NewViewerHandler creates a new viewer handler
func NewViewerHandler(svc ViewerService) *ViewerHandler {
	return &ViewerHandler{service: svc}
}

// Register mounts the viewer routes on r.
func (h *ViewerHandler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/summary", h.Summary)
	api.GET("/tree", h.Tree)
	api.GET("/annotations", h.Annotations)
	api.GET("/view", h.VisibleView)
	api.GET("/streets/view", h.StreetView)
	api.GET("/streets/search", h.Search)
	api.POST("/visibility", h.SetVisibility)
	api.POST("/reload", h.Reload)
}

// writeError maps service errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data unavailable", "detail": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNoGeometry):
		c.JSON(http.StatusNotFound, gin.H{"error": "no coordinates available for this street"})
	case errors.Is(err, service.ErrInvalidScope):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// Health handles GET /health requests
//
//	@Summary	Load state of the viewer
//	@Tags		viewer
//	@Produce	json
//	@Success	200	{object}	service.Status
//	@Failure	503	{object}	service.Status
//	@Router		/health [get]
func (h *ViewerHandler) Health(c *gin.Context) {
	st := h.service.Status()
	if !st.Loaded {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": st.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "annotations": st.Annotations, "rendered": st.Rendered})
}

// Summary handles GET /api/summary requests
//
//	@Summary	Aggregate statistics of the loaded document
//	@Tags		viewer
//	@Produce	json
//	@Success	200	{object}	index.Stats
//	@Router		/api/summary [get]
func (h *ViewerHandler) Summary(c *gin.Context) {
	stats, err := h.service.Summary()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Tree handles GET /api/tree requests
//
//	@Summary	Ordinance, zone and street navigation tree
//	@Tags		viewer
//	@Produce	json
//	@Success	200	{array}	service.OrdinanceNode
//	@Router		/api/tree [get]
func (h *ViewerHandler) Tree(c *gin.Context) {
	tree, err := h.service.Tree()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// Annotations handles GET /api/annotations requests
//
//	@Summary	Rendered annotations as a GeoJSON FeatureCollection
//	@Tags		viewer
//	@Produce	json
//	@Success	200	{object}	object
//	@Router		/api/annotations [get]
func (h *ViewerHandler) Annotations(c *gin.Context) {
	fc, err := h.service.Annotations()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

// VisibleView handles GET /api/view requests
//
//	@Summary	Viewport fitting every rendered annotation
//	@Tags		viewer
//	@Produce	json
//	@Success	200	{object}	index.View
//	@Router		/api/view [get]
func (h *ViewerHandler) VisibleView(c *gin.Context) {
	view, err := h.service.VisibleView()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// StreetView handles GET /api/streets/view requests
//
//	@Summary	Viewport fitting one street
//	@Tags		viewer
//	@Produce	json
//	@Param		ordinance	query		string	true	"Ordinance ID"
//	@Param		zone		query		string	true	"Zone name"
//	@Param		street		query		string	true	"Street name"
//	@Success	200			{object}	index.View
//	@Failure	404			{object}	object
//	@Router		/api/streets/view [get]
func (h *ViewerHandler) StreetView(c *gin.Context) {
	key := models.StreetKey{
		OrdinanceID: c.Query("ordinance"),
		Zone:        c.Query("zone"),
		Street:      c.Query("street"),
	}
	if key.OrdinanceID == "" || key.Zone == "" || key.Street == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'ordinance', 'zone' and 'street'"})
		return
	}

	view, err := h.service.StreetView(key)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Search handles GET /api/streets/search requests
//
//	@Summary	Search streets by name, with close spellings when nothing matches
//	@Tags		viewer
//	@Produce	json
//	@Param		q	query	string	true	"Street name fragment"
//	@Success	200	{array}	index.SearchHit
//	@Router		/api/streets/search [get]
func (h *ViewerHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	hits, err := h.service.Search(query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hits)
}

// SetVisibility handles POST /api/visibility requests
//
//	@Summary	Toggle, show or hide annotations of a scope
//	@Tags		viewer
//	@Accept		json
//	@Produce	json
//	@Param		request	body		service.VisibilityRequest	true	"Scope and optional target visibility"
//	@Success	200		{object}	service.VisibilityResult
//	@Failure	400		{object}	object
//	@Failure	404		{object}	object
//	@Router		/api/visibility [post]
func (h *ViewerHandler) SetVisibility(c *gin.Context) {
	var req service.VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.service.SetVisibility(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Reload handles POST /api/reload requests
//
//	@Summary	Fetch the document again and rebuild the index
//	@Tags		viewer
//	@Produce	json
//	@Success	200	{object}	service.Status
//	@Failure	503	{object}	object
//	@Router		/api/reload [post]
func (h *ViewerHandler) Reload(c *gin.Context) {
	// The reload outlives the request: a client hanging up must not abort it.
	if err := h.service.Load(context.WithoutCancel(c.Request.Context())); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data unavailable", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.service.Status())
}
