package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/searchapi/prodsearch/internal/catalog"
	"github.com/searchapi/prodsearch/internal/embedcache"
	"github.com/searchapi/prodsearch/internal/pkg/response"
)

// DemoHandler carries the info, demo and CRUD stub routes kept around for
// the frontend smoke tests. None of them touch the search core.
type DemoHandler struct {
	catalogSource string
	snapshotType  string
	cache         *embedcache.Cache
	catalog       *catalog.Loader
}

func NewDemoHandler(catalogSource, snapshotType string, cache *embedcache.Cache, loader *catalog.Loader) *DemoHandler {
	return &DemoHandler{
		catalogSource: catalogSource,
		snapshotType:  snapshotType,
		cache:         cache,
		catalog:       loader,
	}
}

func (h *DemoHandler) Info(c *gin.Context) {
	response.Success(c, gin.H{
		"catalog_source": h.catalogSource,
		"snapshot_type":  h.snapshotType,
	})
}

func (h *DemoHandler) Health(c *gin.Context) {
	data := gin.H{
		"status":            "ok",
		"cached_embeddings": h.cache.Len(),
	}
	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		data["catalog_error"] = err.Error()
	} else {
		data["products"] = len(products)
	}
	response.Success(c, data)
}

func (h *DemoHandler) Demo(c *gin.Context) {
	response.Success(c, []gin.H{
		{"id": "001", "name": "Smith", "email": "smith@gmail.com"},
		{"id": "002", "name": "Sam", "email": "sam@gmail.com"},
		{"id": "003", "name": "lily", "email": "lily@gmail.com"},
	})
}

func (h *DemoHandler) Add(c *gin.Context) {
	response.Success(c, gin.H{"message": "new record added"})
}

func (h *DemoHandler) Update(c *gin.Context) {
	response.Success(c, gin.H{"message": "updating existing record"})
}

func (h *DemoHandler) Delete(c *gin.Context) {
	response.Success(c, gin.H{"message": "deleted existing record"})
}
