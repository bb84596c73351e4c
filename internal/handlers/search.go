package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"rental-portal/internal/search"

	"github.com/gin-gonic/gin"
)

// SearchHandler exposes the Meilisearch listings index.
type SearchHandler struct {
	searchClient *search.SearchClient
}

func NewSearchHandler(searchClient *search.SearchClient) *SearchHandler {
	return &SearchHandler{searchClient: searchClient}
}

// Search handles GET /api/search?q=...
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limitStr := c.DefaultQuery("limit", "20")

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil {
		limit = 20
	}

	listings, err := h.searchClient.Search(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listings)
}

// AdvancedSearch handles POST /api/search/advanced with filters and facets
func (h *SearchHandler) AdvancedSearch(c *gin.Context) {
	var reqBody struct {
		Query        string   `json:"query"`
		Limit        int64    `json:"limit"`
		Offset       int64    `json:"offset"`
		Kind         string   `json:"kind"` // "room" or "motel"
		MinPrice     *float64 `json:"min_price"`
		MaxPrice     *float64 `json:"max_price"`
		Status       string   `json:"status"`
		AllowPets    *bool    `json:"allow_pets"`
		AllowCooking *bool    `json:"allow_cooking"`
		HasWifi      *bool    `json:"has_wifi"`
		HasParking   *bool    `json:"has_parking"`
		Sort         string   `json:"sort"` // "price_asc", "price_desc", "newest"
		Facets       []string `json:"facets"`
	}

	if err := c.ShouldBindJSON(&reqBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filters := []string{}
	if reqBody.Kind != "" {
		filters = append(filters, fmt.Sprintf("kind = '%s'", reqBody.Kind))
	}
	if reqBody.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price >= %f", *reqBody.MinPrice))
	}
	if reqBody.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price <= %f", *reqBody.MaxPrice))
	}
	if reqBody.Status != "" {
		filters = append(filters, fmt.Sprintf("status = '%s'", reqBody.Status))
	}
	if reqBody.AllowPets != nil {
		filters = append(filters, fmt.Sprintf("allow_pets = %v", *reqBody.AllowPets))
	}
	if reqBody.AllowCooking != nil {
		filters = append(filters, fmt.Sprintf("allow_cooking = %v", *reqBody.AllowCooking))
	}
	if reqBody.HasWifi != nil {
		filters = append(filters, fmt.Sprintf("has_wifi = %v", *reqBody.HasWifi))
	}
	if reqBody.HasParking != nil {
		filters = append(filters, fmt.Sprintf("has_parking = %v", *reqBody.HasParking))
	}

	sortConditions := []string{}
	switch reqBody.Sort {
	case "price_asc":
		sortConditions = append(sortConditions, "price:asc")
	case "price_desc":
		sortConditions = append(sortConditions, "price:desc")
	case "newest":
		sortConditions = append(sortConditions, "created_at:desc")
	}

	facets := reqBody.Facets
	if len(facets) == 0 {
		facets = []string{"kind", "status"}
	}

	result, err := h.searchClient.AdvancedSearch(search.SearchRequest{
		Query:  reqBody.Query,
		Limit:  reqBody.Limit,
		Offset: reqBody.Offset,
		Filter: filters,
		Sort:   sortConditions,
		Facets: facets,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hits":            result.Hits,
		"total_hits":      result.TotalHits,
		"facets":          result.Facets,
		"processing_time": result.ProcessingTime,
		"query":           reqBody.Query,
		"filters":         filters,
	})
}

// Facets handles GET /api/search/facets
func (h *SearchHandler) Facets(c *gin.Context) {
	facetsParam := c.DefaultQuery("facets", "kind,status")
	facets := strings.Split(facetsParam, ",")

	facetDist, err := h.searchClient.GetFacets(facets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facets": facetDist,
	})
}
