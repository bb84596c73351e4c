// Package search maintains the Meilisearch listings index over rooms and
// motels. The index is a read model; the database stays the source of truth
// and a reindex rebuilds it from scratch.
package search

import (
	"fmt"

	"rental-portal/internal/models"

	"github.com/meilisearch/meilisearch-go"
	"gorm.io/gorm"
)

// Listing is the flattened search document. Rooms and motels share the
// index, discriminated by Kind.
type Listing struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"` // "room" or "motel"
	Title   string `json:"title"`
	Address string `json:"address"`

	Price  float64 `json:"price"`
	Area   float64 `json:"area,omitempty"`
	Status string  `json:"status,omitempty"`

	AllowPets    bool `json:"allow_pets"`
	AllowCooking bool `json:"allow_cooking"`
	HasWifi      bool `json:"has_wifi"`
	HasParking   bool `json:"has_parking"`

	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   int64  `json:"created_at"`
}

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "listings",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"address",
		"description",
	})
	if err != nil {
		return err
	}

	// Configure filterable attributes
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"kind",
		"price",
		"status",
		"allow_pets",
		"allow_cooking",
		"has_wifi",
		"has_parking",
		"owner_id",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price",
		"area",
		"created_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// roomListing flattens a room into a search document.
func roomListing(room *models.Room) Listing {
	title := fmt.Sprintf("Room %s", room.Number)
	return Listing{
		ID:           "room_" + room.ID,
		Kind:         "room",
		Title:        title,
		Address:      room.Address,
		Price:        room.Price,
		Area:         room.Area,
		Status:       string(room.Status),
		AllowPets:    room.AllowPets,
		AllowCooking: room.AllowCooking,
		HasWifi:      room.HasWifi,
		HasParking:   room.HasParking,
		Description:  room.Description,
		OwnerID:      room.OwnerID,
		CreatedAt:    room.CreatedAt.Unix(),
	}
}

// motelListing flattens a motel into a search document.
func motelListing(motel *models.Motel) Listing {
	var price float64
	if motel.MonthlyRent != nil {
		price = *motel.MonthlyRent
	}
	return Listing{
		ID:           "motel_" + motel.ID,
		Kind:         "motel",
		Title:        motel.Name,
		Address:      motel.Address,
		Price:        price,
		AllowPets:    motel.AllowPets,
		AllowCooking: motel.AllowCooking,
		HasWifi:      motel.HasWifi,
		HasParking:   motel.HasParking,
		Description:  motel.Description,
		OwnerID:      motel.OwnerID,
		CreatedAt:    motel.CreatedAt.Unix(),
	}
}

// IndexRoom indexes a single room
func (s *SearchClient) IndexRoom(room *models.Room) error {
	_, err := s.client.Index(s.index).AddDocuments([]Listing{roomListing(room)})
	return err
}

// IndexMotel indexes a single motel
func (s *SearchClient) IndexMotel(motel *models.Motel) error {
	_, err := s.client.Index(s.index).AddDocuments([]Listing{motelListing(motel)})
	return err
}

// DeleteRoom removes a room from the index
func (s *SearchClient) DeleteRoom(roomID string) error {
	_, err := s.client.Index(s.index).DeleteDocument("room_" + roomID)
	return err
}

// DeleteMotel removes a motel from the index
func (s *SearchClient) DeleteMotel(motelID string) error {
	_, err := s.client.Index(s.index).DeleteDocument("motel_" + motelID)
	return err
}

// ReindexAll rebuilds the whole index from the database.
func (s *SearchClient) ReindexAll(db *gorm.DB) (int, error) {
	var rooms []models.Room
	if err := db.Find(&rooms).Error; err != nil {
		return 0, err
	}
	var motels []models.Motel
	if err := db.Find(&motels).Error; err != nil {
		return 0, err
	}

	docs := make([]Listing, 0, len(rooms)+len(motels))
	for i := range rooms {
		docs = append(docs, roomListing(&rooms[i]))
	}
	for i := range motels {
		docs = append(docs, motelListing(&motels[i]))
	}

	if len(docs) == 0 {
		return 0, nil
	}
	_, err := s.client.Index(s.index).AddDocuments(docs)
	return len(docs), err
}

// SearchRequest represents advanced search parameters
type SearchRequest struct {
	Query  string
	Limit  int64
	Offset int64
	Filter []string
	Sort   []string
	Facets []string
}

// SearchResult represents search results with facets
type SearchResult struct {
	Hits           []Listing
	TotalHits      int64
	Facets         map[string]interface{}
	ProcessingTime int64
}

// Search searches listings with basic options
func (s *SearchClient) Search(query string, limit int64) ([]Listing, error) {
	result, err := s.AdvancedSearch(SearchRequest{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}

// AdvancedSearch performs advanced search with facets and filters
func (s *SearchClient) AdvancedSearch(req SearchRequest) (*SearchResult, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	if len(req.Filter) > 0 {
		filterStr := ""
		for i, f := range req.Filter {
			if i > 0 {
				filterStr += " AND "
			}
			filterStr += f
		}
		searchReq.Filter = filterStr
	}
	if len(req.Sort) > 0 {
		searchReq.Sort = req.Sort
	}
	if len(req.Facets) > 0 {
		searchReq.Facets = req.Facets
	}

	searchRes, err := s.client.Index(s.index).Search(req.Query, searchReq)
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		listings = append(listings, parseListingFromHit(hit))
	}

	var facets map[string]interface{}
	if searchRes.FacetDistribution != nil {
		facets, _ = searchRes.FacetDistribution.(map[string]interface{})
	}

	return &SearchResult{
		Hits:           listings,
		TotalHits:      searchRes.EstimatedTotalHits,
		Facets:         facets,
		ProcessingTime: searchRes.ProcessingTimeMs,
	}, nil
}

// parseListingFromHit converts a search hit to a Listing
func parseListingFromHit(hit interface{}) Listing {
	hitMap, ok := hit.(map[string]interface{})
	if !ok {
		return Listing{}
	}

	listing := Listing{
		ID:          getString(hitMap, "id"),
		Kind:        getString(hitMap, "kind"),
		Title:       getString(hitMap, "title"),
		Address:     getString(hitMap, "address"),
		Status:      getString(hitMap, "status"),
		Description: getString(hitMap, "description"),
		OwnerID:     getString(hitMap, "owner_id"),
	}

	if price, ok := hitMap["price"].(float64); ok {
		listing.Price = price
	}
	if area, ok := hitMap["area"].(float64); ok {
		listing.Area = area
	}
	if createdAt, ok := hitMap["created_at"].(float64); ok {
		listing.CreatedAt = int64(createdAt)
	}
	if b, ok := hitMap["allow_pets"].(bool); ok {
		listing.AllowPets = b
	}
	if b, ok := hitMap["allow_cooking"].(bool); ok {
		listing.AllowCooking = b
	}
	if b, ok := hitMap["has_wifi"].(bool); ok {
		listing.HasWifi = b
	}
	if b, ok := hitMap["has_parking"].(bool); ok {
		listing.HasParking = b
	}

	return listing
}

// getString safely extracts a string from map
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// GetFacets retrieves facet distribution for specified fields
func (s *SearchClient) GetFacets(facets []string) (map[string]interface{}, error) {
	searchRes, err := s.client.Index(s.index).Search("", &meilisearch.SearchRequest{
		Limit:  0,
		Facets: facets,
	})
	if err != nil {
		return nil, err
	}

	if searchRes.FacetDistribution != nil {
		if facetMap, ok := searchRes.FacetDistribution.(map[string]interface{}); ok {
			return facetMap, nil
		}
	}
	return map[string]interface{}{}, nil
}
