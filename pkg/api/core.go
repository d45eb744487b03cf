// Package api holds the API-level types shared by the composite service,
// the core sub-services and their message consumers.
package api

// Product is the product sub-entity as exposed by the product service.
// ServiceAddress identifies the instance that answered the request.
type Product struct {
	ProductID      int    `json:"productId"`
	Name           string `json:"name"`
	Weight         int    `json:"weight"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
}

// Recommendation is the recommendation sub-entity, owned by the
// recommendation service. Identity is the pair (productId, recommendationId).
type Recommendation struct {
	ProductID        int    `json:"productId"`
	RecommendationID int    `json:"recommendationId"`
	Author           string `json:"author"`
	Rate             int    `json:"rate"`
	Content          string `json:"content"`
	ServiceAddress   string `json:"serviceAddress,omitempty"`
}

// Review is the review sub-entity, owned by the review service. Identity is
// the pair (productId, reviewId).
type Review struct {
	ProductID      int    `json:"productId"`
	ReviewID       int    `json:"reviewId"`
	Author         string `json:"author"`
	Subject        string `json:"subject"`
	Content        string `json:"content"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
}
