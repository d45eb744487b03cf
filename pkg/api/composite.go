package api

// ProductAggregate is the request-scoped composite view of a product
// together with its recommendations and reviews. It is assembled fresh on
// every read and never persisted.
type ProductAggregate struct {
	ProductID       int                     `json:"productId"`
	Name            string                  `json:"name"`
	Weight          int                     `json:"weight"`
	Recommendations []RecommendationSummary `json:"recommendations"`
	Reviews         []ReviewSummary         `json:"reviews"`
	ServiceAddresses ServiceAddresses       `json:"serviceAddresses"`
}

type RecommendationSummary struct {
	RecommendationID int    `json:"recommendationId"`
	Author           string `json:"author"`
	Rate             int    `json:"rate"`
	Content          string `json:"content"`
}

type ReviewSummary struct {
	ReviewID int    `json:"reviewId"`
	Author   string `json:"author"`
	Subject  string `json:"subject"`
	Content  string `json:"content"`
}

// ServiceAddresses records which physical instance served each part of the
// aggregate, which helps diagnosing inconsistent read routing when the
// services are scaled horizontally.
type ServiceAddresses struct {
	Composite      string `json:"composite"`
	Product        string `json:"product"`
	Review         string `json:"review"`
	Recommendation string `json:"recommendation"`
}
