package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marsad11223/product-explorer-api/internal/apperr"
	"github.com/marsad11223/product-explorer-api/internal/config"
	"github.com/marsad11223/product-explorer-api/internal/dto"
	"github.com/marsad11223/product-explorer-api/internal/models"
)

const (
	recommendationCachePrefix = "recommendations:"
	recommendationCacheTTL    = 1 * time.Hour
	historyLimit              = 10
)

var productIDPattern = regexp.MustCompile(`Product ID: (\w+)`)

// RecommendationService builds product recommendations by sending the
// catalog plus the recent interaction history to an external
// chat-completion API. Responses are cached in Redis per query.
type RecommendationService struct {
	httpClient   *http.Client
	rdb          *redis.Client
	interactions *mongo.Collection
	products     *mongo.Collection
	groq         config.GroqConfig
	timeout      time.Duration
}

func NewRecommendationService(
	rdb *redis.Client,
	interactions *mongo.Collection,
	products *mongo.Collection,
	groq config.GroqConfig,
	timeout time.Duration,
) *RecommendationService {
	return &RecommendationService{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		rdb:          rdb,
		interactions: interactions,
		products:     products,
		groq:         groq,
		timeout:      timeout,
	}
}

func (s *RecommendationService) GetRecommendations(ctx context.Context, query string) (*dto.RecommendationResponse, error) {
	if query == "" {
		return nil, apperr.InvalidArgument("query is required")
	}

	cacheKey := recommendationCachePrefix + query
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached dto.RecommendationResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("recommendation cache get failed")
		}
	}

	resp, err := s.compute(ctx, query)
	if err != nil {
		return nil, err
	}

	s.cache(ctx, cacheKey, resp)
	return resp, nil
}

// Refresh recomputes the recommendation for a query and overwrites the
// cached entry regardless of its freshness.
func (s *RecommendationService) Refresh(ctx context.Context, query string) error {
	resp, err := s.compute(ctx, query)
	if err != nil {
		return err
	}
	s.cache(ctx, recommendationCachePrefix+query, resp)
	return nil
}

// WarmTopSearches refreshes cached recommendations for the most searched
// queries. Failures are logged and skipped; warming is best effort.
func (s *RecommendationService) WarmTopSearches(ctx context.Context, dashboard *DashboardService, limit int) {
	report, err := dashboard.GetMostInteractedProducts(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("cache warm: leaderboard query failed")
		return
	}
	for i, series := range report.Searches {
		if i >= limit {
			break
		}
		if series.Name == "" {
			continue
		}
		if err := s.Refresh(ctx, series.Name); err != nil {
			log.Warn().Err(err).Str("query", series.Name).Msg("cache warm: refresh failed")
		}
	}
}

func (s *RecommendationService) cache(ctx context.Context, key string, resp *dto.RecommendationResponse) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal recommendation for caching")
		return
	}
	if err := s.rdb.Set(ctx, key, payload, recommendationCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("recommendation cache set failed")
	}
}

func (s *RecommendationService) compute(ctx context.Context, query string) (*dto.RecommendationResponse, error) {
	if !s.groq.Configured() {
		return nil, apperr.Internal("recommendation service is not configured", nil)
	}

	appropriate, err := s.checkQueryAppropriate(ctx, query)
	if err != nil {
		return nil, err
	}
	if !appropriate {
		return &dto.RecommendationResponse{
			RecommendationText:  "Oops! It looks like your query contains inappropriate or unrelated content. Please try searching for something else.",
			RecommendedProducts: []models.Product{},
		}, nil
	}

	interactions, err := s.fetchRecentInteractions(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.fetchAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	prompt := recommendationPrompt(query, interactionHistory(interactions), productDescriptions(products))

	completion, err := s.chatCompletion(ctx, prompt, s.groq.Temperature, s.groq.MaxTokens)
	if err != nil {
		return nil, err
	}

	recommended := mapProductsByID(extractProductIDs(completion), products)

	text := "No products found that match your query."
	if len(recommended) > 0 {
		text = recommendationText(recommended)
	}

	return &dto.RecommendationResponse{
		RecommendationText:  text,
		RecommendedProducts: recommended,
	}, nil
}

// checkQueryAppropriate asks the model whether the query is safe and
// relevant to the catalog. Deterministic settings, yes/no answer.
func (s *RecommendationService) checkQueryAppropriate(ctx context.Context, query string) (bool, error) {
	prompt := fmt.Sprintf(`Evaluate the following user query to determine if it contains sensitive, inappropriate, or irrelevant content. `+
		`Sensitive content includes, but is not limited to, explicit, violent, illegal, or otherwise harmful material. `+
		`If the query is deemed sensitive or irrelevant to our product catalog, respond with "No". `+
		`If the query is appropriate and relevant, respond with "Yes". `+
		`Please provide a clear and direct answer. The query is: %q`, query)

	answer, err := s.chatCompletion(ctx, prompt, 0, 10)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), "yes"), nil
}

func (s *RecommendationService) fetchRecentInteractions(ctx context.Context) ([]models.Interaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"timestamp": -1})
	cursor, err := s.interactions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Internal("failed to fetch interactions", err)
	}
	defer cursor.Close(ctx)

	var interactions []models.Interaction
	if err := cursor.All(ctx, &interactions); err != nil {
		return nil, apperr.Internal("failed to decode interactions", err)
	}
	return interactions, nil
}

func (s *RecommendationService) fetchAllProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.products.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Internal("failed to fetch products", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperr.Internal("failed to decode products", err)
	}
	return products, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *RecommendationService) chatCompletion(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Model:       s.groq.Model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        1,
		Stream:      false,
	})
	if err != nil {
		return "", apperr.Internal("failed to encode completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.groq.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", apperr.Internal("failed to build completion request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.groq.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", apperr.Internal("failed to call completion API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Internal(fmt.Sprintf("completion API returned status %d", resp.StatusCode), nil)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperr.Internal("failed to decode completion response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", apperr.Internal("completion response contained no choices", nil)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// interactionHistory renders the most recent interactions (newest first,
// capped) as a prompt fragment. An empty store yields an empty string.
func interactionHistory(interactions []models.Interaction) string {
	parts := make([]string, 0, historyLimit)
	for i, interaction := range interactions {
		if i >= historyLimit {
			break
		}
		switch {
		case interaction.SearchQuery != "":
			parts = append(parts, fmt.Sprintf("Searched for %q", interaction.SearchQuery))
		case interaction.ProductID != "":
			parts = append(parts, fmt.Sprintf("Interacted with product ID %s", interaction.ProductID))
		default:
			parts = append(parts, fmt.Sprintf("Interaction of type %q", interaction.Type))
		}
	}
	return strings.Join(parts, ", ")
}

func productDescriptions(products []models.Product) string {
	parts := make([]string, 0, len(products))
	for _, p := range products {
		parts = append(parts, fmt.Sprintf("%s by %s, %s, Price: %g, Rating: %g, Stock: %d, ID: %s",
			p.Title, p.Brand, p.Category, p.Price, p.Rating, p.Stock, p.ID.Hex()))
	}
	return strings.Join(parts, ". ")
}

func recommendationPrompt(query, interactionHistory, productDescriptions string) string {
	return fmt.Sprintf(`Based on the user's query %q and their recent interaction `+
		`history which includes %s, recommend the most relevant products strictly `+
		`from the following options: %s. Provide a concise list of product recommendations `+
		`using product IDs for accurate identification: 1. Product ID: [productID1] 2. Product ID: [productID2], `+
		`etc. Ensure that only the products listed above are recommended and provide brief contextual assistance `+
		`related to each product.`, query, interactionHistory, productDescriptions)
}

func extractProductIDs(completion string) []string {
	var ids []string
	for _, line := range strings.Split(completion, "\n") {
		if m := productIDPattern.FindStringSubmatch(line); m != nil {
			ids = append(ids, m[1])
		}
	}
	return ids
}

func mapProductsByID(ids []string, products []models.Product) []models.Product {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}

	matched := []models.Product{}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			matched = append(matched, p)
		}
	}
	return matched
}

func recommendationText(products []models.Product) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("%s by %s, Price: %g", p.Title, p.Brand, p.Price))
	}
	return strings.Join(lines, "\n")
}
