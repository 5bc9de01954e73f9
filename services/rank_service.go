package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"styleswipe_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"
)

// RankService implements the three server-side candidate functions the deck
// pipeline falls through: TF-IDF ranking, basic tag-overlap matching, and
// random unseen selection. All three work over a bounded scan of the catalog
// and never return a viewed card.
type RankService struct {
	Dynamo    *DynamoService
	Logger    *zap.Logger
	PoolLimit int
}

func (s *RankService) fetchPool(ctx context.Context) ([]models.Card, error) {
	items, err := s.Dynamo.ScanItems(ctx, models.CardsTable, s.PoolLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card pool: %w", err)
	}
	var cards []models.Card
	if err := attributevalue.UnmarshalListOfMaps(items, &cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card pool: %w", err)
	}
	return cards, nil
}

// cardTerms collects the matchable terms of a card: the comma-separated aiTags
// plus the single display tag, lowercased.
func cardTerms(card models.Card) map[string]struct{} {
	terms := make(map[string]struct{})
	if card.AITags != nil {
		for _, piece := range strings.Split(*card.AITags, ",") {
			piece = strings.ToLower(strings.TrimSpace(piece))
			if piece != "" {
				terms[piece] = struct{}{}
			}
		}
	}
	if card.Tag != nil {
		tag := strings.ToLower(strings.TrimSpace(*card.Tag))
		if tag != "" {
			terms[tag] = struct{}{}
		}
	}
	return terms
}

type scoredCard struct {
	card  models.Card
	score float64
}

// RankedByTags scores unseen cards by TF-IDF weight of the user's tags: a tag
// shared with few cards counts for more than one half the catalog carries.
// Results come back sorted by descending score; callers keep that order.
func (s *RankService) RankedByTags(ctx context.Context, userTags []string, viewedIDs map[string]struct{}, limit int) ([]models.Card, error) {
	pool, err := s.fetchPool(ctx)
	if err != nil {
		return nil, err
	}

	// Document frequency per term over the whole pool
	docFreq := make(map[string]int)
	poolTerms := make([]map[string]struct{}, len(pool))
	for i, card := range pool {
		terms := cardTerms(card)
		poolTerms[i] = terms
		for term := range terms {
			docFreq[term]++
		}
	}

	total := float64(len(pool))
	scored := make([]scoredCard, 0, len(pool))
	for i, card := range pool {
		if _, viewed := viewedIDs[card.ID]; viewed {
			continue
		}
		score := 0.0
		for _, tag := range userTags {
			term := strings.ToLower(strings.TrimSpace(tag))
			if _, ok := poolTerms[i][term]; !ok {
				continue
			}
			score += math.Log(total/float64(docFreq[term])) + 1
		}
		if score > 0 {
			scored = append(scored, scoredCard{card: card, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	cards := make([]models.Card, 0, len(scored))
	for _, sc := range scored {
		if limit > 0 && len(cards) >= limit {
			break
		}
		cards = append(cards, sc.card)
	}
	s.Logger.Info("✅ TF-IDF ranking complete", zap.Int("candidates", len(cards)), zap.Int("tags", len(userTags)))
	return cards, nil
}

// BasicMatchByTags ranks unseen cards by plain tag-overlap count. Used when
// the TF-IDF tier fails or comes back empty.
func (s *RankService) BasicMatchByTags(ctx context.Context, userTags []string, viewedIDs map[string]struct{}, limit int) ([]models.Card, error) {
	pool, err := s.fetchPool(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]scoredCard, 0, len(pool))
	for _, card := range pool {
		if _, viewed := viewedIDs[card.ID]; viewed {
			continue
		}
		terms := cardTerms(card)
		overlap := 0
		for _, tag := range userTags {
			if _, ok := terms[strings.ToLower(strings.TrimSpace(tag))]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			scored = append(scored, scoredCard{card: card, score: float64(overlap)})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	cards := make([]models.Card, 0, len(scored))
	for _, sc := range scored {
		if limit > 0 && len(cards) >= limit {
			break
		}
		cards = append(cards, sc.card)
	}
	s.Logger.Info("✅ Basic tag matching complete", zap.Int("candidates", len(cards)))
	return cards, nil
}

// RandomUnseen returns up to limit unseen cards in uniformly random order.
// The order is freshly random per call, not stable across retries.
func (s *RankService) RandomUnseen(ctx context.Context, viewedIDs map[string]struct{}, limit int) ([]models.Card, error) {
	pool, err := s.fetchPool(ctx)
	if err != nil {
		return nil, err
	}

	unseen := filterViewed(pool, viewedIDs)
	shuffleCards(unseen)
	if limit > 0 && len(unseen) > limit {
		unseen = unseen[:limit]
	}
	return unseen, nil
}

func filterViewed(cards []models.Card, viewedIDs map[string]struct{}) []models.Card {
	filtered := make([]models.Card, 0, len(cards))
	for _, card := range cards {
		if _, viewed := viewedIDs[card.ID]; !viewed {
			filtered = append(filtered, card)
		}
	}
	return filtered
}

// shuffleCards shuffles in place (Fisher-Yates).
func shuffleCards(cards []models.Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
