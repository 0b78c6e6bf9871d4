package services

import (
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/reelwise/discovery/internal/config"
	"github.com/reelwise/discovery/internal/ml"
	"github.com/reelwise/discovery/pkg/models"
)

// CollaborativeModel holds the factorized user×item interaction matrix for
// one snapshot generation. Rows are users sorted by ID, columns are content
// IDs sorted ascending; a cell keeps the last rating seen for the pair and 0
// means "no signal" (valid ratings start at 1, so the sentinel never collides
// with a real rating). Read-only after build.
type CollaborativeModel struct {
	userIDs   []string
	userIndex map[string]int
	itemIDs   []string
	ratings   *mat.Dense
	factors   *mat.Dense // latent user vectors, nil when degraded
	catalog   []models.ContentItem

	config *config.BlendConfig
	logger *logrus.Logger
}

// BuildCollaborativeModel constructs the interaction matrix and reduces it
// with a truncated SVD to obtain one latent vector per known user. A
// degenerate or empty matrix never fails the build: the model falls back to
// treating every user as unknown, which routes all requests through the
// popularity path.
func BuildCollaborativeModel(
	interactions []models.InteractionRecord,
	catalog []models.ContentItem,
	cfg *config.BlendConfig,
	logger *logrus.Logger,
) *CollaborativeModel {
	m := &CollaborativeModel{
		userIndex: make(map[string]int),
		catalog:   catalog,
		config:    cfg,
		logger:    logger,
	}

	userSet := make(map[string]bool)
	itemSet := make(map[string]bool)
	for _, rec := range interactions {
		if rec.UserID == "" || rec.ContentID == "" {
			continue
		}
		userSet[rec.UserID] = true
		itemSet[rec.ContentID] = true
	}

	if len(userSet) == 0 || len(itemSet) == 0 {
		logger.Info("No interaction signal, collaborative model starts cold")
		return m
	}

	m.userIDs = sortedKeys(userSet)
	m.itemIDs = sortedKeys(itemSet)
	for i, id := range m.userIDs {
		m.userIndex[id] = i
	}
	itemIndex := make(map[string]int, len(m.itemIDs))
	for i, id := range m.itemIDs {
		itemIndex[id] = i
	}

	// Last write wins for repeated (user, item) pairs.
	m.ratings = mat.NewDense(len(m.userIDs), len(m.itemIDs), nil)
	for _, rec := range interactions {
		row, ok := m.userIndex[rec.UserID]
		if !ok {
			continue
		}
		col, ok := itemIndex[rec.ContentID]
		if !ok {
			continue
		}
		m.ratings.Set(row, col, rec.Rating)
	}

	m.factorize()

	return m
}

func (m *CollaborativeModel) factorize() {
	defer func() {
		if r := recover(); r != nil {
			m.logger.WithField("panic", r).Error(
				"Factorization failed, falling back to popularity for all users")
			m.factors = nil
		}
	}()

	var svd mat.SVD
	if ok := svd.Factorize(m.ratings, mat.SVDThin); !ok {
		m.logger.Error("SVD did not converge, falling back to popularity for all users")
		return
	}

	values := svd.Values(nil)
	rank := m.config.LatentRank
	if rank <= 0 {
		rank = 50
	}
	if rank > len(values) {
		rank = len(values)
	}

	var u mat.Dense
	svd.UTo(&u)

	// Latent user vectors are U scaled by the singular values, truncated to
	// the target rank.
	rows := len(m.userIDs)
	factors := mat.NewDense(rows, rank, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < rank; j++ {
			factors.Set(i, j, u.At(i, j)*values[j])
		}
	}
	m.factors = factors

	m.logger.WithFields(logrus.Fields{
		"users": rows,
		"items": len(m.itemIDs),
		"rank":  rank,
	}).Info("Collaborative model factorized")
}

// KnownUser reports whether the user appears in the interaction matrix and a
// usable factorization exists.
func (m *CollaborativeModel) KnownUser(userID string) bool {
	if m.factors == nil {
		return false
	}
	_, ok := m.userIndex[userID]
	return ok
}

// Neighbors ranks all other known users by cosine similarity of latent
// vectors and returns the top k user IDs, excluding the query user. Unknown
// users have no neighbors.
func (m *CollaborativeModel) Neighbors(userID string, k int) []string {
	if !m.KnownUser(userID) {
		return nil
	}
	if k <= 0 {
		k = m.config.NeighborCount
	}

	self := m.userIndex[userID]
	selfVec := mat.Row(nil, self, m.factors)

	type neighbor struct {
		row   int
		score float64
	}
	candidates := make([]neighbor, 0, len(m.userIDs)-1)
	for row := range m.userIDs {
		if row == self {
			continue
		}
		other := mat.Row(nil, row, m.factors)
		candidates = append(candidates, neighbor{row: row, score: ml.Cosine(selfVec, other)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = m.userIDs[c.row]
	}
	return ids
}

// Recommend walks the user's neighbors in similarity order and collects
// items the neighbor rated above the positive-signal threshold that the
// target user has never interacted with, in column order, until limit unique
// items are found or neighbors are exhausted. Unknown users (and a degraded
// model) get the popularity fallback instead; that path always fills limit
// when the catalog is large enough, while the neighbor walk may come up
// short and is never padded.
func (m *CollaborativeModel) Recommend(userID string, limit int) []string {
	if limit <= 0 {
		limit = m.config.DefaultLimit
	}
	if !m.KnownUser(userID) {
		return TopRatedIDs(m.catalog, limit)
	}

	self := m.userIndex[userID]
	seen := make(map[string]bool)

	recommendations := make([]string, 0, limit)
	for _, neighborID := range m.Neighbors(userID, m.config.NeighborCount) {
		row := m.userIndex[neighborID]
		for col, itemID := range m.itemIDs {
			if len(recommendations) >= limit {
				return recommendations
			}
			if m.ratings.At(row, col) <= m.config.PositiveThreshold {
				continue
			}
			if m.ratings.At(self, col) != 0 {
				continue
			}
			if seen[itemID] {
				continue
			}
			seen[itemID] = true
			recommendations = append(recommendations, itemID)
		}
	}
	return recommendations
}

// UserCount returns the number of users known to the matrix.
func (m *CollaborativeModel) UserCount() int {
	return len(m.userIDs)
}

// InteractionCount returns the number of non-zero matrix cells.
func (m *CollaborativeModel) InteractionCount() int {
	if m.ratings == nil {
		return 0
	}
	count := 0
	rows, cols := m.ratings.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if m.ratings.At(i, j) != 0 {
				count++
			}
		}
	}
	return count
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
