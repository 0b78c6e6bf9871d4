package ml

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
	"gonum.org/v1/gonum/floats"

	"github.com/reelwise/discovery/pkg/models"
)

// Indexer builds TF-IDF feature vectors over a catalog snapshot. The
// resulting Index carries a frozen vocabulary; rebuilding produces a new
// Index and invalidates every query vector issued against the old one.
type Indexer struct {
	maxFeatures int
	logger      *logrus.Logger
}

// Index is the read-only vector space for one catalog generation. Safe for
// concurrent readers once published.
type Index struct {
	vocabulary map[string]int
	idf        []float64
	vectors    [][]float64 // one L2-normalized row per item, catalog order
}

var punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

func NewIndexer(maxFeatures int, logger *logrus.Logger) *Indexer {
	if maxFeatures <= 0 {
		maxFeatures = 10000
	}
	return &Indexer{
		maxFeatures: maxFeatures,
		logger:      logger,
	}
}

// Build constructs the vector space from the full catalog. Each item's text
// unit is title + synopsis + genre tags; vocabulary entries are unigrams and
// adjacent bigrams, stop words removed, capped to the maxFeatures terms with
// the highest corpus frequency.
func (ix *Indexer) Build(items []models.ContentItem) *Index {
	docs := make([][]string, len(items))
	corpusCounts := make(map[string]int)
	docFreq := make(map[string]int)

	for i, item := range items {
		text := item.Title + " " + item.Synopsis + " " + strings.Join(item.Genres, " ")
		terms := Terms(text)
		docs[i] = terms

		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			corpusCounts[t]++
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
	}

	vocabulary := selectVocabulary(corpusCounts, ix.maxFeatures)

	// Smoothed IDF, sklearn-style: ln((1+n)/(1+df)) + 1.
	n := float64(len(items))
	idf := make([]float64, len(vocabulary))
	for term, col := range vocabulary {
		df := float64(docFreq[term])
		idf[col] = logSmooth(n, df)
	}

	idx := &Index{
		vocabulary: vocabulary,
		idf:        idf,
	}

	idx.vectors = make([][]float64, len(items))
	for i, terms := range docs {
		idx.vectors[i] = idx.weigh(terms)
	}

	ix.logger.WithFields(logrus.Fields{
		"items":      len(items),
		"vocabulary": len(vocabulary),
	}).Info("Vector-space index built")

	return idx
}

// Vectorize projects free text into the frozen vocabulary. Terms outside the
// vocabulary contribute zero weight.
func (idx *Index) Vectorize(text string) []float64 {
	return idx.weigh(Terms(text))
}

// ItemVector returns the stored vector for the item at catalog position i.
func (idx *Index) ItemVector(i int) []float64 {
	return idx.vectors[i]
}

// Len returns the number of indexed items.
func (idx *Index) Len() int {
	return len(idx.vectors)
}

// Dims returns the frozen vocabulary dimensionality.
func (idx *Index) Dims() int {
	return len(idx.vocabulary)
}

func (idx *Index) weigh(terms []string) []float64 {
	vec := make([]float64, len(idx.vocabulary))
	for _, t := range terms {
		if col, ok := idx.vocabulary[t]; ok {
			vec[col] += idx.idf[col]
		}
	}
	l2Normalize(vec)
	return vec
}

// Terms tokenizes text into stop-word-filtered unigrams plus adjacent
// bigrams. Text is NFC-normalized and lowercased first.
func Terms(text string) []string {
	text = norm.NFC.String(text)
	text = strings.ToLower(text)
	text = punctuationRegex.ReplaceAllString(text, " ")

	words := make([]string, 0, 16)
	for _, w := range strings.Fields(text) {
		if stopWords[w] {
			continue
		}
		words = append(words, w)
	}

	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// Cosine returns the cosine similarity of two vectors, defined as 0 when
// either has zero norm.
func Cosine(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// selectVocabulary keeps the maxFeatures terms with the highest corpus
// frequency, ties broken lexicographically so rebuilds are deterministic.
func selectVocabulary(counts map[string]int, maxFeatures int) map[string]int {
	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	// Column order is lexicographic over the retained terms.
	sort.Strings(terms)
	vocabulary := make(map[string]int, len(terms))
	for col, t := range terms {
		vocabulary[t] = col
	}
	return vocabulary
}

func l2Normalize(vec []float64) {
	n := floats.Norm(vec, 2)
	if n == 0 {
		return
	}
	floats.Scale(1/n, vec)
}

func logSmooth(n, df float64) float64 {
	return math.Log((1+n)/(1+df)) + 1
}
