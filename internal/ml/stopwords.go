package ml

// Non-discriminative terms excluded from the vocabulary before weighting.
var stopWords = map[string]bool{}

func init() {
	for _, w := range []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
		"to", "was", "will", "with", "this", "but", "they", "have",
		"had", "what", "said", "each", "which", "she", "do", "how", "their",
		"if", "up", "out", "many", "then", "them", "these", "so", "some",
		"her", "would", "him", "into", "about", "no", "not", "or",
		"were", "when", "your", "can", "there", "through", "who",
	} {
		stopWords[w] = true
	}
}
