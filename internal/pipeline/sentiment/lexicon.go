// internal/pipeline/sentiment/lexicon.go
package sentiment

// General polarity vocabulary: token-level scoring at +1/-1 per hit.
var positiveWords = toSet([]string{
	"good", "great", "happy", "joy", "love", "wonderful", "awesome",
	"amazing", "excellent", "fantastic", "better", "best", "glad",
	"grateful", "thankful", "hopeful", "proud", "excited", "calm",
	"relaxed", "fun", "nice", "beautiful", "enjoyed", "laughing",
})

var negativeWords = toSet([]string{
	"bad", "sad", "angry", "hate", "terrible", "awful", "horrible",
	"worse", "worst", "miserable", "depressed", "depressing", "lonely",
	"alone", "cry", "crying", "hurt", "pain", "painful", "tired",
	"exhausted", "scared", "afraid", "hopeless", "worthless", "useless",
	"numb", "empty", "failure", "stuck",
})

// Domain indicator lists: matches adjust the raw score by a fixed delta
// and are recorded on the assessment as indicators.
const (
	positiveAffectDelta = 1.0
	anxietyDelta        = -1.0
)

var positiveAffectWords = toSet([]string{
	"thriving", "energized", "motivated", "confident", "peaceful",
	"accomplished", "optimistic", "refreshed", "awesome", "great",
})

var anxietyWords = toSet([]string{
	"anxious", "anxiety", "panic", "panicking", "worried", "worrying",
	"nervous", "overwhelmed", "restless", "dread", "racing",
})

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
