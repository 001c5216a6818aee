package riskanalysis

// categoryKeywords holds the curated lexicon for each risk category. Keywords
// are lowercase; multi-word phrases are matched as substrings, single words
// as whole tokens (see matchKeywords).
var categoryKeywords = map[Category][]string{
	CategoryHateSpeech: {
		"hate", "extremist", "radical", "supremacy", "nazi", "racism", "racist",
		"antisemitism", "antisemitic", "bigot", "bigotry", "discrimination",
		"homophobia", "homophobic", "islamophobia", "islamophobic", "xenophobia",
		"xenophobic", "white power", "ethnic cleansing", "genocide", "kkk",
		"neo-nazi", "racial slur", "racial hatred", "religious hatred", "hate group",
		"hate speech", "hate crime", "ethnic hatred", "racial superiority",
	},
	CategorySelfHarm: {
		"suicide", "suicidal", "self-harm", "self harm", "cutting", "kill myself",
		"end my life", "take my own life", "don't want to live", "ways to die",
		"how to kill", "painless death", "suicide method", "suicide note",
		"suicide plan", "suicide pact", "anorexia tips", "bulimia tips",
		"pro-ana", "pro-mia", "thinspiration", "depression", "hopeless",
		"self-injury", "self-mutilation", "self-destruction",
	},
	CategoryGraphicViolence: {
		"gore", "graphic violence", "brutal", "brutality", "torture", "beheading",
		"execution", "murder", "killing", "blood", "bloody", "massacre", "slaughter",
		"dismemberment", "mutilation", "gruesome", "gory", "horrific", "violent death",
		"extreme violence", "deadly assault", "violent attack", "shooting footage",
		"stabbing video", "real death", "real murder", "real killing", "snuff",
	},
	CategoryExplicitContent: {
		"pornography", "porn", "xxx", "adult content", "explicit content", "nude",
		"nudity", "sexual content", "sexual activity", "sexual act", "sex video",
		"sex tape", "onlyfans", "adult film", "adult video", "adult movie",
		"sexually explicit", "erotic", "erotica", "strip", "striptease",
		"webcam show", "cam girl", "cam boy", "adult performer", "adult star",
	},
	CategoryBullying: {
		"bullying", "cyberbullying", "harassment", "harassing", "troll", "trolling",
		"hater", "hating", "mock", "mocking", "ridicule", "ridiculing", "humiliate",
		"humiliation", "shame", "shaming", "body shaming", "fat shaming", "insult",
		"insulting", "taunt", "taunting", "name calling", "verbal abuse", "bully victim",
		"online harassment", "internet troll", "hate comment", "hate message",
	},
	CategoryDangerousChallenge: {
		"dangerous challenge", "viral challenge", "tide pod", "tide pod challenge",
		"fire challenge", "choking challenge", "blackout challenge", "pass out challenge",
		"skull breaker", "skull breaker challenge", "salt and ice", "salt and ice challenge",
		"cinnamon challenge", "bird box challenge", "kiki challenge", "car surfing",
		"blue whale", "blue whale challenge", "momo", "momo challenge", "outlet challenge",
		"penny challenge", "benadryl challenge", "milk crate challenge", "devious lick",
	},
	CategoryMisinformation: {
		"fake news", "misinformation", "disinformation", "conspiracy", "conspiracy theory",
		"hoax", "propaganda", "misleading", "false information", "false claim", "debunked",
		"fact check", "pseudoscience", "anti-vax", "anti-vaccine", "climate denial",
		"climate change denial", "flat earth", "false flag", "crisis actor", "deep state",
		"qanon", "q-anon", "deep fake", "doctored video", "manipulated media",
	},
}

// keywordSeverity overrides the default weight of 1 for keywords that alone
// indicate a materially higher risk.
var keywordSeverity = map[string]int{
	// weight 3
	"suicide method": 3, "suicide plan": 3, "kill myself": 3, "ways to die": 3,
	"how to kill": 3, "genocide": 3, "ethnic cleansing": 3, "beheading": 3,
	"execution": 3, "murder": 3, "pornography": 3, "xxx": 3, "blue whale challenge": 3,
	"tide pod challenge": 3, "choking challenge": 3, "blackout challenge": 3,

	// weight 2
	"suicide": 2, "self-harm": 2, "cutting": 2, "hate speech": 2, "hate crime": 2,
	"racist": 2, "antisemitic": 2, "homophobic": 2, "gore": 2, "torture": 2,
	"explicit content": 2, "sexual content": 2, "bullying": 2, "cyberbullying": 2,
	"dangerous challenge": 2, "viral challenge": 2, "skull breaker challenge": 2,
}

// allKeywords and keywordToCategory are derived once at package init so the
// matcher never walks the category map directly.
var (
	allKeywords       []string
	keywordToCategory = map[string]Category{}
)

func init() {
	for category, keywords := range categoryKeywords {
		for _, keyword := range keywords {
			allKeywords = append(allKeywords, keyword)
			keywordToCategory[keyword] = category
		}
	}
}

// keywordWeight returns a keyword's severity weight, defaulting to 1.
func keywordWeight(keyword string) int {
	if weight, ok := keywordSeverity[keyword]; ok {
		return weight
	}

	return 1
}
