package deck

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BuiltInDeckID identifies the full 55-card emotion deck.
	BuiltInDeckID = "deck-full"

	imageWidth    = 400
	imageHeight   = 600
	firstCardSeed = 101
	cardBackSeed  = 555
)

// CardBackPrompt describes the ornamental card-back artwork. The static
// fallback image and the generated variant both derive from it.
const CardBackPrompt = "symmetrical ornamental pattern of red heart-shaped clover leaves with intertwining vines on a dark green grunge texture background, vintage playing card back design, highly detailed, masterpiece, 2d vector art, art nouveau style"

// DefaultCardBackURL is the externally hosted card back used whenever no
// generated or uploaded override exists. The fixed seed keeps it stable.
func DefaultCardBackURL() string {
	return generateURL(CardBackPrompt, cardBackSeed)
}

func cardPrompt(emotion, description string) string {
	return fmt.Sprintf("A deeply emotional and metaphorical watercolor painting representing '%s'. Visual context: %s. Ethereal style, soft bleeding colors, expressive brushstrokes, dreamlike atmosphere, psychological depth, masterpiece, artistic, wet-on-wet technique, high quality art.", emotion, description)
}

func generateURL(prompt string, seed int) string {
	return fmt.Sprintf("https://image.pollinations.ai/prompt/%s?width=%d&height=%d&nologo=true&seed=%d&model=flux",
		encodeComponent(prompt), imageWidth, imageHeight, seed)
}

// encodeComponent percent-encodes a URL path component with spaces as %20,
// matching how the hosted card images were originally addressed.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

type rawEmotion struct {
	id, name, description, question string
}

var rawEmotions = []rawEmotion{
	{"e1", "Bezsilność", "Small person pushing a giant immovable boulder, grey fog", "W jakich sytuacjach czujesz, że tracisz wpływ na bieg zdarzeń?"},
	{"e2", "Ból", "Shattered glass heart, red and black sharp shards", "Gdzie w swoim ciele czujesz ten ból i jaki ma on kształt?"},
	{"e3", "Chęć odwetu", "Boomerang flying in a storm, lightning, red sky", "Co tak naprawdę chciałabyś/chciałbyś odzyskać, myśląc o odwecie?"},
	{"e4", "Ciekawość", "Child looking through a keyhole into a glowing magical garden", "Co nowego chciałabyś/chciałbyś odkryć w sobie lub w otaczającym świecie?"},
	{"e5", "Duma", "Lion standing on a mountain peak looking at sunset", "Z czego jesteś najbardziej dumna/dumny w swoim życiu?"},
	{"e6", "Ekstaza", "Explosion of golden light and stars, silhouette dancing", "Kiedy ostatnio czułaś/czułeś, że czas przestaje istnieć ze szczęścia?"},
	{"e7", "Gniew", "Volcano erupting, lava flowing, dark smoke", "Jakie granice zostały naruszone, że czujesz ten gniew?"},
	{"e8", "Lekceważenie", "Person walking away turning back on someone reaching out", "Co czujesz, gdy Twoje potrzeby nie są zauważane?"},
	{"e9", "Miłość", "Two trees with roots intertwined glowing warm light", "W jaki sposób okazujesz miłość sobie?"},
	{"e10", "Nadzieja", "Single green sprout growing through cracked concrete, ray of light", "Co jest dziś tym promykiem światła w Twojej sytuacji?"},
	{"e11", "Napięcie", "Tightrope walker balancing over a canyon, stretched rope", "W jakich sytuacjach Twoje napięcie najbardziej się nasila?"},
	{"e12", "Niechęć", "Person pushing away a plate of food, turning head away", "Od czego próbujesz się odsunąć lub uciec?"},
	{"e13", "Nienawiść", "Black fire consuming a forest, dark red eyes", "Co próbujesz ochronić, gdy pojawia się ta nienawiść?"},
	{"e14", "Niepewność", "Person standing at a crossroads in thick fog", "Czego potrzebujesz, aby postawić pierwszy krok w nieznanym?"},
	{"e15", "Niezadowolenie", "Grey clouds over a picnic, crossed arms", "Co musiałoby się zmienić, abyś poczuła/poczuł większą satysfakcję?"},
	{"e16", "Nuda", "Clock melting like Dali, grey room, empty chair", "O czym informuje Cię brak zaangażowania w tę chwilę?"},
	{"e17", "Obawa", "Shadow looming over a small house, dark blue tones", "Jaki najgorszy scenariusz tworzy dziś Twoja wyobraźnia?"},
	{"e18", "Obojętność", "Face made of stone, frozen lake surface", "Przed czym zamykasz się, żeby nie czuć zbyt wiele?"},
	{"e19", "Oczekiwanie", "Person sitting on a bench looking at a watch, empty road", "Na co tak naprawdę czekasz w swoim życiu?"},
	{"e20", "Osamotnienie", "Single lighthouse in a dark vast ocean", "Jak możesz być dla siebie najlepszym towarzyszem?"},
	{"e21", "Poczucie akceptacji", "Open hands holding water, warm soft glow", "Co w sobie najtrudniej Ci zaakceptować?"},
	{"e22", "Poczucie bliskości", "Two foreheads touching, closing eyes, soft light", "Z kim czujesz się naprawdę bezpiecznie i dlaczego?"},
	{"e23", "Podniecenie", "Sparks flying, electricity, vibrant purple and pink", "Co budzi w Tobie największą pasję i energię?"},
	{"e24", "Podziw", "Person looking up at a giant starry sky or cathedral", "Kogo podziwiasz i jaką cechę chciałabyś/chciałbyś w sobie rozwinąć?"},
	{"e25", "Pogarda", "Looking down from a high throne, cold icy stare", "Kogo lub co stawiasz dziś niżej od siebie — i dlaczego?"},
	{"e26", "Pożądanie", "Red apple, fire, reaching hand, intense colors", "Czego pragniesz tak mocno, że trudno Ci o tym myśleć spokojnie?"},
	{"e27", "Przerażenie", "Wide eyes in darkness, screaming face silhouette", "Czego unikasz, bo czujesz, że mogłoby zmienić zbyt wiele?"},
	{"e28", "Przygnębienie", "Heavy rain cloud over a head, carrying a heavy sack", "Co sprawia, że czujesz dziś taki ciężar na barkach?"},
	{"e29", "Radość", "Colorful balloons flying into blue sky, sun", "Co w ostatnim czasie przywróciło Ci choć odrobinę lekkości?"},
	{"e30", "Rezygnacja", "Dropping a sword, sitting down on the ground, dusk", "Z czego zrezygnowałaś/-eś — i czy ta decyzja nadal jest aktualna?"},
	{"e31", "Rozczarowanie", "Empty gift box, deflated balloon, grey colors", "Jakie oczekiwania nie zostały spełnione?"},
	{"e32", "Rozkosz", "Tasting honey, soft silk, closing eyes, warm colors", "Kiedy ostatnio pozwoliłaś/-eś sobie na czystą przyjemność?"},
	{"e33", "Rozpacz", "Person on knees crying into hands, dark void", "Jaką stratę wciąż w sobie nosisz i jak wpływa ona na Twoje dziś?"},
	{"e34", "Satysfakcja", "Putting the last piece of a puzzle, sunset view from summit", "Co domknęło się w Twoim życiu i dało Ci poczucie satysfakcji?"},
	{"e35", "Skrucha", "Bowing head, offering a flower, soft light", "Za co chciałabyś/chciałbyś przeprosić siebie lub innych?"},
	{"e36", "Smutek", "Blue rain against a window, tear drop", "O czym opowiada Twój smutek?"},
	{"e37", "Spokój", "Still lake reflecting mountains, meditating figure", "Gdzie jest Twoje miejsce, w którym czujesz spokój?"},
	{"e38", "Strach", "Hiding under a blanket, monster shadow on wall", "Przed czym uciekasz w codziennym życiu?"},
	{"e39", "Szczęście", "Field of sunflowers, bright yellow sun, smiling face", "Czego dziś najbardziej potrzebuje Twoje poczucie szczęścia?"},
	{"e40", "Tęsknota", "Looking at old photo, empty chair, horizon", "Za kim lub za czym tęskni dziś Twoje serce?"},
	{"e41", "Triumf", "Holding a trophy cup high, cheering crowd silhouette", "Jakie zwycięstwo nad sobą masz za sobą?"},
	{"e42", "Ulga", "Dropping a heavy backpack, taking a deep breath", "Co dziś obciąża Cię bardziej, niż naprawdę powinno?"},
	{"e43", "Wdzięczność", "Hands holding a glowing heart, harvest basket", "Za co jesteś wdzięczna/wdzięczny, mimo trudności?"},
	{"e44", "Współczucie", "Person covering another with a blanket, warm glow", "Dla kogo masz dziś w sobie najwięcej czułości?"},
	{"e45", "Wstręt", "Green slime, person covering nose, rotting fruit", "Co w Twoim życiu jest dla Ciebie dziś ‘niestrawne’?"},
	{"e46", "Wstyd", "Face hiding behind a mask, spotlight on small figure", "Jaką część siebie próbujesz ukryć przed światem?"},
	{"e47", "Wściekłość", "Red lightning, smashing glass, bull charging", "Co sprawia, że tracisz panowanie nad sobą?"},
	{"e48", "Zachwyt", "Rainbow over waterfall, wide open eyes", "Co ostatnio poruszyło Cię swoim pięknem?"},
	{"e49", "Zaufanie", "Falling backwards into arms, blindfold, bridge", "Komu lub czemu dziś najłatwiej jest Ci zaufać?"},
	{"e50", "Zawiść", "Snake with green eyes looking at gold", "Czego zazdrościsz innym — a czego sobie nie dajesz?"},
	{"e51", "Zazdrość", "Two people holding hands, third person watching from shadows", "W jakiej relacji pojawia się lęk przed utratą lub zastąpieniem?"},
	{"e52", "Zażenowanie", "Cheeks turning red, dropping papers, looking down", "W jakich sytuacjach czujesz się najbardziej nieswojo?"},
	{"e53", "Zgoda", "Shaking hands, white flag, sunrise", "Na co wreszcie się zgodziłaś/-eś, kończąc wewnętrzną walkę?"},
	{"e54", "Złość", "Clenched fist, red aura, steam", "Co w zachowaniu innych ludzi najbardziej Cię złości?"},
	{"e55", "Żal", "Wilted flower, grey rain, tearful eye", "Czego nie zrobiłaś/-eś, a dziś czujesz z tego powodu żal?"},
}

// BuiltIn builds the full emotion deck. Image seeds are fixed per card so the
// hosted artwork never shifts between runs.
func BuiltIn() Deck {
	cards := make([]EmotionCard, len(rawEmotions))
	for i, e := range rawEmotions {
		cards[i] = EmotionCard{
			ID:          e.id,
			Name:        e.name,
			Description: e.description,
			Question:    e.question,
			ImageURL:    generateURL(cardPrompt(e.name, e.description), firstCardSeed+i),
		}
	}
	return Deck{
		ID:          BuiltInDeckID,
		Name:        "Pełna Talia Emocji",
		Description: "Kompletny zestaw 55 kart emocji z pytaniami do pracy terapeutycznej.",
		Cards:       cards,
	}
}
