// Package responder renders deterministic Indonesian replies from knowledge
// base data. It is the offline path of the pipeline: always available, no
// provider round-trip, and the fallback whenever an LLM backend fails.
package responder

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

const maxSuggestions = 3

// lowConfidenceThreshold is the floor below which the generator answers with a
// clarification prompt instead of rendering knowledge data.
const lowConfidenceThreshold = 0.7

var greetingResponses = []string{
	"Halo! Selamat datang di Chatbot Stunting. Apa yang ingin Anda ketahui tentang nutrisi kehamilan atau pencegahan stunting?",
	"Hai! Saya siap membantu Anda dengan informasi seputar nutrisi kehamilan dan pencegahan stunting. Apa yang ingin Anda tanyakan?",
}

var clarificationResponses = []string{
	"Maaf, saya tidak memahami pertanyaan Anda. Bisa diulangi dengan kata-kata berbeda?",
	"Saya belum mengerti maksud Anda. Coba tanyakan tentang nutrisi kehamilan, makanan untuk trimester tertentu, atau cara mencegah stunting.",
}

// Generator renders templated responses. The random source only picks between
// equivalent phrasings; injecting it keeps tests deterministic.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator with the given random source. A nil source gets a
// time-seeded one via rand's global default behavior.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Generator{rng: rng}
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

// Generate turns an NLP outcome plus knowledge data into the reply text.
// Greetings and low-confidence turns short-circuit before any data rendering.
func (g *Generator) Generate(nlp model.NLPResult, data model.RelevantData, prefs map[string]any) string {
	if nlp.Intent == model.IntentGreeting {
		return g.pick(greetingResponses)
	}
	if nlp.Confidence < lowConfidenceThreshold {
		return g.pick(clarificationResponses)
	}

	switch nlp.Intent {
	case model.IntentPregnancyNutrition:
		return g.nutritionResponse(data, nlp.Entities, prefs)
	case model.IntentFoodDetail:
		return foodDetailResponse(data.FoodNutrition)
	case model.IntentStuntingPrevention:
		return stuntingResponse(data.StuntingPrevention)
	}
	return g.pick(clarificationResponses)
}

func (g *Generator) nutritionResponse(data model.RelevantData, entities map[string]string, prefs map[string]any) string {
	var b strings.Builder

	if tn := data.TrimesterNutrition; tn != nil {
		trimesterName := strings.ReplaceAll(tn.Trimester, "_", " ")
		fmt.Fprintf(&b, "Untuk %s, berikut rekomendasi nutrisi:\n\n", trimesterName)
		fmt.Fprintf(&b, "• Kebutuhan kalori: %s\n", tn.CalorieNeeds)
		fmt.Fprintf(&b, "• Kebutuhan protein: %s\n\n", tn.ProteinNeeds)

		b.WriteString("Nutrisi penting:\n")
		for _, n := range tn.KeyNutrients {
			fmt.Fprintf(&b, "• %s (%s): %s\n", n.Name, n.Amount, n.Importance)
			fmt.Fprintf(&b, "  Sumber: %s\n", strings.Join(n.Sources, ", "))
		}
		fmt.Fprintf(&b, "\nRekomendasi: %s\n", tn.Recommendations)
	}

	if len(data.FoodRecommendations) > 0 {
		if b.Len() == 0 {
			b.WriteString("Berikut rekomendasi makanan untuk ibu hamil:\n\n")
		} else {
			b.WriteString("\nRekomendasi makanan:\n")
		}
		for _, category := range data.FoodRecommendations {
			fmt.Fprintf(&b, "\n• Kategori %s:\n", category.Category)
			for _, food := range category.Foods {
				fmt.Fprintf(&b, "  - %s: %s\n", food.Name, food.Benefits)
			}
		}
	}

	if b.Len() == 0 {
		if trimester := entities[model.EntityTrimester]; trimester != "" {
			fmt.Fprintf(&b, "Maaf, saya tidak memiliki informasi spesifik untuk trimester %s. Secara umum, ibu hamil memerlukan tambahan 300 kalori per hari dan protein 60g per hari.", trimester)
		} else {
			b.WriteString("Nutrisi yang baik sangat penting selama kehamilan. Pastikan untuk mengonsumsi makanan yang kaya protein, zat besi, asam folat, dan kalsium. Konsultasikan dengan dokter atau ahli gizi untuk rekomendasi yang lebih spesifik.")
		}
	}

	if allergies := allergyList(prefs); len(allergies) > 0 {
		fmt.Fprintf(&b, "\n\nCatatan: Berdasarkan informasi yang Anda berikan, Anda memiliki alergi terhadap %s. Harap hindari makanan tersebut dan konsultasikan dengan dokter.", strings.Join(allergies, ", "))
	}

	return b.String()
}

func foodDetailResponse(fn *model.FoodNutrition) string {
	if fn == nil {
		return "Maaf, saya tidak memiliki informasi detail tentang makanan tersebut."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Detail nutrisi %s (per %s):\n\n", fn.Name, fn.Portion)
	fmt.Fprintf(&b, "• Protein: %s\n", fn.Nutrients.Protein)
	fmt.Fprintf(&b, "• Lemak: %s\n", fn.Nutrients.Fat)
	fmt.Fprintf(&b, "• Karbohidrat: %s\n", fn.Nutrients.Carbs)
	fmt.Fprintf(&b, "• Kalori: %s\n", fn.Nutrients.Calories)
	if len(fn.Nutrients.Vitamins) > 0 {
		fmt.Fprintf(&b, "• Vitamin: %s\n", strings.Join(fn.Nutrients.Vitamins, ", "))
	}
	if len(fn.Nutrients.Minerals) > 0 {
		fmt.Fprintf(&b, "• Mineral: %s\n", strings.Join(fn.Nutrients.Minerals, ", "))
	}
	fmt.Fprintf(&b, "\nManfaat untuk kehamilan: %s", fn.Benefits)
	return b.String()
}

func stuntingResponse(factors []model.StuntingFactor) string {
	if len(factors) == 0 {
		return "Stunting adalah kondisi gagal tumbuh pada anak akibat kekurangan gizi kronis. Untuk mencegahnya, pastikan nutrisi yang cukup selama kehamilan, berikan ASI eksklusif selama 6 bulan pertama, dan berikan makanan pendamping ASI yang bergizi setelahnya."
	}

	var b strings.Builder
	b.WriteString("Untuk mencegah stunting, berikut adalah hal-hal penting yang perlu diperhatikan:\n\n")
	for _, f := range factors {
		fmt.Fprintf(&b, "• %s (Prioritas: %s): %s\n\n", f.Factor, f.Importance, f.Description)
	}
	b.WriteString("Penting untuk memulai pencegahan stunting sejak masa kehamilan dengan memastikan ibu mendapatkan nutrisi yang cukup.")
	return b.String()
}

// allergyList extracts the allergy preference, tolerating both the JSON
// decode shape ([]any) and native string slices.
func allergyList(prefs map[string]any) []string {
	raw, ok := prefs["allergies"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

var trimesterValues = []string{"pertama", "kedua", "ketiga"}

var foodValues = []string{"telur", "ikan_salmon", "bayam", "brokoli"}

// Suggestions proposes up to three follow-up questions from the NLP outcome.
// When an entity is already known, suggestions pivot to the other values of
// that category instead of repeating it.
func Suggestions(intent string, entities map[string]string, _ []string) []string {
	var suggestions []string

	switch intent {
	case model.IntentGreeting, model.IntentGeneralQuery:
		suggestions = []string{
			"Apa makanan yang baik untuk trimester pertama?",
			"Bagaimana cara mencegah stunting?",
			"Apa kandungan gizi telur untuk ibu hamil?",
		}
	case model.IntentPregnancyNutrition:
		if trimester := entities[model.EntityTrimester]; trimester != "" {
			others := otherValues(trimesterValues, trimester)
			suggestions = append(suggestions,
				fmt.Sprintf("Apa makanan yang baik untuk trimester %s?", others[0]),
				fmt.Sprintf("Berapa kebutuhan kalori untuk trimester %s?", trimester))
		} else {
			for _, t := range trimesterValues {
				suggestions = append(suggestions, fmt.Sprintf("Apa makanan yang baik untuk trimester %s?", t))
			}
		}
		suggestions = append(suggestions, "Apa saja sumber zat besi untuk ibu hamil?")
	case model.IntentFoodDetail:
		if food := entities[model.EntityFoodItem]; food != "" {
			others := otherValues(foodValues, food)
			suggestions = []string{
				fmt.Sprintf("Apa kandungan gizi %s?", others[0]),
				fmt.Sprintf("Apa kandungan gizi %s?", others[1]),
				fmt.Sprintf("Bagaimana cara mengolah %s yang baik untuk ibu hamil?", food),
			}
		} else {
			suggestions = []string{
				"Apa kandungan gizi telur?",
				"Apa kandungan gizi ikan salmon?",
				"Apa kandungan gizi bayam?",
			}
		}
	case model.IntentStuntingPrevention:
		suggestions = []string{
			"Apa faktor risiko stunting?",
			"Apakah ASI eksklusif mencegah stunting?",
			"Kapan waktu kritis untuk mencegah stunting?",
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// otherValues filters known out of values. When known is not a listed value
// the full list comes back, so callers always get at least two entries.
func otherValues(values []string, known string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != known {
			out = append(out, v)
		}
	}
	return out
}
