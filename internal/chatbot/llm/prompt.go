package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/sahabatbunda/chatbot-core/internal/chatbot/model"
)

const systemPrompt = `Kamu adalah chatbot stunting yang membantu memberikan informasi tentang nutrisi kehamilan dan pencegahan stunting.
Berikan jawaban yang informatif, akurat, dan mudah dipahami dalam Bahasa Indonesia.
Gunakan data yang disediakan untuk memberikan informasi yang spesifik.
Jika tidak yakin atau tidak memiliki informasi yang cukup, sampaikan dengan jujur.
Format respons dengan rapi menggunakan paragraf dan poin-poin untuk memudahkan pembacaan.`

// buildPrompt assembles the grounded prompt: persona, timestamp, the user's
// question, the NLP analysis, an intent-specific focus block, and the rendered
// knowledge data.
func buildPrompt(userMessage string, nlp model.NLPResult, data model.RelevantData, now time.Time) string {
	var b strings.Builder

	b.WriteString(systemPrompt)
	fmt.Fprintf(&b, "\n\nWaktu saat ini: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "\nPertanyaan pengguna: %s\n", userMessage)
	fmt.Fprintf(&b, "\nIntent terdeteksi: %s (confidence: %.2f)\n", nlp.Intent, nlp.Confidence)
	fmt.Fprintf(&b, "Entities terdeteksi: %v\n", nlp.Entities)
	fmt.Fprintf(&b, "Context: %v\n", nlp.Context)

	if focus := intentFocus(nlp); focus != "" {
		b.WriteString("\n")
		b.WriteString(focus)
		b.WriteString("\n")
	}

	b.WriteString("\nData relevan:\n")
	b.WriteString(renderKnowledge(data))

	b.WriteString("\nBerikan respons yang natural, informatif, dan personal berdasarkan data di atas.\n")
	b.WriteString("Gunakan bahasa yang ramah dan mudah dipahami.\n")
	b.WriteString("Jika ada informasi yang tidak lengkap, sampaikan dengan jujur dan berikan alternatif yang mungkin berguna.\n")

	return b.String()
}

// intentFocus returns the per-intent elaboration block, specialized further
// when the relevant entity is known.
func intentFocus(nlp model.NLPResult) string {
	switch nlp.Intent {
	case model.IntentPregnancyNutrition:
		focus := `Fokus pada informasi nutrisi kehamilan dan rekomendasi makanan yang sehat.
Berikan informasi tentang kebutuhan kalori, protein, dan nutrisi penting lainnya.
Jelaskan manfaat nutrisi tersebut untuk perkembangan janin dan kesehatan ibu.
Berikan contoh menu harian yang seimbang jika memungkinkan.`
		if trimester := nlp.Entities[model.EntityTrimester]; trimester != "" {
			focus += fmt.Sprintf("\nFokus pada kebutuhan nutrisi khusus untuk trimester %s.", trimester)
		}
		return focus
	case model.IntentFoodDetail:
		focus := `Berikan detail lengkap tentang kandungan nutrisi dan manfaatnya untuk ibu hamil.
Jelaskan kandungan protein, lemak, karbohidrat, vitamin, dan mineral.
Jelaskan bagaimana nutrisi tersebut mempengaruhi perkembangan janin.
Berikan informasi tentang porsi yang direkomendasikan dan cara penyajian terbaik.`
		if food := nlp.Entities[model.EntityFoodItem]; food != "" {
			focus += fmt.Sprintf("\nFokus pada detail nutrisi %s dan manfaatnya untuk ibu hamil.", food)
		}
		return focus
	case model.IntentStuntingPrevention:
		return `Jelaskan cara-cara efektif untuk mencegah stunting pada anak.
Berikan informasi tentang faktor risiko stunting dan cara mengatasinya.
Jelaskan pentingnya nutrisi selama 1000 hari pertama kehidupan.
Berikan rekomendasi praktis yang dapat diterapkan oleh keluarga.`
	}
	return ""
}

// renderKnowledge serializes the selected knowledge topics into the section
// format models ground on.
func renderKnowledge(data model.RelevantData) string {
	var b strings.Builder

	if tn := data.TrimesterNutrition; tn != nil {
		fmt.Fprintf(&b, "=== INFORMASI NUTRISI %s ===\n", strings.ToUpper(strings.ReplaceAll(tn.Trimester, "_", " ")))
		fmt.Fprintf(&b, "- Kebutuhan kalori: %s\n", tn.CalorieNeeds)
		fmt.Fprintf(&b, "- Kebutuhan protein: %s\n", tn.ProteinNeeds)
		b.WriteString("- Nutrisi penting:\n")
		for _, n := range tn.KeyNutrients {
			fmt.Fprintf(&b, "  * %s (%s)\n", n.Name, n.Amount)
			fmt.Fprintf(&b, "    Fungsi: %s\n", n.Importance)
			fmt.Fprintf(&b, "    Sumber: %s\n", strings.Join(n.Sources, ", "))
		}
		fmt.Fprintf(&b, "- Rekomendasi: %s\n", tn.Recommendations)
		fmt.Fprintf(&b, "- Masalah umum: %s\n\n", strings.Join(tn.CommonIssues, ", "))
	}

	if fn := data.FoodNutrition; fn != nil {
		fmt.Fprintf(&b, "=== DETAIL NUTRISI %s ===\n", strings.ToUpper(fn.Name))
		fmt.Fprintf(&b, "Kategori: %s\n", fn.Category)
		fmt.Fprintf(&b, "Porsi: %s\n\n", fn.Portion)
		b.WriteString("Kandungan nutrisi:\n")
		fmt.Fprintf(&b, "- Protein: %s\n", fn.Nutrients.Protein)
		fmt.Fprintf(&b, "- Lemak: %s\n", fn.Nutrients.Fat)
		fmt.Fprintf(&b, "- Karbohidrat: %s\n", fn.Nutrients.Carbs)
		fmt.Fprintf(&b, "- Kalori: %s\n", fn.Nutrients.Calories)
		if len(fn.Nutrients.Vitamins) > 0 {
			fmt.Fprintf(&b, "- Vitamin: %s\n", strings.Join(fn.Nutrients.Vitamins, ", "))
		}
		if len(fn.Nutrients.Minerals) > 0 {
			fmt.Fprintf(&b, "- Mineral: %s\n", strings.Join(fn.Nutrients.Minerals, ", "))
		}
		fmt.Fprintf(&b, "\nManfaat untuk kehamilan:\n%s\n\n", fn.Benefits)
	}

	if len(data.FoodRecommendations) > 0 {
		b.WriteString("=== REKOMENDASI MAKANAN ===\n")
		for _, category := range data.FoodRecommendations {
			fmt.Fprintf(&b, "Kategori: %s (%s)\n", category.Category, category.Description)
			for _, food := range category.Foods {
				portion := food.Portion
				if portion == "" {
					portion = "N/A"
				}
				fmt.Fprintf(&b, "- %s (Porsi: %s)\n", food.Name, portion)
				fmt.Fprintf(&b, "  Manfaat: %s\n", food.Benefits)
			}
		}
		b.WriteString("\n")
	}

	if len(data.StuntingPrevention) > 0 {
		b.WriteString("=== PENCEGAHAN STUNTING ===\n")
		for _, factor := range data.StuntingPrevention {
			fmt.Fprintf(&b, "- %s (Prioritas: %s)\n", factor.Factor, factor.Importance)
			fmt.Fprintf(&b, "  Detail: %s\n\n", factor.Description)
		}
	}

	return b.String()
}
