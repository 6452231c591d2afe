package knowledge

import "github.com/sahabatbunda/chatbot-core/internal/chatbot/model"

// Built-in reference dataset, persisted on first start when the data files are
// absent. Content is curated in Indonesian to match the assistant's language.

func defaultTrimesterNutrition() []model.TrimesterNutrition {
	return []model.TrimesterNutrition{
		{
			Trimester:    "trimester_pertama",
			CalorieNeeds: "Tambahan 300 kalori/hari",
			ProteinNeeds: "60g/hari (peningkatan dari 46g/hari)",
			KeyNutrients: []model.Nutrient{
				{Name: "Folat", Amount: "600μg/hari", Importance: "Mencegah cacat tabung saraf", Sources: []string{"Sayuran hijau", "Kacang-kacangan", "Jeruk"}},
				{Name: "Zat Besi", Amount: "27mg/hari", Importance: "Mencegah anemia", Sources: []string{"Daging merah", "Bayam", "Kacang-kacangan"}},
				{Name: "Kalsium", Amount: "1000mg/hari", Importance: "Pembentukan tulang janin", Sources: []string{"Susu", "Keju", "Yogurt"}},
			},
			Recommendations: "Makan porsi kecil tapi sering untuk mengatasi mual, hindari makanan berminyak dan pedas",
			CommonIssues:    []string{"Morning sickness", "Mual", "Muntah", "Kelelahan"},
		},
		{
			Trimester:    "trimester_kedua",
			CalorieNeeds: "Tambahan 300 kalori/hari",
			ProteinNeeds: "60g/hari",
			KeyNutrients: []model.Nutrient{
				{Name: "Omega-3", Amount: "200-300mg DHA/hari", Importance: "Perkembangan otak janin", Sources: []string{"Ikan salmon", "Sarden", "Minyak ikan"}},
				{Name: "Kalsium", Amount: "1000mg/hari", Importance: "Pembentukan tulang dan gigi janin", Sources: []string{"Susu", "Yogurt", "Keju"}},
				{Name: "Vitamin D", Amount: "15μg/hari", Importance: "Penyerapan kalsium", Sources: []string{"Ikan berlemak", "Telur", "Susu fortifikasi"}},
			},
			Recommendations: "Fokus pada makanan bergizi tinggi, hindari makanan olahan dan tinggi gula",
			CommonIssues:    []string{"Sembelit", "Sakit punggung", "Heartburn"},
		},
		{
			Trimester:    "trimester_ketiga",
			CalorieNeeds: "Tambahan 300 kalori/hari",
			ProteinNeeds: "60g/hari",
			KeyNutrients: []model.Nutrient{
				{Name: "Zat Besi", Amount: "27mg/hari", Importance: "Mencegah anemia dan mempersiapkan persalinan", Sources: []string{"Daging merah", "Bayam", "Hati"}},
				{Name: "Vitamin K", Amount: "90μg/hari", Importance: "Pembekuan darah", Sources: []string{"Sayuran hijau", "Brokoli", "Bayam"}},
				{Name: "Magnesium", Amount: "350-360mg/hari", Importance: "Mencegah kelahiran prematur", Sources: []string{"Kacang-kacangan", "Biji-bijian", "Sayuran hijau"}},
			},
			Recommendations: "Makan makanan tinggi serat, hindari makanan tinggi sodium, minum banyak air",
			CommonIssues:    []string{"Heartburn", "Sesak napas", "Kram kaki", "Sulit tidur"},
		},
	}
}

func defaultFoodRecommendations() []model.FoodCategory {
	return []model.FoodCategory{
		{
			Category:    "protein",
			Description: "Untuk pertumbuhan janin",
			Foods: []model.FoodRef{
				{Name: "Telur", Portion: "1 butir (50g)", Benefits: "Sumber protein lengkap, kolin untuk perkembangan otak"},
				{Name: "Ikan salmon", Portion: "85-140g, 2-3x seminggu", Benefits: "Omega-3 untuk perkembangan otak janin"},
				{Name: "Daging tanpa lemak", Portion: "85g/hari", Benefits: "Zat besi heme yang mudah diserap"},
			},
		},
		{
			Category:    "sayuran",
			Description: "Untuk zat besi dan folat",
			Foods: []model.FoodRef{
				{Name: "Bayam", Portion: "1 mangkuk (30g)", Benefits: "Kaya zat besi, folat, dan vitamin K"},
				{Name: "Brokoli", Portion: "1 mangkuk (30g)", Benefits: "Kaya folat, kalsium, dan serat"},
				{Name: "Kacang-kacangan", Portion: "1/2 mangkuk (100g)", Benefits: "Sumber protein nabati dan serat"},
			},
		},
	}
}

func defaultFoodNutritionDetails() []model.FoodNutrition {
	return []model.FoodNutrition{
		{
			Name:     "telur",
			Category: "Protein",
			Portion:  "1 butir (50g)",
			Nutrients: model.NutrientProfile{
				Protein:  "6g",
				Fat:      "5g",
				Carbs:    "0.6g",
				Calories: "70",
				Vitamins: []string{"A", "D", "E", "K", "B12"},
				Minerals: []string{"Zat besi", "Selenium", "Fosfor"},
			},
			Benefits: "Membantu perkembangan otak janin, sumber protein lengkap, mengandung kolin untuk perkembangan saraf",
		},
		{
			Name:     "ikan_salmon",
			Category: "Protein",
			Portion:  "100g",
			Nutrients: model.NutrientProfile{
				Protein:  "22g",
				Fat:      "13g",
				Carbs:    "0g",
				Calories: "206",
				Vitamins: []string{"D", "B12"},
				Minerals: []string{"Selenium", "Fosfor"},
			},
			Benefits: "Kaya omega-3 untuk perkembangan otak janin, menurunkan risiko kelahiran prematur",
		},
		{
			Name:     "bayam",
			Category: "Sayuran",
			Portion:  "100g",
			Nutrients: model.NutrientProfile{
				Protein:  "2.9g",
				Fat:      "0.4g",
				Carbs:    "3.6g",
				Calories: "23",
				Vitamins: []string{"A", "C", "K", "Folat"},
				Minerals: []string{"Zat besi", "Kalsium", "Magnesium"},
			},
			Benefits: "Mencegah anemia, mendukung perkembangan tulang, meningkatkan sistem kekebalan tubuh",
		},
		{
			Name:     "brokoli",
			Category: "Sayuran",
			Portion:  "100g",
			Nutrients: model.NutrientProfile{
				Protein:  "2.8g",
				Fat:      "0.4g",
				Carbs:    "6.6g",
				Calories: "34",
				Vitamins: []string{"C", "K", "Folat"},
				Minerals: []string{"Kalsium", "Kalium"},
			},
			Benefits: "Mendukung perkembangan tulang janin, mencegah cacat tabung saraf",
		},
	}
}

func defaultStuntingPrevention() []model.StuntingFactor {
	return []model.StuntingFactor{
		{
			Factor:      "ASI eksklusif",
			Importance:  "Tinggi",
			Description: "Berikan ASI eksklusif selama 6 bulan pertama untuk memberikan nutrisi optimal dan meningkatkan sistem kekebalan tubuh bayi",
		},
		{
			Factor:      "Nutrisi ibu hamil",
			Importance:  "Tinggi",
			Description: "Pastikan ibu hamil mendapatkan nutrisi yang cukup, terutama protein, zat besi, asam folat, dan kalsium",
		},
		{
			Factor:      "MPASI bergizi",
			Importance:  "Tinggi",
			Description: "Berikan makanan pendamping ASI yang bergizi dan beragam setelah bayi berusia 6 bulan",
		},
		{
			Factor:      "Pemantauan pertumbuhan",
			Importance:  "Sedang",
			Description: "Pantau pertumbuhan anak secara teratur di posyandu atau fasilitas kesehatan",
		},
		{
			Factor:      "Sanitasi dan kebersihan",
			Importance:  "Sedang",
			Description: "Jaga kebersihan lingkungan, cuci tangan dengan sabun, dan pastikan akses ke air bersih untuk mencegah infeksi dan diare",
		},
		{
			Factor:      "Imunisasi lengkap",
			Importance:  "Sedang",
			Description: "Berikan imunisasi lengkap sesuai jadwal untuk melindungi anak dari penyakit infeksi yang dapat menghambat pertumbuhan",
		},
	}
}
