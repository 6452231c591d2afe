package model

import "fmt"

// Knowledge entry variants. These are immutable reference data loaded once at
// startup; JSON tags match the on-disk topic documents so data files written
// by earlier deployments keep loading unchanged.

// Nutrient is one key nutrient inside a trimester entry.
type Nutrient struct {
	Name       string   `json:"name"`
	Amount     string   `json:"amount"`
	Importance string   `json:"importance"`
	Sources    []string `json:"sources"`
}

// TrimesterNutrition holds the nutrition guidance for one pregnancy trimester.
type TrimesterNutrition struct {
	Trimester       string     `json:"trimester"`
	CalorieNeeds    string     `json:"calorie_needs"`
	ProteinNeeds    string     `json:"protein_needs"`
	KeyNutrients    []Nutrient `json:"key_nutrients"`
	Recommendations string     `json:"recommendations"`
	CommonIssues    []string   `json:"common_issues"`
}

// Validate checks the fields a rendered response depends on.
func (t *TrimesterNutrition) Validate() error {
	if t.Trimester == "" {
		return fmt.Errorf("trimester entry missing trimester id")
	}
	if t.CalorieNeeds == "" || t.ProteinNeeds == "" {
		return fmt.Errorf("trimester %s missing calorie or protein needs", t.Trimester)
	}
	for i, n := range t.KeyNutrients {
		if n.Name == "" {
			return fmt.Errorf("trimester %s nutrient %d missing name", t.Trimester, i)
		}
	}
	return nil
}

// NutrientProfile is the nutrient breakdown of a single food.
type NutrientProfile struct {
	Protein  string   `json:"protein"`
	Fat      string   `json:"lemak"`
	Carbs    string   `json:"karbohidrat"`
	Calories string   `json:"kalori"`
	Vitamins []string `json:"vitamin,omitempty"`
	Minerals []string `json:"mineral,omitempty"`
}

// FoodNutrition holds the detailed nutrition information of one food item.
type FoodNutrition struct {
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Portion   string          `json:"portion"`
	Nutrients NutrientProfile `json:"nutrients"`
	Benefits  string          `json:"benefits_pregnancy"`
}

// Validate checks the fields a rendered response depends on.
func (f *FoodNutrition) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("food entry missing name")
	}
	if f.Portion == "" {
		return fmt.Errorf("food %s missing portion", f.Name)
	}
	return nil
}

// FoodRef is one recommended food inside a recommendation category.
type FoodRef struct {
	Name     string `json:"name"`
	Portion  string `json:"portion"`
	Benefits string `json:"benefits"`
}

// FoodCategory groups recommended foods by purpose.
type FoodCategory struct {
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Foods       []FoodRef `json:"foods"`
}

// Validate checks the fields a rendered response depends on.
func (c *FoodCategory) Validate() error {
	if c.Category == "" {
		return fmt.Errorf("food category missing name")
	}
	for i, f := range c.Foods {
		if f.Name == "" {
			return fmt.Errorf("category %s food %d missing name", c.Category, i)
		}
	}
	return nil
}

// StuntingFactor is one stunting-prevention factor.
type StuntingFactor struct {
	Factor      string `json:"factor"`
	Importance  string `json:"importance"`
	Description string `json:"description"`
}

// Validate checks the fields a rendered response depends on.
func (s *StuntingFactor) Validate() error {
	if s.Factor == "" {
		return fmt.Errorf("stunting factor missing name")
	}
	return nil
}

// RelevantData is the knowledge base answer for one turn. A topic the routing
// rules did not select, or whose lookup missed, is nil/empty; a miss is never
// an error.
type RelevantData struct {
	TrimesterNutrition  *TrimesterNutrition `json:"trimester_nutrition,omitempty"`
	FoodNutrition       *FoodNutrition      `json:"food_nutrition,omitempty"`
	FoodRecommendations []FoodCategory      `json:"food_recommendations,omitempty"`
	StuntingPrevention  []StuntingFactor    `json:"stunting_prevention,omitempty"`
}

// IsEmpty reports whether no topic carries data.
func (d *RelevantData) IsEmpty() bool {
	if d == nil {
		return true
	}
	return d.TrimesterNutrition == nil &&
		d.FoodNutrition == nil &&
		len(d.FoodRecommendations) == 0 &&
		len(d.StuntingPrevention) == 0
}
