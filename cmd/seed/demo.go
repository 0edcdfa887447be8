package main

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/urfave/cli/v2"
)

type demoIngredient struct {
	name            string
	unit            string
	carbonFootprint float64
}

type demoComponent struct {
	ingredient string
	subRecipe  string
	quantity   float64
}

type demoRecipe struct {
	name        string
	sellable    bool
	isSubRecipe bool
	components  []demoComponent
	// baseline daily demand used to synthesize sales history
	baseDemand int
}

var demoIngredients = []demoIngredient{
	{"Rice", "g", 0.004},
	{"Chicken Breast", "g", 0.0069},
	{"Coconut Milk", "ml", 0.0023},
	{"Chili Paste", "g", 0.0015},
	{"Cucumber", "g", 0.0007},
	{"Egg", "g", 0.0045},
	{"Peanuts", "g", 0.0032},
	{"Cooking Oil", "ml", 0.003},
	{"Noodles", "g", 0.0036},
	{"Prawns", "g", 0.012},
}

var demoRecipes = []demoRecipe{
	{
		name:        "Sambal Base",
		isSubRecipe: true,
		components: []demoComponent{
			{ingredient: "Chili Paste", quantity: 40},
			{ingredient: "Cooking Oil", quantity: 15},
		},
	},
	{
		name:       "Nasi Lemak",
		sellable:   true,
		baseDemand: 60,
		components: []demoComponent{
			{ingredient: "Rice", quantity: 250},
			{ingredient: "Coconut Milk", quantity: 100},
			{ingredient: "Egg", quantity: 60},
			{ingredient: "Cucumber", quantity: 30},
			{ingredient: "Peanuts", quantity: 20},
			{subRecipe: "Sambal Base", quantity: 1},
		},
	},
	{
		name:       "Chicken Rice",
		sellable:   true,
		baseDemand: 45,
		components: []demoComponent{
			{ingredient: "Rice", quantity: 250},
			{ingredient: "Chicken Breast", quantity: 180},
			{ingredient: "Cucumber", quantity: 40},
		},
	},
	{
		name:       "Prawn Noodles",
		sellable:   true,
		baseDemand: 30,
		components: []demoComponent{
			{ingredient: "Noodles", quantity: 200},
			{ingredient: "Prawns", quantity: 120},
			{subRecipe: "Sambal Base", quantity: 0.5},
		},
	},
}

func runDemo(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var storeID int64
	err = tx.QueryRowContext(c.Context, `
		INSERT INTO stores (name, latitude, longitude, country_code)
		VALUES ('Demo Kopitiam', 1.3521, 103.8198, 'SG')
		RETURNING id
	`).Scan(&storeID)
	if err != nil {
		return fmt.Errorf("failed to create demo store: %w", err)
	}

	ingredientIDs := make(map[string]int64, len(demoIngredients))
	for _, ing := range demoIngredients {
		var id int64
		err := tx.QueryRowContext(c.Context, `
			INSERT INTO ingredients (store_id, name, unit, carbon_footprint)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, storeID, ing.name, ing.unit, ing.carbonFootprint).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed ingredient %s: %w", ing.name, err)
		}
		ingredientIDs[ing.name] = id
	}

	// Recipes are declared with sub-recipes first so components always
	// reference an already-inserted row.
	recipeIDs := make(map[string]int64, len(demoRecipes))
	for _, r := range demoRecipes {
		var id int64
		err := tx.QueryRowContext(c.Context, `
			INSERT INTO recipes (store_id, name, sellable, is_sub_recipe)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, storeID, r.name, r.sellable, r.isSubRecipe).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed recipe %s: %w", r.name, err)
		}
		recipeIDs[r.name] = id

		for pos, comp := range r.components {
			var ingredientID, childRecipeID sql.NullInt64
			if comp.ingredient != "" {
				ingredientID = sql.NullInt64{Int64: ingredientIDs[comp.ingredient], Valid: true}
			} else {
				childRecipeID = sql.NullInt64{Int64: recipeIDs[comp.subRecipe], Valid: true}
			}
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO recipe_components (recipe_id, ingredient_id, child_recipe_id, quantity, position)
				VALUES ($1, $2, $3, $4, $5)
			`, id, ingredientID, childRecipeID, comp.quantity, pos)
			if err != nil {
				return fmt.Errorf("failed to seed component of %s: %w", r.name, err)
			}
		}
	}

	salesDays := c.Int("sales-days")
	rng := rand.New(rand.NewSource(42))
	today := time.Now().UTC().Truncate(24 * time.Hour)

	salesRows := 0
	for d := salesDays; d >= 1; d-- {
		date := today.AddDate(0, 0, -d)
		// Weekends sell roughly 30% more.
		weekendBoost := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendBoost = 1.3
		}

		for _, r := range demoRecipes {
			if !r.sellable {
				continue
			}
			noise := 0.8 + rng.Float64()*0.4
			qty := int(math.Round(float64(r.baseDemand) * weekendBoost * noise))
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO sales_data (store_id, recipe_id, date, quantity)
				VALUES ($1, $2, $3, $4)
			`, storeID, recipeIDs[r.name], date, qty)
			if err != nil {
				return fmt.Errorf("failed to seed sales for %s: %w", r.name, err)
			}
			salesRows++
		}
	}

	signalRows := 0
	for d := salesDays; d >= 0; d-- {
		date := today.AddDate(0, 0, -d)
		rain := 0.0
		desc := "Clear"
		if rng.Float64() < 0.35 {
			rain = rng.Float64() * 25
			desc = "Rain"
		}
		_, err := tx.ExecContext(c.Context, `
			INSERT INTO calendar_signals (date, is_holiday, holiday_name, is_school_holiday, rain_mm, weather_desc)
			VALUES ($1, false, 'None', false, $2, $3)
			ON CONFLICT (date) DO NOTHING
		`, date, rain, desc)
		if err != nil {
			return fmt.Errorf("failed to seed calendar signal: %w", err)
		}
		signalRows++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit demo seed: %w", err)
	}

	log.Printf("seeded store %d: %d ingredients, %d recipes, %d sales rows, %d signal rows",
		storeID, len(demoIngredients), len(demoRecipes), salesRows, signalRows)
	return nil
}
