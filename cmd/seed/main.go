package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-recipe-api/config"
	app "github.com/oksasatya/go-recipe-api/internal/application"
	"github.com/oksasatya/go-recipe-api/internal/domain/entity"
	pginfra "github.com/oksasatya/go-recipe-api/internal/infrastructure/postgres"
)

type demoRecipe struct {
	title       string
	minutes     int
	price       string
	ingredients []string
}

var demoRecipes = []demoRecipe{
	{"Apple crumble", 45, "6.50", []string{"Apples", "Butter", "Flour", "Sugar"}},
	{"Eggs benedict", 20, "8.00", []string{"Eggs", "Butter", "Muffins"}},
	{"Herb omelette", 10, "4.25", []string{"Eggs", "Chives"}},
}

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := app.NewUserService(pginfra.NewUserRepository(pool), nil, nil, nil)
	ingredients := pginfra.NewIngredientRepository(pool)
	recipes := app.NewRecipeService(pginfra.NewRecipeRepository(pool), ingredients, nil, nil, nil)

	email, password := "demo@example.com", "password123"
	u, err := seedUser(ctx, users, email, password)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)

	existing, err := recipes.List(ctx, u.ID, nil)
	if err != nil {
		log.Fatalf("failed to list recipes: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("user already has %d recipes, skipping\n", len(existing))
		return
	}
	for _, d := range demoRecipes {
		rec, err := recipes.Create(ctx, u.ID, app.CreateRecipeInput{
			Title:       d.title,
			TimeMinutes: d.minutes,
			Price:       decimal.RequireFromString(d.price),
			Ingredients: d.ingredients,
		})
		if err != nil {
			log.Fatalf("failed to seed recipe %q: %v", d.title, err)
		}
		fmt.Printf("seeded recipe: id=%s title=%s ingredients=%d\n", rec.ID, rec.Title, len(rec.Ingredients))
	}
}

func seedUser(ctx context.Context, users *app.UserService, email, password string) (*entity.User, error) {
	u, err := users.Register(ctx, app.RegisterInput{Email: email, Password: password, Name: "Demo User"})
	if errors.Is(err, app.ErrEmailTaken) {
		return users.Authenticate(ctx, email, password)
	}
	return u, err
}
