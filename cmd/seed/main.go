// Command seed creates demo accounts with a few recipes for local development.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain/follow"
	"foodgram/internal/domain/ingredient"
	"foodgram/internal/domain/recipe"
	"foodgram/internal/domain/tag"
	"foodgram/internal/domain/user"
	"foodgram/internal/logger"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/server"
)

// 1x1 PNG
const placeholderImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type demoRecipe struct {
	name        string
	minutes     int
	ingredients map[string]int
}

var demo = map[string][]demoRecipe{
	"chef": {
		{name: "Soup", minutes: 40, ingredients: map[string]int{"salt": 5, "water": 1000}},
		{name: "Stew", minutes: 90, ingredients: map[string]int{"salt": 3, "potato": 200}},
	},
	"baker": {
		{name: "Pancakes", minutes: 25, ingredients: map[string]int{"flour": 200, "milk": 300, "egg": 2}},
	},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.Init(cfg.AppEnv)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if !database.IsPostgres(cfg.DatabaseURL) {
		if err := db.AutoMigrate(server.Models()...); err != nil {
			return err
		}
	}

	ctx := context.Background()
	st, err := server.NewStorage(ctx, cfg)
	if err != nil {
		return err
	}

	users := user.NewRepository(db)
	ingredients := ingredient.NewRepository(db)
	tags := tag.NewRepository(db)
	recipes := recipe.NewRepository(db)
	follows := follow.NewService(follow.NewRepository(db), users, recipes)
	accounts := user.NewService(users, jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL))
	cookbook := recipe.NewService(recipes, ingredients, tags, st, cfg.MaxImageBytes)

	catalog, err := ingredients.Search(ctx, "")
	if err != nil {
		return err
	}
	byName := make(map[string]int64, len(catalog))
	for _, ing := range catalog {
		byName[ing.Name] = ing.ID
	}
	if len(byName) == 0 {
		return errors.New("ingredient catalog is empty, run load_data first")
	}

	created := make(map[string]int64, len(demo))
	for username, list := range demo {
		u, err := accounts.Register(ctx, user.RegisterInput{
			Email:     username + "@foodgram.local",
			Username:  username,
			FirstName: username,
			LastName:  "Demo",
			Password:  username + "-password",
		})
		if errors.Is(err, user.ErrEmailExists) || errors.Is(err, user.ErrUsernameExists) {
			log.Info("demo user exists, skipping", zap.String("username", username))
			continue
		}
		if err != nil {
			return err
		}
		created[username] = u.ID

		for _, dr := range list {
			in := recipe.CreateInput{
				Name:        dr.name,
				Text:        "Demo recipe.",
				Image:       placeholderImage,
				CookingTime: dr.minutes,
			}
			for name, amount := range dr.ingredients {
				id, ok := byName[name]
				if !ok {
					return fmt.Errorf("ingredient %q is not in the catalog", name)
				}
				in.Ingredients = append(in.Ingredients, recipe.IngredientAmount{ID: id, Amount: amount})
			}
			rec, err := cookbook.Create(ctx, u.ID, in)
			if err != nil {
				return fmt.Errorf("recipe %s: %w", dr.name, err)
			}
			log.Info("demo recipe created", zap.String("author", username), zap.Int64("recipe_id", rec.ID))
		}
	}

	// Every new demo account follows the others so subscriptions are not empty.
	for follower, followerID := range created {
		for author, authorID := range created {
			if follower == author {
				continue
			}
			if _, err := follows.Subscribe(ctx, followerID, authorID, 0); err != nil {
				return fmt.Errorf("subscribe %s to %s: %w", follower, author, err)
			}
		}
	}
	return nil
}
