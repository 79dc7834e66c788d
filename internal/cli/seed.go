package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gin-gonic/gin/binding"
	"github.com/urfave/cli/v3"

	"github.com/pageza/recipes-api/backend/config"
	"github.com/pageza/recipes-api/backend/internal/api"
	"github.com/pageza/recipes-api/backend/internal/service"
	"github.com/pageza/recipes-api/backend/internal/storage/backend"
	"github.com/pageza/recipes-api/backend/internal/types"
)

var sampleRecipes = []types.CreateRecipeRequest{
	{
		Title:       "Pancakes",
		Description: "Fluffy breakfast pancakes",
		Ingredients: []string{"flour", "milk", "egg", "baking powder"},
		Tags:        []string{"breakfast", "sweet"},
	},
	{
		Title:       "Tomato Soup",
		Description: "Roasted tomato soup with basil",
		Ingredients: []string{"tomato", "onion", "garlic", "basil"},
		Tags:        []string{"soup", "vegetarian"},
	},
	{
		Title:       "Guacamole",
		Description: "Chunky avocado dip",
		Ingredients: []string{"avocado", "lime", "onion", "cilantro"},
		Tags:        []string{"dip", "vegan"},
	},
	{
		Title:       "Spaghetti Carbonara",
		Description: "Roman pasta with egg and guanciale",
		Ingredients: []string{"spaghetti", "egg", "guanciale", "pecorino"},
		Tags:        []string{"pasta", "italian"},
	},
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load recipes into the configured store",
		Description: `Creates recipes from a JSON file holding an array of objects with title,
description, ingredients and tags. Without --file a small built-in sample set
is loaded.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "path to a JSON array of recipes",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			recipes := sampleRecipes
			if path := cmd.String("file"); path != "" {
				loaded, err := loadSeedFile(path)
				if err != nil {
					return err
				}
				recipes = loaded
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			store, err := backend.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			commentService := service.NewCommentService(store.Comments, cfg.DefaultCommentAuthor)
			recipeService := service.NewRecipeService(store.Recipes, store.Comments, commentService)

			created, err := seed(ctx, recipeService, recipes)
			fmt.Fprintf(cmd.Root().Writer, "seeded %d recipe(s)\n", created)
			return err
		},
	}
}

// loadSeedFile reads and validates a JSON array of recipes.
func loadSeedFile(path string) ([]types.CreateRecipeRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var recipes []types.CreateRecipeRequest
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	api.RegisterValidations()
	for i, r := range recipes {
		if err := binding.Validator.ValidateStruct(r); err != nil {
			return nil, fmt.Errorf("recipe %d (%q) is invalid: %w", i, r.Title, err)
		}
	}
	return recipes, nil
}

// seed creates recipes in order and stops at the first failure.
func seed(ctx context.Context, svc service.IRecipeService, recipes []types.CreateRecipeRequest) (int, error) {
	for i, r := range recipes {
		if _, err := svc.CreateRecipe(ctx, r.ToModel()); err != nil {
			return i, fmt.Errorf("failed to create recipe %q: %w", r.Title, err)
		}
	}
	return len(recipes), nil
}
