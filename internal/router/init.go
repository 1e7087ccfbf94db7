package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-recipe-api/config"
	app "github.com/oksasatya/go-recipe-api/internal/application"
	"github.com/oksasatya/go-recipe-api/internal/container"
	repo "github.com/oksasatya/go-recipe-api/internal/domain/repository"
	"github.com/oksasatya/go-recipe-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-recipe-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-recipe-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-recipe-api/internal/interface/http"
	"github.com/oksasatya/go-recipe-api/internal/router/modules"
	"github.com/oksasatya/go-recipe-api/pkg/helpers"
	"github.com/oksasatya/go-recipe-api/pkg/validation"
)

// Deps is everything the modules need. Optional collaborators stay nil
// when their backend is not configured.
type Deps struct {
	Config *config.Config
	Logger *logrus.Logger
	Redis  *redis.Client
	JWT    *helpers.JWTManager

	Users       repo.UserRepository
	Ingredients repo.IngredientRepository
	Recipes     repo.RecipeRepository

	Events   app.EventPublisher
	Searcher app.IngredientSearcher
	Images   app.ImageUploader
}

// DepsFromContainer builds Deps from the singletons set up in main.
func DepsFromContainer() Deps {
	cfg := container.GetConfig()
	d := Deps{
		Config: cfg,
		Logger: container.GetLogger(),
		Redis:  container.GetRedis(),
		JWT:    container.GetJWT(),
	}

	if pool := container.GetPGPool(); pool != nil && cfg.StorageDriver == config.StorageDriverPostgres {
		d.Users = pginfra.NewUserRepository(pool)
		d.Ingredients = pginfra.NewIngredientRepository(pool)
		d.Recipes = pginfra.NewRecipeRepository(pool)
	} else {
		store := container.GetMemoryStore()
		if store == nil {
			store = memory.NewStore()
			container.SetMemoryStore(store)
		}
		d.Users = store.Users()
		d.Ingredients = store.Ingredients()
		d.Recipes = store.Recipes()
	}

	// only assign non-nil pointers so the interfaces stay nil when unset
	if pub := container.GetRabbitPub(); pub != nil {
		d.Events = pub
	}
	if es := container.GetES(); es != nil {
		d.Searcher = search.NewIngredientIndex(es, cfg.ESIngredientsIndex)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		d.Images = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
	}
	return d
}

// InitModules builds services and handlers from d and registers their modules.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, d Deps) {
	validation.Init()
	guard := modules.Guard{JWT: d.JWT, Redis: d.Redis, RateLimit: d.Config.RateLimitEnabled}

	userSvc := app.NewUserService(d.Users, d.JWT, d.Redis, d.Logger)
	ingredientSvc := app.NewIngredientService(d.Ingredients, d.Events, d.Searcher, d.Logger)
	recipeSvc := app.NewRecipeService(d.Recipes, d.Ingredients, d.Images, d.Events, d.Logger)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, d.Logger, d.Config.CookieDomain, d.Config.CookieSecure), guard))
	r.Add(modules.NewIngredientModule(handlers.NewIngredientHandler(ingredientSvc, d.Logger), guard))
	r.Add(modules.NewRecipeModule(handlers.NewRecipeHandler(recipeSvc, d.Logger), guard))
	if d.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(guard))
	}
}
