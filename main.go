package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"winterfell/db"
	"winterfell/middlewares"
	"winterfell/models"
	"winterfell/routes"
	"winterfell/services"
	"winterfell/utils"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// seedAdmin inserts the initial admin account if it does not exist yet, so
// a fresh deployment can be managed without touching the database by hand.
func seedAdmin(users models.UserRepository) {
	email := envOr("ADMIN_EMAIL", "admin@example.com")
	existing, err := users.FindByEmail(email)
	if err != nil {
		log.Fatal("admin lookup error:", err)
	}
	if existing != nil {
		return
	}

	admin := models.User{
		Name:              "Alumni Manager",
		Email:             email,
		Password:          envOr("ADMIN_PASSWORD", "admin"),
		GradYear:          1900,
		PrefEventCategory: models.CategoryProfessional,
		Role:              models.RoleAdmin,
	}
	if err := users.Insert(&admin); err != nil {
		log.Fatal("admin seed error:", err)
	}
	log.Println("seeded admin account", email)
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Mongo
	client, err := db.Connect(envOr("MONGO_URI", "mongodb://127.0.0.1:27017"))
	if err != nil {
		log.Fatal("mongo connect error:", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	usersCol, eventsCol := db.Collections(client)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.EnsureIndexes(ctx, usersCol); err != nil {
		log.Fatal("index creation error:", err)
	}

	userRepo := models.NewMongoUserRepository(usersCol)
	eventRepo := models.NewMongoEventRepository(eventsCol)
	seedAdmin(userRepo)

	// Redis: sessions, quotas and the response cache
	rdb := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_ADDR", "127.0.0.1:6379"),
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis ping error:", err)
	}

	sessions := utils.NewSessionStore(rdb)
	inv := utils.NewCacheInvalidator(rdb)
	svc := services.NewEventService(eventRepo)

	// Gin + middlewares
	server := gin.Default()
	server.Use(middlewares.ResponseCache(rdb, 30*time.Second))

	routes.RegisterRoutes(server, userRepo, svc, sessions, rdb, inv)

	if err := server.Run(":" + envOr("PORT", "8080")); err != nil {
		log.Fatal("gin.Run error:", err)
	}
}
