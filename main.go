package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"arland/config"
	"arland/gateway"
	"arland/routes"
	"arland/storage"
	"arland/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db := config.ConnectDB(cfg)

	utils.InitRedis()

	gw := gateway.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	var images *storage.ImageStore
	if cfg.Storage.AccessKeyID != "" {
		store, err := storage.NewImageStore(context.Background(), cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize image storage: %v", err)
		}
		images = store
	} else {
		log.Println("Image storage credentials not set, uploads disabled")
	}

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	routes.RegisterRoutes(e, db, gw, images)

	log.Printf("Server starting on port %s", cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
