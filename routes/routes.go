package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"arland/gateway"
	"arland/handlers"
	"arland/middleware"
	"arland/storage"
)

func RegisterRoutes(e *echo.Echo, db *gorm.DB, gw *gateway.RazorpayClient, images *storage.ImageStore) {
	userController := handlers.NewUserController(db)
	propertyController := handlers.NewPropertyController(db)
	transactionController := handlers.NewTransactionController(db, gw)
	uploadController := handlers.NewUploadController(images)

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api")

	// public
	api.POST("/auth/register", userController.Register)
	api.POST("/auth/login", userController.Login)
	api.GET("/properties", propertyController.ListProperties)
	api.GET("/properties/:id", propertyController.GetProperty)

	// authenticated
	auth := api.Group("", middleware.JWTMiddleware())
	auth.GET("/auth/profile", userController.GetProfile)
	auth.PUT("/auth/profile", userController.UpdateProfile)
	auth.DELETE("/auth/profile", userController.DeleteAccount)

	auth.POST("/properties", propertyController.SubmitProperty)
	auth.GET("/my/properties", propertyController.MySubmissions)
	auth.GET("/my/transactions", transactionController.MyTransactions)

	auth.POST("/properties/:id/book", transactionController.BookProperty)
	auth.POST("/payments/order", transactionController.CreateOrder)
	auth.POST("/payments/verify", transactionController.VerifyPayment)
	auth.POST("/transactions/:id/confirm", transactionController.ConfirmTransaction)
	auth.POST("/transactions/:id/cancel", transactionController.CancelTransaction)

	auth.POST("/uploads", uploadController.UploadImage)

	// admin
	admin := api.Group("/admin", middleware.JWTMiddleware(), middleware.AdminOnly())
	admin.GET("/users", userController.GetAllUsers)
	admin.GET("/properties", propertyController.AdminListProperties)
	admin.POST("/properties", propertyController.AdminCreateProperty)
	admin.PUT("/properties/:id", propertyController.AdminUpdateProperty)
	admin.PATCH("/properties/:id/status", propertyController.AdminUpdateStatus)
	admin.DELETE("/properties/:id", propertyController.AdminDeleteProperty)
	admin.GET("/transactions", transactionController.AdminListTransactions)
	admin.PATCH("/transactions/:id/status", transactionController.AdminUpdateTransactionStatus)
}
