package http

import (
	"github.com/gin-gonic/gin"

	"github.com/evdbrink/freezer-storage-api/internal/http/controller"
	"github.com/evdbrink/freezer-storage-api/internal/http/middleware"
)

// InitRouter wires the API routes onto the given gin engine.
func InitRouter(
	server *gin.Engine,
	ctr *controller.Controller,
	storageCtr *controller.StorageController,
	productCtr *controller.ProductController,
	freezerCtr *controller.FreezerController,
	drawerCtr *controller.DrawerController,
) *gin.Engine {
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.RequestLogger())

	server.GET("/ping", ctr.Ping)

	// Storage endpoints
	storage := server.Group("/storage")
	{
		storage.GET("", storageCtr.ListStorage)
		storage.GET("/:id", storageCtr.GetStorage)
		storage.POST("", storageCtr.CreateStorage)
		storage.PATCH("", storageCtr.UpdateStorage)
		storage.PATCH("/:id/withdraw", storageCtr.WithdrawStorage)
		storage.PATCH("/:id/reenter", storageCtr.ReenterStorage)
		storage.DELETE("/:id", storageCtr.DeleteStorage)
	}

	// Product endpoints
	products := server.Group("/products")
	{
		products.GET("", productCtr.ListProducts)
		products.GET("/:id", productCtr.GetProduct)
		products.POST("", productCtr.CreateProduct)
		products.PATCH("", productCtr.UpdateProduct)
		products.DELETE("/:id", productCtr.DeleteProduct)
	}

	// Freezer endpoints
	freezers := server.Group("/freezers")
	{
		freezers.GET("", freezerCtr.ListFreezers)
		freezers.GET("/:id", freezerCtr.GetFreezer)
		freezers.POST("", freezerCtr.CreateFreezer)
		freezers.PATCH("", freezerCtr.UpdateFreezer)
		freezers.DELETE("/:id", freezerCtr.DeleteFreezer)
	}

	// Drawer endpoints
	drawers := server.Group("/drawers")
	{
		drawers.GET("", drawerCtr.ListDrawers)
		drawers.GET("/:id", drawerCtr.GetDrawer)
		drawers.POST("", drawerCtr.CreateDrawer)
		drawers.PATCH("", drawerCtr.UpdateDrawer)
		drawers.DELETE("/:id", drawerCtr.DeleteDrawer)
	}

	return server
}
