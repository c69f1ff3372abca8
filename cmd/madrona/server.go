package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/auth"
	"github.com/madrona-research/madrona/internal/config"
	"github.com/madrona-research/madrona/internal/db"
	"github.com/madrona-research/madrona/internal/email"
	"github.com/madrona-research/madrona/internal/handlers"
	"github.com/madrona-research/madrona/internal/middleware"
	"github.com/madrona-research/madrona/internal/search"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server operations",
	Long:  "Start and manage the Madrona HTTP server",
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initSystemDB(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := search.InitFTSIndex(db.GetDB()); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing search index: %v\n", err)
			os.Exit(1)
		}

		// Start the background email dispatcher
		dispatcher := email.NewDispatcher(email.NewService())
		dispatcherDone := dispatcher.Start()
		handlers.SetDispatcher(dispatcher)
		log.Println("Email dispatcher started")

		// TODO: stop the dispatcher on graceful shutdown and wait for
		// <-dispatcherDone
		_ = dispatcherDone

		r := gin.Default()
		r.Use(middleware.SecurityHeadersMiddleware())

		r.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "madrona",
			})
		})
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))

		loginRateLimiter := middleware.NewRateLimiter(5, time.Minute)

		api := r.Group("/api/v1")
		{
			api.POST("/auth/login",
				middleware.RateLimitMiddleware(loginRateLimiter, "/api/v1/auth/login"),
				handlers.LoginHandler)

			// Public read endpoints
			api.GET("/preprints/search", handlers.SearchPreprintsHandler)
			api.GET("/preprints/:guid", handlers.GetPreprintHandler)
			api.GET("/providers", handlers.ListProvidersHandler)

			// Authenticated endpoints
			authed := api.Group("/")
			authed.Use(auth.RequireAuth())
			{
				authed.GET("/auth/me", handlers.MeHandler)

				authed.POST("/nodes", handlers.CreateNodeHandler)
				authed.GET("/nodes", handlers.ListMyNodesHandler)
				authed.GET("/nodes/:guid", handlers.GetNodeHandler)
				authed.POST("/nodes/:guid/requests", handlers.CreateNodeRequestHandler)

				authed.POST("/nodes/:guid/contributors", handlers.AddContributorHandler)
				authed.GET("/nodes/:guid/contributors", handlers.ListContributorsHandler)
				authed.PATCH("/nodes/:guid/contributors/:user_guid", handlers.UpdateContributorHandler)
				authed.DELETE("/nodes/:guid/contributors/:user_guid", handlers.RemoveContributorHandler)

				authed.POST("/preprints", handlers.CreatePreprintHandler)
				authed.POST("/preprints/:guid/publish", handlers.PublishPreprintHandler)

				authed.GET("/analytics/preprints", handlers.PreprintSummaryHandler)

				// Admin endpoints
				admin := authed.Group("/")
				admin.Use(auth.RequireAdmin())
				{
					admin.POST("/providers", handlers.CreateProviderHandler)
				}
			}
		}

		port := config.GetString("server.port")
		addr := fmt.Sprintf(":%s", port)
		fmt.Printf("Madrona listening on %s\n", addr)

		if err := r.Run(addr); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)
}
