package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quillfeed/quillfeed-backend/chat"
	"github.com/quillfeed/quillfeed-backend/server"
	"github.com/quillfeed/quillfeed-backend/server/middlewares"
	"github.com/quillfeed/quillfeed-backend/utils"
	"github.com/quillfeed/quillfeed-backend/utils/dotenv"
	. "github.com/quillfeed/quillfeed-backend/utils/flag"
	Logger "github.com/quillfeed/quillfeed-backend/utils/log"
)

func cleanup() {
	Logger.Log.Info("api server shutdown")
}

func main() {
	ParseFlags()
	defer cleanup()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	if utils.IsProdEnv() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		panic("failed to connect to database")
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		panic(err)
	}

	hub := chat.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middlewares.Identity(db))

	srv := server.New(db, hub, utils.GetRedisStatusStore())
	srv.Register(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Quillfeed server - API not found"})
	})

	Logger.Log.Infof("api server starts up, service=%s", *ServiceName)
	router.Run(":" + utils.FallbackString(os.Getenv("PORT"), "8080"))
}
