package main

import (
	"fmt"

	"github.com/quillfeed/quillfeed-backend/utils"
	"github.com/quillfeed/quillfeed-backend/utils/dotenv"
)

// Connectivity smoke check for the testing database used by CreateTempDB.
func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetTestingDBConnection()
	if err != nil {
		fmt.Println("Failed to connect to database:", err)
		return
	}

	// Ping the database to verify connection
	if err := db.Exec("SELECT 1").Error; err != nil {
		fmt.Println("Failed to ping database:", err)
		return
	}

	fmt.Println("Successfully connected to database")
}
