package main

// Recomputes every denormalized counter from the source-of-truth tables.
// Run after manual data surgery, never needed in normal operation.

import (
	"fmt"

	"github.com/quillfeed/quillfeed-backend/counter"
	"github.com/quillfeed/quillfeed-backend/model"
	"github.com/quillfeed/quillfeed-backend/utils"
	"github.com/quillfeed/quillfeed-backend/utils/dotenv"
)

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		panic(err)
	}

	var authorIds []string
	if err := db.Model(&model.Author{}).Pluck("id", &authorIds).Error; err != nil {
		panic(err)
	}
	for _, id := range authorIds {
		if err := counter.RecountAuthor(db, id); err != nil {
			fmt.Println("fail to recount author", id, err)
		}
	}

	var articleIds []string
	if err := db.Model(&model.Article{}).Pluck("id", &articleIds).Error; err != nil {
		panic(err)
	}
	for _, id := range articleIds {
		if err := counter.RecountArticleLikes(db, id); err != nil {
			fmt.Println("fail to recount article", id, err)
		}
	}

	fmt.Printf("recounted %d authors, %d articles\n", len(authorIds), len(articleIds))
}
