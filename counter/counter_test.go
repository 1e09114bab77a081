package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/model"
	"github.com/quillfeed/quillfeed-backend/utils"
	"github.com/quillfeed/quillfeed-backend/utils/dotenv"
)

func init() {
	if err := dotenv.LoadDotEnvsInTests(); err != nil {
		panic(err)
	}
}

func createAuthor(t *testing.T, db *gorm.DB, id string) {
	assert.Nil(t, db.Create(&model.Author{
		Id:     id,
		UserId: "user_" + id,
		Email:  id + "@example.com",
	}).Error)
}

func TestBumpAuthor(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	createAuthor(t, db, "a")

	assert.Nil(t, BumpAuthor(db, "a", AuthorSubscribers, 1))
	assert.Nil(t, BumpAuthor(db, "a", AuthorSubscribers, 1))
	assert.Nil(t, BumpAuthor(db, "a", AuthorSubscribers, -1))

	var author model.Author
	assert.Nil(t, db.Where("id = ?", "a").First(&author).Error)
	assert.Equal(t, 1, author.SubscribersCount)

	assert.NotNil(t, BumpAuthor(db, "no_such_author", AuthorSubscribers, 1))
}

func TestBumpArticleLikes(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	createAuthor(t, db, "a")
	assert.Nil(t, db.Create(&model.Article{Id: "art", Title: "t", AuthorID: "a"}).Error)

	assert.Nil(t, BumpArticleLikes(db, "art", 1))

	var article model.Article
	assert.Nil(t, db.Where("id = ?", "art").First(&article).Error)
	assert.Equal(t, 1, article.LikesCount)

	assert.NotNil(t, BumpArticleLikes(db, "no_such_article", 1))
}

func TestRecountAuthor(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	createAuthor(t, db, "a")
	createAuthor(t, db, "b")
	createAuthor(t, db, "c")

	// Relation rows created behind the counter maintainer's back, as after
	// manual data surgery.
	assert.Nil(t, db.Create(&model.Subscription{Id: "e1", SubscriberID: "a", TargetID: "b"}).Error)
	assert.Nil(t, db.Create(&model.Subscription{Id: "e2", SubscriberID: "c", TargetID: "a"}).Error)
	assert.Nil(t, db.Create(&model.Article{Id: "art1", Title: "t", AuthorID: "a"}).Error)
	assert.Nil(t, db.Create(&model.Article{Id: "art2", Title: "t", AuthorID: "a"}).Error)

	assert.Nil(t, RecountAuthor(db, "a"))

	var author model.Author
	assert.Nil(t, db.Where("id = ?", "a").First(&author).Error)
	assert.Equal(t, 1, author.SubscribersCount)
	assert.Equal(t, 1, author.SubscriptionsCount)
	assert.Equal(t, 2, author.ArticlesCount)
}

func TestRecountArticleLikes(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	createAuthor(t, db, "a")
	createAuthor(t, db, "b")
	assert.Nil(t, db.Create(&model.Article{Id: "art", Title: "t", AuthorID: "a"}).Error)
	assert.Nil(t, db.Create(&model.LikedItem{AuthorID: "a", ArticleID: "art"}).Error)
	assert.Nil(t, db.Create(&model.LikedItem{AuthorID: "b", ArticleID: "art"}).Error)

	assert.Nil(t, RecountArticleLikes(db, "art"))

	var article model.Article
	assert.Nil(t, db.Where("id = ?", "art").First(&article).Error)
	assert.Equal(t, 2, article.LikesCount)
}
