package visibility

import (
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/content"
	"github.com/quillfeed/quillfeed-backend/graph"
	"github.com/quillfeed/quillfeed-backend/model"
	"github.com/quillfeed/quillfeed-backend/utils"
	"github.com/quillfeed/quillfeed-backend/utils/dotenv"
)

func init() {
	if err := dotenv.LoadDotEnvsInTests(); err != nil {
		panic(err)
	}
}

func createAuthor(t *testing.T, db *gorm.DB, id string, private bool) {
	assert.Nil(t, db.Create(&model.Author{
		Id:        id,
		UserId:    "user_" + id,
		Email:     id + "@example.com",
		IsPrivate: private,
	}).Error)
}

// Scenario from the visibility rules: viewer v subscribes to private p, does
// not subscribe to private q, and r is public.
func setupScenario(t *testing.T, db *gorm.DB) {
	createAuthor(t, db, "v", false)
	createAuthor(t, db, "p", true)
	createAuthor(t, db, "q", true)
	createAuthor(t, db, "r", false)

	_, err := graph.Subscribe(db, "v", "p")
	assert.Nil(t, err)

	for _, authorID := range []string{"v", "p", "q", "r"} {
		_, err := content.CreateArticle(db, authorID, "by "+authorID, "content")
		assert.Nil(t, err)
	}
}

func TestArticlesFor(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	setupScenario(t, db)

	articles, err := ArticlesFor(db, "v")
	assert.Nil(t, err)

	got := make([]string, 0, len(articles))
	for _, article := range articles {
		got = append(got, article.AuthorID)
	}
	sort.Strings(got)

	// Own + subscribed-to private + public. q stays hidden.
	if diff := cmp.Diff([]string{"p", "r", "v"}, got); diff != "" {
		t.Errorf("visible article authors mismatch (-want +got):\n%s", diff)
	}
}

func TestArticlesFor_OrderedByCreationDesc(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	createAuthor(t, db, "v", false)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		assert.Nil(t, db.Create(&model.Article{
			Id:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Title:     id,
			AuthorID:  "v",
		}).Error)
	}

	articles, err := ArticlesFor(db, "v")
	assert.Nil(t, err)
	assert.Equal(t, 3, len(articles))
	assert.Equal(t, "new", articles[0].Id)
	assert.Equal(t, "mid", articles[1].Id)
	assert.Equal(t, "old", articles[2].Id)
}

func TestArticleFor(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	setupScenario(t, db)

	var hidden model.Article
	assert.Nil(t, db.Where("author_id = ?", "q").First(&hidden).Error)

	// Hidden article reads exactly like a missing one.
	_, err := ArticleFor(db, "v", hidden.Id)
	assert.ErrorIs(t, err, content.ErrArticleNotFound)
	_, err = ArticleFor(db, "v", "no_such_article")
	assert.ErrorIs(t, err, content.ErrArticleNotFound)

	// But its own author sees it.
	article, err := ArticleFor(db, "q", hidden.Id)
	assert.Nil(t, err)
	assert.Equal(t, hidden.Id, article.Id)

	var subscribed model.Article
	assert.Nil(t, db.Where("author_id = ?", "p").First(&subscribed).Error)
	article, err = ArticleFor(db, "v", subscribed.Id)
	assert.Nil(t, err)
	assert.Equal(t, subscribed.Id, article.Id)
}

func TestHasAccessAuthorContent(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	setupScenario(t, db)

	cases := []struct {
		viewer string
		author string
		want   bool
	}{
		{"v", "v", true},  // self
		{"v", "p", true},  // subscribed-to private
		{"v", "q", false}, // unsubscribed private
		{"v", "r", true},  // public
		{"q", "v", true},  // viewer's own privacy is irrelevant
	}
	for _, tc := range cases {
		ok, err := HasAccessAuthorContent(db, tc.viewer, tc.author)
		assert.Nil(t, err)
		assert.Equal(t, tc.want, ok, "viewer %s author %s", tc.viewer, tc.author)
	}

	_, err := HasAccessAuthorContent(db, "v", "no_such_author")
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}
