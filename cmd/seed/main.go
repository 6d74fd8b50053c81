package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"digestly-be/internal/model"
	"digestly-be/pkg/database"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type fixtureFile struct {
	Teams []teamFixture `yaml:"teams"`
}

type teamFixture struct {
	Name      string            `yaml:"name"`
	Slug      string            `yaml:"slug"`
	Bio       string            `yaml:"bio"`
	Members   []string          `yaml:"members"`
	Bookmarks []bookmarkFixture `yaml:"bookmarks"`
	Digests   []digestFixture   `yaml:"digests"`
}

type bookmarkFixture struct {
	Url         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Provider    string `yaml:"provider"`
}

type digestFixture struct {
	Title     string         `yaml:"title"`
	Published bool           `yaml:"published"`
	Blocks    []blockFixture `yaml:"blocks"`
}

// blockFixture is a TEXT block when Bookmark is empty, otherwise a BOOKMARK block
// pointing at the team bookmark with that url.
type blockFixture struct {
	Bookmark string `yaml:"bookmark"`
	Title    string `yaml:"title"`
	Text     string `yaml:"text"`
}

func main() {
	path := flag.String("file", "cmd/seed/fixtures.yaml", "fixture file to load")
	flag.Parse()

	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Error: Failed to read %s: %v", *path, err)
	}
	var fixtures fixtureFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		log.Fatalf("Error: Failed to parse %s: %v", *path, err)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	for _, tf := range fixtures.Teams {
		if err := db.Transaction(func(tx *gorm.DB) error { return seedTeam(tx, tf) }); err != nil {
			log.Fatalf("Error: Failed to seed team %q: %v", tf.Name, err)
		}
	}

	log.Println("✅ Success: Seeding completed.")
}

func seedTeam(tx *gorm.DB, tf teamFixture) error {
	teamSlug := tf.Slug
	if teamSlug == "" {
		teamSlug = slug.Make(tf.Name)
	}

	var existing model.Team
	err := tx.Where("slug = ?", teamSlug).First(&existing).Error
	if err == nil {
		log.Printf("Team '%s' already exists, skipping...", teamSlug)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	team := model.Team{Id: uuid.New(), Name: tf.Name, Slug: teamSlug, Bio: tf.Bio}
	if err := tx.Create(&team).Error; err != nil {
		return err
	}

	for _, member := range tf.Members {
		userId, err := uuid.Parse(member)
		if err != nil {
			return err
		}
		if err := tx.Create(&model.Membership{Id: uuid.New(), TeamId: team.Id, UserId: userId, Role: "member"}).Error; err != nil {
			return err
		}
	}

	bookmarks := make(map[string]uuid.UUID, len(tf.Bookmarks))
	for _, bf := range tf.Bookmarks {
		var link model.Link
		if err := tx.Where(model.Link{Url: bf.Url}).
			Attrs(model.Link{Id: uuid.New(), Title: bf.Title, Description: bf.Description}).
			FirstOrCreate(&link).Error; err != nil {
			return err
		}
		provider := bf.Provider
		if provider == "" {
			provider = "web"
		}
		bookmark := model.Bookmark{Id: uuid.New(), LinkId: link.Id, TeamId: team.Id, Provider: provider}
		if err := tx.Create(&bookmark).Error; err != nil {
			return err
		}
		bookmarks[bf.Url] = bookmark.Id
	}

	now := time.Now().UTC()
	for _, df := range tf.Digests {
		digest := model.Digest{Id: uuid.New(), TeamId: team.Id, Title: df.Title, Slug: slug.Make(df.Title)}
		if df.Published {
			digest.PublishedAt = &now
		}
		if err := tx.Create(&digest).Error; err != nil {
			return err
		}

		for i, bf := range df.Blocks {
			block := model.DigestBlock{Id: uuid.New(), DigestId: digest.Id, Position: i, Title: bf.Title, Text: bf.Text, Type: "TEXT"}
			if bf.Bookmark != "" {
				id, ok := bookmarks[bf.Bookmark]
				if !ok {
					return errors.New("unknown bookmark " + bf.Bookmark + " in digest " + df.Title)
				}
				block.Type = "BOOKMARK"
				block.BookmarkId = &id
			}
			if err := tx.Create(&block).Error; err != nil {
				return err
			}
		}
		log.Printf("Seeded digest '%s/%s' with %d blocks", team.Slug, digest.Slug, len(df.Blocks))
	}
	return nil
}
