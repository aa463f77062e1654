package seed

import (
	"context"
	"fmt"
	"log"

	"p2psandbox/internal/models"
	"p2psandbox/internal/repository"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumUseCases int
	ShouldClean bool
	SkipBcrypt  bool
	// MaxDays bounds how far in the past generated timestamps reach.
	MaxDays int
}

// Seed populates the database with test data. After all content and
// engagement edges exist it recomputes every user's statistics so the
// seeded dashboards are consistent with the generated data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users, %d posts, %d use cases...",
		opts.NumUsers, opts.NumPosts, opts.NumUseCases)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d test users", len(users))

	posts, err := createPosts(factory, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d forum posts", len(posts))

	useCases, err := createUseCases(factory, users, opts.NumUseCases)
	if err != nil {
		return fmt.Errorf("failed to create use cases: %w", err)
	}
	log.Printf("created %d use cases", len(useCases))

	if err := createEngagements(factory, users, posts, useCases); err != nil {
		return fmt.Errorf("failed to create engagements: %w", err)
	}
	log.Println("created engagement edges")

	if err := createDrafts(factory, users); err != nil {
		return fmt.Errorf("failed to create drafts: %w", err)
	}
	log.Println("created drafts")

	if err := recomputeAllStats(db, users); err != nil {
		return fmt.Errorf("failed to recompute stats: %w", err)
	}
	log.Println("recomputed user statistics")

	return nil
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return nil, err
		}
		if err := factory.AttachOrganization(user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	// One predictable moderator account for manual testing.
	if len(users) > 0 {
		if err := factory.db.Model(users[0]).Update("is_moderator", true).Error; err != nil {
			return nil, err
		}
		users[0].IsModerator = true
	}

	return users, nil
}

func createPosts(factory *Factory, users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[factory.rng.Intn(len(users))]
		post, err := factory.CreatePost(author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createUseCases(factory *Factory, users []*models.User, count int) ([]*models.UseCase, error) {
	if len(users) == 0 {
		return nil, nil
	}

	useCases := make([]*models.UseCase, 0, count)
	for i := 0; i < count; i++ {
		author := users[factory.rng.Intn(len(users))]
		useCase, err := factory.CreateUseCase(author)
		if err != nil {
			return nil, err
		}
		useCases = append(useCases, useCase)
	}
	return useCases, nil
}

// createEngagements scatters likes and bookmarks across the seeded content.
// Each user engages with a random slice of items; the unique edge index
// absorbs any duplicate picks.
func createEngagements(factory *Factory, users []*models.User, posts []*models.Post, useCases []*models.UseCase) error {
	for _, user := range users {
		for i := 0; i < len(posts)/3+1 && len(posts) > 0; i++ {
			post := posts[factory.rng.Intn(len(posts))]
			kind := models.EngagementLike
			if factory.rng.Intn(4) == 0 {
				kind = models.EngagementBookmark
			}
			if err := factory.CreateEngagement(user, kind, models.ContentTypePost, post.ID); err != nil {
				return err
			}
		}
		for i := 0; i < len(useCases)/3+1 && len(useCases) > 0; i++ {
			useCase := useCases[factory.rng.Intn(len(useCases))]
			kind := models.EngagementLike
			if factory.rng.Intn(3) == 0 {
				kind = models.EngagementBookmark
			}
			if err := factory.CreateEngagement(user, kind, models.ContentTypeUseCase, useCase.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func createDrafts(factory *Factory, users []*models.User) error {
	for _, user := range users {
		if factory.rng.Intn(2) == 0 {
			continue
		}
		contentType := models.ContentTypePost
		if factory.rng.Intn(2) == 0 {
			contentType = models.ContentTypeUseCase
		}
		if _, err := factory.CreateDraft(user, contentType); err != nil {
			return err
		}
	}
	return nil
}

func recomputeAllStats(db *gorm.DB, users []*models.User) error {
	statsRepo := repository.NewStatsRepository(db)
	ctx := context.Background()
	for _, user := range users {
		if _, err := statsRepo.Recompute(ctx, user.ID); err != nil {
			return err
		}
	}
	return nil
}

// clearData removes seedable rows. Order matters for foreign keys.
func clearData(db *gorm.DB) error {
	tables := []any{
		&models.Engagement{},
		&models.Activity{},
		&models.UserStats{},
		&models.Draft{},
		&models.Post{},
		&models.UseCase{},
		&models.User{},
		&models.Organization{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
