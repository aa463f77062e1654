// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"p2psandbox/internal/models"
	"p2psandbox/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var companyDomains = []string{
	"alnoor-metals.sa",
	"dammam-plastics.sa",
	"riyadh-valves.sa",
	"jeddah-pumps.sa",
	"qassim-foods.sa",
	"yanbu-polymers.sa",
	"tabuk-cement.sa",
}

var categories = []string{
	"Automation", "Quality Control", "Supply Chain", "Equipment",
	"Sourcing", "Workforce", "Energy", "Logistics",
	"Digital Transformation", "Compliance",
}

var industries = []string{
	"Metal Fabrication", "Plastics", "Food Processing", "Packaging",
	"Chemicals", "Building Materials", "Textiles",
}

var regions = []string{
	"Riyadh", "Eastern Province", "Makkah", "Madinah", "Qassim", "Tabuk",
}

// CreateUser constructs and persists a sample `models.User`. Roughly a third
// of generated users get a personal email address so seeded data exercises
// both organization-linked and unaffiliated members.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999))

	domain := "gmail.com"
	if f.rng.Intn(3) > 0 {
		domain = companyDomains[f.rng.Intn(len(companyDomains))]
	}

	user := &models.User{
		Username:    username,
		Email:       fmt.Sprintf("%s@%s", username, domain),
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(10),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// AttachOrganization links the user to the organization matching their email
// domain, creating it first if needed. Personal domains are skipped.
func (f *Factory) AttachOrganization(user *models.User) error {
	domain := validation.EmailDomain(user.Email)
	if !validation.IsCompanyDomain(domain) {
		return nil
	}

	org := models.Organization{
		Domain: domain,
		Name:   validation.OrganizationNameFromDomain(domain),
	}
	if err := f.db.Where("domain = ?", domain).FirstOrCreate(&org).Error; err != nil {
		return err
	}

	return f.db.Model(user).Update("organization_id", org.ID).Error
}

// CreatePost constructs and persists a sample forum post for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:          gofakeit.Sentence(6),
		Content:        gofakeit.Paragraph(2, 4, 8, "\n\n"),
		Category:       categories[f.rng.Intn(len(categories))],
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		CreatedAt:      f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateUseCase constructs and persists a sample use case for the given user.
func (f *Factory) CreateUseCase(user *models.User, overrides ...func(*models.UseCase)) (*models.UseCase, error) {
	useCase := &models.UseCase{
		Title:          gofakeit.Sentence(6),
		Summary:        gofakeit.Sentence(14),
		Content:        gofakeit.Paragraph(3, 5, 10, "\n\n"),
		Category:       categories[f.rng.Intn(len(categories))],
		Industry:       industries[f.rng.Intn(len(industries))],
		Region:         regions[f.rng.Intn(len(regions))],
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		CreatedAt:      f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(useCase)
	}

	if err := f.db.Create(useCase).Error; err != nil {
		return nil, err
	}
	return useCase, nil
}

// CreateDraft constructs and persists a partial draft for the given user.
func (f *Factory) CreateDraft(user *models.User, contentType models.ContentType, overrides ...func(*models.Draft)) (*models.Draft, error) {
	draft := &models.Draft{
		UserID:      user.ID,
		ContentType: contentType,
		Title:       gofakeit.Sentence(5),
		Content:     gofakeit.Paragraph(1, 2, 6, "\n"),
		Category:    categories[f.rng.Intn(len(categories))],
	}
	if contentType == models.ContentTypeUseCase {
		draft.Summary = gofakeit.Sentence(12)
		draft.Industry = industries[f.rng.Intn(len(industries))]
		draft.Region = regions[f.rng.Intn(len(regions))]
	}

	for _, override := range overrides {
		override(draft)
	}

	if err := f.db.Create(draft).Error; err != nil {
		return nil, err
	}
	return draft, nil
}

// CreateEngagement persists a like or bookmark edge. Duplicate edges are
// ignored, matching the toggle semantics of the live API.
func (f *Factory) CreateEngagement(user *models.User, kind models.EngagementKind, contentType models.ContentType, contentID uint) error {
	edge := &models.Engagement{
		UserID:      user.ID,
		Kind:        kind,
		ContentType: contentType,
		ContentID:   contentID,
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error
}

// spreadCreatedAt returns a timestamp scattered over the recent past so
// seeded listings look organic.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}
