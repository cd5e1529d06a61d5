package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	invusecases "github.com/schoolit/servicedesk/internal/application/inventory/usecases"
	schoolusecases "github.com/schoolit/servicedesk/internal/application/school/usecases"
	"github.com/schoolit/servicedesk/internal/domain/school"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// Catalog is the seed file layout.
type Catalog struct {
	Schools   []SchoolEntry `yaml:"schools"`
	Inventory []ItemEntry   `yaml:"inventory"`
}

type SchoolEntry struct {
	Name        string              `yaml:"name"`
	Address     string              `yaml:"address"`
	ContactName string              `yaml:"contact_name"`
	WebhookURL  string              `yaml:"webhook_url"`
	Categories  []vo.CategoryOption `yaml:"categories"`
	Locations   *school.Locations   `yaml:"locations"`
}

type ItemEntry struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	SKU      string `yaml:"sku"`
	InStock  int    `yaml:"in_stock"`
	MinStock int    `yaml:"min_stock"`
}

func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &cat, nil
}

// Report counts what Apply created and skipped.
type Report struct {
	SchoolsCreated int
	SchoolsSkipped int
	ItemsCreated   int
	ItemsSkipped   int
}

// Seeder applies a catalog through the regular use cases. Schools match
// existing ones by name and items by SKU (or name when the SKU is empty),
// so running it twice creates nothing new.
type Seeder struct {
	createSchool schoolusecases.CreateSchoolExecutor
	getSchool    schoolusecases.GetSchoolExecutor
	meta         schoolusecases.MetaExecutor
	addItem      invusecases.AddItemExecutor
	listItems    invusecases.ListItemsExecutor
	logger       logger.Interface
}

func NewSeeder(
	createSchool schoolusecases.CreateSchoolExecutor,
	getSchool schoolusecases.GetSchoolExecutor,
	meta schoolusecases.MetaExecutor,
	addItem invusecases.AddItemExecutor,
	listItems invusecases.ListItemsExecutor,
	logger logger.Interface,
) *Seeder {
	return &Seeder{
		createSchool: createSchool,
		getSchool:    getSchool,
		meta:         meta,
		addItem:      addItem,
		listItems:    listItems,
		logger:       logger,
	}
}

func (s *Seeder) Apply(ctx context.Context, cat *Catalog) (*Report, error) {
	report := &Report{}

	existing, err := s.getSchool.List(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, sch := range existing {
		known[strings.ToLower(sch.Name)] = true
	}

	for _, entry := range cat.Schools {
		if known[strings.ToLower(entry.Name)] {
			report.SchoolsSkipped++
			continue
		}
		created, err := s.createSchool.Execute(ctx, schoolusecases.CreateSchoolCommand{
			Name:        entry.Name,
			Address:     entry.Address,
			ContactName: entry.ContactName,
			WebhookURL:  entry.WebhookURL,
		})
		if err != nil {
			return report, fmt.Errorf("school %q: %w", entry.Name, err)
		}
		if len(entry.Categories) > 0 {
			if _, err := s.meta.UpdateCategories(ctx, created.ID, entry.Categories); err != nil {
				return report, fmt.Errorf("school %q categories: %w", entry.Name, err)
			}
		}
		if entry.Locations != nil {
			if _, err := s.meta.UpdateLocations(ctx, created.ID, *entry.Locations); err != nil {
				return report, fmt.Errorf("school %q locations: %w", entry.Name, err)
			}
		}
		known[strings.ToLower(entry.Name)] = true
		report.SchoolsCreated++
		s.logger.Infow("seeded school", "school_id", created.ID, "name", entry.Name)
	}

	items, err := s.listItems.Execute(ctx, invusecases.ListItemsQuery{})
	if err != nil {
		return report, err
	}
	stocked := make(map[string]bool, len(items))
	for _, it := range items {
		stocked[itemKey(it.SKU, it.Name)] = true
	}

	for _, entry := range cat.Inventory {
		key := itemKey(entry.SKU, entry.Name)
		if stocked[key] {
			report.ItemsSkipped++
			continue
		}
		if _, err := s.addItem.Execute(ctx, invusecases.AddItemCommand{
			Name:     entry.Name,
			Category: entry.Category,
			SKU:      entry.SKU,
			InStock:  entry.InStock,
			MinStock: entry.MinStock,
		}); err != nil {
			return report, fmt.Errorf("item %q: %w", entry.Name, err)
		}
		stocked[key] = true
		report.ItemsCreated++
	}

	return report, nil
}

func itemKey(sku, name string) string {
	if sku != "" {
		return "sku:" + strings.ToLower(sku)
	}
	return "name:" + strings.ToLower(name)
}
