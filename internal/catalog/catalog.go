// Package catalog holds the read-only dish catalog and festival table.
//
// A Catalog is built once at startup, from the embedded seed or an external
// YAML file, and is never mutated afterwards. It is safe for concurrent use
// without locking.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rasaroots/internal/models"
)

//go:embed seed.yaml
var seed []byte

// document is the on-disk layout of a catalog file.
type document struct {
	Dishes    []models.Dish     `yaml:"dishes"`
	Festivals []models.Festival `yaml:"festivals"`
}

// Catalog is an immutable, validated set of dishes and festivals.
type Catalog struct {
	dishes    []models.Dish
	dishByID  map[int]int
	festivals []models.Festival
	festByID  map[string]int
}

// Default returns the embedded seed catalog.
func Default() (*Catalog, error) {
	return Parse(seed)
}

// Load reads a catalog file, or the embedded seed when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(doc.Dishes, doc.Festivals)
}

// New validates dishes and festivals and builds a Catalog. Input order is
// preserved and is the order every query returns results in.
func New(dishes []models.Dish, festivals []models.Festival) (*Catalog, error) {
	if len(dishes) == 0 {
		return nil, fmt.Errorf("catalog has no dishes")
	}

	c := &Catalog{
		dishes:    make([]models.Dish, 0, len(dishes)),
		dishByID:  make(map[int]int, len(dishes)),
		festivals: make([]models.Festival, 0, len(festivals)),
		festByID:  make(map[string]int, len(festivals)),
	}

	for i := range dishes {
		d := dishes[i]
		if err := models.ValidateDish(&d); err != nil {
			return nil, err
		}
		if _, dup := c.dishByID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate dish id %d", d.ID)
		}
		d.Tags = models.NewTagSet(d.Tags...)
		c.dishByID[d.ID] = len(c.dishes)
		c.dishes = append(c.dishes, d)
	}

	for i := range festivals {
		f := festivals[i]
		if err := models.ValidateFestival(&f); err != nil {
			return nil, err
		}
		if _, dup := c.festByID[f.ID]; dup {
			return nil, fmt.Errorf("duplicate festival id %q", f.ID)
		}
		if models.IsStaticOccasion(f.ID) {
			return nil, fmt.Errorf("festival id %q collides with a static occasion", f.ID)
		}
		for _, id := range f.DishIDs {
			if _, ok := c.dishByID[id]; !ok {
				return nil, fmt.Errorf("festival %s references unknown dish %d", f.ID, id)
			}
		}
		c.festByID[f.ID] = len(c.festivals)
		c.festivals = append(c.festivals, f)
	}

	return c, nil
}

// Dishes returns every dish in catalog order. The slice is a copy; the
// dishes' inner slices are shared and must not be modified.
func (c *Catalog) Dishes() []models.Dish {
	out := make([]models.Dish, len(c.dishes))
	copy(out, c.dishes)
	return out
}

// Dish looks up a dish by id.
func (c *Catalog) Dish(id int) (models.Dish, bool) {
	i, ok := c.dishByID[id]
	if !ok {
		return models.Dish{}, false
	}
	return c.dishes[i], true
}

// Festivals returns every festival in table order.
func (c *Catalog) Festivals() []models.Festival {
	out := make([]models.Festival, len(c.festivals))
	copy(out, c.festivals)
	return out
}

// Festival looks up a festival by id.
func (c *Catalog) Festival(id string) (models.Festival, bool) {
	i, ok := c.festByID[id]
	if !ok {
		return models.Festival{}, false
	}
	return c.festivals[i], true
}

// Len returns the number of dishes.
func (c *Catalog) Len() int {
	return len(c.dishes)
}
