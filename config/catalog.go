package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

//go:embed catalog.default.yaml
var defaultCatalog []byte

// Catalog is the static configuration of package types, shipping methods and
// purchasable products.
type Catalog struct {
	PackageTypes    []PackageTypeSpec    `yaml:"package_types" validate:"dive"`
	ShippingMethods []ShippingMethodSpec `yaml:"shipping_methods" validate:"required,min=1,dive"`
	Products        []ProductSpec        `yaml:"products" validate:"dive"`
}

// WeightSpec is a weight with a decimal string number.
type WeightSpec struct {
	Number string `yaml:"number" validate:"required,numeric"`
	Unit   string `yaml:"unit" validate:"required,oneof=g kg oz lb"`
}

// MoneySpec is an amount with a decimal string number.
type MoneySpec struct {
	Number       string `yaml:"number" validate:"required,numeric"`
	CurrencyCode string `yaml:"currency_code" validate:"required,len=3"`
}

// DimensionsSpec is the outer size of a package type.
type DimensionsSpec struct {
	Length string `yaml:"length" validate:"omitempty,numeric"`
	Width  string `yaml:"width" validate:"omitempty,numeric"`
	Height string `yaml:"height" validate:"omitempty,numeric"`
	Unit   string `yaml:"unit"`
}

// PackageTypeSpec configures a package type.
type PackageTypeSpec struct {
	ID              string         `yaml:"id" validate:"required"`
	Label           string         `yaml:"label" validate:"required"`
	Description     string         `yaml:"description"`
	Dimensions      DimensionsSpec `yaml:"dimensions"`
	Weight          WeightSpec     `yaml:"weight"`
	ShippingMethods []string       `yaml:"shipping_methods"`
}

// PackagerSpec enables a packager on a shipping method.
type PackagerSpec struct {
	ID      string `yaml:"id" validate:"required"`
	Enabled *bool  `yaml:"enabled"`
	Weight  int    `yaml:"weight"`
}

// IsEnabled reports whether the packager runs. Packagers are enabled unless
// explicitly disabled.
func (p PackagerSpec) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// ServiceSpec is a flat-rate service level.
type ServiceSpec struct {
	ID           string     `yaml:"id" validate:"required"`
	Label        string     `yaml:"label" validate:"required"`
	Description  string     `yaml:"description"`
	Base         MoneySpec  `yaml:"base"`
	PerKg        *MoneySpec `yaml:"per_kg" validate:"omitempty"`
	PerPackage   *MoneySpec `yaml:"per_package" validate:"omitempty"`
	DeliveryDays int        `yaml:"delivery_days" validate:"gte=0"`
}

// ShippingMethodSpec configures a shipping method.
type ShippingMethodSpec struct {
	ID                 string         `yaml:"id" validate:"required"`
	Label              string         `yaml:"label" validate:"required"`
	DefaultPackageType string         `yaml:"default_package_type"`
	Packagers          []PackagerSpec `yaml:"packagers" validate:"dive"`
	Services           []ServiceSpec  `yaml:"services" validate:"dive"`
}

// PackagingRuleSpec packs between Min and Max units into one package.
type PackagingRuleSpec struct {
	PackageType string `yaml:"package_type" validate:"required"`
	Min         int    `yaml:"min" validate:"required,min=1"`
	Max         int    `yaml:"max" validate:"required,gtefield=Min"`
}

// ProductSpec configures a purchasable product.
type ProductSpec struct {
	ID        string              `yaml:"id" validate:"required"`
	SKU       string              `yaml:"sku"`
	Title     string              `yaml:"title" validate:"required"`
	Price     MoneySpec           `yaml:"price"`
	Weight    *WeightSpec         `yaml:"weight" validate:"omitempty"`
	Packaging []PackagingRuleSpec `yaml:"packaging" validate:"dive"`
}

// LoadCatalog reads and validates the catalog at path. An empty path loads
// the embedded default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = raw
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog. Unknown keys are rejected.
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", model.ErrValidation, err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

var catalogValidator = newCatalogValidator()

func newCatalogValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and cross references.
func (c *Catalog) Validate() error {
	if err := catalogValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: catalog: %s", model.ErrValidation, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: catalog: %v", model.ErrValidation, err)
	}
	return c.checkReferences()
}

func (c *Catalog) checkReferences() error {
	types := map[string]bool{model.DefaultPackageTypeID: true}
	for _, pt := range c.PackageTypes {
		if types[pt.ID] && pt.ID != model.DefaultPackageTypeID {
			return fmt.Errorf("%w: duplicate package type %q", model.ErrValidation, pt.ID)
		}
		types[pt.ID] = true
	}
	methods := make(map[string]bool, len(c.ShippingMethods))
	for _, m := range c.ShippingMethods {
		if methods[m.ID] {
			return fmt.Errorf("%w: duplicate shipping method %q", model.ErrValidation, m.ID)
		}
		methods[m.ID] = true
		if m.DefaultPackageType != "" && !types[m.DefaultPackageType] {
			return fmt.Errorf("%w: shipping method %q uses unknown package type %q", model.ErrValidation, m.ID, m.DefaultPackageType)
		}
	}
	for _, p := range c.Products {
		for _, rule := range p.Packaging {
			if !types[rule.PackageType] {
				return fmt.Errorf("%w: product %q uses unknown package type %q", model.ErrValidation, p.ID, rule.PackageType)
			}
		}
	}
	return nil
}

// ToModel converts the weight spec.
func (w WeightSpec) ToModel() (model.Weight, error) {
	return model.NewWeight(w.Number, model.WeightUnit(w.Unit))
}

// ToModel converts the money spec.
func (m MoneySpec) ToModel() (model.Money, error) {
	return model.NewMoney(m.Number, m.CurrencyCode)
}

// ModelPackageTypes converts the configured package types.
func (c *Catalog) ModelPackageTypes() ([]model.PackageType, error) {
	out := make([]model.PackageType, 0, len(c.PackageTypes))
	for _, spec := range c.PackageTypes {
		weight, err := spec.Weight.ToModel()
		if err != nil {
			return nil, fmt.Errorf("package type %s: %w", spec.ID, err)
		}
		dims, err := spec.Dimensions.toModel()
		if err != nil {
			return nil, fmt.Errorf("package type %s: %w", spec.ID, err)
		}
		out = append(out, model.PackageType{
			ID:              spec.ID,
			Label:           spec.Label,
			Description:     spec.Description,
			Dimensions:      dims,
			Weight:          weight,
			ShippingMethods: spec.ShippingMethods,
		})
	}
	return out, nil
}

func (d DimensionsSpec) toModel() (model.Dimensions, error) {
	dims := model.Dimensions{Unit: d.Unit}
	for _, f := range []struct {
		value  string
		target *decimal.Decimal
	}{
		{d.Length, &dims.Length},
		{d.Width, &dims.Width},
		{d.Height, &dims.Height},
	} {
		if f.value == "" {
			continue
		}
		n, err := decimal.NewFromString(f.value)
		if err != nil {
			return model.Dimensions{}, fmt.Errorf("%w: dimension %q", model.ErrValidation, f.value)
		}
		*f.target = n
	}
	return dims, nil
}

// ModelProducts converts the configured products.
func (c *Catalog) ModelProducts() ([]model.Product, error) {
	out := make([]model.Product, 0, len(c.Products))
	for _, spec := range c.Products {
		price, err := spec.Price.ToModel()
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", spec.ID, err)
		}
		product := model.Product{ID: spec.ID, SKU: spec.SKU, Title: spec.Title, Price: price}
		if spec.Weight != nil {
			weight, err := spec.Weight.ToModel()
			if err != nil {
				return nil, fmt.Errorf("product %s: %w", spec.ID, err)
			}
			product.Weight = &weight
		}
		for _, rule := range spec.Packaging {
			product.Packaging = append(product.Packaging, model.PackagingRule{
				PackageTypeID: rule.PackageType,
				Min:           rule.Min,
				Max:           rule.Max,
			})
		}
		out = append(out, product)
	}
	return out, nil
}
