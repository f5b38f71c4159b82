package identity

import (
	"regexp"
	"strings"

	"github.com/dokan/papershop/internal/domain/shared"
)

// Organization is a shop account. It is the tenant boundary: every scoped row
// carries its ID as tenant_id.
type Organization struct {
	shared.BaseAggregateRoot
	Name      string `gorm:"type:varchar(200);not null"`
	Slug      string `gorm:"type:varchar(100);not null;uniqueIndex"`
	OwnerName string `gorm:"type:varchar(200)"`
	Email     string `gorm:"type:varchar(200)"`
	Phone     string `gorm:"type:varchar(50)"`
	Address   string `gorm:"type:text"`
	IsActive  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NewOrganization creates an active organization
func NewOrganization(name, slug string) (*Organization, error) {
	name, err := cleanOrganizationName(name)
	if err != nil {
		return nil, err
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugRegex.MatchString(slug) || len(slug) > 100 {
		return nil, shared.NewValidationError("INVALID_SLUG", "Slug can only contain lowercase letters, numbers and hyphens")
	}

	return &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		IsActive:          true,
	}, nil
}

// SetContact sets owner and contact details
func (o *Organization) SetContact(owner, email, phone, address string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	o.OwnerName = strings.TrimSpace(owner)
	o.Email = strings.ToLower(strings.TrimSpace(email))
	o.Phone = strings.TrimSpace(phone)
	o.Address = strings.TrimSpace(address)
	o.Touch()
	return nil
}

// Rename changes the display name. The slug stays fixed so existing links
// keep working.
func (o *Organization) Rename(name string) error {
	name, err := cleanOrganizationName(name)
	if err != nil {
		return err
	}
	o.Name = name
	o.Touch()
	return nil
}

func cleanOrganizationName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewValidationError("INVALID_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return "", shared.NewValidationError("INVALID_NAME", "Organization name cannot exceed 200 characters")
	}
	return name, nil
}

// Slugify lowercases name and joins its alphanumeric runs with hyphens
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	return b.String()
}
