package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrCuratorVisible is the integrity error raised when a save would make a
// curator a bibliographic (visible) contributor.
var ErrCuratorVisible = errors.New("Curators cannot be made bibliographic contributors")

// NodeRequest status values
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestDeclined = "declined"
)

// User represents a platform account
type User struct {
	ID           uint   `gorm:"primaryKey"`
	GUID         string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	FullName     string
	PasswordHash string `gorm:"not null"`
	IsAdmin      bool   `gorm:"default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	// Relationships
	Contributions []Contributor `gorm:"foreignKey:UserID"`
}

// Institution represents an affiliated research institution
type Institution struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Domain    string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// Relationships
	Admins []User `gorm:"many2many:institution_admins"`
}

// Node represents a project/research object
type Node struct {
	ID          uint   `gorm:"primaryKey"`
	GUID        string `gorm:"uniqueIndex;not null"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	CreatorID   uint   `gorm:"not null"`
	Public      bool   `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	// Relationships
	Creator      User          `gorm:"foreignKey:CreatorID"`
	Contributors []Contributor `gorm:"foreignKey:NodeID"`
	Requests     []NodeRequest `gorm:"foreignKey:TargetID"`
}

// Contributor links a user to a node with role flags.
// Visible marks a bibliographic (citable) contributor; IsCurator marks the
// administrative role held by institutional admins. The two are mutually
// exclusive.
type Contributor struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_contributor_user_node"`
	NodeID    uint `gorm:"not null;uniqueIndex:idx_contributor_user_node"`
	Visible   bool `gorm:"default:false"`
	IsCurator bool `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID"`
	Node Node `gorm:"foreignKey:NodeID"`
}

// BeforeSave rejects rows that would be both curator and bibliographic.
// The aborted save leaves the stored row unchanged.
func (c *Contributor) BeforeSave(tx *gorm.DB) error {
	if c.Visible && c.IsCurator {
		return ErrCuratorVisible
	}
	return nil
}

// NodeRequest represents a user's access request against a node
type NodeRequest struct {
	ID                     uint   `gorm:"primaryKey"`
	TargetID               uint   `gorm:"not null"`
	CreatorID              uint   `gorm:"not null"`
	IsInstitutionalRequest bool   `gorm:"default:false"`
	Status                 string `gorm:"default:pending"`
	CreatedAt              time.Time
	UpdatedAt              time.Time

	// Relationships
	Target  Node `gorm:"foreignKey:TargetID"`
	Creator User `gorm:"foreignKey:CreatorID"`
}

// PreprintProvider represents a preprint service provider
type PreprintProvider struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// Preprint represents a preprint hosted by a provider
type Preprint struct {
	ID            uint   `gorm:"primaryKey"`
	GUID          string `gorm:"uniqueIndex;not null"`
	Title         string `gorm:"not null"`
	Description   string `gorm:"type:text"`
	ProviderID    uint   `gorm:"not null"`
	NodeID        *uint
	DateCreated   time.Time `gorm:"index"`
	DatePublished *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	// Relationships
	Provider PreprintProvider `gorm:"foreignKey:ProviderID"`
	Node     *Node            `gorm:"foreignKey:NodeID"`
}

// BeforeCreate stamps DateCreated unless the caller backdated it
func (p *Preprint) BeforeCreate(tx *gorm.DB) error {
	if p.DateCreated.IsZero() {
		p.DateCreated = time.Now().UTC()
	}
	return nil
}

// TableName overrides for consistent naming
func (User) TableName() string {
	return "users"
}

func (Institution) TableName() string {
	return "institutions"
}

func (Node) TableName() string {
	return "nodes"
}

func (Contributor) TableName() string {
	return "contributors"
}

func (NodeRequest) TableName() string {
	return "node_requests"
}

func (PreprintProvider) TableName() string {
	return "preprint_providers"
}

func (Preprint) TableName() string {
	return "preprints"
}
