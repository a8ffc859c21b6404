package models

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/access"
)

// ShopModel is the persistence model for the Shop entity.
type ShopModel struct {
	BaseModel
	OwnerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_shops_owner"`
	Name     string    `gorm:"type:varchar(200);not null"`
	Platform string    `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (ShopModel) TableName() string {
	return "shops"
}

// ToDomain converts the persistence model to a domain Shop entity.
func (m *ShopModel) ToDomain() *access.Shop {
	return &access.Shop{
		BaseEntity: m.BaseModel.ToDomain(),
		OwnerID:    m.OwnerID,
		Name:       m.Name,
		Platform:   m.Platform,
	}
}

// FromDomain populates the persistence model from a domain Shop entity.
func (m *ShopModel) FromDomain(s *access.Shop) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.OwnerID = s.OwnerID
	m.Name = s.Name
	m.Platform = s.Platform
}

// ShopModelFromDomain creates a new persistence model from a domain Shop.
func ShopModelFromDomain(s *access.Shop) *ShopModel {
	m := &ShopModel{}
	m.FromDomain(s)
	return m
}

// GrantModel is the persistence model for an access grant.
// Unique per (user, shop); re-granting is idempotent at the service level.
type GrantModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_grants_user_shop,priority:1"`
	ShopID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_grants_user_shop,priority:2;index:idx_grants_shop"`
	GrantedBy uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (GrantModel) TableName() string {
	return "shop_grants"
}

// ToDomain converts the persistence model to a domain Grant entity.
func (m *GrantModel) ToDomain() *access.Grant {
	return &access.Grant{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		ShopID:     m.ShopID,
		GrantedBy:  m.GrantedBy,
	}
}

// FromDomain populates the persistence model from a domain Grant entity.
func (m *GrantModel) FromDomain(g *access.Grant) {
	m.FromDomainBaseEntity(g.BaseEntity)
	m.UserID = g.UserID
	m.ShopID = g.ShopID
	m.GrantedBy = g.GrantedBy
}

// GrantModelFromDomain creates a new persistence model from a domain Grant.
func GrantModelFromDomain(g *access.Grant) *GrantModel {
	m := &GrantModel{}
	m.FromDomain(g)
	return m
}
