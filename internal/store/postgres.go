package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pubtypes "github.com/DoyleJ11/pokedraft-backend/pkg/types"
)

type draftRecord struct {
	ID           string              `gorm:"primaryKey;size:36"`
	Name         string              `gorm:"uniqueIndex;size:50;not null"`
	Description  string              `gorm:"type:text"`
	PointLimit   int                 `gorm:"not null"`
	PokemonLimit int                 `gorm:"not null"`
	Rules        string              `gorm:"type:text"`
	Board        pubtypes.DraftBoard `gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time           `gorm:"index"`
	UpdatedAt    time.Time
}

func (draftRecord) TableName() string { return "draft_templates" }

func toRecord(d *DraftTemplate) draftRecord {
	return draftRecord{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		PointLimit:   d.PointLimit,
		PokemonLimit: d.PokemonLimit,
		Rules:        d.Rules,
		Board:        d.Board,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (r draftRecord) template() DraftTemplate {
	return DraftTemplate{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		PointLimit:   r.PointLimit,
		PokemonLimit: r.PokemonLimit,
		Rules:        r.Rules,
		Board:        r.Board,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Postgres stores drafts through gorm.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&draftRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Create(ctx context.Context, d *DraftTemplate) error {
	if err := prepare(d, time.Now().UTC()); err != nil {
		return err
	}
	rec := toRecord(d)
	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*DraftTemplate, error) {
	var rec draftRecord
	err := p.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	d := rec.template()
	return &d, nil
}

func (p *Postgres) List(ctx context.Context) ([]DraftTemplate, error) {
	var recs []draftRecord
	if err := p.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	out := make([]DraftTemplate, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.template())
	}
	return out, nil
}

func (p *Postgres) Close(context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
