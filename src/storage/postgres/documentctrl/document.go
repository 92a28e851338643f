package documentctrl

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Document records one successful ingestion: which file went into which
// index, and where the raw upload was archived.
type Document struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Filename  string    `gorm:"not null" json:"filename"`
	IndexName string    `gorm:"not null;column:index_name" json:"index_name"`
	Pages     int       `json:"pages"`
	Chunks    int       `json:"chunks"`
	MinioURL  string    `gorm:"column:minio_url" json:"minio_url"` // bucket name + object name
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DocumentService struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewDocumentService(db *gorm.DB) (*DocumentService, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %v", err)
	}

	return &DocumentService{
		db:        db,
		snowflake: node,
	}, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id int64) (*Document, error) {
	var doc Document
	result := s.db.WithContext(ctx).First(&doc, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %v", result.Error)
	}
	return &doc, nil
}

// List returns a paginated list of ingested documents, newest first.
func (s *DocumentService) List(ctx context.Context, limit int, offset int) ([]Document, error) {
	var docs []Document

	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list documents: %v", result.Error)
	}

	return docs, nil
}

func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&Document{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete document: %v", result.Error)
	}
	return nil
}

func (s *DocumentService) Create(ctx context.Context, doc *Document) (*Document, error) {
	doc.ID = s.snowflake.Generate().Int64()

	result := s.db.WithContext(ctx).Create(doc)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create document: %v", result.Error)
	}

	return doc, nil
}
