package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/campusplaced/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CompanyRepository defines the interface for company directory operations
type CompanyRepository interface {
	EnsureIndexes(ctx context.Context) error
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompanyByID(ctx context.Context, id string) (*models.Company, error)
	FindByName(ctx context.Context, normalized string) (*models.Company, error)
	FindByAlias(ctx context.Context, normalized string) (*models.Company, error)
	UpdateCompany(ctx context.Context, id string, update bson.M) error
	SearchCompanies(ctx context.Context, query string, skip, limit int64) ([]models.Company, error)
}

// MongoCompanyRepository implements CompanyRepository for MongoDB
type MongoCompanyRepository struct {
	collection *mongo.Collection
}

// NewMongoCompanyRepository creates a new MongoCompanyRepository
func NewMongoCompanyRepository(db *mongo.Database) *MongoCompanyRepository {
	return &MongoCompanyRepository{collection: db.Collection("companies")}
}

// EnsureIndexes creates the unique index on the canonical name. Concurrent
// creates of the same company then surface as a duplicate-key error instead
// of a second record.
func (r *MongoCompanyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// CreateCompany inserts a new company. On a duplicate-key conflict it
// returns ErrConflict so the caller can re-fetch the existing record.
func (r *MongoCompanyRepository) CreateCompany(ctx context.Context, company *models.Company) error {
	company.ID = primitive.NewObjectID()
	company.CreatedAt = time.Now()
	company.UpdatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, company); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// GetCompanyByID retrieves a company by ID from MongoDB
func (r *MongoCompanyRepository) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid company ID format: %w", err)
	}

	var company models.Company
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&company)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindByName matches the normalized input against the canonical name or a
// case-insensitive display name.
func (r *MongoCompanyRepository) FindByName(ctx context.Context, normalized string) (*models.Company, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"name": normalized},
		bson.M{"display_name": bson.M{"$regex": "^" + regexQuote(normalized) + "$", "$options": "i"}},
	}}

	var company models.Company
	err := r.collection.FindOne(ctx, filter).Decode(&company)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindByAlias matches the normalized input against any company's alias set.
func (r *MongoCompanyRepository) FindByAlias(ctx context.Context, normalized string) (*models.Company, error) {
	var company models.Company
	err := r.collection.FindOne(ctx, bson.M{"aliases": normalized}).Decode(&company)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// UpdateCompany applies a $set update to an existing company.
func (r *MongoCompanyRepository) UpdateCompany(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid company ID format: %w", err)
	}

	update["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchCompanies does a substring match over names and aliases.
func (r *MongoCompanyRepository) SearchCompanies(ctx context.Context, query string, skip, limit int64) ([]models.Company, error) {
	filter := bson.M{}
	if query != "" {
		pattern := regexQuote(models.NormalizeCompanyName(query))
		filter = bson.M{"$or": bson.A{
			bson.M{"name": bson.M{"$regex": pattern}},
			bson.M{"display_name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"aliases": bson.M{"$regex": pattern}},
		}}
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var companies []models.Company
	if err = cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}
