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

// ExperienceRepository defines the interface for experience data operations.
// Vote, view and report mutations are conditional single-document updates,
// never fetch-then-save, so concurrent callers cannot lose writes.
type ExperienceRepository interface {
	CreateExperience(ctx context.Context, exp *models.Experience) error
	GetExperienceByID(ctx context.Context, id string) (*models.Experience, error)
	GetPublished(ctx context.Context, skip, limit int64) ([]models.Experience, error)
	GetByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Experience, error)
	GetByCompanyID(ctx context.Context, companyID string, skip, limit int64) ([]models.Experience, error)
	GetTrending(ctx context.Context, limit int64) ([]models.Experience, error)
	UpdateExperience(ctx context.Context, id string, set bson.M) error
	DeleteExperience(ctx context.Context, id string) error

	Vote(ctx context.Context, id string, userID uint, direction string) error
	Unvote(ctx context.Context, id string, userID uint) error
	AddUniqueView(ctx context.Context, id string, userID uint) (bool, error)
	AddReport(ctx context.Context, id string, report models.Report) (int, error)
	SetFlagged(ctx context.Context, id, reason, details, flaggedBy string) (bool, error)
	ClearFlagged(ctx context.Context, id string) (bool, error)
	SetPublished(ctx context.Context, id string, published bool) error
	SetReportThreshold(ctx context.Context, id string, threshold int) error
	SyncCompanyInfo(ctx context.Context, companyID primitive.ObjectID, name, logo string) (int64, error)
}

// MongoExperienceRepository implements ExperienceRepository for MongoDB
type MongoExperienceRepository struct {
	collection *mongo.Collection
}

// NewMongoExperienceRepository creates a new MongoExperienceRepository
func NewMongoExperienceRepository(db *mongo.Database) *MongoExperienceRepository {
	return &MongoExperienceRepository{collection: db.Collection("experiences")}
}

func experienceID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid experience ID format: %w", err)
	}
	return objID, nil
}

// CreateExperience creates a new experience in MongoDB
func (r *MongoExperienceRepository) CreateExperience(ctx context.Context, exp *models.Experience) error {
	exp.ID = primitive.NewObjectID()
	exp.CreatedAt = time.Now()
	exp.UpdatedAt = time.Now()
	if exp.Upvotes == nil {
		exp.Upvotes = []uint{}
	}
	if exp.Downvotes == nil {
		exp.Downvotes = []uint{}
	}
	if exp.UniqueViews == nil {
		exp.UniqueViews = []uint{}
	}
	if exp.Reports == nil {
		exp.Reports = []models.Report{}
	}
	_, err := r.collection.InsertOne(ctx, exp)
	return err
}

// GetExperienceByID retrieves an experience by ID from MongoDB
func (r *MongoExperienceRepository) GetExperienceByID(ctx context.Context, id string) (*models.Experience, error) {
	objID, err := experienceID(id)
	if err != nil {
		return nil, err
	}

	var exp models.Experience
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&exp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &exp, nil
}

func (r *MongoExperienceRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Experience, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exps []models.Experience
	if err = cursor.All(ctx, &exps); err != nil {
		return nil, err
	}
	return exps, nil
}

// GetPublished retrieves published experiences with pagination
func (r *MongoExperienceRepository) GetPublished(ctx context.Context, skip, limit int64) ([]models.Experience, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"is_published": true}, opts)
}

// GetByUserID retrieves experiences owned by a specific user
func (r *MongoExperienceRepository) GetByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Experience, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

// GetByCompanyID retrieves published experiences for a company
func (r *MongoExperienceRepository) GetByCompanyID(ctx context.Context, companyID string, skip, limit int64) ([]models.Experience, error) {
	objID, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company ID format: %w", err)
	}
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"company_info.company_id": objID, "is_published": true}, opts)
}

// GetTrending returns the most viewed published experiences of the last 30 days.
func (r *MongoExperienceRepository) GetTrending(ctx context.Context, limit int64) ([]models.Experience, error) {
	since := time.Now().AddDate(0, 0, -30)
	opts := options.Find().SetLimit(limit).
		SetSort(bson.D{{Key: "views", Value: -1}, {Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"is_published": true, "created_at": bson.M{"$gte": since}}, opts)
}

// UpdateExperience applies a $set update to an existing experience.
func (r *MongoExperienceRepository) UpdateExperience(ctx context.Context, id string, set bson.M) error {
	objID, err := experienceID(id)
	if err != nil {
		return err
	}

	set["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExperience deletes an experience by ID from MongoDB
func (r *MongoExperienceRepository) DeleteExperience(ctx context.Context, id string) error {
	objID, err := experienceID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Vote records a vote in one atomic update: the chosen set gains the user
// via $addToSet (repeat votes are no-ops) and the opposite set drops them
// via $pull.
func (r *MongoExperienceRepository) Vote(ctx context.Context, id string, userID uint, direction string) error {
	objID, err := experienceID(id)
	if err != nil {
		return err
	}

	add, remove := "upvotes", "downvotes"
	if direction == "downvote" {
		add, remove = "downvotes", "upvotes"
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$addToSet": bson.M{add: userID},
		"$pull":     bson.M{remove: userID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Unvote removes the user from both vote sets.
func (r *MongoExperienceRepository) Unvote(ctx context.Context, id string, userID uint) error {
	objID, err := experienceID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$pull": bson.M{"upvotes": userID, "downvotes": userID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddUniqueView adds the viewer to the unique-view set and bumps the view
// counter only when the set actually grew. A repeat view changes nothing.
func (r *MongoExperienceRepository) AddUniqueView(ctx context.Context, id string, userID uint) (bool, error) {
	objID, err := experienceID(id)
	if err != nil {
		return false, err
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$addToSet": bson.M{"unique_views": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return false, nil
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"views": 1}})
	return true, err
}

// AddReport appends a report unless this user already reported the
// experience. Returns the report count after the append, or ErrConflict for
// a duplicate.
func (r *MongoExperienceRepository) AddReport(ctx context.Context, id string, report models.Report) (int, error) {
	objID, err := experienceID(id)
	if err != nil {
		return 0, err
	}

	after := options.After
	var updated models.Experience
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID, "reports.user_id": bson.M{"$ne": report.UserID}},
		bson.M{"$push": bson.M{"reports": report}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			return 0, err
		}
		// Either the experience is gone or the guard rejected a duplicate.
		if _, getErr := r.GetExperienceByID(ctx, id); getErr != nil {
			return 0, getErr
		}
		return 0, ErrConflict
	}
	return len(updated.Reports), nil
}

// SetFlagged transitions an unflagged experience to flagged. The
// flagged:false guard makes the transition exactly-once: the bool result is
// false when the experience was already flagged.
func (r *MongoExperienceRepository) SetFlagged(ctx context.Context, id, reason, details, flaggedBy string) (bool, error) {
	objID, err := experienceID(id)
	if err != nil {
		return false, err
	}

	now := time.Now()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "flagged": false},
		bson.M{"$set": bson.M{
			"flagged":      true,
			"flag_reason":  reason,
			"flag_details": details,
			"flagged_by":   flaggedBy,
			"flagged_at":   now,
			"updated_at":   now,
		}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		if _, getErr := r.GetExperienceByID(ctx, id); getErr != nil {
			return false, getErr
		}
		return false, nil
	}
	return true, nil
}

// ClearFlagged clears the flag and its metadata. Returns false when the
// experience was not flagged.
func (r *MongoExperienceRepository) ClearFlagged(ctx context.Context, id string) (bool, error) {
	objID, err := experienceID(id)
	if err != nil {
		return false, err
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "flagged": true},
		bson.M{
			"$set":   bson.M{"flagged": false, "updated_at": time.Now()},
			"$unset": bson.M{"flag_reason": "", "flag_details": "", "flagged_by": "", "flagged_at": ""},
		})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		if _, getErr := r.GetExperienceByID(ctx, id); getErr != nil {
			return false, getErr
		}
		return false, nil
	}
	return true, nil
}

// SetPublished flips the publish state.
func (r *MongoExperienceRepository) SetPublished(ctx context.Context, id string, published bool) error {
	return r.UpdateExperience(ctx, id, bson.M{"is_published": published})
}

// SetReportThreshold overrides the auto-flag threshold for one experience.
func (r *MongoExperienceRepository) SetReportThreshold(ctx context.Context, id string, threshold int) error {
	return r.UpdateExperience(ctx, id, bson.M{"report_threshold": threshold})
}

// SyncCompanyInfo rewrites the denormalized company name/logo on every
// experience referencing the company. Called right after a company edit so
// readers never see permanently stale copies.
func (r *MongoExperienceRepository) SyncCompanyInfo(ctx context.Context, companyID primitive.ObjectID, name, logo string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"company_info.company_id": companyID},
		bson.M{"$set": bson.M{
			"company_info.company_name": name,
			"company_info.company_logo": logo,
		}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
