package handlers

import (
	"context"
	"sync"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes mirroring the repository guard semantics the handlers
// depend on.

type fakeExperienceRepo struct {
	mu          sync.Mutex
	experiences map[string]*models.Experience
}

func newFakeExperienceRepo() *fakeExperienceRepo {
	return &fakeExperienceRepo{experiences: make(map[string]*models.Experience)}
}

func (r *fakeExperienceRepo) add(exp *models.Experience) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if exp.ID.IsZero() {
		exp.ID = primitive.NewObjectID()
	}
	r.experiences[exp.ID.Hex()] = exp
	return exp.ID.Hex()
}

func (r *fakeExperienceRepo) get(id string) *models.Experience {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.experiences[id]
}

func (r *fakeExperienceRepo) CreateExperience(ctx context.Context, exp *models.Experience) error {
	r.add(exp)
	return nil
}

func (r *fakeExperienceRepo) GetExperienceByID(ctx context.Context, id string) (*models.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.experiences[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *exp
	return &clone, nil
}

func (r *fakeExperienceRepo) GetPublished(ctx context.Context, skip, limit int64) ([]models.Experience, error) {
	return nil, nil
}

func (r *fakeExperienceRepo) GetByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Experience, error) {
	return nil, nil
}

func (r *fakeExperienceRepo) GetByCompanyID(ctx context.Context, companyID string, skip, limit int64) ([]models.Experience, error) {
	return nil, nil
}

func (r *fakeExperienceRepo) GetTrending(ctx context.Context, limit int64) ([]models.Experience, error) {
	return nil, nil
}

func (r *fakeExperienceRepo) UpdateExperience(ctx context.Context, id string, set bson.M) error {
	return nil
}

func (r *fakeExperienceRepo) DeleteExperience(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.experiences[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.experiences, id)
	return nil
}

func (r *fakeExperienceRepo) Vote(ctx context.Context, id string, userID uint, direction string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.experiences[id]
	if !ok {
		return repositories.ErrNotFound
	}
	add, remove := &exp.Upvotes, &exp.Downvotes
	if direction == "downvote" {
		add, remove = &exp.Downvotes, &exp.Upvotes
	}
	*remove = withoutUint(*remove, userID)
	if !containsUint(*add, userID) {
		*add = append(*add, userID)
	}
	return nil
}

func (r *fakeExperienceRepo) Unvote(ctx context.Context, id string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.experiences[id]
	if !ok {
		return repositories.ErrNotFound
	}
	exp.Upvotes = withoutUint(exp.Upvotes, userID)
	exp.Downvotes = withoutUint(exp.Downvotes, userID)
	return nil
}

func (r *fakeExperienceRepo) AddUniqueView(ctx context.Context, id string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.experiences[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if containsUint(exp.UniqueViews, userID) {
		return false, nil
	}
	exp.UniqueViews = append(exp.UniqueViews, userID)
	exp.Views++
	return true, nil
}

func (r *fakeExperienceRepo) AddReport(ctx context.Context, id string, report models.Report) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.experiences[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	for _, existing := range exp.Reports {
		if existing.UserID == report.UserID {
			return 0, repositories.ErrConflict
		}
	}
	exp.Reports = append(exp.Reports, report)
	return len(exp.Reports), nil
}

func (r *fakeExperienceRepo) SetFlagged(ctx context.Context, id, reason, details, flaggedBy string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.experiences[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if exp.Flagged {
		return false, nil
	}
	exp.Flagged = true
	exp.FlagReason = reason
	return true, nil
}

func (r *fakeExperienceRepo) ClearFlagged(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.experiences[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if !exp.Flagged {
		return false, nil
	}
	exp.Flagged = false
	exp.FlagReason = ""
	return true, nil
}

func (r *fakeExperienceRepo) SetPublished(ctx context.Context, id string, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.experiences[id]
	if !ok {
		return repositories.ErrNotFound
	}
	exp.IsPublished = published
	return nil
}

func (r *fakeExperienceRepo) SetReportThreshold(ctx context.Context, id string, threshold int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.experiences[id]
	if !ok {
		return repositories.ErrNotFound
	}
	exp.ReportThreshold = threshold
	return nil
}

func (r *fakeExperienceRepo) SyncCompanyInfo(ctx context.Context, companyID primitive.ObjectID, name, logo string) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
	points map[uint]int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User), points: make(map[uint]int)}
	for _, u := range users {
		r.users[u.ID] = u
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(uid string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if uid == "" {
		return nil, repositories.ErrNotFound
	}
	for _, user := range r.users {
		if user.FirebaseUID == uid {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetAllUserIDs() ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateRole(id uint, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Role = role
	return nil
}

func (r *fakeUserRepo) AddPoints(id uint, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points[id] += points
	return nil
}

func (r *fakeUserRepo) GetNotificationPreference(id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	return user.BrowserNotifications, nil
}

func (r *fakeUserRepo) SearchUsers(query string) ([]models.User, error) { return nil, nil }

func withoutUint(list []uint, v uint) []uint {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
