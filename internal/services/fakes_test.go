package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/campusplaced/backend/internal/models"
	"github.com/campusplaced/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes mirroring the repository guard semantics, so service
// behavior (exactly-once escalation, duplicate rejection) is exercised for
// real instead of being scripted into mocks.

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*models.Company // keyed by hex id

	// missLookups makes the next N name/alias lookups miss, simulating the
	// window where a concurrent writer inserts between lookup and insert.
	missLookups int
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[string]*models.Company)}
}

func (r *fakeCompanyRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeCompanyRepo) CreateCompany(ctx context.Context, company *models.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.companies {
		if existing.Name == company.Name {
			return repositories.ErrConflict
		}
	}
	company.ID = primitive.NewObjectID()
	company.CreatedAt = time.Now()
	company.UpdatedAt = time.Now()
	clone := *company
	r.companies[company.ID.Hex()] = &clone
	return nil
}

func (r *fakeCompanyRepo) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if company, ok := r.companies[id]; ok {
		clone := *company
		return &clone, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCompanyRepo) FindByName(ctx context.Context, normalized string) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missLookups > 0 {
		r.missLookups--
		return nil, repositories.ErrNotFound
	}
	for _, company := range r.companies {
		if company.Name == normalized || strings.EqualFold(company.DisplayName, normalized) {
			clone := *company
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCompanyRepo) FindByAlias(ctx context.Context, normalized string) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missLookups > 0 {
		r.missLookups--
		return nil, repositories.ErrNotFound
	}
	for _, company := range r.companies {
		for _, alias := range company.Aliases {
			if alias == normalized {
				clone := *company
				return &clone, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCompanyRepo) UpdateCompany(ctx context.Context, id string, update bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	company, ok := r.companies[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for key, value := range update {
		switch key {
		case "display_name":
			company.DisplayName = value.(string)
		case "logo":
			company.Logo = value.(string)
		case "industry":
			company.Industry = value.(string)
		case "size":
			company.Size = value.(string)
		case "is_verified":
			company.IsVerified = value.(bool)
		case "aliases":
			company.Aliases = value.([]string)
		case "linkedin_data":
			company.LinkedinData = value.(map[string]string)
		}
	}
	company.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCompanyRepo) SearchCompanies(ctx context.Context, query string, skip, limit int64) ([]models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Company
	for _, company := range r.companies {
		out = append(out, *company)
	}
	return out, nil
}

type fakeExperienceRepo struct {
	mu          sync.Mutex
	experiences map[string]*models.Experience
	synced      int // SyncCompanyInfo invocations
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
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.experiences[id]; !ok {
		return repositories.ErrNotFound
	}
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
	*remove = removeUint(*remove, userID)
	if !hasUint(*add, userID) {
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
	exp.Upvotes = removeUint(exp.Upvotes, userID)
	exp.Downvotes = removeUint(exp.Downvotes, userID)
	return nil
}

func (r *fakeExperienceRepo) AddUniqueView(ctx context.Context, id string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.experiences[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if hasUint(exp.UniqueViews, userID) {
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
	now := time.Now()
	exp.Flagged = true
	exp.FlagReason = reason
	exp.FlagDetails = details
	exp.FlaggedBy = flaggedBy
	exp.FlaggedAt = &now
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
	exp.FlagDetails = ""
	exp.FlaggedBy = ""
	exp.FlaggedAt = nil
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
	r.mu.Lock()
	defer r.mu.Unlock()
	r.synced++
	var count int64
	for _, exp := range r.experiences {
		if exp.CompanyInfo.CompanyID == companyID {
			exp.CompanyInfo.CompanyName = name
			exp.CompanyInfo.CompanyLogo = logo
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(uid string) (*models.User, error) {
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

func (r *fakeUserRepo) UpdateUser(user *models.User) error { return nil }

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

func (r *fakeUserRepo) AddPoints(id uint, points int) error { return nil }

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

type fakeNotificationRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: make(map[uint]*models.Notification)}
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	clone := *n
	r.rows[n.ID] = &clone
	return nil
}

func (r *fakeNotificationRepo) CreateBatch(notifications []models.Notification) error {
	for i := range notifications {
		if err := r.CreateNotification(&notifications[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.rows {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetByID(id uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.rows[id]; ok {
		clone := *n
		return &clone, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok {
		return nil
	}
	if !n.IsRead {
		n.IsRead = true
		readAt := at
		n.ReadAt = &readAt
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID uint, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			readAt := at
			n.ReadAt = &readAt
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteNotification(id uint, recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok || n.RecipientID != recipientID {
		return repositories.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeNotificationRepo) ClearAll(recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, n := range r.rows {
		if n.RecipientID == recipientID {
			delete(r.rows, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteReadBefore(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, n := range r.rows {
		if n.IsRead && n.ReadAt != nil && n.ReadAt.Before(cutoff) {
			delete(r.rows, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.rows {
		out = append(out, *n)
	}
	return out
}

func hasUint(list []uint, v uint) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func removeUint(list []uint, v uint) []uint {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
