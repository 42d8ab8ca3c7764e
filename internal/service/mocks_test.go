package service

import (
	"sync"

	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/repository/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockPostRepository 是 PostRepository 的模拟实现
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(id string) (*model.Post, error) {
	args := m.Called(id)
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) UpdateFields(id string, patch *model.PostPatch) error {
	args := m.Called(id, patch)
	return args.Error(0)
}

func (m *MockPostRepository) Publish(id string, readTime int) (*model.Post, error) {
	args := m.Called(id, readTime)
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) ListPublished(limit, offset int) ([]*model.Post, int, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]*model.Post), args.Int(1), args.Error(2)
}

func (m *MockPostRepository) ListPublishedByAuthor(userID int) ([]*model.Post, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) ListDraftsByAuthor(userID int) ([]*model.Post, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) ListSharedWith(userID int) ([]*model.Post, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) CountByAuthor(userID int) (*model.PostCounts, error) {
	args := m.Called(userID)
	return args.Get(0).(*model.PostCounts), args.Error(1)
}

func (m *MockPostRepository) SetTags(postID string, tags []string) error {
	args := m.Called(postID, tags)
	return args.Error(0)
}

func (m *MockPostRepository) GetTags(postID string) ([]string, error) {
	args := m.Called(postID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPostRepository) Search(text string, tags []string) ([]*model.Post, error) {
	args := m.Called(text, tags)
	return args.Get(0).([]*model.Post), args.Error(1)
}

var _ interfaces.PostRepository = (*MockPostRepository)(nil)

// MockCollaboratorRepository 是 CollaboratorRepository 的模拟实现
type MockCollaboratorRepository struct {
	mock.Mock
}

func (m *MockCollaboratorRepository) Find(postID string, userID int) (*model.Collaborator, error) {
	args := m.Called(postID, userID)
	return args.Get(0).(*model.Collaborator), args.Error(1)
}

func (m *MockCollaboratorRepository) Upsert(collaborator *model.Collaborator) error {
	args := m.Called(collaborator)
	return args.Error(0)
}

func (m *MockCollaboratorRepository) ListByPost(postID string) ([]*model.Collaborator, error) {
	args := m.Called(postID)
	return args.Get(0).([]*model.Collaborator), args.Error(1)
}

func (m *MockCollaboratorRepository) Delete(postID string, userID int) error {
	args := m.Called(postID, userID)
	return args.Error(0)
}

func (m *MockCollaboratorRepository) CountUnviewed(userID int) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCollaboratorRepository) MarkViewed(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

var _ interfaces.CollaboratorRepository = (*MockCollaboratorRepository)(nil)

// MockCommentRepository 是 CommentRepository 的模拟实现
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByID(id int) (*model.Comment, error) {
	args := m.Called(id)
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(postID string) ([]*model.Comment, error) {
	args := m.Called(postID)
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPostAndUser(postID string, userID int) ([]*model.Comment, error) {
	args := m.Called(postID, userID)
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

var _ interfaces.CommentRepository = (*MockCommentRepository)(nil)

// MockNotificationRepository 是 NotificationRepository 的模拟实现
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(notification *model.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(userID, limit int) ([]*model.Notification, error) {
	args := m.Called(userID, limit)
	return args.Get(0).([]*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(userID int) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(userID, notificationID int) error {
	args := m.Called(userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkReadByPost(userID int, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

var _ interfaces.NotificationRepository = (*MockNotificationRepository)(nil)

// MockUserRepository 是 UserRepository 的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id int) (*model.User, error) {
	args := m.Called(id)
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

var _ interfaces.UserRepository = (*MockUserRepository)(nil)

// MockEngagementRepository 是 EngagementRepository 的模拟实现
type MockEngagementRepository struct {
	mock.Mock
}

func (m *MockEngagementRepository) CreateLike(userID int, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEngagementRepository) DeleteLike(userID int, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEngagementRepository) CountLikes(postID string) (int, error) {
	args := m.Called(postID)
	return args.Int(0), args.Error(1)
}

func (m *MockEngagementRepository) IsLiked(userID int, postID string) (bool, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) CreateBookmark(userID int, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEngagementRepository) DeleteBookmark(userID int, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEngagementRepository) ListBookmarked(userID int) ([]*model.Post, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockEngagementRepository) CreateFollow(followerID, followedID int) error {
	args := m.Called(followerID, followedID)
	return args.Error(0)
}

func (m *MockEngagementRepository) DeleteFollow(followerID, followedID int) error {
	args := m.Called(followerID, followedID)
	return args.Error(0)
}

func (m *MockEngagementRepository) ListFollowers(userID int) ([]*model.User, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockEngagementRepository) ListFollowing(userID int) ([]*model.User, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockEngagementRepository) IsFollowing(followerID, followedID int) (bool, error) {
	args := m.Called(followerID, followedID)
	return args.Bool(0), args.Error(1)
}

var _ interfaces.EngagementRepository = (*MockEngagementRepository)(nil)

// recordedEmit 记录一次实时推送，推给了谁、什么事件
type recordedEmit struct {
	Target  string
	UserID  int
	PostID  string
	Event   string
	Payload interface{}
}

// recordingBroadcaster 在测试里替代 WebSocket 中心，记住所有推送
type recordingBroadcaster struct {
	mu    sync.Mutex
	Emits []recordedEmit
}

func (b *recordingBroadcaster) EmitToUser(userID int, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Emits = append(b.Emits, recordedEmit{Target: "user", UserID: userID, Event: event, Payload: payload})
}

func (b *recordingBroadcaster) EmitToPost(postID string, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Emits = append(b.Emits, recordedEmit{Target: "post", PostID: postID, Event: event, Payload: payload})
}

func (b *recordingBroadcaster) emitsFor(event string) []recordedEmit {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []recordedEmit
	for _, e := range b.Emits {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
