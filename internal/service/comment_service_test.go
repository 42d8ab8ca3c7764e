package service

import (
	"testing"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCommentServiceForTest(
	mockComments *MockCommentRepository,
	mockPosts *MockPostRepository,
	mockCollaborators *MockCollaboratorRepository,
	mockNotifications *MockNotificationRepository,
	broadcaster realtime.Broadcaster,
) *CommentService {
	return NewCommentService(
		mockComments,
		mockPosts,
		NewNotificationService(mockNotifications, mockCollaborators),
		NewAccessService(mockCollaborators),
		broadcaster,
	)
}

// TestAddComment 协作者评论：落库、推入帖子房间、通知作者
func TestAddComment(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	mockNotifications := new(MockNotificationRepository)
	broadcaster := &recordingBroadcaster{}
	commentService := newCommentServiceForTest(mockComments, mockPosts, mockCollaborators, mockNotifications, broadcaster)

	draft := &model.Post{ID: "d1", AuthorID: 1, Title: "Draft", Status: model.StatusDraft}
	mockPosts.On("FindByID", "d1").Return(draft, nil)
	mockCollaborators.On("Find", "d1", 2).Return(&model.Collaborator{
		PostID: "d1", UserID: 2, Permission: model.PermissionComment,
	}, nil)
	mockComments.On("Create", mock.AnythingOfType("*model.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*model.Comment).ID = 11
	}).Return(nil)
	mockComments.On("FindByID", 11).Return(&model.Comment{
		ID: 11, PostID: "d1", UserID: 2, Content: "nice", Username: "ben",
	}, nil)
	mockNotifications.On("Create", mock.MatchedBy(func(n *model.Notification) bool {
		return n.UserID == 1 && n.Type == model.NotificationComment
	})).Return(nil)

	created, err := commentService.AddComment("d1", &model.Identity{ID: 2, Username: "ben"}, "nice")
	assert.NoError(t, err)
	assert.Equal(t, "ben", created.Username)

	assert.Len(t, broadcaster.emitsFor(realtime.EventNewComment), 1)
	userEmits := broadcaster.emitsFor(realtime.EventNewNotification)
	if assert.Len(t, userEmits, 1) {
		assert.Equal(t, 1, userEmits[0].UserID)
	}
	mockNotifications.AssertExpectations(t)
}

// TestAddCommentByAuthorNoSelfNotification 作者评论自己的草稿不产生通知
func TestAddCommentByAuthorNoSelfNotification(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	mockNotifications := new(MockNotificationRepository)
	broadcaster := &recordingBroadcaster{}
	commentService := newCommentServiceForTest(mockComments, mockPosts, mockCollaborators, mockNotifications, broadcaster)

	draft := &model.Post{ID: "d1", AuthorID: 1, Status: model.StatusDraft}
	mockPosts.On("FindByID", "d1").Return(draft, nil)
	mockComments.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		args.Get(0).(*model.Comment).ID = 12
	}).Return(nil)
	mockComments.On("FindByID", 12).Return(&model.Comment{ID: 12, PostID: "d1", UserID: 1, Content: "note"}, nil)

	_, err := commentService.AddComment("d1", &model.Identity{ID: 1, Username: "ada"}, "note")
	assert.NoError(t, err)
	mockNotifications.AssertNotCalled(t, "Create", mock.Anything)
	assert.Empty(t, broadcaster.emitsFor(realtime.EventNewNotification))
}

// TestAddCommentValidation 空白内容拒绝；view 级别不能评论草稿
func TestAddCommentValidation(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	mockNotifications := new(MockNotificationRepository)
	commentService := newCommentServiceForTest(mockComments, mockPosts, mockCollaborators, mockNotifications, &recordingBroadcaster{})

	_, err := commentService.AddComment("d1", &model.Identity{ID: 2}, "   \n\t ")
	assertErrorCode(t, err, errors.ErrValidation)

	draft := &model.Post{ID: "d1", AuthorID: 1, Status: model.StatusDraft}
	mockPosts.On("FindByID", "d1").Return(draft, nil)
	mockCollaborators.On("Find", "d1", 3).Return(&model.Collaborator{
		PostID: "d1", UserID: 3, Permission: model.PermissionView,
	}, nil)
	_, err = commentService.AddComment("d1", &model.Identity{ID: 3}, "hi")
	assertErrorCode(t, err, errors.ErrForbidden)

	mockComments.AssertNotCalled(t, "Create", mock.Anything)
}

// TestListCommentsVisibilityAsymmetry 作者看到全部，协作者只看到自己的
// 这是草稿评审的私密反馈通道，两个协作者彼此看不到对方的评论
func TestListCommentsVisibilityAsymmetry(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	mockNotifications := new(MockNotificationRepository)
	commentService := newCommentServiceForTest(mockComments, mockPosts, mockCollaborators, mockNotifications, &recordingBroadcaster{})

	draft := &model.Post{ID: "d1", AuthorID: 1, Status: model.StatusDraft}
	mockPosts.On("FindByID", "d1").Return(draft, nil)

	all := []*model.Comment{
		{ID: 2, PostID: "d1", UserID: 3, Content: "from c2"},
		{ID: 1, PostID: "d1", UserID: 2, Content: "from c1"},
	}
	mockComments.On("ListByPost", "d1").Return(all, nil)
	mockComments.On("ListByPostAndUser", "d1", 2).Return(all[1:], nil)
	mockComments.On("ListByPostAndUser", "d1", 3).Return(all[:1], nil)

	mockCollaborators.On("Find", "d1", 2).Return(&model.Collaborator{PostID: "d1", UserID: 2, Permission: model.PermissionComment}, nil)
	mockCollaborators.On("Find", "d1", 3).Return(&model.Collaborator{PostID: "d1", UserID: 3, Permission: model.PermissionEdit}, nil)

	// 作者看到两条
	comments, err := commentService.ListComments("d1", 1)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)

	// 协作者各自只看到自己的
	comments, err = commentService.ListComments("d1", 2)
	assert.NoError(t, err)
	if assert.Len(t, comments, 1) {
		assert.Equal(t, 2, comments[0].UserID)
	}
	comments, err = commentService.ListComments("d1", 3)
	assert.NoError(t, err)
	if assert.Len(t, comments, 1) {
		assert.Equal(t, 3, comments[0].UserID)
	}

	// 匿名不能读草稿评论
	_, err = commentService.ListComments("d1", 0)
	assertErrorCode(t, err, errors.ErrUnauthorized)

	// 发布后评论对所有人可见
	published := &model.Post{ID: "p1", AuthorID: 1, Status: model.StatusPublished}
	mockPosts.On("FindByID", "p1").Return(published, nil)
	mockComments.On("ListByPost", "p1").Return(all, nil)
	comments, err = commentService.ListComments("p1", 0)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
}

// TestDeleteComment 评论作者和帖子作者可删，其他人 403
func TestDeleteComment(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	mockNotifications := new(MockNotificationRepository)
	commentService := newCommentServiceForTest(mockComments, mockPosts, mockCollaborators, mockNotifications, &recordingBroadcaster{})

	comment := &model.Comment{ID: 5, PostID: "d1", UserID: 2}
	post := &model.Post{ID: "d1", AuthorID: 1, Status: model.StatusDraft}
	mockComments.On("FindByID", 5).Return(comment, nil)
	mockPosts.On("FindByID", "d1").Return(post, nil)

	// 无关用户
	err := commentService.DeleteComment(5, &model.Identity{ID: 3})
	assertErrorCode(t, err, errors.ErrForbidden)

	// 评论作者
	mockComments.On("Delete", 5).Return(nil).Once()
	assert.NoError(t, commentService.DeleteComment(5, &model.Identity{ID: 2}))

	// 帖子作者
	mockComments.On("Delete", 5).Return(nil).Once()
	assert.NoError(t, commentService.DeleteComment(5, &model.Identity{ID: 1}))

	mockComments.AssertExpectations(t)
}
