package service

import (
	"strings"
	"testing"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newPostServiceForTest(postRepo *MockPostRepository, collaboratorRepo *MockCollaboratorRepository, broadcaster realtime.Broadcaster) *PostService {
	return NewPostService(postRepo, NewAccessService(collaboratorRepo), broadcaster)
}

func assertErrorCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	appErr, ok := err.(*errors.AppError)
	if assert.True(t, ok, "expected *errors.AppError, got %T", err) {
		assert.Equal(t, code, appErr.Code)
	}
}

func strPtr(s string) *string { return &s }

// TestCreateDraft 新草稿有ID、归创建者所有、状态为draft
func TestCreateDraft(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	postService := newPostServiceForTest(mockPosts, mockCollaborators, realtime.NoopBroadcaster{})

	mockPosts.On("Create", mock.AnythingOfType("*model.Post")).Return(nil)

	created, err := postService.CreateDraft(&model.Identity{ID: 7, Username: "ada"}, "My draft", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 7, created.AuthorID)
	assert.Equal(t, model.StatusDraft, created.Status)
	mockPosts.AssertExpectations(t)
}

// TestGetPostDraftGating 草稿只对作者和协作者可见，匿名访问者区分 401/403
func TestGetPostDraftGating(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	postService := newPostServiceForTest(mockPosts, mockCollaborators, realtime.NoopBroadcaster{})

	draft := &model.Post{ID: "d1", AuthorID: 1, Status: model.StatusDraft}
	mockPosts.On("FindByID", "d1").Return(draft, nil)

	// 匿名访问草稿
	_, err := postService.GetPost("d1", 0)
	assertErrorCode(t, err, errors.ErrUnauthorized)

	// 登录但没有授权
	mockCollaborators.On("Find", "d1", 9).Return((*model.Collaborator)(nil), nil)
	_, err = postService.GetPost("d1", 9)
	assertErrorCode(t, err, errors.ErrForbidden)

	// view 级别的协作者可以看
	mockCollaborators.On("Find", "d1", 2).Return(&model.Collaborator{
		PostID: "d1", UserID: 2, Permission: model.PermissionView,
	}, nil)
	got, err := postService.GetPost("d1", 2)
	assert.NoError(t, err)
	assert.Equal(t, "d1", got.ID)

	// 已发布的帖子匿名也能看
	published := &model.Post{ID: "p1", AuthorID: 1, Status: model.StatusPublished}
	mockPosts.On("FindByID", "p1").Return(published, nil)
	got, err = postService.GetPost("p1", 0)
	assert.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	// 不存在的帖子
	mockPosts.On("FindByID", "missing").Return((*model.Post)(nil), nil)
	_, err = postService.GetPost("missing", 1)
	assertErrorCode(t, err, errors.ErrPostNotFound)
}

// TestUpdateDraftPartialPatch 缺省字段保持原值，只有补丁里出现的字段下发到存储层
func TestUpdateDraftPartialPatch(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	broadcaster := &recordingBroadcaster{}
	postService := newPostServiceForTest(mockPosts, mockCollaborators, broadcaster)

	draft := &model.Post{ID: "d1", AuthorID: 1, Title: "old", Content: "body", Status: model.StatusDraft}
	updated := &model.Post{ID: "d1", AuthorID: 1, Title: "new", Content: "body", Status: model.StatusDraft}
	mockPosts.On("FindByID", "d1").Return(draft, nil).Once()
	mockPosts.On("UpdateFields", "d1", mock.MatchedBy(func(p *model.PostPatch) bool {
		return p.Title != nil && *p.Title == "new" && p.Content == nil && p.Tags == nil
	})).Return(nil)
	mockPosts.On("FindByID", "d1").Return(updated, nil).Once()

	got, err := postService.UpdateDraft("d1", &model.PostPatch{Title: strPtr("new")}, &model.Identity{ID: 1, Username: "ada"})
	assert.NoError(t, err)
	assert.Equal(t, "new", got.Title)

	// 没有标签字段时不应重写标签集合
	mockPosts.AssertNotCalled(t, "SetTags", mock.Anything, mock.Anything)

	// 房间里的其他编辑者收到 post-updated
	emits := broadcaster.emitsFor(realtime.EventPostUpdated)
	if assert.Len(t, emits, 1) {
		assert.Equal(t, "d1", emits[0].PostID)
	}
	mockPosts.AssertExpectations(t)
}

// TestUpdateDraftLastWriteWins 并发保存不做冲突检测，后写者直接胜出
func TestUpdateDraftLastWriteWins(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	postService := newPostServiceForTest(mockPosts, mockCollaborators, realtime.NoopBroadcaster{})

	draft := &model.Post{ID: "d1", AuthorID: 1, Content: "v0", Status: model.StatusDraft}
	mockPosts.On("FindByID", "d1").Return(draft, nil)
	mockPosts.On("UpdateFields", "d1", mock.Anything).Return(nil)

	// 两个编辑者基于同一个旧版本先后保存，都成功，没有版本冲突错误
	mockCollaborators.On("Find", "d1", 2).Return(&model.Collaborator{
		PostID: "d1", UserID: 2, Permission: model.PermissionEdit,
	}, nil)

	_, err := postService.UpdateDraft("d1", &model.PostPatch{Content: strPtr("v1")}, &model.Identity{ID: 1, Username: "ada"})
	assert.NoError(t, err)
	_, err = postService.UpdateDraft("d1", &model.PostPatch{Content: strPtr("v2")}, &model.Identity{ID: 2, Username: "ben"})
	assert.NoError(t, err)

	mockPosts.AssertNumberOfCalls(t, "UpdateFields", 2)
}

// TestUpdateDraftPermissions comment/view 级别不能保存；发布后协作者只读
func TestUpdateDraftPermissions(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	postService := newPostServiceForTest(mockPosts, mockCollaborators, realtime.NoopBroadcaster{})

	draft := &model.Post{ID: "d1", AuthorID: 1, Status: model.StatusDraft}
	mockPosts.On("FindByID", "d1").Return(draft, nil)

	mockCollaborators.On("Find", "d1", 3).Return(&model.Collaborator{
		PostID: "d1", UserID: 3, Permission: model.PermissionComment,
	}, nil)
	_, err := postService.UpdateDraft("d1", &model.PostPatch{Title: strPtr("x")}, &model.Identity{ID: 3})
	assertErrorCode(t, err, errors.ErrForbidden)

	// edit 协作者在帖子发布后不能再修改
	published := &model.Post{ID: "p1", AuthorID: 1, Status: model.StatusPublished}
	mockPosts.On("FindByID", "p1").Return(published, nil)
	mockCollaborators.On("Find", "p1", 2).Return(&model.Collaborator{
		PostID: "p1", UserID: 2, Permission: model.PermissionEdit,
	}, nil)
	_, err = postService.UpdateDraft("p1", &model.PostPatch{Title: strPtr("x")}, &model.Identity{ID: 2})
	assertErrorCode(t, err, errors.ErrForbidden)

	mockPosts.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

// TestUpdateDraftTagLimit 超过5个标签拒绝保存
func TestUpdateDraftTagLimit(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	postService := newPostServiceForTest(mockPosts, mockCollaborators, realtime.NoopBroadcaster{})

	draft := &model.Post{ID: "d1", AuthorID: 1, Status: model.StatusDraft}
	mockPosts.On("FindByID", "d1").Return(draft, nil)

	tags := []string{"a", "b", "c", "d", "e", "f"}
	_, err := postService.UpdateDraft("d1", &model.PostPatch{Tags: &tags}, &model.Identity{ID: 1})
	assertErrorCode(t, err, errors.ErrValidation)
	mockPosts.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

// TestPublishReadTime 400词→2分钟，1词→1分钟，空内容也是1分钟
func TestPublishReadTime(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		readTime int
	}{
		{"400词", strings.Repeat("word ", 400), 2},
		{"1词", "word", 1},
		{"空内容", "", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockPosts := new(MockPostRepository)
			mockCollaborators := new(MockCollaboratorRepository)
			postService := newPostServiceForTest(mockPosts, mockCollaborators, realtime.NoopBroadcaster{})

			draft := &model.Post{ID: "d1", AuthorID: 1, Content: tc.content, Status: model.StatusDraft}
			mockPosts.On("FindByID", "d1").Return(draft, nil)
			mockPosts.On("Publish", "d1", tc.readTime).Return(&model.Post{
				ID: "d1", AuthorID: 1, Status: model.StatusPublished, ReadTime: tc.readTime,
			}, nil)

			published, err := postService.Publish("d1", &model.Identity{ID: 1})
			assert.NoError(t, err)
			assert.Equal(t, model.StatusPublished, published.Status)
			mockPosts.AssertExpectations(t)
		})
	}
}

// TestRepublishRecomputes 重复发布不报错，按当前内容重新计算阅读时长
func TestRepublishRecomputes(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	postService := newPostServiceForTest(mockPosts, mockCollaborators, realtime.NoopBroadcaster{})

	// 已经是 published 状态，内容变长了
	post := &model.Post{ID: "p1", AuthorID: 1, Content: strings.Repeat("word ", 600), Status: model.StatusPublished, ReadTime: 1}
	mockPosts.On("FindByID", "p1").Return(post, nil)
	mockPosts.On("Publish", "p1", 3).Return(&model.Post{
		ID: "p1", AuthorID: 1, Status: model.StatusPublished, ReadTime: 3,
	}, nil)

	published, err := postService.Publish("p1", &model.Identity{ID: 1})
	assert.NoError(t, err)
	assert.Equal(t, 3, published.ReadTime)
	mockPosts.AssertExpectations(t)
}

// TestPublishAndDeleteAuthorOnly 协作者不能发布或删除，连 edit 级别也不行
func TestPublishAndDeleteAuthorOnly(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	postService := newPostServiceForTest(mockPosts, mockCollaborators, realtime.NoopBroadcaster{})

	draft := &model.Post{ID: "d1", AuthorID: 1, Status: model.StatusDraft}
	mockPosts.On("FindByID", "d1").Return(draft, nil)

	editor := &model.Identity{ID: 2, Username: "ben"}
	_, err := postService.Publish("d1", editor)
	assertErrorCode(t, err, errors.ErrForbidden)

	err = postService.Delete("d1", editor)
	assertErrorCode(t, err, errors.ErrForbidden)

	mockPosts.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	mockPosts.AssertNotCalled(t, "Delete", mock.Anything)

	// 作者可以删除
	mockPosts.On("Delete", "d1").Return(nil)
	err = postService.Delete("d1", &model.Identity{ID: 1})
	assert.NoError(t, err)
	mockPosts.AssertExpectations(t)
}
