package service

import (
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/repository/interfaces"
)

// AccessService 解析用户对某篇帖子的权限级别
// 纯查询，不产生副作用；查不到授权时返回 none，由调用方翻译成 403
type AccessService struct {
	collaboratorRepo interfaces.CollaboratorRepository
}

func NewAccessService(collaboratorRepo interfaces.CollaboratorRepository) *AccessService {
	return &AccessService{collaboratorRepo}
}

// ResolvePermission 返回 author / edit / comment / view / none
func (s *AccessService) ResolvePermission(post *model.Post, userID int) (model.Permission, error) {
	if post.AuthorID == userID {
		return model.PermissionAuthor, nil
	}

	collaborator, err := s.collaboratorRepo.Find(post.ID, userID)
	if err != nil {
		return model.PermissionNone, err
	}
	if collaborator == nil {
		return model.PermissionNone, nil
	}
	return collaborator.Permission, nil
}

// CanEdit 判断能否修改草稿内容
func CanEdit(permission model.Permission) bool {
	return permission == model.PermissionAuthor || permission == model.PermissionEdit
}

// CanComment 判断能否评论
// 已发布的帖子对所有登录用户开放评论；草稿要求 author/edit/comment
func CanComment(post *model.Post, permission model.Permission) bool {
	if permission == model.PermissionAuthor {
		return true
	}
	if post.Status == model.StatusPublished {
		return true
	}
	return permission == model.PermissionEdit || permission == model.PermissionComment
}

// CanView 判断能否查看
// 已发布的帖子是公开的；草稿要求任意级别的授权
func CanView(post *model.Post, permission model.Permission) bool {
	if post.Status == model.StatusPublished {
		return true
	}
	return permission != model.PermissionNone
}
