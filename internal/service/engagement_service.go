package service

import (
	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/repository/interfaces"
)

// EngagementService 处理点赞、收藏和关注
// 点赞/收藏的重复插入是幂等的，由存储层唯一约束保证
type EngagementService struct {
	engagementRepo interfaces.EngagementRepository
	postRepo       interfaces.PostRepository
}

func NewEngagementService(engagementRepo interfaces.EngagementRepository, postRepo interfaces.PostRepository) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		postRepo:       postRepo,
	}
}

func (s *EngagementService) LikePost(userID int, postID string) error {
	if err := s.ensurePostExists(postID); err != nil {
		return err
	}
	return s.engagementRepo.CreateLike(userID, postID)
}

func (s *EngagementService) UnlikePost(userID int, postID string) error {
	return s.engagementRepo.DeleteLike(userID, postID)
}

func (s *EngagementService) LikeCount(postID string) (int, error) {
	return s.engagementRepo.CountLikes(postID)
}

func (s *EngagementService) HasLiked(userID int, postID string) (bool, error) {
	return s.engagementRepo.IsLiked(userID, postID)
}

func (s *EngagementService) BookmarkPost(userID int, postID string) error {
	if err := s.ensurePostExists(postID); err != nil {
		return err
	}
	return s.engagementRepo.CreateBookmark(userID, postID)
}

func (s *EngagementService) UnbookmarkPost(userID int, postID string) error {
	return s.engagementRepo.DeleteBookmark(userID, postID)
}

func (s *EngagementService) ListBookmarked(userID int) ([]*model.Post, error) {
	return s.engagementRepo.ListBookmarked(userID)
}

// FollowUser 关注用户，不能关注自己
func (s *EngagementService) FollowUser(followerID, followedID int) error {
	if followerID == followedID {
		return errors.New(errors.ErrValidation, "不能关注自己")
	}
	return s.engagementRepo.CreateFollow(followerID, followedID)
}

func (s *EngagementService) UnfollowUser(followerID, followedID int) error {
	return s.engagementRepo.DeleteFollow(followerID, followedID)
}

func (s *EngagementService) ListFollowers(userID int) ([]*model.User, error) {
	return s.engagementRepo.ListFollowers(userID)
}

func (s *EngagementService) ListFollowing(userID int) ([]*model.User, error) {
	return s.engagementRepo.ListFollowing(userID)
}

func (s *EngagementService) IsFollowing(followerID, followedID int) (bool, error) {
	return s.engagementRepo.IsFollowing(followerID, followedID)
}

func (s *EngagementService) ensurePostExists(postID string) error {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	return nil
}
