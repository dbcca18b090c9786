package server

import (
	"github.com/gofiber/fiber/v2"

	"commons/internal/models"
	"commons/internal/service"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup registers a new account and returns the user with a fresh token.
func (s *IdentityServer) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.userService.Signup(c.UserContext(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Login authenticates by username or email.
func (s *IdentityServer) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.userService.Login(c.UserContext(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetMyProfile returns the authenticated user's profile.
func (s *IdentityServer) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile returns another user's profile.
func (s *IdentityServer) GetUserProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUser(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// SearchUsers finds users by username fragment.
func (s *IdentityServer) SearchUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	users, err := s.userService.SearchUsers(c.UserContext(), c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// SendFriendRequest sends a friend request to another user.
func (s *IdentityServer) SendFriendRequest(c *fiber.Ctx) error {
	receiverID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	request, err := s.friendService.SendRequest(c.UserContext(), currentUserID(c), receiverID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetPendingRequests lists incoming pending friend requests.
func (s *IdentityServer) GetPendingRequests(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	requests, err := s.friendService.ListIncoming(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// GetSentRequests lists outgoing pending friend requests.
func (s *IdentityServer) GetSentRequests(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	requests, err := s.friendService.ListOutgoing(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// AcceptFriendRequest accepts an incoming request.
func (s *IdentityServer) AcceptFriendRequest(c *fiber.Ctx) error {
	requestID, err := parseID(c, "requestId")
	if err != nil {
		return nil
	}
	request, err := s.friendService.AcceptRequest(c.UserContext(), requestID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(request)
}

// RejectFriendRequest rejects an incoming request.
func (s *IdentityServer) RejectFriendRequest(c *fiber.Ctx) error {
	requestID, err := parseID(c, "requestId")
	if err != nil {
		return nil
	}
	request, err := s.friendService.RejectRequest(c.UserContext(), requestID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(request)
}

// CancelFriendRequest withdraws an outgoing pending request.
func (s *IdentityServer) CancelFriendRequest(c *fiber.Ctx) error {
	requestID, err := parseID(c, "requestId")
	if err != nil {
		return nil
	}
	if err := s.friendService.CancelRequest(c.UserContext(), requestID, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type blockUserRequest struct {
	Reason string `json:"reason"`
}

// BlockUser marks an account as blocked. Reached only by the reactions
// orchestrator with a verified admin token.
func (s *IdentityServer) BlockUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req blockUserRequest
	_ = c.BodyParser(&req)
	if req.Reason == "" {
		req.Reason = "blocked by administrator"
	}

	if err := s.userService.BlockUser(c.UserContext(), currentUserID(c), userID, req.Reason); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "user blocked"})
}

// UnblockUser lifts a block.
func (s *IdentityServer) UnblockUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.UnblockUser(c.UserContext(), currentUserID(c), userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "user unblocked"})
}
