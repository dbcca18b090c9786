// Package seed populates development databases with fake data.
package seed

import (
	"fmt"
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"commons/internal/models"
)

const demoUserCount = 25

var reactionTypes = []models.ReactionType{
	models.ReactionLike, models.ReactionLove, models.ReactionHaha,
	models.ReactionWow, models.ReactionSad, models.ReactionAngry,
}

// Identity seeds the identity database with demo users and friend requests.
// It is idempotent: an already-seeded database is left alone.
func Identity(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// One shared password keeps demo logins predictable
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := make([]models.User, 0, demoUserCount)
	for i := 0; i < demoUserCount; i++ {
		users = append(users, models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password: string(hash),
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	var requests []models.FriendRequest
	for i := range users {
		for j := i + 1; j < len(users); j++ {
			if !gofakeit.Bool() {
				continue
			}
			requests = append(requests, models.FriendRequest{
				SenderID:   users[i].ID,
				ReceiverID: users[j].ID,
				Status:     models.FriendRequestPending,
			})
		}
	}
	if len(requests) > 0 {
		if err := db.Create(&requests).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d demo users and %d friend requests", len(users), len(requests))
	return nil
}

// Content seeds the content database with demo posts and comments.
func Content(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Post{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var posts []models.Post
	for i := 0; i < 40; i++ {
		posts = append(posts, models.Post{
			Content: gofakeit.Sentence(12) + " #" + gofakeit.Word(),
			UserID:  uint(gofakeit.Number(1, demoUserCount)),
		})
	}
	if err := db.Create(&posts).Error; err != nil {
		return err
	}

	var comments []models.Comment
	for _, post := range posts {
		for i := 0; i < gofakeit.Number(0, 5); i++ {
			comments = append(comments, models.Comment{
				Content: gofakeit.Sentence(8),
				UserID:  uint(gofakeit.Number(1, demoUserCount)),
				PostID:  post.ID,
			})
		}
	}
	if len(comments) > 0 {
		if err := db.Create(&comments).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d demo posts and %d comments", len(posts), len(comments))
	return nil
}

// Reactions seeds the reactions database with demo reactions. Target ids are
// drawn from the ranges Content seeds, so counts line up after a recalculate.
func Reactions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Reaction{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seen := make(map[string]bool)
	var reactions []models.Reaction
	for i := 0; i < 200; i++ {
		userID := uint(gofakeit.Number(1, demoUserCount))
		targetID := uint(gofakeit.Number(1, 40))
		targetType := models.TargetPost
		if gofakeit.Bool() {
			targetType = models.TargetComment
		}

		key := fmt.Sprintf("%d/%d/%s", userID, targetID, targetType)
		if seen[key] {
			continue
		}
		seen[key] = true

		reactions = append(reactions, models.Reaction{
			UserID:       userID,
			TargetID:     targetID,
			TargetType:   targetType,
			ReactionType: reactionTypes[gofakeit.Number(0, len(reactionTypes)-1)],
		})
	}
	if err := db.Create(&reactions).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d demo reactions", len(reactions))
	return nil
}
