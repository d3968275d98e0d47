package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"blogd/internal/auth"
	"blogd/internal/config"
	"blogd/internal/models"
	"blogd/internal/store"
)

type seedFile struct {
	Users []seedUser `yaml:"users"`
	Posts []seedPost `yaml:"posts"`
}

type seedUser struct {
	UserName      string `yaml:"user_name"`
	Email         string `yaml:"email"`
	Password      string `yaml:"password"`
	ProfilePicKey string `yaml:"profile_pic_key"`
	IsAdmin       bool   `yaml:"is_admin"`
}

type seedPost struct {
	Title       string        `yaml:"title"`
	Content     string        `yaml:"content"`
	Author      string        `yaml:"author"`
	AuthorEmail string        `yaml:"author_email"`
	ImageKey    string        `yaml:"image_key"`
	Comments    []seedComment `yaml:"comments"`
}

type seedComment struct {
	AuthorEmail string `yaml:"author_email"`
	Text        string `yaml:"text"`
}

func newSeedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixtures.yaml>",
		Short: "Load users, posts, and comments from a YAML fixture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil || cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var fixtures seedFile
			if err := yaml.Unmarshal(raw, &fixtures); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			created, err := seedUsers(cmd.Context(), st, fixtures.Users)
			if err != nil {
				return err
			}
			postCount, commentCount, err := seedPosts(cmd.Context(), st, fixtures.Posts)
			if err != nil {
				return err
			}

			cmd.Printf("seeded %d users, %d posts, %d comments\n", created, postCount, commentCount)
			return nil
		},
	}
}

func seedUsers(ctx context.Context, st *store.Store, users []seedUser) (int, error) {
	created := 0
	for _, entry := range users {
		if err := auth.ValidateEmail(entry.Email); err != nil {
			return created, fmt.Errorf("user %q: %w", entry.UserName, err)
		}
		existing, err := st.GetUserByEmail(ctx, entry.Email)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}

		passwordHash, err := auth.HashPassword(entry.Password)
		if err != nil {
			return created, err
		}
		id, err := store.GenerateUserID(st.UserExists)
		if err != nil {
			return created, err
		}
		// Every account carries a profile picture key; fixtures without
		// one get a placeholder so seeded users can post and comment.
		picKey := entry.ProfilePicKey
		if picKey == "" {
			picKey = "images/seed_" + id + ".png"
		}
		user := &models.User{
			ID:            id,
			UserName:      entry.UserName,
			Email:         entry.Email,
			PasswordHash:  passwordHash,
			ProfilePicKey: picKey,
			IsAdmin:       entry.IsAdmin,
			CreatedAt:     time.Now().UTC(),
		}
		if err := st.CreateUser(ctx, user); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func seedPosts(ctx context.Context, st *store.Store, posts []seedPost) (int, int, error) {
	postCount := 0
	commentCount := 0
	for _, entry := range posts {
		author, err := seedAuthor(ctx, st, entry.AuthorEmail)
		if err != nil {
			return postCount, commentCount, fmt.Errorf("post %q: %w", entry.Title, err)
		}

		id, err := store.GeneratePostID(st.PostExists)
		if err != nil {
			return postCount, commentCount, err
		}
		byline := entry.Author
		if byline == "" {
			byline = author.UserName
		}
		post := &models.Post{
			ID:        id,
			User:      author.Snapshot(),
			Title:     entry.Title,
			Content:   entry.Content,
			Author:    byline,
			ImageKey:  entry.ImageKey,
			CreatedAt: time.Now().UTC(),
		}
		if err := st.CreatePost(ctx, post); err != nil {
			return postCount, commentCount, err
		}
		postCount++

		for _, c := range entry.Comments {
			commenter, err := seedAuthor(ctx, st, c.AuthorEmail)
			if err != nil {
				return postCount, commentCount, fmt.Errorf("comment on %q: %w", entry.Title, err)
			}
			commentID, err := store.GenerateCommentID(st.CommentExists)
			if err != nil {
				return postCount, commentCount, err
			}
			comment := &models.Comment{
				ID:        commentID,
				User:      commenter.Snapshot(),
				Text:      c.Text,
				CreatedAt: time.Now().UTC(),
			}
			if err := st.AddComment(ctx, post.ID, comment); err != nil {
				return postCount, commentCount, err
			}
			commentCount++
		}
	}
	return postCount, commentCount, nil
}

func seedAuthor(ctx context.Context, st *store.Store, email string) (*models.User, error) {
	user, err := st.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("no seeded account with email %q", email)
	}
	return user, nil
}
