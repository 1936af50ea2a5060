package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ehub-dev/learning-hub/internal/config"
	"github.com/ehub-dev/learning-hub/internal/repository"
	"github.com/ehub-dev/learning-hub/internal/service"
	"github.com/ehub-dev/learning-hub/pkg/database"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// hubctl is the operator back door: it drives the identity store and course
// catalog directly, with no policy engine in between. Running it at all is
// the trust boundary.

type cliEnv struct {
	courses repository.CourseRepository
	auth    service.AuthService
}

func newEnv() (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db := database.Connect()
	userRepo := repository.NewUserRepository(db)

	return &cliEnv{
		courses: repository.NewCourseRepository(db),
		auth:    service.NewAuthService(userRepo, cfg.JWTSecret, nil, 0),
	}, nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hubctl",
		Short:         "ADMIN | CLI for Admins only",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSuperCmd(),
		newCreateUserCmd(),
		newDeleteUserCmd(),
		newGroupUserCmd(),
		newResetGroupCmd(),
		newListCoursesCmd(),
	)

	return rootCmd
}

func newSuperCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "super",
		Short: "Create a superuser",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}

			username, err := promptLine("Username")
			if err != nil {
				return err
			}
			emailStr, err := promptLine("Email (optional)")
			if err != nil {
				return err
			}
			password, password2, err := promptPasswordPair()
			if err != nil {
				return err
			}

			if password != password2 {
				return fmt.Errorf("passwords do not match")
			}

			var email *string
			if emailStr != "" {
				email = &emailStr
			}

			user, err := env.auth.CreateSuperuser(context.Background(), username, email, password)
			if err != nil {
				return err
			}

			fmt.Printf("SuperUser %s created successfully\n", user.Username)
			return nil
		},
	}
}

func newCreateUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-user",
		Short: "Create a regular user (no default group)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}

			username, err := promptLine("Username")
			if err != nil {
				return err
			}
			password, password2, err := promptPasswordPair()
			if err != nil {
				return err
			}

			if password != password2 {
				return fmt.Errorf("passwords do not match")
			}

			user, err := env.auth.CreateUser(context.Background(), username, password)
			if err != nil {
				return err
			}

			fmt.Printf("User %s created successfully\n", user.Username)
			return nil
		},
	}
}

func newDeleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <username>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			ok, err := confirm(fmt.Sprintf("Delete user %s?", username))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted")
				return nil
			}

			env, err := newEnv()
			if err != nil {
				return err
			}

			if err := env.auth.DeleteUser(context.Background(), username); err != nil {
				return err
			}

			fmt.Printf("User %s deleted\n", username)
			return nil
		},
	}
}

func newGroupUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "group-user <username> <group>",
		Short: "Set a group on a user (replaces existing groups)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}

			username, groupName := args[0], args[1]

			created, err := env.auth.SetGroup(context.Background(), username, groupName)
			if err != nil {
				return err
			}

			if created {
				fmt.Printf("Created new group: %s\n", groupName)
			}
			fmt.Printf("Added %s to %s group\n", username, groupName)
			return nil
		},
	}
}

func newResetGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-group <username>",
		Short: "Remove all groups from a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}

			username := args[0]

			if err := env.auth.ClearGroups(context.Background(), username); err != nil {
				return err
			}

			fmt.Printf("Removed all groups from %s\n", username)
			return nil
		},
	}
}

func newListCoursesCmd() *cobra.Command {
	var short, long, save bool

	cmd := &cobra.Command{
		Use:   "list-courses",
		Short: "List courses of E-HUB",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}

			courses, err := env.courses.FindAll(context.Background(), "")
			if err != nil {
				return err
			}

			if len(courses) == 0 {
				fmt.Println("No courses found")
				return nil
			}

			if short && !long {
				fmt.Println("\nCourses available at E-HUB")
				fmt.Println(strings.Repeat("-", 75))
				fmt.Printf("%-50s | %-18s\n", "Title", "School")
				fmt.Println(strings.Repeat("-", 75))
				for _, c := range courses {
					fmt.Printf("%-50s | %-18s\n", c.Title, c.SchoolName)
				}
			} else {
				fmt.Println("\nCourses available at E-HUB")
				fmt.Println(strings.Repeat("-", 120))
				fmt.Printf("%-5s | %-50s | %-18s | %-18s | %-8s\n", "ID", "Title", "Category", "School", "Price")
				fmt.Println(strings.Repeat("-", 120))
				for _, c := range courses {
					fmt.Printf("%-5d | %-50s | %-18s | %-18s | %-8s\n", c.ID, c.Title, c.Category, c.SchoolName, c.Price.StringFixed(2))
				}
			}

			if save {
				filename := fmt.Sprintf("%s_list_course.json", time.Now().Format("2006-01-02T15-04-05"))

				type courseExport struct {
					ID             uint    `json:"id"`
					Title          string  `json:"title"`
					Category       string  `json:"category"`
					School         string  `json:"school"`
					Description    string  `json:"description"`
					Price          float64 `json:"price"`
					AvailableUntil string  `json:"available_until"`
					PostDate       string  `json:"post_date"`
					User           string  `json:"user"`
					Author         string  `json:"author"`
				}

				exports := make([]courseExport, 0, len(courses))
				for _, c := range courses {
					owner := ""
					if c.Owner != nil {
						owner = c.Owner.Username
					}
					price, _ := c.Price.Float64()
					exports = append(exports, courseExport{
						ID:             c.ID,
						Title:          c.Title,
						Category:       c.Category,
						School:         c.SchoolName,
						Description:    c.Description,
						Price:          price,
						AvailableUntil: c.AvailableUntil.String(),
						PostDate:       c.PostDate.Format(time.RFC3339),
						User:           owner,
						Author:         c.Author,
					})
				}

				data, err := json.MarshalIndent(exports, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(filename, data, 0o644); err != nil {
					return err
				}

				fmt.Printf("Json saved to: %s\n", filename)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "compact title/school listing")
	cmd.Flags().BoolVar(&long, "long", false, "full listing")
	cmd.Flags().BoolVar(&save, "save", false, "export the listing to a JSON file")
	return cmd
}

func promptLine(prompt string) (string, error) {
	fmt.Printf("%s: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Printf("%s: ", prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func promptPasswordPair() (string, string, error) {
	password, err := promptPassword("Password")
	if err != nil {
		return "", "", err
	}
	password2, err := promptPassword("Confirm Password")
	if err != nil {
		return "", "", err
	}
	return password, password2, nil
}

func confirm(prompt string) (bool, error) {
	answer, err := promptLine(prompt + " [y/N]")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
