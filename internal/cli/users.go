package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mmeshcher/atelier/internal/model"
	"github.com/mmeshcher/atelier/internal/userclient"
)

func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users through the users API",
	}

	cmd.AddCommand(
		newUsersListCommand(a),
		newUsersGetCommand(a),
		newUsersSearchCommand(a),
		newUsersCreateCommand(a),
		newUsersUpdateCommand(a),
		newUsersDeleteCommand(a),
	)
	return cmd
}

func newUsersListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				users []model.User
				err   error
			)
			if a.token != "" {
				users, err = a.client.ListWithAuth(cmd.Context(), a.token)
			} else {
				users, err = a.client.List(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	}
}

// Все запросы уходят одновременно. Первая ошибка отменяет остальные, не дожидаясь их.
func newUsersGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>...",
		Short: "Fetch one or more users by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			pending := make([]*userclient.Pending[*model.User], 0, len(ids))
			for _, id := range ids {
				id := id
				pending = append(pending, userclient.Go(cmd.Context(), func(ctx context.Context) (*model.User, error) {
					return a.client.Get(ctx, id)
				}))
			}

			fetched, failed, err := userclient.WaitAll(pending)
			if err != nil {
				return fmt.Errorf("get user %d: %w", ids[failed], err)
			}

			users := make([]model.User, 0, len(fetched))
			for i, u := range fetched {
				a.logger.Debug("user fetched", zap.Int64("id", ids[i]))
				users = append(users, *u)
			}

			if len(users) == 1 {
				return printJSON(cmd.OutOrStdout(), users[0])
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	}
}

func newUsersSearchCommand(a *app) *cobra.Command {
	var (
		name string
		age  int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search users by name and age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.client.Search(cmd.Context(), name, age)
			if err != nil {
				return fmt.Errorf("search users: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name to search for")
	cmd.Flags().IntVar(&age, "age", 0, "exact age; 0 means any")
	return cmd
}

func userFlags(cmd *cobra.Command, u *model.User) {
	cmd.Flags().StringVar(&u.Name, "name", "", "user name")
	cmd.Flags().StringVar(&u.Email, "email", "", "user email")
	cmd.Flags().IntVar(&u.Age, "age", 0, "user age")
}

func newUsersCreateCommand(a *app) *cobra.Command {
	var u model.User

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := a.client.Create(cmd.Context(), u)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}

	userFlags(cmd, &u)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUsersUpdateCommand(a *app) *cobra.Command {
	var u model.User

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a user's data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			updated, err := a.client.Update(cmd.Context(), id, u)
			if err != nil {
				return fmt.Errorf("update user %d: %w", id, err)
			}
			return printJSON(cmd.OutOrStdout(), updated)
		},
	}

	userFlags(cmd, &u)
	return cmd
}

func newUsersDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			res, err := a.client.Delete(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("delete user %d: %w", id, err)
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}
