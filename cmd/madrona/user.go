package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/madrona-research/madrona/internal/db"
	"github.com/madrona-research/madrona/internal/users"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  "Create, list, and manage user accounts",
}

var userFullName string
var userIsAdmin bool

var userCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create a new user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := initSystemDB(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		email := args[0]

		// Get password from stdin
		fmt.Print("Enter password: ")
		var password string
		fmt.Scanln(&password)

		user, err := users.CreateUser(db.GetDB(), email, userFullName, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
			os.Exit(1)
		}

		if userIsAdmin {
			user.IsAdmin = true
			if err := db.GetDB().Save(user).Error; err != nil {
				fmt.Fprintf(os.Stderr, "Error granting admin: %v\n", err)
				os.Exit(1)
			}
		}

		fmt.Printf("User created: %s (GUID: %s)\n", user.Email, user.GUID)
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initSystemDB(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		userList, err := users.ListUsers(db.GetDB())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing users: %v\n", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "GUID\tEMAIL\tNAME\tADMIN\tCREATED")
		for _, u := range userList {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", u.GUID, u.Email, u.FullName, u.IsAdmin, u.CreatedAt.Format("2006-01-02"))
		}
		w.Flush()
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <email>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := initSystemDB(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		email := args[0]
		user, err := users.GetUserByEmail(db.GetDB(), email)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := users.DeleteUser(db.GetDB(), user.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting user: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("User deleted: %s\n", email)
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userFullName, "name", "", "full name of the user")
	userCreateCmd.Flags().BoolVar(&userIsAdmin, "admin", false, "grant platform administrator privileges")
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}
