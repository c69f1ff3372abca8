// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/madrona-research/madrona/internal/config"
	"github.com/madrona-research/madrona/internal/email"
	"github.com/spf13/cobra"
)

var mailtestCmd = &cobra.Command{
	Use:   "mailtest <email>",
	Short: "Test email configuration and send a test message",
	Long: `Test the email service by sending a test message to the specified address.
This command checks the delivery configuration and reports which transport
(SendGrid API or SMTP) will be used.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		testEmail := args[0]

		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("========================================")
		fmt.Println("Madrona Email Service Diagnostic")
		fmt.Println("========================================")
		fmt.Println()

		fmt.Println("1. Checking configuration...")
		if !config.GetBool("email.enabled") {
			fmt.Println("❌ ERROR: outbound email is disabled (email.enabled = false)")
			fmt.Println("   Enable it with: madrona config set email.enabled true")
			os.Exit(1)
		}

		apiKey := config.GetString("sendgrid.api_key")
		if apiKey != "" {
			fmt.Println("   Transport: SendGrid HTTP API")
			if config.GetBool("sendgrid.whitelist_mode") {
				fmt.Println("   ⚠️  Whitelist mode is on; the recipient must be whitelisted")
			}
		} else {
			host := config.GetString("smtp.host")
			port := config.GetInt("smtp.port")
			fmt.Printf("   Transport: SMTP (%s:%d)\n", host, port)
			switch port {
			case 587:
				fmt.Println("   Using port 587 (STARTTLS)")
			case 465:
				fmt.Println("   Using port 465 (Implicit TLS)")
			default:
				fmt.Printf("   ⚠️  WARNING: Unusual port %d (standard ports are 587 or 465)\n", port)
			}
			if config.GetBool("smtp.require_login") && config.GetString("smtp.username") == "" {
				fmt.Println("   ⚠️  WARNING: login required but smtp.username is empty; the send will be refused")
			}
		}
		fmt.Println()

		fmt.Printf("2. Sending test email to %s...\n", testEmail)
		svc := email.NewService()
		msg := &email.Message{
			From:    config.GetString("email.from"),
			To:      testEmail,
			Subject: "Madrona Email Test",
			HTML: fmt.Sprintf("<p>This is a test email from the Madrona platform.</p>"+
				"<p>Sent at: %s</p>", time.Now().Format("2006-01-02 15:04:05 MST")),
			Categories: []string{"mailtest"},
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		sent, err := svc.Send(ctx, msg)
		if err != nil {
			fmt.Println("❌ ERROR: Failed to send test email")
			fmt.Printf("   %v\n", err)
			os.Exit(1)
		}
		if !sent {
			fmt.Println("❌ The message was refused by delivery policy (check the log output above)")
			os.Exit(1)
		}

		fmt.Println("✓ Test email accepted for delivery")
		fmt.Printf("  Check the inbox of %s (and the spam folder)\n", testEmail)
	},
}

func init() {
	rootCmd.AddCommand(mailtestCmd)
}
